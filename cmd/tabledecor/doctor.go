package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-tabledecor/internal/assets"
	"github.com/alnah/go-tabledecor/internal/dom"
	"github.com/alnah/go-tabledecor/internal/fileutil"
	"github.com/alnah/go-tabledecor/internal/hints"
	"github.com/alnah/go-tabledecor/internal/jsvm"
	"github.com/alnah/go-tabledecor/internal/pipeline"
)

// Doctor statuses, worst last.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Assets   assetsInfo `json:"assets"`
	Goja     gojaInfo   `json:"goja"`
	Chrome   chromeInfo `json:"chrome"`
	Host     hostInfo   `json:"host"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// assetsInfo reports whether decorate can load its style and hover script.
type assetsInfo struct {
	Source   string   `json:"source"` // "embedded" or the custom directory
	Styles   []string `json:"styles"` // embedded style names
	Style    bool     `json:"default_style"`
	Script   bool     `json:"ruler_script"`
	Template bool     `json:"script_template"` // parses and renders
}

// gojaInfo reports whether the emitted inline handlers round-trip in goja.
type gojaInfo struct {
	Inline bool `json:"inline"`
	Dedupe bool `json:"dedupe"`
}

// chromeInfo holds what verify --engine chrome needs.
type chromeInfo struct {
	Found      bool   `json:"found"`
	Path       string `json:"path,omitempty"`
	Version    string `json:"version,omitempty"`
	Sandbox    bool   `json:"sandbox"`
	BrowserBin string `json:"rod_browser_bin,omitempty"`
}

// hostInfo describes the machine Chrome would run on.
type hostInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	TempWritable  bool   `json:"temp_writable"`
}

// lookPath locates Chrome; replaced in tests.
var lookPath = launcher.LookPath

// doctorSample is the row class the handler round trip starts from.
const doctorSample = "odd"

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = ready or warnings, 1 = decorate or goja verify would fail,
// 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	jsonOutput := fs.Bool("json", false, "print the result as JSON")
	assetPath := fs.String("asset-path", "", "custom asset directory to check")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", usageError(err))
		return ExitUsage
	}

	result := runDoctor(*assetPath)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks. Asset and goja failures are
// errors because decorate and the default verify engine depend on them.
// Everything Chrome needs only produces warnings.
func runDoctor(assetPath string) *doctorResult {
	result := &doctorResult{
		Host: hostInfo{OS: runtime.GOOS, Arch: runtime.GOARCH},
	}

	checkAssets(result, assetPath)
	checkGoja(result)
	checkChrome(result)
	checkHost(result)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	default:
		result.Status = statusReady
	}
	return result
}

// checkAssets loads the default style and ruler script the way NewDecorator
// does, then renders the script template once.
func checkAssets(result *doctorResult, assetPath string) {
	result.Assets.Source = "embedded"
	result.Assets.Styles = assets.NewEmbeddedLoader().Styles()
	if assetPath != "" {
		result.Assets.Source = assetPath
	}

	resolver, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Asset path: %v", err))
		return
	}

	if _, err := resolver.LoadStyle(assets.DefaultStyleName); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Style %q: %v", assets.DefaultStyleName, err))
	} else {
		result.Assets.Style = true
	}

	script, err := resolver.LoadScript(assets.DefaultScriptName)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Script %q: %v", assets.DefaultScriptName, err))
		return
	}
	result.Assets.Script = true

	if err := renderScript(script); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Script template: %v", err))
		return
	}
	result.Assets.Template = true
}

// renderScript parses tmpl and injects it into a minimal page.
func renderScript(tmpl string) error {
	inj, err := pipeline.NewScriptInjection(tmpl)
	if err != nil {
		return err
	}
	out, err := inj.InjectScript(context.Background(), "<body></body>", &pipeline.ScriptData{
		Marker:   pipeline.DefaultMarkers().Ruler,
		Token:    pipeline.RuledToken,
		Sections: []string{string(dom.GroupBody)},
	})
	if err != nil {
		return err
	}
	if !strings.Contains(out, "<script>") {
		return errors.New("script was not injected")
	}
	return nil
}

// checkGoja fires the inline handlers decorate emits on an emulated row.
func checkGoja(result *doctorResult) {
	host := jsvm.New()

	if err := handlerRoundTrip(host, false); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Inline handlers: %v", err))
	} else {
		result.Goja.Inline = true
	}

	if err := handlerRoundTrip(host, true); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Dedupe handlers: %v", err))
	} else {
		result.Goja.Dedupe = true
	}
}

// handlerRoundTrip enters, optionally enters again, then leaves, and checks
// the class at each step. Both handlers must stop propagation.
func handlerRoundTrip(host *jsvm.Host, dedupe bool) error {
	enter := pipeline.HoverHandlerSource(dom.HoverEnter, dedupe)
	leave := pipeline.HoverHandlerSource(dom.HoverLeave, dedupe)
	hovered := doctorSample + " " + pipeline.RuledToken

	type step struct {
		source string
		want   string
	}
	steps := []step{{enter, hovered}, {leave, doctorSample}}
	if dedupe {
		steps = []step{{enter, hovered}, {enter, hovered}, {leave, doctorSample}}
	}

	el := &jsvm.Element{ClassName: doctorSample}
	for _, s := range steps {
		propagate, err := host.Fire(el, s.source)
		if err != nil {
			return err
		}
		if propagate {
			return fmt.Errorf("%q does not return false", s.source)
		}
		if el.ClassName != s.want {
			return fmt.Errorf("class %q, want %q", el.ClassName, s.want)
		}
	}
	return nil
}

// checkChrome locates the browser verify --engine chrome would launch.
func checkChrome(result *doctorResult) {
	chromePath := os.Getenv("ROD_BROWSER_BIN")
	result.Chrome.BrowserBin = chromePath
	result.Chrome.Sandbox = os.Getenv("ROD_NO_SANDBOX") != "1"

	if chromePath == "" {
		var found bool
		if chromePath, found = lookPath(); !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; only the goja engine is available. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}
	if !fileutil.FileExists(chromePath) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- browser path from env or rod lookup
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
		return
	}
	result.Chrome.Version = strings.TrimSpace(string(out))
}

// checkHost detects containers and CI, where Chrome's sandbox usually
// fails, and checks the temp directory the Chrome engine loads pages from.
func checkHost(result *doctorResult) {
	result.Host.Container, result.Host.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Host.CI = true
			break
		}
	}

	if result.Chrome.Found && result.Chrome.Sandbox && (result.Host.Container || result.Host.CI) {
		result.Warnings = append(result.Warnings,
			"Container/CI detected with the Chrome sandbox on; set ROD_NO_SANDBOX=1 for verify --engine chrome")
	}

	_, cleanup, err := fileutil.WriteTempFile("<!doctype html>", "html")
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Temp directory not writable (%s); verify --engine chrome cannot load pages", os.TempDir()))
		return
	}
	cleanup()
	result.Host.TempWritable = true
}

// isContainer returns whether a container was detected and which signal said so.
func isContainer() (bool, string) {
	switch {
	case os.Getenv("TABLEDECOR_CONTAINER") == "1":
		return true, "TABLEDECOR_CONTAINER=1"
	case hints.IsInContainer():
		return true, "/.dockerenv"
	case os.Getenv("container") != "":
		return true, "container=" + os.Getenv("container")
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// printDoctorResult writes one section per engine, then the summary.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "tabledecor doctor")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Assets (%s)\n", r.Assets.Source)
	printCheck(w, r.Assets.Style, "default style", true)
	printCheck(w, r.Assets.Script, "ruler script", true)
	printCheck(w, r.Assets.Template, "script template renders", true)
	if len(r.Assets.Styles) > 0 {
		fmt.Fprintf(w, "  Embedded styles: %s\n", strings.Join(r.Assets.Styles, ", "))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Goja engine (verify, default)")
	printCheck(w, r.Goja.Inline, "inline handlers round-trip", true)
	printCheck(w, r.Goja.Dedupe, "dedupe handlers round-trip", true)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome engine (verify --engine chrome)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Host (%s/%s)\n", r.Host.OS, r.Host.Arch)
	if r.Host.Container {
		fmt.Fprintf(w, "  Container: %s\n", r.Host.ContainerHint)
	}
	if r.Host.CI {
		fmt.Fprintln(w, "  CI: detected")
	}
	printCheck(w, r.Host.TempWritable, "temp directory writable", false)
	fmt.Fprintln(w)

	printList(w, "Warnings:", "[WARN]", r.Warnings)
	printList(w, "Errors:", "[ERROR]", r.Errors)

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to decorate and verify")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

// printCheck prints one [OK] line, or [ERROR]/[WARN] by severity.
func printCheck(w io.Writer, ok bool, label string, required bool) {
	switch {
	case ok:
		fmt.Fprintf(w, "  [OK] %s\n", label)
	case required:
		fmt.Fprintf(w, "  [ERROR] %s\n", label)
	default:
		fmt.Fprintf(w, "  [WARN] %s\n", label)
	}
}

func printList(w io.Writer, title, tag string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", tag, item)
	}
	fmt.Fprintln(w)
}
