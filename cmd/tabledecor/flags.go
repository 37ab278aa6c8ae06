package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// rulerFlags holds hover highlighting flags.
type rulerFlags struct {
	hoverMode string
	marker    string
	dedupe    bool
	disabled  bool
}

// stripeFlags holds alternating stripe flags.
type stripeFlags struct {
	marker   string
	disabled bool
}

// assetFlags holds asset-related flags (CSS, custom asset path).
type assetFlags struct {
	style     string // Name, path, or raw CSS
	assetPath string // Override asset directory
	noStyle   bool   // Disable CSS styling
}

// decorateFlags holds all flags for the decorate command.
type decorateFlags struct {
	common     commonFlags
	output     string
	workers    int
	tableClass string
	sections   []string
	ruler      rulerFlags
	stripe     stripeFlags
	assets     assetFlags
}

// verifyFlags holds all flags for the verify command.
type verifyFlags struct {
	common  commonFlags
	engine  string
	timeout string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file reports and timing")
}

// addRulerFlags adds hover highlighting flags to a FlagSet.
func addRulerFlags(fs *flag.FlagSet, f *rulerFlags) {
	fs.StringVar(&f.hoverMode, "hover-mode", "", "hover binding: inline, script, none")
	fs.StringVar(&f.marker, "ruler-marker", "", "class marker for hover tables (default: ruler)")
	fs.BoolVar(&f.dedupe, "dedupe-ruled", false, "never append \"ruled\" twice")
	fs.BoolVar(&f.disabled, "no-ruler", false, "disable hover highlighting")
}

// addStripeFlags adds stripe flags to a FlagSet.
func addStripeFlags(fs *flag.FlagSet, f *stripeFlags) {
	fs.StringVar(&f.marker, "stripe-marker", "", "class marker for striped tables (default: stripe)")
	fs.BoolVar(&f.disabled, "no-stripe", false, "disable alternating stripes")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable CSS styling")
}

// registerDecorateFlags binds every decorate flag on fs.
func registerDecorateFlags(fs *flag.FlagSet, f *decorateFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.tableClass, "table-class", "", "class set on tables converted from Markdown")
	fs.StringSliceVar(&f.sections, "sections", nil, "row-groups to decorate: thead,tbody,tfoot")

	addCommonFlags(fs, &f.common)
	addRulerFlags(fs, &f.ruler)
	addStripeFlags(fs, &f.stripe)
	addAssetFlags(fs, &f.assets)
}

// parseDecorateFlags parses decorate command flags and returns positional args.
func parseDecorateFlags(args []string, stderr io.Writer) (*decorateFlags, []string, error) {
	fs := flag.NewFlagSet("decorate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &decorateFlags{}
	registerDecorateFlags(fs, f)
	fs.Usage = func() { printDecorateUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}

	return f, fs.Args(), nil
}

// parseVerifyFlags parses verify command flags and returns positional args.
func parseVerifyFlags(args []string, stderr io.Writer) (*verifyFlags, []string, error) {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &verifyFlags{}

	fs.StringVarP(&f.engine, "engine", "e", "", "hover replay engine: goja, chrome")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "browser timeout (e.g., 30s, 2m)")
	addCommonFlags(fs, &f.common)
	fs.Usage = func() { printVerifyUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}

	return f, fs.Args(), nil
}

// usageError tags a parse failure as ErrUsage; -h/--help passes through.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
