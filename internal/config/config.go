package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"

	"github.com/alnah/go-tabledecor/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// MaxWorkers bounds the workers setting.
const MaxWorkers = 32

// configDirName is the directory searched under os.UserConfigDir.
const configDirName = "go-tabledecor"

// Config holds all configuration for table decoration.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Ruler    RulerConfig    `yaml:"ruler"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Sections []string       `yaml:"sections" validate:"omitempty,dive,oneof=thead tbody tfoot" jsonschema:"enum=thead,enum=tbody,enum=tfoot"`
	CSS      CSSConfig      `yaml:"css"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Assets   AssetsConfig   `yaml:"assets"`
	Workers  int            `yaml:"workers" validate:"gte=0,lte=32" jsonschema:"minimum=0,maximum=32"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir" validate:"max=4096"` // Empty = must specify
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir" validate:"max=4096"` // Empty = same as source
}

// RulerConfig defines row hover highlighting.
type RulerConfig struct {
	Disabled bool   `yaml:"disabled"`
	Marker   string `yaml:"marker" validate:"omitempty,max=64,classtoken"` // Empty = "ruler"
	Mode     string `yaml:"mode" validate:"omitempty,oneof=inline script none" jsonschema:"enum=inline,enum=script,enum=none"`
	Dedupe   bool   `yaml:"dedupe"`
}

// StripeConfig defines alternating row stripes.
type StripeConfig struct {
	Disabled bool   `yaml:"disabled"`
	Marker   string `yaml:"marker" validate:"omitempty,max=64,classtoken"` // Empty = "stripe"
}

// CSSConfig defines CSS styling options.
type CSSConfig struct {
	Style    string `yaml:"style" validate:"max=64"` // Empty = "default"
	Disabled bool   `yaml:"disabled"`
}

// MarkdownConfig defines Markdown input options.
type MarkdownConfig struct {
	TableClass string `yaml:"tableClass" validate:"max=256"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath" validate:"max=4096"` // Empty = use embedded assets
}

// validate is shared; validator caches struct metadata.
var validate = mustValidator()

// classTokenTag rejects values that would split into several class tokens.
const classTokenTag = "classtoken"

// mustValidator panics when the validator cannot be built: a bad custom
// rule is a programming error.
func mustValidator() *validator.Validate {
	v, err := newValidator()
	if err != nil {
		panic(fmt.Sprintf("config: building validator: %v", err))
	}
	return v
}

func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation(classTokenTag, isClassToken); err != nil {
		return nil, fmt.Errorf("registering %q: %w", classTokenTag, err)
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v, nil
}

func isClassToken(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

// Validate checks field values and lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(msgs, "; "))
}

// describeFieldError renders a validation failure with its YAML path.
func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("%s: exceeds maximum length %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: invalid value %q (must be one of %s)", field, fe.Value(), fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s: must be between 0 and %d, got %v", field, MaxWorkers, fe.Value())
	case classTokenTag:
		return fmt.Sprintf("%s: must be a single class token, got %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s: failed %q validation", field, fe.Tag())
	}
}

// DefaultConfig returns a configuration that decorates with built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.FillDefaults()
	return cfg
}

// FillDefaults sets the hover mode and style when they are empty.
// Callers layering env vars and flags over a file apply it last.
func (c *Config) FillDefaults() {
	if c.Ruler.Mode == "" {
		c.Ruler.Mode = "inline"
	}
	if c.CSS.Style == "" {
		c.CSS.Style = "default"
	}
}

// Schema returns the JSON Schema of the config file, indented.
func Schema() ([]byte, error) {
	r := jsonschema.Reflector{
		FieldNameTag:               "yaml",
		ExpandedStruct:             true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	s := r.Reflect(&Config{})
	s.Title = "go-tabledecor configuration"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling config schema: %w", err)
	}
	return data, nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrConfigParse, configPath, yamlutil.FormatError(err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-tabledecor/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, configDirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
