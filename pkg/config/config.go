// Package config loads the per-project adocref configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/praetorian-inc/adocref/pkg/types"
	"gopkg.in/yaml.v3"
)

// FileNames are the configuration file names searched for, in order.
var FileNames = []string{".adocref.yml", ".adocref.yaml", ".adocref.toml"}

const (
	defaultMaxFileSize    = 10 * 1024 * 1024
	defaultRenderTimeout  = 120
	defaultRenderBackend  = "html5"
	defaultDatastore      = ":memory:"
	defaultFailOnSeverity = "error"
)

// RenderConfig configures the external asciidoctor invocation.
type RenderConfig struct {
	// Path is the directory containing the asciidoctor executable. Empty uses $PATH.
	Path           string            `yaml:"path" toml:"path"`
	Backend        string            `yaml:"backend" toml:"backend"`
	OutputDir      string            `yaml:"output_dir" toml:"output_dir"`
	Args           string            `yaml:"args" toml:"args"`
	Attributes     map[string]string `yaml:"attributes" toml:"attributes"`
	TimeoutSeconds int               `yaml:"timeout_seconds" toml:"timeout_seconds"`
}

// Config is the project configuration.
type Config struct {
	// Attributes substituted into {name} placeholders of reference targets.
	Attributes map[string]string `yaml:"attributes" toml:"attributes"`
	// CollectAttributes merges document header attributes from the whole tree.
	CollectAttributes bool `yaml:"collect_attributes" toml:"collect_attributes"`

	// Directives is a directive file or directory loaded in addition to the builtins.
	Directives        string `yaml:"directives" toml:"directives"`
	IncludeDirectives string `yaml:"include_directives" toml:"include_directives"`
	ExcludeDirectives string `yaml:"exclude_directives" toml:"exclude_directives"`

	Extensions    []string `yaml:"extensions" toml:"extensions"`
	IncludeHidden bool     `yaml:"include_hidden" toml:"include_hidden"`
	MaxFileSize   int64    `yaml:"max_file_size" toml:"max_file_size"`
	KeepComments  bool     `yaml:"keep_comments" toml:"keep_comments"`

	Datastore string `yaml:"datastore" toml:"datastore"`
	FailOn    string `yaml:"fail_on" toml:"fail_on"`

	Render RenderConfig `yaml:"render" toml:"render"`

	// path of the file this configuration was loaded from
	source string `yaml:"-" toml:"-"`
}

// Source returns the file the configuration was loaded from, or "" for defaults.
func (c *Config) Source() string {
	return c.source
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}

// Load reads a YAML or TOML configuration file, chosen by extension.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by trusted config/flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(b), &cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	}
	cfg.source = path

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Find searches startDir and its parents for a configuration file.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the configuration file governing startDir, or defaults if none exists.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func applyDefaults(cfg *Config) {
	if cfg.Attributes == nil {
		cfg.Attributes = map[string]string{}
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxFileSize
	}
	if strings.TrimSpace(cfg.Datastore) == "" {
		cfg.Datastore = defaultDatastore
	}
	if strings.TrimSpace(cfg.FailOn) == "" {
		cfg.FailOn = defaultFailOnSeverity
	}
	if strings.TrimSpace(cfg.Render.Backend) == "" {
		cfg.Render.Backend = defaultRenderBackend
	}
	if cfg.Render.TimeoutSeconds <= 0 {
		cfg.Render.TimeoutSeconds = defaultRenderTimeout
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ADOCREF_ASCIIDOCTOR_PATH")); v != "" {
		cfg.Render.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("ADOCREF_DATASTORE")); v != "" {
		cfg.Datastore = v
	}
	if v := strings.TrimSpace(os.Getenv("ADOCREF_RENDER_TIMEOUT_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Render.TimeoutSeconds = n
		}
	}
}

func validate(cfg *Config) error {
	if cfg.FailOn != "none" && !types.Severity(cfg.FailOn).Valid() {
		return fmt.Errorf("fail_on must be error, warning or none, got %q", cfg.FailOn)
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			cfg.Extensions[i] = "." + ext
		}
	}
	return nil
}
