// Package config handles configuration for axlocator.
package config

import (
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/axlocator/pkg/core"
	"github.com/devicelab-dev/axlocator/pkg/query"
	"github.com/devicelab-dev/axlocator/pkg/report"
)

// Output formats.
const (
	FormatJSON = report.FormatJSON
	FormatText = report.FormatText
)

// Config represents the workspace configuration (axlocator.yaml).
type Config struct {
	Hierarchy string            `yaml:"hierarchy"` // Default snapshot file
	Env       map[string]string `yaml:"env"`       // Variables for ${...} in criteria values
	Search    SearchConfig      `yaml:"search"`
	Log       LogConfig         `yaml:"log"`
	Output    OutputConfig      `yaml:"output"`
}

// SearchConfig bounds tree traversals.
type SearchConfig struct {
	MaxDepth    int `yaml:"maxDepth"`
	MaxElements int `yaml:"maxElements"`
}

// Validate validates the search configuration.
func (c *SearchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxDepth, validation.Min(0), validation.Max(100)),
		validation.Field(&c.MaxElements, validation.Required, validation.Min(1), validation.Max(10000)),
	)
}

// Options converts the search bounds for query.NewEngine.
func (c SearchConfig) Options() query.Options {
	return query.Options{MaxDepth: c.MaxDepth, MaxElements: c.MaxElements}
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // Empty logs nowhere unless --verbose
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
	)
}

// OutputConfig holds result formatting options.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.Required, validation.In(FormatJSON, FormatText)),
	)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Search.Validate(); err != nil {
		return core.ErrInvalidConfig.WithCause(err).WithDetails(map[string]interface{}{"section": "search"})
	}
	if err := c.Log.Validate(); err != nil {
		return core.ErrInvalidConfig.WithCause(err).WithDetails(map[string]interface{}{"section": "log"})
	}
	if err := c.Output.Validate(); err != nil {
		return core.ErrInvalidConfig.WithCause(err).WithDetails(map[string]interface{}{"section": "output"})
	}
	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			MaxDepth:    query.DefaultMaxDepth,
			MaxElements: query.DefaultMaxElements,
		},
		Log: LogConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Format: FormatJSON,
		},
	}
}

// Load loads configuration from a file. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, core.ErrInvalidConfig.WithCause(err).WithDetails(map[string]interface{}{"path": path})
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Relative snapshot paths are relative to the config file.
	if cfg.Hierarchy != "" && !filepath.IsAbs(cfg.Hierarchy) {
		cfg.Hierarchy = filepath.Join(filepath.Dir(path), cfg.Hierarchy)
	}
	return cfg, nil
}

// LoadFromDir looks for axlocator.yaml or axlocator.yml in the directory and
// returns the path it loaded. With no config file it returns the defaults and
// an empty path.
func LoadFromDir(dir string) (*Config, string, error) {
	for _, name := range []string{"axlocator.yaml", "axlocator.yml"} {
		configPath := filepath.Join(dir, name)
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			cfg, err := Load(configPath)
			return cfg, configPath, err
		}
	}
	return Default(), "", nil
}
