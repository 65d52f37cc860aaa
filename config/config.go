// Package config loads the settings of the lots tool from a YAML file, an
// optional .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete configuration of the tool.
type Config struct {
	Currency string       `yaml:"currency"`
	History  History      `yaml:"history"`
	Import   ImportConfig `yaml:"import"`
	Log      LogConfig    `yaml:"log"`
}

// History selects where ingested transactions are persisted.
type History struct {
	Backend string `yaml:"backend"` // jsonl | sqlite
	Path    string `yaml:"path"`    // file path, or ":memory:" for sqlite
}

// ImportConfig drives the parsing of broker exports.
type ImportConfig struct {
	Delimiter  string        `yaml:"delimiter"`
	Protectors string        `yaml:"protectors"` // each character opens and closes a protected span
	Tolerance  float64       `yaml:"tolerance"`  // accepted gap between a total and price × quantity
	Symbols    SymbolsConfig `yaml:"symbols"`
}

// SymbolsConfig normalizes broker symbols into asset names.
type SymbolsConfig struct {
	StripSuffixes []string          `yaml:"strip_suffixes"`
	Map           map[string]string `yaml:"map"`
}

// LogConfig controls the logging format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// DefaultTolerance is the import tolerance when the file does not set one.
// An explicit 0 asks for exact totals.
const DefaultTolerance = 0.001

// preset returns the configuration the file is decoded into. It holds the
// defaults that are valid zero values, so they only apply to missing keys.
func preset() Config {
	return Config{Import: ImportConfig{Tolerance: DefaultTolerance}}
}

// Default returns the configuration used without any file.
func Default() *Config {
	cfg := preset()
	setDefaults(&cfg)
	return &cfg
}

// Load reads the configuration from the YAML file at path, and the .env file
// if any. Environment variables override the file values.
//
// A missing file is not an error, the defaults are used instead.
func Load(path string) (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	cfg := preset()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML %q: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values that have no sensible fallback.
func (c *Config) Validate() error {
	var errs error
	switch c.History.Backend {
	case BackendJSONL, BackendSQLite:
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown history backend %q", c.History.Backend))
	}
	if len([]rune(c.Import.Delimiter)) != 1 {
		errs = errors.Join(errs, fmt.Errorf("delimiter %q must be a single character", c.Import.Delimiter))
	}
	if strings.Contains(c.Import.Protectors, c.Import.Delimiter) {
		errs = errors.Join(errs, fmt.Errorf("delimiter %q cannot be a protector", c.Import.Delimiter))
	}
	if c.Import.Tolerance < 0 {
		errs = errors.Join(errs, fmt.Errorf("negative tolerance %v", c.Import.Tolerance))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errs
}

// applyEnvOverrides replaces values with the environment variables when set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOTS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOTS_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("LOTS_CURRENCY"); v != "" {
		cfg.Currency = v
	}
	if v := os.Getenv("LOTS_HISTORY"); v != "" {
		cfg.History.Path = v
	}
}

// setDefaults fills the values left empty.
func setDefaults(cfg *Config) {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = BackendJSONL
	}
	if cfg.History.Path == "" {
		if cfg.History.Backend == BackendSQLite {
			cfg.History.Path = "transactions.db"
		} else {
			cfg.History.Path = "transactions.jsonl"
		}
	}
	if cfg.Import.Delimiter == "" {
		cfg.Import.Delimiter = ","
	}
	if cfg.Import.Protectors == "" {
		cfg.Import.Protectors = `"'`
	}
	if cfg.Import.Symbols.StripSuffixes == nil {
		cfg.Import.Symbols.StripSuffixes = []string{"-BE"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
