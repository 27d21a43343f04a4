// Package config loads rdfconvert settings.
//
// Settings come from, in increasing precedence: built-in defaults, an optional
// YAML file, and environment variables (optionally seeded from a .env file).
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/rdf-convert/rdf"
)

// Environment variables that override file settings.
const (
	EnvBaseURI  = "RDFCONVERT_BASE_URI"
	EnvLabel    = "RDFCONVERT_LABEL"
	EnvLogLevel = "RDFCONVERT_LOG_LEVEL"
	EnvPort     = "PORT"
)

// Config is the full rdfconvert configuration.
type Config struct {
	// BaseURI replaces the converters' default namespace.
	BaseURI string `yaml:"base_uri"`

	// Label is inserted between the base URI and local names. Empty means none.
	Label string `yaml:"label"`

	// Format is the input format: auto, xml or json.
	Format string `yaml:"format"`

	// OutputFormat is one of ntriples, jsonld or canonical.
	OutputFormat string `yaml:"output_format"`

	// Jobs bounds how many files the CLI converts at once.
	Jobs int `yaml:"jobs"`

	// LogLevel is an hclog level name.
	LogLevel string `yaml:"log_level"`

	// Limits bound conversions of untrusted input.
	Limits LimitsConfig `yaml:"limits"`

	// Server configures the HTTP host.
	Server ServerConfig `yaml:"server"`
}

// LimitsConfig mirrors the rdf limit options. Zero disables a limit.
type LimitsConfig struct {
	MaxDepth      int   `yaml:"max_depth"`
	MaxTriples    int64 `yaml:"max_triples"`
	MaxInputBytes int64 `yaml:"max_input_bytes"`
}

// ServerConfig configures the HTTP host.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: :8080
	Addr string `yaml:"addr"`

	// MaxBodyBytes caps request bodies.
	// Default: 32 MiB
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Format:       string(rdf.InputAuto),
		OutputFormat: string(rdf.OutputNTriples),
		Jobs:         1,
		LogLevel:     "info",
		Limits: LimitsConfig{
			MaxDepth: rdf.DefaultMaxDepth,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 32 << 20,
		},
	}
}

// LoadDotEnv seeds the process environment from .env files. Variables that are
// already set win. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile merges a YAML file into c. Unknown keys are rejected.
func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvBaseURI); v != "" {
		c.BaseURI = v
	}
	if v := getenv(EnvLabel); v != "" {
		c.Label = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvPort); v != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := rdf.ParseInputFormat(c.Format); !ok {
		errs = append(errs, fmt.Errorf("invalid format: %s", c.Format))
	}
	if _, ok := rdf.ParseOutputFormat(c.OutputFormat); !ok {
		errs = append(errs, fmt.Errorf("invalid output_format: %s", c.OutputFormat))
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be at least 1, got %d", c.Jobs))
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		errs = append(errs, fmt.Errorf("invalid log_level: %s", c.LogLevel))
	}
	if c.Limits.MaxDepth < 0 || c.Limits.MaxTriples < 0 || c.Limits.MaxInputBytes < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}
	if c.Server.MaxBodyBytes < 0 {
		errs = append(errs, errors.New("server.max_body_bytes must not be negative"))
	}
	if c.BaseURI != "" {
		if err := rdf.ValidateNamespace(c.BaseURI, c.NamespaceLabel()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// NamespaceLabel returns the configured label, absent when empty.
func (c *Config) NamespaceLabel() rdf.Optional[string] {
	return rdf.NonEmpty(c.Label)
}

// InputFormat returns the parsed input format.
func (c *Config) InputFormat() rdf.InputFormat {
	f, _ := rdf.ParseInputFormat(c.Format)
	return f
}

// Output returns the parsed output format.
func (c *Config) Output() rdf.OutputFormat {
	f, _ := rdf.ParseOutputFormat(c.OutputFormat)
	return f
}

// Options translates the limits into conversion options.
func (c *Config) Options() []rdf.Option {
	return []rdf.Option{
		rdf.OptMaxDepth(c.Limits.MaxDepth),
		rdf.OptMaxTriples(c.Limits.MaxTriples),
		rdf.OptMaxInputBytes(c.Limits.MaxInputBytes),
	}
}
