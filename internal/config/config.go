// Package config holds the configuration of the urlsh command: built-in
// defaults, overridden in turn by a YAML or JSON file, by $URLFS_*
// environment variables, and by command-line flags.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hairyhenderson/go-urlfs/internal/env"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Default configuration values. See [Config] for field descriptions.
const (
	DefaultLogLevel  = "warn"
	DefaultTimeout   = 30 * time.Second
	DefaultRetries   = 0
	DefaultUserAgent = "go-urlfs"
)

// Config contains runtime configuration values for urlsh.
type Config struct {
	BaseURL   string        // URL commands start from; relative arguments are resolved below it
	Home      string        // URL reached by ascending from the top of a path (Default: the host root)
	LogLevel  string        // logrus level name (Default "warn")
	TempDir   string        // where upload bodies are buffered (Default os.TempDir())
	UserAgent string        // sent with every request (Default "go-urlfs")
	Timeout   time.Duration // per-request limit, 0 for none (Default 30s)
	Retries   int           // extra attempts for failed requests (Default 0)
	Tracing   bool          // export OpenTelemetry traces
	NoColor   bool          // never color status lines and headers
}

// Override uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type Override struct {
	BaseURL   *string   `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Home      *string   `yaml:"home,omitempty" json:"home,omitempty"`
	LogLevel  *string   `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	TempDir   *string   `yaml:"temp_dir,omitempty" json:"temp_dir,omitempty"`
	UserAgent *string   `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	Timeout   *Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Retries   *int      `yaml:"retries,omitempty" json:"retries,omitempty"`
	Tracing   *bool     `yaml:"tracing,omitempty" json:"tracing,omitempty"`
	NoColor   *bool     `yaml:"no_color,omitempty" json:"no_color,omitempty"`
}

// Duration is a time.Duration written as a string such as "10s" in config
// files.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	return d.parse(s)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(v)

	return nil
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		Timeout:   DefaultTimeout,
		Retries:   DefaultRetries,
		UserAgent: DefaultUserAgent,
	}
}

// Merge applies non-nil values from override onto this Config.
func (c *Config) Merge(override *Override) {
	if override == nil {
		return
	}

	if override.BaseURL != nil {
		c.BaseURL = *override.BaseURL
	}
	if override.Home != nil {
		c.Home = *override.Home
	}
	if override.LogLevel != nil {
		c.LogLevel = *override.LogLevel
	}
	if override.TempDir != nil {
		c.TempDir = *override.TempDir
	}
	if override.UserAgent != nil {
		c.UserAgent = *override.UserAgent
	}
	if override.Timeout != nil {
		c.Timeout = time.Duration(*override.Timeout)
	}
	if override.Retries != nil {
		c.Retries = *override.Retries
	}
	if override.Tracing != nil {
		c.Tracing = *override.Tracing
	}
	if override.NoColor != nil {
		c.NoColor = *override.NoColor
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		if _, err := parseAbsURL(c.BaseURL); err != nil {
			return fmt.Errorf("base_url: %w", err)
		}
	}

	if c.Home != "" {
		if _, err := parseAbsURL(c.Home); err != nil {
			return fmt.Errorf("home: %w", err)
		}
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}

	return nil
}

// HomeURL returns the parsed Home, or nil when none is configured.
func (c *Config) HomeURL() (*url.URL, error) {
	if c.Home == "" {
		return nil, nil
	}

	return parseAbsURL(c.Home)
}

func parseAbsURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}

	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute URL", s)
	}

	return u, nil
}

// LoadOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadOverrideFile(path string) (*Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override Override

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// FromEnv reads overrides from $URLFS_BASE_URL, $URLFS_HOME,
// $URLFS_LOG_LEVEL, $URLFS_TEMP_DIR, $URLFS_USER_AGENT, $URLFS_TIMEOUT,
// $URLFS_RETRIES, $URLFS_TRACING and $URLFS_NO_COLOR. Each may instead be
// given as a file with the _FILE suffix.
func FromEnv() (*Override, error) {
	o := &Override{}

	for name, dst := range map[string]**string{
		"BASE_URL":   &o.BaseURL,
		"HOME":       &o.Home,
		"LOG_LEVEL":  &o.LogLevel,
		"TEMP_DIR":   &o.TempDir,
		"USER_AGENT": &o.UserAgent,
	} {
		if v, ok := env.Lookup(name); ok {
			*dst = &v
		}
	}

	if v, ok := env.Lookup("TIMEOUT"); ok {
		d := new(Duration)
		if err := d.parse(v); err != nil {
			return nil, fmt.Errorf("%sTIMEOUT: %w", env.Prefix, err)
		}

		o.Timeout = d
	}

	if v, ok := env.Lookup("RETRIES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%sRETRIES: %w", env.Prefix, err)
		}

		o.Retries = &n
	}

	for name, dst := range map[string]**bool{
		"TRACING":  &o.Tracing,
		"NO_COLOR": &o.NoColor,
	} {
		if v, ok := env.Lookup(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%s%s: %w", env.Prefix, name, err)
			}

			*dst = &b
		}
	}

	return o, nil
}

// BindFlags registers a flag for each setting on fs. After fs.Parse, the
// returned function yields an Override holding only the flags that were
// given on the command line.
func BindFlags(fs *flag.FlagSet) func() *Override {
	var (
		baseURL, home, logLevel, tempDir, userAgent string

		timeout time.Duration
		retries int

		tracing, noColor bool
	)

	fs.StringVar(&baseURL, "url", "", "URL to start from")
	fs.StringVar(&home, "home", "", "URL reached by ascending from the top of a path")
	fs.StringVar(&logLevel, "log-level", DefaultLogLevel, "log level (trace, debug, info, warn, error)")
	fs.StringVar(&tempDir, "temp-dir", "", "directory for buffering upload bodies")
	fs.StringVar(&userAgent, "user-agent", DefaultUserAgent, "User-Agent header to send")
	fs.DurationVar(&timeout, "timeout", DefaultTimeout, "per-request timeout (0 for none)")
	fs.IntVar(&retries, "retries", DefaultRetries, "retries for failed requests")
	fs.BoolVar(&tracing, "trace", false, "export OpenTelemetry traces")
	fs.BoolVar(&noColor, "no-color", false, "disable colored output")

	return func() *Override {
		o := &Override{}

		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "url":
				o.BaseURL = &baseURL
			case "home":
				o.Home = &home
			case "log-level":
				o.LogLevel = &logLevel
			case "temp-dir":
				o.TempDir = &tempDir
			case "user-agent":
				o.UserAgent = &userAgent
			case "timeout":
				d := Duration(timeout)
				o.Timeout = &d
			case "retries":
				o.Retries = &retries
			case "trace":
				o.Tracing = &tracing
			case "no-color":
				o.NoColor = &noColor
			}
		})

		return o
	}
}

// Load builds the effective configuration: defaults, then the file at path
// (if path is non-empty), then the environment, then flags.
func Load(path string, flags *Override) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		o, err := LoadOverrideFile(path)
		if err != nil {
			return nil, err
		}

		cfg.Merge(o)
	}

	o, err := FromEnv()
	if err != nil {
		return nil, err
	}

	cfg.Merge(o)
	cfg.Merge(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
