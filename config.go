package tsodbc

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendTimestream = "timestream"
	BackendAthena     = "athena"

	// DefaultMaxEmptyPages bounds how many consecutive empty pages carrying a
	// continuation token a query accepts before giving up.
	DefaultMaxEmptyPages = 1000

	maxAllowedPageSize = 1000 // athena page limit
)

// Config holds everything a connection needs to reach the query service.
type Config struct {
	Backend  string `yaml:"backend"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Profile  string `yaml:"profile"`

	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	SessionToken    string `yaml:"sessionToken"`

	// MaxRowsPerPage is sent as a page size hint, zero lets the service decide.
	MaxRowsPerPage    int32         `yaml:"maxRowsPerPage"`
	RequestTimeout    time.Duration `yaml:"requestTimeout"`
	ConnectionTimeout time.Duration `yaml:"connectionTimeout"`
	MaxRetryCount     int           `yaml:"maxRetryCount"`
	MaxEmptyPages     int           `yaml:"maxEmptyPages"`

	Log    LogConfig    `yaml:"log"`
	Athena AthenaConfig `yaml:"athena"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type AthenaConfig struct {
	Workgroup      string        `yaml:"workgroup"`
	Database       string        `yaml:"database"`
	Catalog        string        `yaml:"catalog"`
	OutputLocation string        `yaml:"outputLocation"`
	PollInterval   time.Duration `yaml:"pollInterval"`
}

// DefaultConfig returns the configuration used for keys a config file omits.
func DefaultConfig() Config {
	return Config{
		Backend:       BackendTimestream,
		Region:        "us-east-1",
		MaxEmptyPages: DefaultMaxEmptyPages,
		Log: LogConfig{
			Level: LogLevelWarn.String(),
		},
		Athena: AthenaConfig{
			Workgroup:    "primary",
			Catalog:      "AwsDataCatalog",
			PollInterval: time.Second,
		},
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration on top of DefaultConfig and validates it.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendTimestream, BackendAthena:
	default:
		return fmt.Errorf("unsupported backend: %q", c.Backend)
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.MaxRowsPerPage < 0 {
		return fmt.Errorf("maxRowsPerPage must not be negative, got %d", c.MaxRowsPerPage)
	}
	if c.Backend == BackendAthena && c.MaxRowsPerPage > maxAllowedPageSize {
		return fmt.Errorf("maxRowsPerPage must not exceed %d for athena, got %d", maxAllowedPageSize, c.MaxRowsPerPage)
	}
	if c.MaxRetryCount < 0 {
		return fmt.Errorf("maxRetryCount must not be negative, got %d", c.MaxRetryCount)
	}
	if c.MaxEmptyPages < 0 {
		return fmt.Errorf("maxEmptyPages must not be negative, got %d", c.MaxEmptyPages)
	}
	if c.RequestTimeout < 0 || c.ConnectionTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fmt.Errorf("accessKeyId and secretAccessKey must be set together")
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Backend == BackendAthena {
		if c.Athena.Database == "" {
			return fmt.Errorf("athena.database is required for the athena backend")
		}
		if c.Athena.PollInterval <= 0 {
			return fmt.Errorf("athena.pollInterval must be positive")
		}
	}
	return nil
}

// EmptyPageLimit returns MaxEmptyPages or the default when unset.
func (c Config) EmptyPageLimit() int {
	if c.MaxEmptyPages <= 0 {
		return DefaultMaxEmptyPages
	}
	return c.MaxEmptyPages
}

// NewLogger builds the logger described by the log section.
func (c Config) NewLogger() (*Logger, error) {
	lv, err := ParseLogLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return NewLogger(lv, c.Log.Path)
}
