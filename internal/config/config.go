package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
)

// CurrentVersion is the configuration file version this build reads.
const CurrentVersion = 1

// Config is the runner configuration.
type Config struct {
	Version int                         `yaml:"version"`
	Logging LoggingConfig               `yaml:"logging"`
	Tracing TracingConfig               `yaml:"tracing"`
	Metrics MetricsConfig               `yaml:"metrics"`
	Storage StorageConfig               `yaml:"storage"`
	Chains  map[string][]actionsdk.Data `yaml:"chains"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TracingConfig struct {
	Endpoint     string  `yaml:"endpoint"`
	ServiceName  string  `yaml:"service_name"`
	Environment  string  `yaml:"environment"`
	SamplingRate float64 `yaml:"sampling_rate"`
	Insecure     bool    `yaml:"insecure"`
}

// MetricsConfig controls the Prometheus text file written after each run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// StorageConfig selects where chains are persisted.
type StorageConfig struct {
	// Driver is one of "memory", "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Load reads, merges and validates the configuration file.
func Load(path string) (*Config, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := decodeRawConfig(raw)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = CurrentVersion
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = "embedinfo"
	}
	if cfg.Tracing.SamplingRate == 0 {
		cfg.Tracing.SamplingRate = 1.0
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "memory"
	}
	if cfg.Chains == nil {
		cfg.Chains = map[string][]actionsdk.Data{}
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("config version %d is not supported (current: %d)", c.Version, CurrentVersion))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format))
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("tracing.sampling_rate must be within [0, 1], got %v", c.Tracing.SamplingRate))
	}
	switch c.Storage.Driver {
	case "memory":
	case "sqlite", "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be memory, sqlite or postgres, got %q", c.Storage.Driver))
	}
	for name, chain := range c.Chains {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("chains: chain name is empty"))
		}
		for i, data := range chain {
			if data.Name() == "" {
				errs = append(errs, fmt.Errorf("chains.%s[%d]: name is required", name, i))
			}
		}
	}
	return errors.Join(errs...)
}
