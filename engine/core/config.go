package core

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	BackendHeadless string = "headless"
	BackendVulkan   string = "vulkan"
)

type LoggingConfig struct {
	Level string `toml:"level"`
}

type StateConfig struct {
	// Run Validate() on every descriptor handed to a controller. Meant for
	// debug builds only.
	Validate bool `toml:"validate"`
	// A cache growing past this many entries logs a warning. 0 disables it.
	MaxCacheEntries int `toml:"max_cache_entries"`
}

type DeviceConfig struct {
	Backend      string `toml:"backend"`
	FeatureLevel int    `toml:"feature_level"`
}

type Config struct {
	Logging LoggingConfig `toml:"logging"`
	State   StateConfig   `toml:"state"`
	Device  DeviceConfig  `toml:"device"`
}

func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		State: StateConfig{
			Validate:        false,
			MaxCacheEntries: 4096,
		},
		Device: DeviceConfig{
			Backend:      BackendHeadless,
			FeatureLevel: 11,
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Device.Backend {
	case BackendHeadless, BackendVulkan:
	default:
		return fmt.Errorf("unknown device backend '%s'", c.Device.Backend)
	}
	if c.State.MaxCacheEntries < 0 {
		return fmt.Errorf("max_cache_entries must be a non-negative value")
	}
	return nil
}

// Apply pushes the parts of the configuration that are process wide.
func (c *Config) Apply() error {
	if c.Logging.Level == "" {
		return nil
	}
	return SetLogLevel(c.Logging.Level)
}
