// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backends understood by the demo.
const (
	BackendRPIO   = "rpio"
	BackendPeriph = "periph"
	BackendSim    = "sim"
)

// Defaults applied by Normalize.
const (
	DefaultDelayUs    = 5
	DefaultBrightness = 5
	DefaultFrameMs    = 200
)

type Config struct {
	Display DisplayConfig `yaml:"display"`
	Demo    DemoConfig    `yaml:"demo"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Backend string `yaml:"backend"`

	// BCM number for rpio, pin name (e.g. GPIO23) for periph.
	CLK string `yaml:"clk"`
	DIO string `yaml:"dio"`

	DelayUs    int   `yaml:"delay_us"`
	Brightness *int  `yaml:"brightness"` // nil => DefaultBrightness
	Enabled    *bool `yaml:"enabled"`    // nil => true
}

// ---- DEMO ----

type DemoConfig struct {
	FrameMs int `yaml:"frame_ms"`
	Cycles  int `yaml:"cycles"` // 0 => until interrupted
}

// Default returns the configuration used when no file is given: the
// simulated backend with every default applied.
func Default() *Config {
	cfg := &Config{Display: DisplayConfig{Backend: BackendSim}}
	Normalize(cfg)
	return cfg
}

// Load reads, validates and normalizes a YAML configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes, validates and normalizes YAML configuration.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	Normalize(&cfg)
	return &cfg, nil
}
