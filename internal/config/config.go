package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr      string    `yaml:"addr" json:"addr"`
	DataDir   string    `yaml:"data_dir" json:"data_dir"`
	Reminders Reminders `yaml:"reminders" json:"reminders"`
}

type Reminders struct {
	// DefaultOffsetMinutes is how long before the due date reminders
	// fire. Absent falls back to the engine default (60); an explicit
	// zero fires at the due time.
	DefaultOffsetMinutes *int `yaml:"default_offset_minutes" json:"default_offset_minutes,omitempty"`
}

func Default() *Config {
	return &Config{
		Addr:    ":8765",
		DataDir: "data",
	}
}

func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8765"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}
