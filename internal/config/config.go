package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInterval    = 3 * time.Second
	DefaultHookTimeout = 10 * time.Second
	DefaultConsoleName = "console"
)

type Config struct {
	Watch     WatchConfig     `yaml:"watch"`
	Listeners ListenersConfig `yaml:"listeners"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type WatchConfig struct {
	Directories    []string      `yaml:"directories"`
	Interval       time.Duration `yaml:"interval"`
	Ignore         []string      `yaml:"ignore"`
	ReportExisting *bool         `yaml:"report_existing"`
}

type ListenersConfig struct {
	Console  []string        `yaml:"console"`
	Commands []CommandConfig `yaml:"commands"`
}

type CommandConfig struct {
	Name    string        `yaml:"name"`
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
	Dir     string        `yaml:"dir"`
	Timeout time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a config with no directories and every default applied
func Default() *Config {
	reportExisting := true
	return &Config{
		Watch: WatchConfig{
			Interval:       DefaultInterval,
			ReportExisting: &reportExisting,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Read parses a YAML config file on top of Default without validating it, so
// callers can apply overrides first
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Load reads, parses and validates a YAML config file
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// ShouldReportExisting reports whether entries present at startup are
// announced as added
func (c *Config) ShouldReportExisting() bool {
	return c.Watch.ReportExisting == nil || *c.Watch.ReportExisting
}

func (c *Config) Validate() error {
	if len(c.Watch.Directories) == 0 {
		return fmt.Errorf("watch.directories is required")
	}
	for i, dir := range c.Watch.Directories {
		if dir == "" {
			return fmt.Errorf("watch.directories[%d] is empty", i)
		}
	}
	if c.Watch.Interval < 0 {
		return fmt.Errorf("watch.interval must not be negative")
	}
	for i, cmd := range c.Listeners.Commands {
		if cmd.Command == "" {
			return fmt.Errorf("listeners.commands[%d].command is required", i)
		}
		if cmd.Timeout < 0 {
			return fmt.Errorf("listeners.commands[%d].timeout must not be negative", i)
		}
	}

	if c.Watch.Interval == 0 {
		c.Watch.Interval = DefaultInterval
	}
	for i := range c.Listeners.Commands {
		if c.Listeners.Commands[i].Name == "" {
			c.Listeners.Commands[i].Name = c.Listeners.Commands[i].Command
		}
		if c.Listeners.Commands[i].Timeout == 0 {
			c.Listeners.Commands[i].Timeout = DefaultHookTimeout
		}
	}
	if len(c.Listeners.Console) == 0 && len(c.Listeners.Commands) == 0 {
		c.Listeners.Console = []string{DefaultConsoleName}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}
