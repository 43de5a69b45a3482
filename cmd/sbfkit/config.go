package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// config is the optional YAML configuration file.
type config struct {
	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Progress enables a textual progress indicator on stderr.
	Progress bool `yaml:"progress"`

	// LeapSecond overrides the GPS-UTC leap second.
	LeapSecond *int `yaml:"leap_second"`
}

func defaultConfig() config {
	return config{LogLevel: "warn"}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
