package main

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultGatewayURL     = "http://localhost:8005"
	defaultPageSize       = 20
	defaultTimeoutSeconds = 30
)

type appConfig struct {
	GatewayURL     string `yaml:"gateway_url,omitempty"`
	PageSize       int    `yaml:"page_size,omitempty"`
	Theme          string `yaml:"theme,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
	TelemetryPath  string `yaml:"telemetry_path,omitempty"`
}

func (c *appConfig) withDefaults() *appConfig {
	if c == nil {
		c = &appConfig{}
	}
	if strings.TrimSpace(c.GatewayURL) == "" {
		c.GatewayURL = defaultGatewayURL
	}
	if c.PageSize < 1 {
		c.PageSize = defaultPageSize
	}
	if c.TimeoutSeconds < 1 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	if strings.TrimSpace(c.TelemetryPath) == "" {
		c.TelemetryPath = filepath.Join(resolveConfigDir(), "events.jsonl")
	}
	return c
}

func loadConfig() (*appConfig, string) {
	configDir := resolveConfigDir()
	path := filepath.Join(configDir, "config.yaml")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return (&appConfig{}).withDefaults(), path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return (&appConfig{}).withDefaults(), path
	}
	var cfg appConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return (&appConfig{}).withDefaults(), path
	}
	return cfg.withDefaults(), path
}

func saveConfig(cfg *appConfig, path string) error {
	if cfg == nil {
		cfg = &appConfig{}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func resolveConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "peview")
}
