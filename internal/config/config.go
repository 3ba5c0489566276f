package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level cashcanvas.yaml configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
	Limits LimitsConfig `yaml:"limits"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Listen         string   `yaml:"listen"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// DataConfig locates the transaction data file (cashcanvas CSV format).
type DataConfig struct {
	File string `yaml:"file"`
}

// LimitsConfig bounds uploads and pagination.
type LimitsConfig struct {
	MaxUploadBytes  int64 `yaml:"max_upload_bytes"`
	DefaultPageSize int   `yaml:"default_page_size"`
	MaxPageSize     int   `yaml:"max_page_size"`
}

// Load reads a cashcanvas.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: ":8080",
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://127.0.0.1:5173",
			},
		},
		Data: DataConfig{
			File: "transactions.csv",
		},
		Limits: LimitsConfig{
			MaxUploadBytes:  10 * 1024 * 1024,
			DefaultPageSize: 100,
			MaxPageSize:     1000,
		},
	}
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Listen == "" {
		c.Server.Listen = def.Server.Listen
	}
	if c.Data.File == "" {
		c.Data.File = def.Data.File
	}
	if c.Limits.MaxUploadBytes == 0 {
		c.Limits.MaxUploadBytes = def.Limits.MaxUploadBytes
	}
	if c.Limits.DefaultPageSize == 0 {
		c.Limits.DefaultPageSize = def.Limits.DefaultPageSize
	}
	if c.Limits.MaxPageSize == 0 {
		c.Limits.MaxPageSize = def.Limits.MaxPageSize
	}
}
