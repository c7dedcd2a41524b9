package web

import (
	"encoding/json"
	"os"
)

// Config represents the web server configuration.
type Config struct {
	Server ServerConfig `json:"server"`
	Auth   AuthConfig   `json:"auth"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	Enabled bool   `json:"enabled"`
	APIKey  string `json:"api_key"`
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Auth: AuthConfig{
			Enabled: false,
			APIKey:  "",
		},
	}
}
