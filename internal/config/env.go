package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// envCandidates lists where a .env file might live relative to the process's
// working directory: the repo root when running `go run ./cmd/standardizer`
// straight out of a checkout, and the two directories up from there when
// running out of cmd/standardizer during development.
var envCandidates = []string{".env", "../.env", "../../.env"}

// LoadEnv loads the first .env file found in envCandidates into the process
// environment, without overriding variables already set (so a real
// deployment's exported WEB_PORT/PGHOST/etc. always wins over a checked-in
// .env used for local runs).
func LoadEnv() error {
	for _, path := range envCandidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return godotenv.Load(path)
	}
	return nil
}

// GetEnv gets environment variable with default
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets integer environment variable with default
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvFloat gets float environment variable with default
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// GetEnvBool gets boolean environment variable with default
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}