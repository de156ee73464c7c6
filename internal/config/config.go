// Package config resolves runtime settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultAdminPin unlocks the admin gate when CALIFICA_ADMIN_PIN is unset.
// The gate is a convenience for a shared laptop, not authentication.
const DefaultAdminPin = "Cacaman91_"

// Config holds all application configuration.
type Config struct {
	// Home is the directory holding .califica/. Empty means the caller's
	// project root.
	Home     string
	AdminPin string
	Log      LogConfig
	HTTP     HTTPConfig
	// Inbox overrides the watched import directory.
	Inbox string
	// NoSeed skips the seed roster when loading the store.
	NoSeed bool
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
	Env   string
}

// HTTPConfig holds the local API configuration.
type HTTPConfig struct {
	// Port 0 means derive one from the project root.
	Port int
}

// DefaultEnvFile is read from the working directory when CALIFICA_ENV_FILE
// is unset. A missing file is fine.
const DefaultEnvFile = ".env"

// Load loads configuration from environment variables. Variables missing
// from the process environment are looked up in the env file; the process
// environment always wins.
func Load() *Config {
	e := loadEnvFile(os.Getenv("CALIFICA_ENV_FILE"))
	return &Config{
		Home:     e.getEnv("CALIFICA_HOME", ""),
		AdminPin: e.getEnv("CALIFICA_ADMIN_PIN", DefaultAdminPin),
		Log: LogConfig{
			Level: strings.ToLower(e.getEnv("CALIFICA_LOG_LEVEL", "info")),
			Env:   e.getEnv("CALIFICA_ENV", "development"),
		},
		HTTP: HTTPConfig{
			Port: e.getEnvAsInt("CALIFICA_HTTP_PORT", 0),
		},
		Inbox:  e.getEnv("CALIFICA_INBOX", ""),
		NoSeed: e.getEnvAsBool("CALIFICA_NO_SEED", false),
	}
}

// envSource is the parsed env file.
type envSource map[string]string

func loadEnvFile(path string) envSource {
	if path == "" {
		path = DefaultEnvFile
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		// .env file is optional
		return envSource{}
	}
	return vals
}

func (e envSource) getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := e[key]; value != "" {
		return value
	}
	return defaultValue
}

func (e envSource) getEnvAsInt(key string, defaultValue int) int {
	if value := e.getEnv(key, ""); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func (e envSource) getEnvAsBool(key string, defaultValue bool) bool {
	if value := e.getEnv(key, ""); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
