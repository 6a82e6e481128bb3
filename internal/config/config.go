package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type BackendConfig struct {
	BaseURL string
	// Timeout bounds every backend call, including generation, which can
	// take tens of seconds.
	Timeout time.Duration
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 3000,
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 60 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional .env file in the working
// directory plus CITYFACTS_* environment variables, layered over defaults.
// Variables already set in the environment win over .env values.
func Load() (Config, error) {
	// A missing .env is fine; godotenv never overrides variables that are
	// already present in the environment.
	_ = godotenv.Load()
	return loadFromEnv()
}

func loadFromEnv() (Config, error) {
	cfg := defaults()

	if v := os.Getenv("CITYFACTS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid CITYFACTS_PORT %q", v)
		}
		cfg.Server.Port = port
	}

	if v := os.Getenv("CITYFACTS_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}

	if v := os.Getenv("CITYFACTS_BACKEND_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid CITYFACTS_BACKEND_TIMEOUT %q", v)
		}
		cfg.Backend.Timeout = d
	}

	if v := os.Getenv("CITYFACTS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg, nil
}
