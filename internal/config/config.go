// Package config loads the server's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	// Storage selects the backend for the quiz cache and session archive:
	// "memory" or "redis"
	Storage struct {
		Type  string `yaml:"type"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"storage"`

	Catalog struct {
		// QuizFile is a JSON file of quizzes loaded at startup
		QuizFile string `yaml:"quiz_file"`
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"catalog"`

	Archive struct {
		TTL string `yaml:"ttl"`
	} `yaml:"archive"`

	Session struct {
		// IdleTTL is how long a Waiting session may sit unused before the
		// sweeper reclaims its code
		IdleTTL       string `yaml:"idle_ttl"`
		SweepInterval string `yaml:"sweep_interval"`
	} `yaml:"session"`

	Scoring struct {
		// Strategy is "full" or "decay"
		Strategy   string  `yaml:"strategy"`
		DecayFloor float64 `yaml:"decay_floor"`
	} `yaml:"scoring"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	var cfg Config
	cfg.Server.Port = 8080
	cfg.Storage.Type = "memory"
	cfg.Scoring.Strategy = "full"
	return cfg
}

// Load reads YAML config from path, on top of the defaults
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or
// malformed
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
