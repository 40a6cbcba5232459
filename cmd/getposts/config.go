package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/postfetch"
	"gopkg.in/yaml.v3"
)

// Config holds defaults read from the config file. Zero values leave the
// built-in defaults in place.
type Config struct {
	MaxPosts     int           `yaml:"max_posts"`
	Trim         int           `yaml:"trim"`
	PageTimeout  time.Duration `yaml:"page_timeout"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// RateLimit is requests per second per domain during page discovery.
	RateLimit float64 `yaml:"rate_limit"`

	// Model is the path of a trained forest. Without one the built-in rules
	// classify post sets.
	Model string `yaml:"model"`

	Database  string `yaml:"database"`
	UserAgent string `yaml:"user_agent"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		MaxPosts:     postfetch.DefaultMaxPosts,
		Trim:         postfetch.DefaultTrim,
		PageTimeout:  postfetch.DefaultPageTimeout,
		FetchTimeout: 10 * time.Second,
		RateLimit:    2,
	}
}

// LoadConfig reads the YAML config at path over the defaults. A missing
// file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if file.MaxPosts > 0 {
		cfg.MaxPosts = file.MaxPosts
	}
	if file.Trim > 0 {
		cfg.Trim = file.Trim
	}
	if file.PageTimeout > 0 {
		cfg.PageTimeout = file.PageTimeout
	}
	if file.FetchTimeout > 0 {
		cfg.FetchTimeout = file.FetchTimeout
	}
	if file.RateLimit != 0 {
		cfg.RateLimit = file.RateLimit
	}
	cfg.Model = file.Model
	cfg.Database = file.Database
	cfg.UserAgent = file.UserAgent
	return cfg, nil
}

// defaultConfigPath returns ~/.postfetch/config.yaml, or "" when the home
// directory is unknown.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".postfetch", "config.yaml")
}

// configFlag returns the value of --config in args, if any.
func configFlag(args []string) (string, bool) {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v, true
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}
