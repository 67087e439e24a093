package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds every externally supplied setting. Values come from an
// optional YAML file with environment variables layered on top.
type Config struct {
	Env string `yaml:"env"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Target struct {
		URL         string `yaml:"url"`
		Origin      string `yaml:"origin"`
		Destination string `yaml:"destination"`
		DaysAhead   int    `yaml:"days_ahead"`
	} `yaml:"target"`

	Browser struct {
		Headless       bool `yaml:"headless"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"browser"`

	Screenshot struct {
		Dir string `yaml:"dir"`
	} `yaml:"screenshot"`

	Upload struct {
		// Backend is "s3" or "local".
		Backend string `yaml:"backend"`
		Bucket  string `yaml:"bucket"`
		Region  string `yaml:"region"`
		Dir     string `yaml:"dir"`
		Retries int    `yaml:"retries"`
	} `yaml:"upload"`
}

// Default returns the built-in settings for a local development run.
func Default() *Config {
	cfg := &Config{Env: "development"}
	cfg.Server.Addr = ":8080"
	cfg.Target.Origin = "SFO"
	cfg.Target.Destination = "JFK"
	cfg.Target.DaysAhead = 14
	cfg.Browser.Headless = true
	cfg.Browser.TimeoutSeconds = 120
	cfg.Screenshot.Dir = os.TempDir()
	cfg.Upload.Backend = "local"
	cfg.Upload.Region = "us-east-1"
	cfg.Upload.Dir = "./data"
	return cfg
}

// Load reads the config file at path, if any, and applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.Upload.Backend != "s3" && cfg.Upload.Backend != "local" {
		return nil, fmt.Errorf("unknown upload backend %q", cfg.Upload.Backend)
	}
	return cfg, nil
}

// applyEnv overlays the environment variables the deployment supplies.
func (c *Config) applyEnv() {
	setString(&c.Env, "FLIGHTCHECK_ENV")
	setString(&c.Server.Addr, "FLIGHTCHECK_ADDR")
	setString(&c.Target.URL, "FLIGHTCHECK_TARGET_URL")
	setString(&c.Target.Origin, "FLIGHTCHECK_ORIGIN")
	setString(&c.Target.Destination, "FLIGHTCHECK_DESTINATION")
	setInt(&c.Target.DaysAhead, "FLIGHTCHECK_DAYS_AHEAD")
	setString(&c.Upload.Backend, "FLIGHTCHECK_UPLOAD_BACKEND")
	setString(&c.Upload.Bucket, "SCREENSHOT_BUCKET")
	setString(&c.Upload.Region, "AWS_REGION")
	setInt(&c.Upload.Retries, "FLIGHTCHECK_UPLOAD_RETRIES")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
