package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the client settings.
type Config struct {
	APIURL      string        `yaml:"api_url"`
	AssetURL    string        `yaml:"asset_url"`
	TokenFile   string        `yaml:"token_file"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	LogLevel    string        `yaml:"log_level"`
	LogFile     string        `yaml:"log_file"`
	Tracing     string        `yaml:"tracing"`
}

// DefaultConfig points at a backend on localhost:5000.
func DefaultConfig() Config {
	return Config{
		APIURL:   "http://localhost:5000/api",
		AssetURL: "http://localhost:5000",
		LogLevel: "info",
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file named by
// OMS_CONFIG, and environment variables, in increasing precedence. A .env file in
// the working directory is loaded into the environment first when present.
func LoadConfig() (Config, bool, error) {
	envLoaded := godotenv.Load() == nil

	cfg := DefaultConfig()
	if path := os.Getenv("OMS_CONFIG"); path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return cfg, envLoaded, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, envLoaded, err
	}
	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return cfg, envLoaded, fmt.Errorf("locating config dir: %w", err)
		}
		cfg.TokenFile = filepath.Join(dir, "oms", "token")
	}
	return cfg, envLoaded, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("OMS_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("OMS_ASSET_URL"); v != "" {
		cfg.AssetURL = v
	}
	if v := os.Getenv("OMS_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}
	if v := os.Getenv("OMS_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("OMS_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if v := os.Getenv("OMS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("OMS_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("OMS_TRACING"); v != "" {
		cfg.Tracing = v
	}
	return nil
}
