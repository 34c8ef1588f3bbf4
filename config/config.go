// Package config loads service settings from defaults, an optional YAML file,
// an optional .env file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PathEnv names the variable that points at a YAML config file.
const PathEnv = "PROJECTION_CONFIG"

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"PROJECTION_ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"PROJECTION_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"PROJECTION_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"PROJECTION_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"PROJECTION_SHUTDOWN_TIMEOUT"`
}

type RateLimitConfig struct {
	Capacity int           `yaml:"capacity" env:"PROJECTION_RATE_LIMIT_CAPACITY"`
	Window   time.Duration `yaml:"window" env:"PROJECTION_RATE_LIMIT_WINDOW"`
}

type CacheConfig struct {
	// RedisAddr selects redis when set, otherwise an in-memory cache is used.
	RedisAddr     string        `yaml:"redis_addr" env:"PROJECTION_REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"PROJECTION_REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"PROJECTION_REDIS_DB"`
	TTL           time.Duration `yaml:"ttl" env:"PROJECTION_CACHE_TTL"`
	HistorySize   int           `yaml:"history_size" env:"PROJECTION_HISTORY_SIZE"`
}

type ExplanationConfig struct {
	APIKey  string        `yaml:"api_key" env:"OPENAI_API_KEY"`
	URL     string        `yaml:"url" env:"PROJECTION_EXPLANATION_URL"`
	Model   string        `yaml:"model" env:"PROJECTION_EXPLANATION_MODEL"`
	Timeout time.Duration `yaml:"timeout" env:"PROJECTION_EXPLANATION_TIMEOUT"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"PROJECTION_LOG_LEVEL"`
	Format string `yaml:"format" env:"PROJECTION_LOG_FORMAT"` // text, json or plain
	File   string `yaml:"file" env:"PROJECTION_LOG_FILE"`
}

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Cache       CacheConfig       `yaml:"cache"`
	Explanation ExplanationConfig `yaml:"explanation"`
	Log         LogConfig         `yaml:"log"`
	Currency    string            `yaml:"currency" env:"PROJECTION_CURRENCY"`
	MaxYears    int               `yaml:"max_years" env:"PROJECTION_MAX_YEARS"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Capacity: 30,
			Window:   time.Minute,
		},
		Cache: CacheConfig{
			TTL:         24 * time.Hour,
			HistorySize: 100,
		},
		Explanation: ExplanationConfig{
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Currency: "USD",
		MaxYears: 100,
	}
}

// Load builds the configuration. path may be empty, in which case PathEnv is
// consulted; a missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server addr must not be empty")
	}
	if c.RateLimit.Capacity <= 0 {
		return fmt.Errorf("rate limit capacity must be positive, got %d", c.RateLimit.Capacity)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimit.Window)
	}
	if c.MaxYears <= 0 {
		return fmt.Errorf("max years must be positive, got %d", c.MaxYears)
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("currency must be an ISO 4217 code, got %q", c.Currency)
	}
	return nil
}
