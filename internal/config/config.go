package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port            string
	StoreDriver     string
	MongoURI        string
	MongoDB         string
	Collection      string
	StoreTimeout    time.Duration
	CacheTTL        time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string
	GinMode         string

	// EnvFileLoaded reports whether a .env file was found and applied.
	EnvFileLoaded bool
}

// LoadConfig reads the .env file when one exists in the working directory and
// then builds the configuration from the process environment.
func LoadConfig() (*Config, error) {
	loaded := false
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		loaded = true
	}

	cfg, err := FromEnv(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	cfg.EnvFileLoaded = loaded
	return cfg, nil
}

// FromEnv builds a Config from lookup, applying defaults for unset keys.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{
		Port:        getEnv(lookup, "PORT", "5000"),
		StoreDriver: strings.ToLower(getEnv(lookup, "STORE_DRIVER", DriverMongo)),
		MongoURI:    getEnv(lookup, "MONGO_URI", ""),
		MongoDB:     getEnv(lookup, "MONGO_DB", "productCatalog"),
		Collection:  getEnv(lookup, "MONGO_COLLECTION", "products"),
		LogLevel:    getEnv(lookup, "LOG_LEVEL", "info"),
		LogFormat:   getEnv(lookup, "LOG_FORMAT", "json"),
		GinMode:     getEnv(lookup, "GIN_MODE", "release"),
	}

	var err error
	if cfg.StoreTimeout, err = getDuration(lookup, "STORE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration(lookup, "CACHE_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration(lookup, "SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required when STORE_DRIVER is mongo")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown GIN_MODE %q", c.GinMode)
	}

	if c.StoreTimeout <= 0 {
		return errors.New("STORE_TIMEOUT must be positive")
	}
	if c.CacheTTL < 0 {
		return errors.New("CACHE_TTL must not be negative")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(lookup func(string) (string, bool), key string, fallback time.Duration) (time.Duration, error) {
	value, ok := lookup(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
