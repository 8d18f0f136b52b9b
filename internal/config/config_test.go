package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		cfg, err := FromEnv(lookupFrom(map[string]string{
			"MONGO_URI": "mongodb://localhost:27017",
		}))
		require.NoError(t, err)

		assert.Equal(t, "5000", cfg.Port)
		assert.Equal(t, ":5000", cfg.Addr())
		assert.Equal(t, DriverMongo, cfg.StoreDriver)
		assert.Equal(t, "productCatalog", cfg.MongoDB)
		assert.Equal(t, "products", cfg.Collection)
		assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
		assert.Equal(t, time.Duration(0), cfg.CacheTTL)
		assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "release", cfg.GinMode)
	})

	t.Run("should read values from env", func(t *testing.T) {
		cfg, err := FromEnv(lookupFrom(map[string]string{
			"PORT":             "8080",
			"STORE_DRIVER":     "MEMORY",
			"MONGO_DB":         "shop",
			"MONGO_COLLECTION": "items",
			"STORE_TIMEOUT":    "2s",
			"CACHE_TTL":        "1m",
			"SHUTDOWN_TIMEOUT": "30s",
			"LOG_LEVEL":        "debug",
			"LOG_FORMAT":       "console",
			"GIN_MODE":         "debug",
		}))
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, DriverMemory, cfg.StoreDriver)
		assert.Equal(t, "shop", cfg.MongoDB)
		assert.Equal(t, "items", cfg.Collection)
		assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
		assert.Equal(t, time.Minute, cfg.CacheTTL)
		assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "console", cfg.LogFormat)
		assert.Equal(t, "debug", cfg.GinMode)
	})

	t.Run("should require a mongo uri for the mongo driver", func(t *testing.T) {
		_, err := FromEnv(lookupFrom(map[string]string{}))
		assert.EqualError(t, err, "MONGO_URI is required when STORE_DRIVER is mongo")
	})

	t.Run("should reject unknown drivers", func(t *testing.T) {
		_, err := FromEnv(lookupFrom(map[string]string{"STORE_DRIVER": "firestore"}))
		assert.EqualError(t, err, `unknown STORE_DRIVER "firestore"`)
	})

	t.Run("should reject malformed durations", func(t *testing.T) {
		_, err := FromEnv(lookupFrom(map[string]string{
			"STORE_DRIVER":  "memory",
			"STORE_TIMEOUT": "soon",
		}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `invalid STORE_TIMEOUT "soon"`)
	})

	t.Run("should reject negative cache ttl", func(t *testing.T) {
		_, err := FromEnv(lookupFrom(map[string]string{
			"STORE_DRIVER": "memory",
			"CACHE_TTL":    "-1s",
		}))
		assert.EqualError(t, err, "CACHE_TTL must not be negative")
	})

	t.Run("should reject unknown gin modes", func(t *testing.T) {
		_, err := FromEnv(lookupFrom(map[string]string{
			"STORE_DRIVER": "memory",
			"GIN_MODE":     "production",
		}))
		assert.EqualError(t, err, `unknown GIN_MODE "production"`)
	})

	t.Run("should treat empty values as unset", func(t *testing.T) {
		cfg, err := FromEnv(lookupFrom(map[string]string{
			"STORE_DRIVER": "memory",
			"PORT":         "",
			"CACHE_TTL":    "",
		}))
		require.NoError(t, err)
		assert.Equal(t, "5000", cfg.Port)
		assert.Equal(t, time.Duration(0), cfg.CacheTTL)
	})
}
