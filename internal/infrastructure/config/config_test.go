package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"ERP_APP_NAME":                   os.Getenv("ERP_APP_NAME"),
		"ERP_APP_ENV":                    os.Getenv("ERP_APP_ENV"),
		"ERP_APP_PORT":                   os.Getenv("ERP_APP_PORT"),
		"ERP_DATABASE_DRIVER":            os.Getenv("ERP_DATABASE_DRIVER"),
		"ERP_DATABASE_PATH":              os.Getenv("ERP_DATABASE_PATH"),
		"ERP_DATABASE_MAX_OPEN_CONNS":    os.Getenv("ERP_DATABASE_MAX_OPEN_CONNS"),
		"ERP_DATABASE_MAX_IDLE_CONNS":    os.Getenv("ERP_DATABASE_MAX_IDLE_CONNS"),
		"ERP_REDIS_ENABLED":              os.Getenv("ERP_REDIS_ENABLED"),
		"ERP_CACHE_DEFAULT_TTL":          os.Getenv("ERP_CACHE_DEFAULT_TTL"),
		"ERP_CACHE_LOW_STOCK_TTL":        os.Getenv("ERP_CACHE_LOW_STOCK_TTL"),
		"ERP_CACHE_FALLBACK_MAX_AGE":     os.Getenv("ERP_CACHE_FALLBACK_MAX_AGE"),
		"ERP_CACHE_FALLBACK_MAX_ENTRIES": os.Getenv("ERP_CACHE_FALLBACK_MAX_ENTRIES"),
		"ERP_LEDGER_GRACE_WINDOW":        os.Getenv("ERP_LEDGER_GRACE_WINDOW"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "inventory-desk", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, "inventory.db", cfg.Database.Path)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "inventory:snapshot:", cfg.Redis.KeyPrefix)
		assert.Equal(t, 5*time.Minute, cfg.Cache.DefaultTTL)
		assert.Equal(t, 30*time.Second, cfg.Cache.LowStockTTL)
		assert.Equal(t, 60*time.Second, cfg.Cache.SweepInterval)
		assert.Equal(t, 24*time.Hour, cfg.Cache.FallbackMaxAge)
		assert.Equal(t, 512, cfg.Cache.FallbackMaxEntries)
		assert.Equal(t, 3*time.Second, cfg.Ledger.GraceWindow)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("loads values from environment variables with ERP prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("ERP_APP_NAME", "test-app")
		os.Setenv("ERP_APP_PORT", "9000")
		os.Setenv("ERP_DATABASE_DRIVER", "POSTGRES")
		os.Setenv("ERP_REDIS_ENABLED", "true")
		os.Setenv("ERP_CACHE_DEFAULT_TTL", "10m")
		os.Setenv("ERP_CACHE_LOW_STOCK_TTL", "15s")
		os.Setenv("ERP_CACHE_FALLBACK_MAX_ENTRIES", "64")
		os.Setenv("ERP_LEDGER_GRACE_WINDOW", "500ms")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 10*time.Minute, cfg.Cache.DefaultTTL)
		assert.Equal(t, 15*time.Second, cfg.Cache.LowStockTTL)
		assert.Equal(t, 64, cfg.Cache.FallbackMaxEntries)
		assert.Equal(t, 500*time.Millisecond, cfg.Ledger.GraceWindow)
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("ERP_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "4")
		os.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "8")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates low stock TTL does not exceed default TTL", func(t *testing.T) {
		clearEnv()
		os.Setenv("ERP_CACHE_DEFAULT_TTL", "1m")
		os.Setenv("ERP_CACHE_LOW_STOCK_TTL", "2m")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "low_stock_ttl")
	})

	t.Run("validates grace window cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("ERP_LEDGER_GRACE_WINDOW", "-1s")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ledger.grace_window")
	})
}

func TestConfig_ProductionValidation(t *testing.T) {
	base := func() *Config {
		cfg := &Config{App: AppConfig{Env: "production"}}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("sqlite needs no database password", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("postgres requires password and ssl", func(t *testing.T) {
		cfg := base()
		cfg.Database.Driver = DriverPostgres
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")

		cfg.Database.Password = "secret"
		err = cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")

		cfg.Database.SSLMode = "require"
		assert.NoError(t, cfg.validate())
	})

	t.Run("rejects wildcard CORS origin", func(t *testing.T) {
		cfg := base()
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("sqlite uses the file path", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: DriverSQLite, Path: "/tmp/inv.db"}
		assert.Equal(t, "/tmp/inv.db", cfg.DSN())
	})

	t.Run("generates valid postgres DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		// URL-encoded password should be in the DSN
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
