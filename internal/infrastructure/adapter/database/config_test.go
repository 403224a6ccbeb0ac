package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validServerConfig(driver string) *Config {
	return &Config{
		Driver:        driver,
		Host:          "localhost",
		Port:          5432,
		Username:      "registry",
		Password:      "secret",
		Database:      "staff_registry",
		SSLMode:       "disable",
		MaxOpenConns:  10,
		MaxIdleConns:  5,
		QueryTimeout:  time.Second,
		LogLevel:      "info",
		RetryAttempts: 1,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("postgres ok", func(t *testing.T) {
		require.NoError(t, validServerConfig(DriverPostgres).Validate())
	})

	t.Run("mysql ignores ssl mode", func(t *testing.T) {
		cfg := validServerConfig(DriverMySQL)
		cfg.SSLMode = "whatever"
		require.NoError(t, cfg.Validate())
	})

	t.Run("sqlite only needs a path", func(t *testing.T) {
		cfg := &Config{
			Driver:       DriverSQLite,
			Path:         "registry.db",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			QueryTimeout: time.Second,
			LogLevel:     "silent",
		}
		require.NoError(t, cfg.Validate())

		cfg.Path = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := validServerConfig(DriverPostgres)
		cfg.Host = ""
		assert.EqualError(t, cfg.Validate(), "database host is required")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := validServerConfig("oracle")
		assert.EqualError(t, cfg.Validate(), "unsupported database driver: oracle")
	})

	t.Run("invalid ssl mode", func(t *testing.T) {
		cfg := validServerConfig(DriverPostgres)
		cfg.SSLMode = "sometimes"
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := validServerConfig(DriverPostgres)
		cfg.LogLevel = "verbose"
		assert.Error(t, cfg.Validate())
	})
}

func TestConfigDSN(t *testing.T) {
	pg := validServerConfig(DriverPostgres)
	assert.Equal(t,
		"host=localhost port=5432 user=registry password=secret dbname=staff_registry sslmode=disable TimeZone=UTC",
		pg.DSN())

	my := validServerConfig(DriverMySQL)
	my.Port = 3306
	assert.Equal(t,
		"registry:secret@tcp(localhost:3306)/staff_registry?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		my.DSN())

	lite := &Config{Driver: DriverSQLite, Path: "/tmp/registry.db"}
	assert.Equal(t, "/tmp/registry.db?_busy_timeout=5000&_foreign_keys=on", lite.DSN())
}

func TestConfigCopies(t *testing.T) {
	cfg := validServerConfig(DriverPostgres)

	withConns := cfg.WithMaxOpenConnections(99)
	assert.Equal(t, 99, withConns.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxOpenConns)

	withTimeout := cfg.WithQueryTimeout(3 * time.Second)
	assert.Equal(t, 3*time.Second, withTimeout.QueryTimeout)
	assert.Equal(t, time.Second, cfg.QueryTimeout)
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("SR_DB_DRIVER", "mysql")
	t.Setenv("SR_DB_HOST", "db.internal")
	t.Setenv("SR_DB_PORT", "3307")
	t.Setenv("SR_DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := DefaultConfig()
	assert.Equal(t, DriverMySQL, cfg.Driver)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 3307, cfg.Port)
	assert.Equal(t, 25, cfg.MaxOpenConns)
}

func TestParsePort(t *testing.T) {
	assert.Equal(t, 5432, ParsePort("5432"))
	assert.Equal(t, 0, ParsePort("abc"))
	assert.Equal(t, 0, ParsePort("70000"))
	assert.Equal(t, 0, ParsePort(""))
}
