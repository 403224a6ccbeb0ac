package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "SR"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
}

var errNoDotEnv = errors.New("no .env file found in search paths")

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// variables already set in the environment win over .env
	if err := loadDotEnvFile(); err != nil && !errors.Is(err, errNoDotEnv) {
		fmt.Fprintln(os.Stderr, "Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.Environment = env

	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile loads the first .env file found in DotEnvPaths
func loadDotEnvFile() error {
	var lastError error
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			lastError = err
			continue
		}
		return nil
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return errNoDotEnv
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 30)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds
	v.SetDefault("server.allowedOrigins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.path", "staff_registry.db")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 10)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.lockTimeoutMs", 60000)
	v.SetDefault("upload.maxChunkBytes", 1<<20)
	v.SetDefault("upload.strictSequencing", false)
	v.SetDefault("upload.sequenceStore", "memory")
	v.SetDefault("upload.redis.addr", "localhost:6379")
	v.SetDefault("upload.redis.db", 0)
	v.SetDefault("upload.redis.keyPrefix", "staff-registry:upload")
	v.SetDefault("upload.sessionTtlMs", 600000)

	v.SetDefault("ingest.stallTimeoutMs", 5000)

	v.SetDefault("query.defaultLimit", 30)
	v.SetDefault("query.maxLimit", 1000)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.poolIntervalSeconds", 15)
}

// getEnvironment determines the environment from SR_ENV, defaulting to development
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides makes environment variables win over file values for
// settings whose variable names do not follow the key layout
func processEnvOverrides(v *viper.Viper) {
	overrides := map[string]string{
		"SR_DB_DRIVER":          "database.driver",
		"SR_DB_PATH":            "database.path",
		"SR_DB_HOST":            "database.host",
		"SR_DB_PORT":            "database.port",
		"SR_DB_USERNAME":        "database.username",
		"SR_DB_PASSWORD":        "database.password",
		"SR_DB_NAME":            "database.database",
		"SR_DB_SSL_MODE":        "database.sslMode",
		"SR_SERVER_HOST":        "server.host",
		"SR_SERVER_PORT":        "server.port",
		"SR_LOGGER_LEVEL":       "logger.level",
		"SR_UPLOAD_DIR":         "upload.dir",
		"SR_UPLOAD_SEQUENCE":    "upload.sequenceStore",
		"SR_REDIS_ADDR":         "upload.redis.addr",
		"SR_REDIS_PASSWORD":     "upload.redis.password",
		"SR_UPLOAD_STRICT_MODE": "upload.strictSequencing",
	}
	for env, key := range overrides {
		if value := os.Getenv(env); value != "" {
			v.Set(key, value)
		}
	}

	intOverrides := map[string]string{
		"SR_DB_MAX_OPEN_CONNS":          "database.maxOpenConns",
		"SR_DB_MAX_IDLE_CONNS":          "database.maxIdleConns",
		"SR_DB_QUERY_TIMEOUT_SECONDS":   "database.queryTimeout",
		"SR_UPLOAD_LOCK_TIMEOUT_MS":     "upload.lockTimeoutMs",
		"SR_UPLOAD_MAX_CHUNK_BYTES":     "upload.maxChunkBytes",
		"SR_INGEST_STALL_TIMEOUT_MS":    "ingest.stallTimeoutMs",
		"SR_QUERY_DEFAULT_LIMIT":        "query.defaultLimit",
		"SR_REDIS_DB":                   "upload.redis.db",
		"SR_DB_RETRY_ATTEMPTS":          "database.retryAttempts",
		"SR_METRICS_POOL_INTERVAL_SECS": "metrics.poolIntervalSeconds",
	}
	for env, key := range intOverrides {
		if value, ok := getEnvInt(env); ok {
			v.Set(key, value)
		}
	}
}

// getEnvInt returns an integer environment variable and whether it was set and valid
func getEnvInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return val, true
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute

	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second
}
