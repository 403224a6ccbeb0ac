package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Upload      UploadConfig   `mapstructure:"upload"`
	Ingest      IngestConfig   `mapstructure:"ingest"`
	Query       QueryConfig    `mapstructure:"query"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	AllowedOrigins    []string      `mapstructure:"allowedOrigins"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	// Path is the database file for the sqlite driver
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"timeFormat"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// UploadConfig contains chunked upload settings
type UploadConfig struct {
	Dir              string `mapstructure:"dir"`
	LockTimeoutMs    int64  `mapstructure:"lockTimeoutMs"`
	MaxChunkBytes    int    `mapstructure:"maxChunkBytes"`
	StrictSequencing bool   `mapstructure:"strictSequencing"`
	// SequenceStore selects the chunk sequence tracker: memory or redis
	SequenceStore string `mapstructure:"sequenceStore"`
	// SessionTTLMs is how long an idle upload sequence is remembered
	SessionTTLMs int64       `mapstructure:"sessionTtlMs"`
	Redis        RedisConfig `mapstructure:"redis"`
}

// LockTimeout returns the idle timeout of the upload lock
func (u UploadConfig) LockTimeout() time.Duration {
	return time.Duration(u.LockTimeoutMs) * time.Millisecond
}

// SessionTTL returns how long an idle upload sequence is remembered
func (u UploadConfig) SessionTTL() time.Duration {
	return time.Duration(u.SessionTTLMs) * time.Millisecond
}

// RedisConfig contains the redis sequence tracker settings
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"keyPrefix"`
}

// IngestConfig contains CSV ingest settings
type IngestConfig struct {
	StallTimeoutMs int64 `mapstructure:"stallTimeoutMs"`
}

// StallTimeout returns the per-row progress deadline
func (i IngestConfig) StallTimeout() time.Duration {
	return time.Duration(i.StallTimeoutMs) * time.Millisecond
}

// QueryConfig contains listing settings
type QueryConfig struct {
	DefaultLimit int `mapstructure:"defaultLimit"`
	MaxLimit     int `mapstructure:"maxLimit"`
}

// MetricsConfig contains prometheus settings
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// PoolIntervalSeconds is how often connection pool gauges are refreshed
	PoolIntervalSeconds int `mapstructure:"poolIntervalSeconds"`
}

// PoolInterval returns the pool sampling interval
func (m MetricsConfig) PoolInterval() time.Duration {
	return time.Duration(m.PoolIntervalSeconds) * time.Second
}
