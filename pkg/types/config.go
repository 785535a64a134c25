package types

import (
	"errors"
	"time"
)

// Config holds backend selection and parameters for Backend.Attach.
type Config struct {
	Backend      string        `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir      string        `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	SQLiteConfig *SQLiteConfig `json:"sqlite,omitempty" yaml:"sqlite,omitempty" mapstructure:"sqlite"`
	Log          LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	Server       ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendGorm   = "gorm"
	BackendMemory = "memory"
)

// Sync strategies control when the SQLite backend rewrites its JSONL file.
const (
	SyncImmediate = "immediate" // rewrite after every write (default)
	SyncOnClose   = "on_close"  // rewrite once on Detach
	SyncBatch     = "batch"     // rewrite after BatchSize writes or BatchInterval seconds
)

// Defaults applied when SQLiteConfig fields are zero.
const (
	DefaultBatchSize     = 10
	DefaultBatchInterval = 5 // seconds
)

// SQLiteConfig tunes the SQLite backend. A nil *SQLiteConfig means defaults.
type SQLiteConfig struct {
	SyncStrategy  string `json:"sync_strategy" yaml:"sync_strategy" mapstructure:"sync_strategy"`
	BatchSize     int    `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`
	BatchInterval int    `json:"batch_interval" yaml:"batch_interval" mapstructure:"batch_interval"`
}

// GetSyncStrategy returns the configured strategy or SyncImmediate.
func (c *SQLiteConfig) GetSyncStrategy() string {
	if c == nil || c.SyncStrategy == "" {
		return SyncImmediate
	}
	return c.SyncStrategy
}

// GetBatchSize returns the configured batch size or DefaultBatchSize.
func (c *SQLiteConfig) GetBatchSize() int {
	if c == nil || c.BatchSize == 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

// GetBatchInterval returns the configured interval in seconds or DefaultBatchInterval.
func (c *SQLiteConfig) GetBatchInterval() int {
	if c == nil || c.BatchInterval == 0 {
		return DefaultBatchInterval
	}
	return c.BatchInterval
}

// Validate checks the SQLite settings. Zero values are accepted and fall
// back to defaults; negative values are rejected.
func (c *SQLiteConfig) Validate() error {
	if c == nil {
		return nil
	}
	switch c.SyncStrategy {
	case "", SyncImmediate, SyncOnClose, SyncBatch:
	default:
		return ErrSyncStrategyUnknown
	}
	if c.BatchSize < 0 {
		return ErrBatchSizeInvalid
	}
	if c.BatchInterval < 0 {
		return ErrBatchIntervalInvalid
	}
	return nil
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`    // debug, info, warn, error
	Format string `json:"format" yaml:"format" mapstructure:"format"` // text or json
}

// ServerConfig configures the HTTP server started by "todos serve".
type ServerConfig struct {
	Addr            string `json:"addr" yaml:"addr" mapstructure:"addr"`
	ShutdownTimeout int    `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"` // seconds
}

// Server defaults.
const (
	DefaultServerAddr      = "127.0.0.1:3000"
	DefaultShutdownTimeout = 10
)

// GetAddr returns the configured listen address or DefaultServerAddr.
func (s ServerConfig) GetAddr() string {
	if s.Addr == "" {
		return DefaultServerAddr
	}
	return s.Addr
}

// GetShutdownTimeout returns the shutdown grace period.
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return DefaultShutdownTimeout * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// Config validation errors.
var (
	ErrBackendEmpty         = errors.New("backend must not be empty")
	ErrBackendUnknown       = errors.New("unknown backend")
	ErrSyncStrategyUnknown  = errors.New("unknown sync strategy")
	ErrBatchSizeInvalid     = errors.New("batch size must be positive")
	ErrBatchIntervalInvalid = errors.New("batch interval must be positive")
	ErrLogLevelUnknown      = errors.New("unknown log level")
	ErrLogFormatUnknown     = errors.New("unknown log format")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendGorm:   true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if err := c.SQLiteConfig.Validate(); err != nil {
		return err
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return ErrLogLevelUnknown
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return ErrLogFormatUnknown
	}
	return nil
}
