// Package gormstore is a todos backend built on GORM with the SQLite driver.
// Unlike the default backend it keeps no JSONL file; the database file in
// the data directory is the only copy.
package gormstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// dbFile is the database file inside DataDir.
const dbFile = "todos-gorm.db"

var _ types.Backend = (*Backend)(nil)

// Backend implements types.Backend on top of a GORM connection.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *gorm.DB
	repo     *Repository
}

// NewBackend creates a detached GORM backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Open connects to the SQLite database at dsn and runs migrations.
// Query logging is enabled only when debug is true.
func Open(dsn string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Attach opens DataDir/todos-gorm.db, creating the directory if needed.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := Open(filepath.Join(dataDir, dbFile), config.Log.Level == "debug")
	if err != nil {
		return err
	}

	b.db = db
	b.repo = NewRepository(db)
	b.attached = true
	return nil
}

// Detach closes the database connection. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	b.db = nil
	b.repo = nil
	b.attached = false
	return nil
}

// Todos returns the todo store for an attached backend.
func (b *Backend) Todos() (types.Store, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return b.repo, nil
}
