// Package sqlite implements the SQLite storage backend for todos.
//
// SQLite is the query engine; todos.jsonl in the data directory is the
// source of truth. The database file is rebuilt from the JSONL file on
// every Attach, and writes are persisted back to it according to the
// configured sync strategy.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/todos/internal/logging"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// dbFile is the SQLite database file inside DataDir.
const dbFile = "todos.db"

// Compile-time interface check.
var _ types.Backend = (*Backend)(nil)

// Backend implements types.Backend using SQLite as the query engine and a
// JSONL file as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB
	todos    *todosTable
	log      *slog.Logger

	syncStrategy  string         // effective sync strategy: immediate, on_close, batch
	batchSize     int            // number of writes before batch flush
	batchInterval time.Duration  // time between batch flushes
	pendingWrites []pendingWrite // queue of writes pending JSONL persist
	batchTimer    *time.Timer    // timer for interval-based batch flush
	batchMu       sync.Mutex     // protects pendingWrites and batchTimer
}

// pendingWrite represents a deferred JSONL write operation.
// Used by on_close and batch sync strategies.
type pendingWrite struct {
	operation string       // create, update or delete
	persist   func() error // function to execute the JSONL write
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for attach and flush events.
func WithLogger(log *slog.Logger) Option {
	return func(b *Backend) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{log: logging.Discard()}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.With("backend", types.BackendSQLite)
	return b
}

// Todos returns the todo store.
// Returns ErrBackendDetached if the backend is not attached.
func (b *Backend) Todos() (types.Store, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return b.todos, nil
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, creates a fresh SQLite database,
// and loads todos.jsonl into it.
// Returns ErrAlreadyAttached if already attached.
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

	// The database is a cache of the JSONL file; start fresh every time.
	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		db.Close()
		return err
	}

	jsonlPath := filepath.Join(dataDir, todosFile)
	if err := ensureJSONLFile(jsonlPath); err != nil {
		db.Close()
		return err
	}

	loaded, err := loadTodosJSONL(db, jsonlPath)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir

	b.syncStrategy = config.SQLiteConfig.GetSyncStrategy()
	b.batchSize = config.SQLiteConfig.GetBatchSize()
	b.batchInterval = time.Duration(config.SQLiteConfig.GetBatchInterval()) * time.Second
	b.pendingWrites = nil

	b.attached = true
	b.todos = &todosTable{backend: b}

	if b.syncStrategy == types.SyncBatch && b.batchInterval > 0 {
		b.startBatchTimer()
	}

	b.log.Debug("backend attached",
		slog.String("data_dir", dataDir),
		slog.String("sync_strategy", b.syncStrategy),
		slog.Int("loaded", loaded),
	)
	return nil
}

// applySchema executes all table and index DDL.
func applySchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// Detach releases all resources held by the backend.
// Flushes pending writes for on_close and batch strategies, then closes the
// SQLite connection. After Detach, Todos returns ErrBackendDetached.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	b.stopBatchTimer()

	if err := b.flushPendingWritesLocked(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.todos = nil

	b.log.Debug("backend detached")
	return nil
}

// jsonlPath returns the path of todos.jsonl for the attached data dir.
func (b *Backend) jsonlPath() string {
	return filepath.Join(b.dataDir, todosFile)
}

// generateUUID generates a new UUID v7 for todo IDs.
func generateUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}

// shouldPersistImmediately returns true if JSONL writes should happen immediately.
func (b *Backend) shouldPersistImmediately() bool {
	return b.syncStrategy == types.SyncImmediate || b.syncStrategy == ""
}

// queueWrite adds a write operation to the pending queue.
// For "on_close" strategy, writes are queued until Detach.
// For "batch" strategy, writes are queued until batch size or interval is reached.
// A failed size-triggered flush keeps the queue for the next flush; the
// mutation itself is already committed. The caller must hold b.mu.
func (b *Backend) queueWrite(operation string, persist func() error) {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	b.pendingWrites = append(b.pendingWrites, pendingWrite{
		operation: operation,
		persist:   persist,
	})

	if b.syncStrategy == types.SyncBatch && b.batchSize > 0 && len(b.pendingWrites) >= b.batchSize {
		if err := b.flushPendingWritesBatchLocked(); err != nil {
			b.log.Warn("batch flush failed", slog.Any("error", err))
		}
	}
}

// flushPendingWritesLocked flushes all pending writes to the JSONL file.
// The caller must hold b.mu write lock.
func (b *Backend) flushPendingWritesLocked() error {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	return b.flushPendingWritesBatchLocked()
}

// flushPendingWritesBatchLocked persists the queue. Every queued write
// rewrites the whole file from SQLite, so only the last one has to run.
// The caller must hold b.batchMu.
func (b *Backend) flushPendingWritesBatchLocked() error {
	n := len(b.pendingWrites)
	if n == 0 {
		return nil
	}

	last := b.pendingWrites[n-1]
	if err := last.persist(); err != nil {
		// Keep the queue; the next flush or Attach reconciles.
		return fmt.Errorf("flush %s: %w", last.operation, err)
	}

	b.pendingWrites = nil
	b.log.Debug("pending writes flushed", slog.Int("count", n))
	return nil
}

// startBatchTimer starts the batch interval timer for periodic flushes.
func (b *Backend) startBatchTimer() {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	if b.batchTimer != nil {
		return
	}

	b.batchTimer = time.AfterFunc(b.batchInterval, func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if !b.attached {
			return
		}

		if err := b.flushPendingWritesLocked(); err != nil {
			b.log.Warn("batch flush failed", slog.Any("error", err))
		}

		b.batchMu.Lock()
		if b.batchTimer != nil && b.attached {
			b.batchTimer.Reset(b.batchInterval)
		}
		b.batchMu.Unlock()
	})
}

// stopBatchTimer stops the batch interval timer if running.
func (b *Backend) stopBatchTimer() {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	if b.batchTimer != nil {
		b.batchTimer.Stop()
		b.batchTimer = nil
	}
}
