// Package sqlite provides the persistent, transactional Store implementation
// backed by an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	stdSync "sync"
	"time"

	storeErrors "github.com/c0deZ3R0/go-offline-kit/errors"
	"github.com/c0deZ3R0/go-offline-kit/logging"
	"github.com/c0deZ3R0/go-offline-kit/offlinekit"

	// Go SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const component = "storage/sqlite"

// Custom errors for better error handling
var (
	// ErrStoreClosed is returned by any operation after Close. A fresh
	// construction call reopens the same database.
	ErrStoreClosed = errors.New("store is closed")
)

// tableFor maps a namespace to its backing table. The set is closed; anything
// else is a malformed-configuration error.
func tableFor(ns offlinekit.Namespace) (string, bool) {
	switch ns {
	case offlinekit.NamespaceDocuments:
		return "documents", true
	case offlinekit.NamespaceSyncQueue:
		return "sync_queue", true
	case offlinekit.NamespaceMetadata:
		return "metadata", true
	}
	return "", false
}

// schemaTables lists, per schema generation, the namespace tables that
// generation introduces. Opening with a higher generation creates any
// still-missing tables without touching rows already present in existing
// ones.
var schemaTables = map[int][]offlinekit.Namespace{
	1: {offlinekit.NamespaceDocuments, offlinekit.NamespaceSyncQueue},
	2: {offlinekit.NamespaceMetadata},
}

// Config holds configuration options for the SQLite-backed Store.
//
// Production-ready defaults are applied by DefaultConfig() including:
//   - WAL mode enabled for better concurrency
//   - Connection pool with 25 max open, 5 max idle connections
//   - Connection lifetimes of 1 hour max, 5 minutes max idle
type Config struct {
	// DataSourceName is the connection string for the SQLite database.
	// Example: "file:offline.db?_journal_mode=WAL"
	DataSourceName string

	// SchemaVersion is the schema generation to provision. Defaults to the
	// highest generation this build knows about.
	SchemaVersion int

	// EnableWAL enables Write-Ahead Logging mode for better concurrency.
	// When true, automatically appends "?_journal_mode=WAL" to DataSourceName.
	EnableWAL bool

	// Connection pool settings for production workloads.
	// Defaults: MaxOpen=25, MaxIdle=5, Lifetime=1h, IdleTime=5m
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// setDefaults applies default values to the config
func (c *Config) setDefaults() {
	if c.SchemaVersion == 0 {
		c.SchemaVersion = latestSchemaVersion()
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 5
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = time.Hour
	}
	if c.ConnMaxIdleTime == 0 {
		c.ConnMaxIdleTime = 5 * time.Minute
	}
}

func latestSchemaVersion() int {
	latest := 0
	for gen := range schemaTables {
		if gen > latest {
			latest = gen
		}
	}
	return latest
}

// DefaultConfig returns a Config with production-ready defaults.
func DefaultConfig(dataSourceName string) *Config {
	config := &Config{
		DataSourceName: dataSourceName,
		EnableWAL:      true,
	}
	config.setDefaults()
	return config
}

// NewWithDataSource is a convenience constructor using DefaultConfig.
func NewWithDataSource(dataSourceName string) (*Store, error) {
	return New(DefaultConfig(dataSourceName))
}

// Store implements offlinekit.Store on an embedded SQLite database, one table
// per namespace. Every write runs in its own transaction; no partial state is
// observable on failure.
type Store struct {
	db     *sql.DB
	mu     stdSync.RWMutex
	closed bool
	logger *logging.Logger
}

// Compile-time check that Store satisfies the capability interface
var _ offlinekit.Store = (*Store)(nil)

// New opens (or creates) the database and provisions any partitions the
// requested schema generation requires. Open failure is fatal to the instance
// and surfaces here; the caller may retry with a fresh construction call.
func New(config *Config) (*Store, error) {
	if config == nil {
		return nil, storeErrors.NewBackendError(storeErrors.OpOpen, component,
			fmt.Errorf("config cannot be nil"))
	}

	config.setDefaults()

	if config.DataSourceName == "" {
		return nil, storeErrors.NewBackendError(storeErrors.OpOpen, component,
			fmt.Errorf("DataSourceName is required"))
	}

	dsn := config.DataSourceName
	if config.EnableWAL && !containsJournalMode(dsn) {
		dsn += "?_journal_mode=WAL"
	}

	logger := logging.WithComponent(logging.Component(component))
	logger.InfoContext(context.Background(), "Opening SQLite database",
		slog.String("data_source", config.DataSourceName),
		slog.Bool("wal_enabled", config.EnableWAL),
		slog.Int("schema_version", config.SchemaVersion),
	)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, storeErrors.NewBackendError(storeErrors.OpOpen, component,
			fmt.Errorf("open sqlite database: %w", err))
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, storeErrors.NewBackendError(storeErrors.OpOpen, component,
			fmt.Errorf("connect to sqlite database: %w", err))
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	if err := store.migrate(config.SchemaVersion); err != nil {
		db.Close()
		return nil, storeErrors.NewBackendError(storeErrors.OpOpen, component,
			fmt.Errorf("setup database schema: %w", err))
	}

	logger.InfoContext(context.Background(), "SQLite store initialized")
	return store, nil
}

func containsJournalMode(dsn string) bool {
	return strings.Contains(dsn, "_journal_mode=")
}

// migrate provisions every namespace table required up to target and records
// the reached generation in PRAGMA user_version. Existing tables and their
// rows are never touched, so a later open with a higher generation is a
// non-destructive upgrade.
func (s *Store) migrate(target int) error {
	var current int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&current); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	for gen := 1; gen <= target; gen++ {
		for _, ns := range schemaTables[gen] {
			table, _ := tableFor(ns)
			query := fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS %s (
        key         TEXT PRIMARY KEY,
        value       TEXT NOT NULL,
        updated_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );`, table)
			if _, err := s.db.Exec(query); err != nil {
				return fmt.Errorf("provision partition %q: %w", ns, err)
			}
		}
	}

	if target > current {
		if _, err := s.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, target)); err != nil {
			return fmt.Errorf("record user_version: %w", err)
		}
	}
	return nil
}

func (s *Store) table(op storeErrors.Operation, ns offlinekit.Namespace) (string, error) {
	table, ok := tableFor(ns)
	if !ok {
		return "", storeErrors.NewNamespaceError(op, string(ns))
	}
	return table, nil
}

func (s *Store) guard() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Save idempotently upserts value under key inside a single transaction.
func (s *Store) Save(ctx context.Context, ns offlinekit.Namespace, key string, value any) error {
	if err := s.guard(); err != nil {
		return err
	}
	table, err := s.table(storeErrors.OpSave, ns)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return storeErrors.WrapTransaction(fmt.Errorf("marshal value: %w", err), storeErrors.OpSave, component)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErrors.WrapTransaction(err, storeErrors.OpSave, component)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	query := fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, table)
	if _, err = tx.ExecContext(ctx, query, key, string(raw)); err != nil {
		return storeErrors.WrapTransaction(err, storeErrors.OpSave, component)
	}

	if err = tx.Commit(); err != nil {
		return storeErrors.WrapTransaction(err, storeErrors.OpSave, component)
	}
	return nil
}

// Load returns the stored value, or (nil, false) when the key is absent.
func (s *Store) Load(ctx context.Context, ns offlinekit.Namespace, key string) (json.RawMessage, bool, error) {
	if err := s.guard(); err != nil {
		return nil, false, err
	}
	table, err := s.table(storeErrors.OpLoad, ns)
	if err != nil {
		return nil, false, err
	}

	var value string
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, table)
	err = s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeErrors.WrapTransaction(err, storeErrors.OpLoad, component)
	}
	return json.RawMessage(value), true, nil
}

// Delete removes key if present. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, ns offlinekit.Namespace, key string) error {
	if err := s.guard(); err != nil {
		return err
	}
	table, err := s.table(storeErrors.OpDelete, ns)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, table)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return storeErrors.WrapTransaction(err, storeErrors.OpDelete, component)
	}
	return nil
}

// LoadAll returns every value in the partition keyed by id. Each call
// recomputes the result, so it is repeatable and restartable.
func (s *Store) LoadAll(ctx context.Context, ns offlinekit.Namespace) (map[string]json.RawMessage, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	table, err := s.table(storeErrors.OpLoadAll, ns)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT key, value FROM %s`, table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErrors.WrapTransaction(err, storeErrors.OpLoadAll, component)
	}
	defer rows.Close()

	values := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, storeErrors.WrapTransaction(fmt.Errorf("scan row: %w", err), storeErrors.OpLoadAll, component)
		}
		values[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErrors.WrapTransaction(fmt.Errorf("row iteration: %w", err), storeErrors.OpLoadAll, component)
	}
	return values, nil
}

// Count returns the number of keys in the partition.
func (s *Store) Count(ctx context.Context, ns offlinekit.Namespace) (int, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}
	table, err := s.table(storeErrors.OpCount, ns)
	if err != nil {
		return 0, err
	}

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, storeErrors.WrapTransaction(err, storeErrors.OpCount, component)
	}
	return count, nil
}

// Clear atomically empties the partition in a single transaction.
func (s *Store) Clear(ctx context.Context, ns offlinekit.Namespace) error {
	if err := s.guard(); err != nil {
		return err
	}
	table, err := s.table(storeErrors.OpClear, ns)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErrors.WrapTransaction(err, storeErrors.OpClear, component)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
		return storeErrors.WrapTransaction(err, storeErrors.OpClear, component)
	}
	if err = tx.Commit(); err != nil {
		return storeErrors.WrapTransaction(err, storeErrors.OpClear, component)
	}
	return nil
}

// Close closes the database connection. The same database can be reopened by
// a fresh call to New.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	stats := s.db.Stats()
	s.logger.InfoContext(context.Background(), "Closing SQLite store",
		slog.Int("open_connections", stats.OpenConnections),
		slog.Int("in_use", stats.InUse),
		slog.Int64("wait_count", stats.WaitCount),
	)

	s.closed = true
	return s.db.Close()
}

// Stats returns database statistics for monitoring
func (s *Store) Stats() sql.DBStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return sql.DBStats{}
	}

	return s.db.Stats()
}
