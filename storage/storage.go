// Package storage selects and constructs a Store backend from configuration.
package storage

import (
	"fmt"

	"github.com/c0deZ3R0/go-offline-kit/offlinekit"
	"github.com/c0deZ3R0/go-offline-kit/storage/memory"
	"github.com/c0deZ3R0/go-offline-kit/storage/sqlite"
)

// Open constructs the backend named by cfg.Backend: the durable SQLite
// variant or the pure in-process variant. Construction failures (including a
// database that cannot be opened) surface here and are fatal to the instance.
func Open(cfg offlinekit.Config) (offlinekit.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case offlinekit.BackendSQLite:
		sqliteCfg := sqlite.DefaultConfig(cfg.DataSourceName)
		if cfg.SchemaVersion > 0 {
			sqliteCfg.SchemaVersion = cfg.SchemaVersion
		}
		return sqlite.New(sqliteCfg)
	case offlinekit.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// OpenEngine is a convenience that opens the configured backend and wraps it
// in an Engine.
func OpenEngine(cfg offlinekit.Config, opts ...offlinekit.EngineOption) (*offlinekit.Engine, error) {
	store, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return offlinekit.NewEngine(store, opts...), nil
}
