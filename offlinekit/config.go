package offlinekit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c0deZ3R0/go-offline-kit/logging"
)

// Backend identifiers accepted by Config.Backend.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config describes how to construct a storage backend and its surrounding
// engine. It can be populated directly or loaded from a YAML/JSON file.
type Config struct {
	// Backend selects the store implementation: "sqlite" or "memory".
	Backend string `json:"backend" yaml:"backend"`

	// DataSourceName is the storage identifier for the persistent backend
	// (a SQLite DSN). Ignored by the memory backend.
	DataSourceName string `json:"data_source_name" yaml:"data_source_name"`

	// SchemaVersion is the schema generation to provision. Zero, the
	// default, means the latest generation the backend supports. Opening an
	// existing database with a higher generation adds any still-missing
	// partitions without destroying existing data.
	SchemaVersion int `json:"schema_version" yaml:"schema_version"`

	// Logging configures the engine's structured logger.
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// Validate checks the configuration for construction-time problems.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.DataSourceName == "" {
			return fmt.Errorf("data_source_name is required for the sqlite backend")
		}
	case BackendMemory:
		// No configuration required.
	case "":
		return fmt.Errorf("backend is required")
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.SchemaVersion < 0 {
		return fmt.Errorf("schema_version must not be negative, got %d", c.SchemaVersion)
	}
	return nil
}

// LoadConfigFromFile reads a Config from a YAML or JSON file, chosen by
// extension. The loaded configuration is validated before being returned.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse json config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config extension %q (want .yaml, .yml or .json)", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// DefaultConfig returns a memory-backed configuration suitable for tests and
// environments without persistent storage.
func DefaultConfig() Config {
	return Config{
		Backend: BackendMemory,
		Logging: logging.DefaultConfig,
	}
}
