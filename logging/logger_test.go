package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/c0deZ3R0/go-offline-kit/errors"
)

func TestLogger(t *testing.T) {
	// Test different environments
	configs := []Config{
		{Level: "debug", Format: "text", Environment: EnvDevelopment, AddSource: true},
		{Level: "info", Format: "json", Environment: EnvProduction, AddSource: false},
	}

	for _, config := range configs {
		t.Run("Environment_"+config.Environment, func(t *testing.T) {
			logger := NewLogger(config)

			// Test basic logging
			logger.Debug("Debug message", slog.String("key", "value"))
			logger.Info("Info message", slog.Int("count", 42))
			logger.Warn("Warning message", slog.Bool("enabled", true))

			// Test error logging with a structured StoreError
			testErr := errors.NewTransactionError(errors.OpSave, "storage/sqlite", fmt.Errorf("disk full"))
			logger.LogError(context.Background(), testErr, "Operation failed")

			// Test child loggers
			childLogger := logger.WithComponent(Component("test"))
			childLogger.Info("Child logger message")

			// Test operation logging
			err := logger.LogOperation(
				context.Background(),
				Operation("test_op"),
				Component("test_component"),
				func() error {
					time.Sleep(10 * time.Millisecond)
					return nil
				},
			)
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestLogOperationPropagatesError(t *testing.T) {
	logger := NewLogger(Config{Level: "error", Format: "text", Environment: EnvTest})

	wantErr := fmt.Errorf("boom")
	err := logger.LogOperation(context.Background(), Operation("failing"), Component("test"), func() error {
		return wantErr
	})
	if err != wantErr {
		t.Errorf("expected the callback error back, got: %v", err)
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")
	logger := NewLogger(Config{
		Level:       "info",
		Format:      "json",
		Environment: EnvProduction,
		File:        FileConfig{Path: path, MaxSizeMB: 1},
	})

	logger.Info("persisted line", slog.String("key", "value"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log output in file")
	}
}

func TestGetConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("ENVIRONMENT", EnvProduction)

	config := GetConfigFromEnv()
	if config.Level != "warn" {
		t.Errorf("expected lowercased level, got %q", config.Level)
	}
	if config.Format != "json" {
		t.Errorf("expected lowercased format, got %q", config.Format)
	}
	if config.AddSource {
		t.Error("production config should disable source info")
	}
}
