package database

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/logger"
	timeprovider "github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/time"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// TestConfig returns an in-memory SQLite configuration private to name
func TestConfig(name string) *Config {
	return &Config{
		Driver:        DriverSQLite,
		Path:          fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeNameChars.ReplaceAllString(name, "_")),
		MaxOpenConns:  1,
		MaxIdleConns:  1,
		QueryTimeout:  5 * time.Second,
		SlowThreshold: time.Second,
		BusyTimeout:   time.Second,
		LogLevel:      "silent",
	}
}

// NewTestManager connects a migrated in-memory database that is closed with the test
func NewTestManager(t testing.TB) *Manager {
	t.Helper()

	return NewTestManagerWithLogger(t, logger.NewNoopLogger())
}

// NewTestManagerWithLogger is NewTestManager with a caller supplied logger
func NewTestManagerWithLogger(t testing.TB, log coreport.Logger) *Manager {
	t.Helper()

	manager := NewManager(TestConfig(t.Name()), log, timeprovider.NewRealTimeProvider())
	if _, err := manager.Connect(); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	if err := manager.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return manager
}
