package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Config holds task store connection settings.
type Config struct {
	// Driver selects the backend. Empty means DetectDriver(URL).
	Driver Driver

	// URL is the PostgreSQL connection string.
	URL string

	// SQLitePath is the SQLite database file. Defaults to ~/.tasktuner/tasks.db.
	SQLitePath string

	// MaxConns caps the PostgreSQL pool size.
	MaxConns int
}

// Opener opens a connection for one driver.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var (
	openersMu sync.RWMutex
	openers   = make(map[Driver]Opener)
)

// Register makes a driver available to NewConnection. Driver packages call it
// from init, so a blank import enables the backend.
func Register(driver Driver, open Opener) {
	openersMu.Lock()
	defer openersMu.Unlock()
	openers[driver] = open
}

// NewConnection opens a connection with the opener registered for the
// configured driver.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	if cfg.Driver == "" {
		cfg.Driver = DetectDriver(cfg.URL)
	}

	openersMu.RLock()
	open, ok := openers[cfg.Driver]
	openersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("database driver %q is not registered", cfg.Driver)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath returns ~/.tasktuner/tasks.db, or ./.tasktuner/tasks.db
// when the home directory is unknown.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".tasktuner", "tasks.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
