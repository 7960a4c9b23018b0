package database

import (
	"fmt"
	"strings"
)

// Driver names a task store backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// ParseDriver accepts a backend name and its common aliases in any case.
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg", "pgx":
		return DriverPostgres, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	}
	return "", fmt.Errorf("unsupported database driver: %q", s)
}

// DetectDriver infers the backend from a connection URL. Only postgres:// and
// postgresql:// URLs select PostgreSQL; anything else, including no URL, is a
// SQLite location.
func DetectDriver(url string) Driver {
	scheme, _, found := strings.Cut(url, "://")
	if found {
		switch strings.ToLower(scheme) {
		case "postgres", "postgresql":
			return DriverPostgres
		}
	}
	return DriverSQLite
}
