package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/ports"
	"os"
	"path/filepath"
	"strings"
)

// OpenStore opens the database selected by driver and reports its dialect.
// Accepted drivers: postgres, pgx, sqlite (the default when empty).
func OpenStore(driver, dbPath, databaseURL string) (*sql.DB, string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "pgx":
		if strings.TrimSpace(databaseURL) == "" {
			return nil, "", errors.New("open store: DATABASE_URL is required for DB_DRIVER=postgres")
		}
		conn, err := db.Open(databaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("open store: %w", err)
		}
		return conn, DialectPostgres, nil
	case "sqlite", "":
		if dbPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
				return nil, "", fmt.Errorf("open store: create sqlite directory: %w", err)
			}
		}
		conn, err := db.OpenSqlite(dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("open store: %w", err)
		}
		return conn, DialectSqlite, nil
	default:
		return nil, "", fmt.Errorf("open store: unsupported DB_DRIVER %q", driver)
	}
}

// NewReadingStore returns the reading repository matching dialect.
func NewReadingStore(conn *sql.DB, dialect string) ports.ReadingStore {
	if dialect == DialectPostgres {
		return NewSQLReadingRepository(conn)
	}
	return NewSqliteReadingRepository(conn)
}
