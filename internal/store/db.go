package store

import (
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
)

// NewDB opens the status database at path. An empty path or ":memory:" keeps it in memory.
func NewDB(path string) (*sql.DB, error) {
	if path == "" {
		path = ":memory:"
	}

	conn, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open status database %s: %w", path, err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping status database %s: %w", path, err)
	}

	// one connection so that every caller sees the same in-memory database
	conn.SetMaxOpenConns(1)

	return conn, nil
}
