package storage

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SchemaVersion is stored in PRAGMA user_version. Bump it whenever the player
// column set changes; older databases must be dropped and re-aggregated.
const SchemaVersion = 1

var (
	// ErrNoRuns is returned when a run is requested but none matches.
	ErrNoRuns = errors.New("no stored runs")
	// ErrSchemaVersion is returned by Open for a database written by an
	// incompatible version.
	ErrSchemaVersion = errors.New("incompatible database schema")
)

// DB wraps a sql.DB for the season stats store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at path, applies the schema and
// checks its version.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Each ":memory:" connection is its own database.
	conn.SetMaxOpenConns(1)

	var version int
	if err := conn.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		conn.Close()
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	if version != 0 && version != SchemaVersion {
		conn.Close()
		return nil, fmt.Errorf("%w: %s has version %d, want %d (run 'fbmetrics drop --force')",
			ErrSchemaVersion, path, version, SchemaVersion)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if _, err := conn.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, SchemaVersion)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write schema version: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
