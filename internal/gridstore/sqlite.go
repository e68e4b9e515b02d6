package gridstore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/supershift/gridsync/internal/engine"
	"github.com/supershift/gridsync/internal/grid"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore is a Store backed by a local SQLite database. Grids are
// stored as deterministic JSON payloads keyed by id; writing the same grid
// twice produces byte-identical payloads.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens a SQLite-backed store at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - a single connection, since SQLite allows one writer at a time
//
// This function is idempotent - safe to call multiple times.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Write stores the grid under id, replacing any previous payload.
// Presentation instructions are ignored: a database has nothing to render.
func (s *SQLiteStore) Write(ctx context.Context, id string, g *grid.Grid, _ []engine.Instruction) error {
	payload, err := grid.Marshal(g)
	if err != nil {
		return fmt.Errorf("write grid %s: %w", id, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO grids (id, record_type, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET record_type = excluded.record_type, payload = excluded.payload
	`, id, g.RecordType, string(payload))
	if err != nil {
		return fmt.Errorf("write grid %s: %w", id, err)
	}

	return nil
}

// Read returns the grid stored under id, or ErrNotFound.
func (s *SQLiteStore) Read(ctx context.Context, id string) (*grid.Grid, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM grids WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("read grid %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read grid %s: %w", id, err)
	}

	g, err := grid.Unmarshal([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("read grid %s: %w", id, err)
	}
	return g, nil
}

// List returns the stored grid ids with their record types, in id order.
// UUIDv7 ids make that creation order.
func (s *SQLiteStore) List(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, record_type FROM grids ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list grids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, recordType string
		if err := rows.Scan(&id, &recordType); err != nil {
			return nil, fmt.Errorf("list grids: %w", err)
		}
		out[id] = recordType
	}
	return out, rows.Err()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
