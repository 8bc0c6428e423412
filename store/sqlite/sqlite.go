// Package sqlite provides a persistent extended-attribute store backed by
// SQLite. It emulates per-file extended attributes on hosts where the native
// mechanism is unavailable and backs the CLI's portable store mode.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/macmeta/macmeta/data"
	"github.com/macmeta/macmeta/store"
)

type Store struct {
	db *sql.DB
}

// New opens (or creates) the attribute database at dbPath. The path can be
// ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// A single connection keeps ":memory:" databases coherent across calls.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// initSchema creates the database schema.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS file_attributes (
		path       TEXT NOT NULL,
		name       TEXT NOT NULL,
		value      BLOB NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (path, name)
	);
	CREATE INDEX IF NOT EXISTS idx_file_attributes_path ON file_attributes(path);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Name returns the identifier name defined for this store
func (*Store) Name() string {
	return "sqlite"
}

// Open is part of the lifecycle behaviour and gets called before first use.
func (s *Store) Open(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close is part of the lifecycle behaviour and gets called when done.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

// GetCapabilities returns the capabilities supported by this store.
func (s *Store) GetCapabilities() *store.Capabilities {
	return &store.Capabilities{
		Capabilities: []store.Capability{
			store.CapabilityPersistent,
			store.CapabilityListOrdered,
		},
	}
}

func (s *Store) Get(ctx context.Context, path, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM file_attributes WHERE path = ? AND name = ?`,
		path, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, data.ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, path, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO file_attributes (path, name, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (path, name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, path, key, value, time.Now().Unix())
	return err
}

func (s *Store) Remove(ctx context.Context, path, key string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM file_attributes WHERE path = ? AND name = ?`, path, key)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return data.ErrNotExist
	}
	return nil
}

func (s *Store) List(ctx context.Context, path string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM file_attributes WHERE path = ? ORDER BY name`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		keys = append(keys, name)
	}
	return keys, rows.Err()
}
