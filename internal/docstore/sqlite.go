package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// SQLiteStore implements Store over a local SQLite file, the fallback used
// when the remote store is not configured or unreachable at startup.
type SQLiteStore struct {
	db       *sql.DB
	maxBytes int
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at dbPath and runs
// migrations. Use ":memory:" for an ephemeral store in tests.
func NewSQLiteStore(dbPath string, maxBytes int) (*SQLiteStore, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDocumentBytes
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, maxBytes: maxBytes}, nil
}

// Collection returns a named collection view over the shared table.
func (s *SQLiteStore) Collection(name string) Collection {
	return &sqliteCollection{store: s, name: name}
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type sqliteCollection struct {
	store *SQLiteStore
	name  string
}

func (c *sqliteCollection) Get(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := c.store.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		c.name, id,
	).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to get document: %v", ErrUnavailable, err)
	}
	return data, nil
}

func (c *sqliteCollection) Query(ctx context.Context, field, value string) ([][]byte, error) {
	rows, err := c.store.db.QueryContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND json_extract(data, '$.' || ?) = ?`,
		c.name, field, value,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query documents: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%w: failed to scan document: %v", ErrUnavailable, err)
		}
		docs = append(docs, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read documents: %v", ErrUnavailable, err)
	}
	return docs, nil
}

func (c *sqliteCollection) Put(ctx context.Context, id string, doc []byte) error {
	if len(doc) > c.store.maxBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(doc), c.store.maxBytes)
	}

	_, err := c.store.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data`,
		c.name, id, string(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to put document: %v", ErrWriteFailed, err)
	}
	return nil
}

func (c *sqliteCollection) Patch(ctx context.Context, id string, fields map[string]interface{}) error {
	existing, err := c.Get(ctx, id)
	if err != nil {
		return err
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(existing, &doc); err != nil {
		return fmt.Errorf("%w: failed to decode stored document: %v", ErrWriteFailed, err)
	}
	for k, v := range fields {
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: failed to encode patched document: %v", ErrWriteFailed, err)
	}
	return c.Put(ctx, id, merged)
}

func (c *sqliteCollection) Delete(ctx context.Context, id string) error {
	_, err := c.store.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		c.name, id,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to delete document: %v", ErrWriteFailed, err)
	}
	return nil
}
