package docstore

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore implements Store over a PostgreSQL documents table.
type PostgresStore struct {
	db       *sql.DB
	maxBytes int
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore wraps an open database connection. maxBytes limits the
// serialized size of a single document; pass 0 for the default.
func NewPostgresStore(db *sql.DB, maxBytes int) *PostgresStore {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDocumentBytes
	}
	return &PostgresStore{db: db, maxBytes: maxBytes}
}

// Collection returns a named collection view over the shared table.
func (s *PostgresStore) Collection(name string) Collection {
	return &pgCollection{store: s, name: name}
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

type pgCollection struct {
	store *PostgresStore
	name  string
}

func (c *pgCollection) Get(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := c.store.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
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

func (c *pgCollection) Query(ctx context.Context, field, value string) ([][]byte, error) {
	rows, err := c.store.db.QueryContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND data->>$2 = $3`,
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

func (c *pgCollection) Put(ctx context.Context, id string, doc []byte) error {
	if len(doc) > c.store.maxBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(doc), c.store.maxBytes)
	}

	_, err := c.store.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`,
		c.name, id, doc,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to put document: %v", ErrWriteFailed, err)
	}
	return nil
}

func (c *pgCollection) Patch(ctx context.Context, id string, fields map[string]interface{}) error {
	patch, err := Marshal(fields)
	if err != nil {
		return err
	}

	result, err := c.store.db.ExecContext(ctx,
		`UPDATE documents SET data = data || $3::jsonb WHERE collection = $1 AND id = $2`,
		c.name, id, patch,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to patch document: %v", ErrWriteFailed, err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *pgCollection) Delete(ctx context.Context, id string) error {
	_, err := c.store.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		c.name, id,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to delete document: %v", ErrWriteFailed, err)
	}
	return nil
}
