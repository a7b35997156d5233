// Package docstore provides an opaque keyed document store with simple
// query-by-field support, the persistence substrate for trips, expenses,
// cached exchange rates and AI usage counters.
//
// Two backends implement the same interface: PostgreSQL (the remote store)
// and SQLite (the local fallback store). Service code never sees which one
// it is talking to.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Typed storage errors. Callers match with errors.Is.
var (
	ErrNotFound    = errors.New("document not found")
	ErrUnavailable = errors.New("document store unavailable")
	ErrWriteFailed = errors.New("document write failed")
	ErrTooLarge    = errors.New("document exceeds size limit")
)

// DefaultMaxDocumentBytes is the per-document size limit applied when a
// store is constructed with a non-positive limit.
const DefaultMaxDocumentBytes = 1 << 20

// Collection is an opaque keyed store for one record type.
type Collection interface {
	// Get returns the raw document for id, or ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)

	// Query returns every document whose top-level field equals value.
	// It never partially returns: any scan error fails the whole call.
	Query(ctx context.Context, field, value string) ([][]byte, error)

	// Put creates or overwrites the document keyed by id. Documents larger
	// than the store's size limit fail with ErrTooLarge without touching
	// the stored record.
	Put(ctx context.Context, id string, doc []byte) error

	// Patch merges the given top-level fields into an existing document.
	Patch(ctx context.Context, id string, fields map[string]interface{}) error

	// Delete removes the document keyed by id. Deleting a missing document
	// is not an error.
	Delete(ctx context.Context, id string) error
}

// Store provides named collections over one backend.
type Store interface {
	Collection(name string) Collection
	Close() error
}

// Marshal serializes a record for storage, stripping null-valued fields.
// The store rejects nulls, so the strip is an explicit serialization step
// rather than a property of the record types.
func Marshal(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	for k, val := range m {
		if val == nil {
			delete(m, k)
		}
	}

	doc, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return doc, nil
}
