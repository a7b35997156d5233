package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newTestStore(t *testing.T, maxBytes int) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:", maxBytes)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	col := newTestStore(t, 0).Collection("trips")

	doc := []byte(`{"id":"t1","ownerId":"u1","name":"Tokyo"}`)
	if err := col.Put(ctx, "t1", doc); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := col.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("Get = %s, want %s", got, doc)
	}

	// Overwrite
	doc2 := []byte(`{"id":"t1","ownerId":"u1","name":"Osaka"}`)
	if err := col.Put(ctx, "t1", doc2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, _ = col.Get(ctx, "t1")
	if !strings.Contains(string(got), "Osaka") {
		t.Errorf("overwrite not applied: %s", got)
	}

	if err := col.Delete(ctx, "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := col.Get(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}

	// Deleting a missing document is not an error
	if err := col.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing = %v, want nil", err)
	}
}

func TestQueryByField(t *testing.T) {
	ctx := context.Background()
	col := newTestStore(t, 0).Collection("expenses")

	docs := map[string]string{
		"e1": `{"id":"e1","tripId":"t1","ownerId":"u1"}`,
		"e2": `{"id":"e2","tripId":"t1","ownerId":"u2"}`,
		"e3": `{"id":"e3","tripId":"t2","ownerId":"u1"}`,
	}
	for id, doc := range docs {
		if err := col.Put(ctx, id, []byte(doc)); err != nil {
			t.Fatalf("Put %s: %v", id, err)
		}
	}

	got, err := col.Query(ctx, "tripId", "t1")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Query tripId=t1 returned %d docs, want 2", len(got))
	}

	got, err = col.Query(ctx, "tripId", "none")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Query tripId=none returned %d docs, want 0", len(got))
	}
}

func TestCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 0)

	trips := store.Collection("trips")
	expenses := store.Collection("expenses")

	if err := trips.Put(ctx, "x", []byte(`{"id":"x"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := expenses.Get(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-collection Get = %v, want ErrNotFound", err)
	}
}

func TestPutTooLarge(t *testing.T) {
	ctx := context.Background()
	col := newTestStore(t, 64).Collection("expenses")

	big := []byte(`{"id":"e1","receiptImage":"` + strings.Repeat("A", 100) + `"}`)
	err := col.Put(ctx, "e1", big)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Put oversized = %v, want ErrTooLarge", err)
	}

	// The stored record must be untouched
	if _, err := col.Get(ctx, "e1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("oversized Put left a record behind: %v", err)
	}
}

func TestPatch(t *testing.T) {
	ctx := context.Background()
	col := newTestStore(t, 0).Collection("expenses")

	if err := col.Put(ctx, "e1", []byte(`{"id":"e1","repaid":false,"ownerId":"u1"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := col.Patch(ctx, "e1", map[string]interface{}{"repaid": true}); err != nil {
		t.Fatalf("Patch: %v", err)
	}

	got, _ := col.Get(ctx, "e1")
	var doc map[string]interface{}
	if err := json.Unmarshal(got, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc["repaid"] != true {
		t.Errorf("repaid = %v, want true", doc["repaid"])
	}
	if doc["ownerId"] != "u1" {
		t.Errorf("Patch clobbered ownerId: %v", doc["ownerId"])
	}

	if err := col.Patch(ctx, "missing", map[string]interface{}{"repaid": true}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Patch missing = %v, want ErrNotFound", err)
	}
}

func TestMarshalStripsNulls(t *testing.T) {
	type record struct {
		ID     string   `json:"id"`
		Budget *float64 `json:"budget"`
	}

	doc, err := Marshal(&record{ID: "t1"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(doc), "budget") {
		t.Errorf("Marshal kept null field: %s", doc)
	}
	if !strings.Contains(string(doc), `"id":"t1"`) {
		t.Errorf("Marshal dropped set field: %s", doc)
	}
}
