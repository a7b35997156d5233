package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/yucheng/tripledger/internal/docstore"
)

const collectionName = "trips"

// Repository handles trip persistence over the document store
type Repository struct {
	col docstore.Collection
}

// NewRepository creates a new trip repository
func NewRepository(store docstore.Store) *Repository {
	return &Repository{col: store.Collection(collectionName)}
}

// Get retrieves a trip by its ID
func (r *Repository) Get(ctx context.Context, id string) (*Trip, error) {
	doc, err := r.col.Get(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	trip := &Trip{}
	if err := json.Unmarshal(doc, trip); err != nil {
		return nil, fmt.Errorf("failed to decode trip: %w", err)
	}
	return trip, nil
}

// ListByOwner returns all trips owned by the caller, newest start date
// first. It never partially returns.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]*Trip, error) {
	docs, err := r.col.Query(ctx, "ownerId", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	trips := make([]*Trip, 0, len(docs))
	for _, doc := range docs {
		trip := &Trip{}
		if err := json.Unmarshal(doc, trip); err != nil {
			return nil, fmt.Errorf("failed to decode trip: %w", err)
		}
		trips = append(trips, trip)
	}

	sort.Slice(trips, func(i, j int) bool {
		if trips[i].StartDate != trips[j].StartDate {
			return trips[i].StartDate > trips[j].StartDate
		}
		return trips[i].ID > trips[j].ID
	})

	return trips, nil
}

// Save creates or overwrites a trip keyed by its identifier, assigning one
// if missing
func (r *Repository) Save(ctx context.Context, trip *Trip) (string, error) {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}

	doc, err := docstore.Marshal(trip)
	if err != nil {
		return "", err
	}
	if err := r.col.Put(ctx, trip.ID, doc); err != nil {
		return "", fmt.Errorf("failed to save trip: %w", err)
	}
	return trip.ID, nil
}

// SetOwner re-scopes a trip to a different identity
func (r *Repository) SetOwner(ctx context.Context, id, ownerID string) error {
	if err := r.col.Patch(ctx, id, map[string]interface{}{"ownerId": ownerID}); err != nil {
		return fmt.Errorf("failed to update trip owner: %w", err)
	}
	return nil
}

// Delete removes the trip record only; cascading to expenses is the
// service's saga.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return nil
}
