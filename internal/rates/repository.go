package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yucheng/tripledger/internal/docstore"
)

const collectionName = "rates"

// Repository persists the per-currency daily rate cache
type Repository struct {
	col docstore.Collection
}

// NewRepository creates a new rate cache repository
func NewRepository(store docstore.Store) *Repository {
	return &Repository{col: store.Collection(collectionName)}
}

// GetCached returns the cached rate for the currency if it is dated the
// given local day. A stale or missing entry is a miss, not an error.
func (r *Repository) GetCached(ctx context.Context, currency, date string) (float64, bool, error) {
	doc, err := r.col.Get(ctx, currency)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read rate cache: %w", err)
	}

	var cached cachedRate
	if err := json.Unmarshal(doc, &cached); err != nil {
		return 0, false, fmt.Errorf("failed to decode cached rate: %w", err)
	}
	if cached.Date != date {
		return 0, false, nil
	}
	return cached.Rate, true, nil
}

// PutCached stores today's rate for the currency, overwriting any stale
// entry. Exactly one entry exists per currency.
func (r *Repository) PutCached(ctx context.Context, currency, date string, rate float64) error {
	doc, err := docstore.Marshal(&cachedRate{Currency: currency, Date: date, Rate: rate})
	if err != nil {
		return err
	}
	if err := r.col.Put(ctx, currency, doc); err != nil {
		return fmt.Errorf("failed to cache rate: %w", err)
	}
	return nil
}
