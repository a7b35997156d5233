package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yucheng/tripledger/internal/docstore"
)

const collectionName = "ai_usage"

// UsageRepository persists daily analysis counters
type UsageRepository struct {
	col docstore.Collection
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(store docstore.Store) *UsageRepository {
	return &UsageRepository{col: store.Collection(collectionName)}
}

func usageKey(ownerID, date string) string {
	return ownerID + ":" + date
}

// Count returns how many analyses the identity has used on the given day
func (r *UsageRepository) Count(ctx context.Context, ownerID, date string) (int, error) {
	doc, err := r.col.Get(ctx, usageKey(ownerID, date))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read usage counter: %w", err)
	}

	var record usageRecord
	if err := json.Unmarshal(doc, &record); err != nil {
		return 0, fmt.Errorf("failed to decode usage counter: %w", err)
	}
	return record.Count, nil
}

// Increment bumps the identity's counter for the given day. One client
// session mutates a user's records at a time, so read-modify-write is
// sufficient here.
func (r *UsageRepository) Increment(ctx context.Context, ownerID, date string) error {
	count, err := r.Count(ctx, ownerID, date)
	if err != nil {
		return err
	}

	doc, err := docstore.Marshal(&usageRecord{OwnerID: ownerID, Date: date, Count: count + 1})
	if err != nil {
		return err
	}
	if err := r.col.Put(ctx, usageKey(ownerID, date), doc); err != nil {
		return fmt.Errorf("failed to update usage counter: %w", err)
	}
	return nil
}
