package expense

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/yucheng/tripledger/internal/docstore"
)

const collectionName = "expenses"

// Repository handles expense persistence over the document store
type Repository struct {
	col docstore.Collection
}

// NewRepository creates a new expense repository
func NewRepository(store docstore.Store) *Repository {
	return &Repository{col: store.Collection(collectionName)}
}

// Get retrieves an expense by its ID
func (r *Repository) Get(ctx context.Context, id string) (*Expense, error) {
	doc, err := r.col.Get(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	expense := &Expense{}
	if err := json.Unmarshal(doc, expense); err != nil {
		return nil, fmt.Errorf("failed to decode expense: %w", err)
	}
	return expense, nil
}

// ListByTrip retrieves all expenses for a trip owned by the caller, sorted
// by occurrence date descending (newest first, ties broken by id).
func (r *Repository) ListByTrip(ctx context.Context, tripID, ownerID string) ([]*Expense, error) {
	docs, err := r.col.Query(ctx, "tripId", tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	expenses := make([]*Expense, 0, len(docs))
	for _, doc := range docs {
		expense := &Expense{}
		if err := json.Unmarshal(doc, expense); err != nil {
			return nil, fmt.Errorf("failed to decode expense: %w", err)
		}
		if expense.OwnerID != ownerID {
			continue
		}
		expenses = append(expenses, expense)
	}

	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].Date != expenses[j].Date {
			return expenses[i].Date > expenses[j].Date
		}
		return expenses[i].ID > expenses[j].ID
	})

	return expenses, nil
}

// ListByOwner retrieves every expense owned by the given identity
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]*Expense, error) {
	docs, err := r.col.Query(ctx, "ownerId", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	expenses := make([]*Expense, 0, len(docs))
	for _, doc := range docs {
		expense := &Expense{}
		if err := json.Unmarshal(doc, expense); err != nil {
			return nil, fmt.Errorf("failed to decode expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

// ListIDsByTrip returns the ids of every expense referencing the trip,
// regardless of owner. The cascading delete trusts the parent-level
// ownership check and does not re-validate per child.
func (r *Repository) ListIDsByTrip(ctx context.Context, tripID string) ([]string, error) {
	docs, err := r.col.Query(ctx, "tripId", tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		var partial struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(doc, &partial); err != nil {
			return nil, fmt.Errorf("failed to decode expense: %w", err)
		}
		ids = append(ids, partial.ID)
	}
	return ids, nil
}

// Save creates or overwrites an expense keyed by its identifier, assigning
// one if missing. When the serialized document exceeds the store's size
// limit and carries a receipt image, Save retries exactly once with the
// image omitted; the returned flag reports whether the image was dropped.
func (r *Repository) Save(ctx context.Context, expense *Expense) (string, bool, error) {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}

	doc, err := docstore.Marshal(expense)
	if err != nil {
		return "", false, err
	}

	err = r.col.Put(ctx, expense.ID, doc)
	if err == nil {
		return expense.ID, false, nil
	}
	if !errors.Is(err, docstore.ErrTooLarge) || expense.ReceiptImage == "" {
		return "", false, fmt.Errorf("failed to save expense: %w", err)
	}

	// Oversized document: drop the embedded receipt image and retry once.
	stripped := *expense
	stripped.ReceiptImage = ""
	doc, err = docstore.Marshal(&stripped)
	if err != nil {
		return "", false, err
	}
	if err := r.col.Put(ctx, stripped.ID, doc); err != nil {
		return "", false, fmt.Errorf("failed to save expense without image: %w", err)
	}
	expense.ReceiptImage = ""

	return expense.ID, true, nil
}

// SetRepaid partially updates the repaid flag on an expense
func (r *Repository) SetRepaid(ctx context.Context, id string, repaid bool) error {
	if err := r.col.Patch(ctx, id, map[string]interface{}{"repaid": repaid}); err != nil {
		return fmt.Errorf("failed to update repaid flag: %w", err)
	}
	return nil
}

// SetOwner re-scopes an expense to a different identity
func (r *Repository) SetOwner(ctx context.Context, id, ownerID string) error {
	if err := r.col.Patch(ctx, id, map[string]interface{}{"ownerId": ownerID}); err != nil {
		return fmt.Errorf("failed to update expense owner: %w", err)
	}
	return nil
}

// Delete removes an expense by its identifier
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}
