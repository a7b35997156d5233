package trip

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrTripNotFound = errors.New("trip not found")
	ErrNotOwner     = errors.New("trip belongs to another identity")
	ErrMissingName  = errors.New("trip name is required")
	ErrMissingDates = errors.New("start and end dates are required")
)

// ExpenseDeleter is the slice of the expense repository the cascading
// delete needs. Children are looked up by tripId only; the ownership check
// happens once, on the parent.
type ExpenseDeleter interface {
	ListIDsByTrip(ctx context.Context, tripID string) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// DeleteStep identifies how far the cascading delete progressed.
type DeleteStep string

const (
	DeleteStepTrip     DeleteStep = "trip"
	DeleteStepChildren DeleteStep = "expenses"
	DeleteStepDone     DeleteStep = "done"
)

// DeleteProgress is the recorded progress marker for the two-phase delete.
// The cascade is best-effort, not atomic: a failure deleting children after
// the trip record is gone leaves orphaned expenses, reported here.
type DeleteProgress struct {
	Step            DeleteStep `json:"step"`
	ExpensesTotal   int        `json:"expensesTotal"`
	ExpensesDeleted int        `json:"expensesDeleted"`
}

// Service handles trip business logic
type Service struct {
	repo     *Repository
	expenses ExpenseDeleter
}

// NewService creates a new trip service with dependencies injected
func NewService(repo *Repository, expenses ExpenseDeleter) *Service {
	return &Service{repo: repo, expenses: expenses}
}

// List returns the caller's trips
func (s *Service) List(ctx context.Context, ownerID string) ([]*Trip, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Create saves a new trip under a fresh identifier
func (s *Service) Create(ctx context.Context, ownerID string, req *SaveTripRequest) (*Trip, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	trip := &Trip{
		OwnerID:   ownerID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Budget:    req.Budget,
	}
	if _, err := s.repo.Save(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// Update overwrites an existing trip after verifying ownership
func (s *Service) Update(ctx context.Context, ownerID, id string, req *SaveTripRequest) (*Trip, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrTripNotFound
	}
	if existing.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	trip := &Trip{
		ID:        id,
		OwnerID:   ownerID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Budget:    req.Budget,
	}
	if _, err := s.repo.Save(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// Delete removes a trip and all expenses referencing it as a best-effort
// two-phase delete: the trip record first, then the children. The returned
// progress marker is complete on success and partial on failure.
func (s *Service) Delete(ctx context.Context, ownerID, id string) (*DeleteProgress, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrTripNotFound
	}
	if existing.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	progress := &DeleteProgress{Step: DeleteStepTrip}
	if err := s.repo.Delete(ctx, id); err != nil {
		return progress, err
	}

	progress.Step = DeleteStepChildren
	ids, err := s.expenses.ListIDsByTrip(ctx, id)
	if err != nil {
		return progress, fmt.Errorf("trip deleted but expenses could not be enumerated: %w", err)
	}
	progress.ExpensesTotal = len(ids)

	for _, expenseID := range ids {
		if err := s.expenses.Delete(ctx, expenseID); err != nil {
			return progress, fmt.Errorf("trip deleted but %d of %d expenses remain: %w",
				progress.ExpensesTotal-progress.ExpensesDeleted, progress.ExpensesTotal, err)
		}
		progress.ExpensesDeleted++
	}

	progress.Step = DeleteStepDone
	return progress, nil
}

func validate(req *SaveTripRequest) error {
	if req.Name == "" {
		return ErrMissingName
	}
	if req.StartDate == "" || req.EndDate == "" {
		return ErrMissingDates
	}
	return nil
}
