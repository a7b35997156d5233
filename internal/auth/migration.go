package auth

import (
	"context"
	"fmt"

	"github.com/yucheng/tripledger/internal/expense"
	"github.com/yucheng/tripledger/internal/trip"
)

// Step identifies how far the migration saga progressed. The saga is
// multi-step and best-effort: a failure after partial completion leaves a
// mixed state, and the report carries enough detail for manual recovery.
type Step string

const (
	StepListTrips     Step = "list_trips"
	StepListExpenses  Step = "list_expenses"
	StepCopyTrips     Step = "copy_trips"
	StepCopyExpenses  Step = "copy_expenses"
	StepReownTrips    Step = "reown_trips"
	StepReownExpenses Step = "reown_expenses"
	StepDone          Step = "done"
)

// Report is the migration progress marker returned to the caller, complete
// on success and partial on failure. There is no rollback.
type Report struct {
	Step             Step `json:"step"`
	TripsTotal       int  `json:"tripsTotal"`
	TripsMigrated    int  `json:"tripsMigrated"`
	ExpensesTotal    int  `json:"expensesTotal"`
	ExpensesMigrated int  `json:"expensesMigrated"`
}

func (r *Report) String() string {
	return fmt.Sprintf("step %s: %d/%d trips, %d/%d expenses",
		r.Step, r.TripsMigrated, r.TripsTotal, r.ExpensesMigrated, r.ExpensesTotal)
}

// migrate copies every record owned by fromID to toID under fresh
// identifiers, rewriting trip-reference links on the copied expenses. Used
// on identity collision, where the old records must not clash with the
// permanent identity's existing ones.
func (s *Service) migrate(ctx context.Context, fromID, toID string) (*Report, error) {
	report := &Report{Step: StepListTrips}

	trips, err := s.trips.ListByOwner(ctx, fromID)
	if err != nil {
		return report, fmt.Errorf("failed to enumerate trips: %w", err)
	}
	report.TripsTotal = len(trips)

	report.Step = StepListExpenses
	expenses, err := s.expenses.ListByOwner(ctx, fromID)
	if err != nil {
		return report, fmt.Errorf("failed to enumerate expenses: %w", err)
	}
	report.ExpensesTotal = len(expenses)

	report.Step = StepCopyTrips
	tripIDs := make(map[string]string, len(trips))
	for _, t := range trips {
		copied := *t
		copied.ID = ""
		copied.OwnerID = toID
		newID, err := s.trips.Save(ctx, &copied)
		if err != nil {
			return report, fmt.Errorf("failed to migrate trip %q: %w", t.ID, err)
		}
		tripIDs[t.ID] = newID
		report.TripsMigrated++
	}

	report.Step = StepCopyExpenses
	for _, e := range expenses {
		copied := *e
		copied.ID = ""
		copied.OwnerID = toID
		if newTripID, ok := tripIDs[e.TripID]; ok {
			copied.TripID = newTripID
		}
		if _, _, err := s.expenses.Save(ctx, &copied); err != nil {
			return report, fmt.Errorf("failed to migrate expense %q: %w", e.ID, err)
		}
		report.ExpensesMigrated++
	}

	report.Step = StepDone
	return report, nil
}

// reown re-scopes records in place when the permanent identity owns nothing
// yet; identifiers and trip links are unchanged.
func (s *Service) reown(ctx context.Context, fromID, toID string) (*Report, error) {
	report := &Report{Step: StepListTrips}

	trips, err := s.trips.ListByOwner(ctx, fromID)
	if err != nil {
		return report, fmt.Errorf("failed to enumerate trips: %w", err)
	}
	report.TripsTotal = len(trips)

	report.Step = StepListExpenses
	expenses, err := s.expenses.ListByOwner(ctx, fromID)
	if err != nil {
		return report, fmt.Errorf("failed to enumerate expenses: %w", err)
	}
	report.ExpensesTotal = len(expenses)

	report.Step = StepReownTrips
	for _, t := range trips {
		if err := s.trips.SetOwner(ctx, t.ID, toID); err != nil {
			return report, fmt.Errorf("failed to re-own trip %q: %w", t.ID, err)
		}
		report.TripsMigrated++
	}

	report.Step = StepReownExpenses
	for _, e := range expenses {
		if err := s.expenses.SetOwner(ctx, e.ID, toID); err != nil {
			return report, fmt.Errorf("failed to re-own expense %q: %w", e.ID, err)
		}
		report.ExpensesMigrated++
	}

	report.Step = StepDone
	return report, nil
}

// TripStore is the slice of the trip repository the linker needs.
type TripStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*trip.Trip, error)
	Save(ctx context.Context, t *trip.Trip) (string, error)
	SetOwner(ctx context.Context, id, ownerID string) error
}

// ExpenseStore is the slice of the expense repository the linker needs.
type ExpenseStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*expense.Expense, error)
	Save(ctx context.Context, e *expense.Expense) (string, bool, error)
	SetOwner(ctx context.Context, id, ownerID string) error
}
