package trip

import (
	"context"
	"errors"
	"testing"

	"github.com/yucheng/tripledger/internal/docstore"
	"github.com/yucheng/tripledger/internal/expense"
)

func newTestStore(t *testing.T) docstore.Store {
	t.Helper()
	store, err := docstore.NewSQLiteStore(":memory:", 0)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewService(NewRepository(store), expense.NewRepository(store))

	created, err := svc.Create(ctx, "u1", &SaveTripRequest{
		Name: "Tokyo", StartDate: "2024-01-01", EndDate: "2024-01-05",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create did not assign an id")
	}
	if created.OwnerID != "u1" {
		t.Errorf("OwnerID = %q, want u1", created.OwnerID)
	}

	trips, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(trips) != 1 || trips[0].Name != "Tokyo" {
		t.Errorf("List = %+v, want the Tokyo trip", trips)
	}

	// Trips are scoped to their owner.
	other, err := svc.List(ctx, "u2")
	if err != nil {
		t.Fatalf("List other: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("List for other identity returned %d trips, want 0", len(other))
	}
}

func TestListSortedByStartDateDescending(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewService(NewRepository(store), expense.NewRepository(store))

	for _, tr := range []SaveTripRequest{
		{Name: "old", StartDate: "2023-05-01", EndDate: "2023-05-03"},
		{Name: "new", StartDate: "2024-02-01", EndDate: "2024-02-03"},
		{Name: "mid", StartDate: "2023-11-01", EndDate: "2023-11-03"},
	} {
		req := tr
		if _, err := svc.Create(ctx, "u1", &req); err != nil {
			t.Fatalf("Create %s: %v", tr.Name, err)
		}
	}

	trips, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"new", "mid", "old"}
	for i, name := range want {
		if trips[i].Name != name {
			t.Errorf("trips[%d] = %q, want %q", i, trips[i].Name, name)
		}
	}
}

func TestValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewService(NewRepository(store), expense.NewRepository(store))

	if _, err := svc.Create(ctx, "u1", &SaveTripRequest{StartDate: "2024-01-01", EndDate: "2024-01-02"}); !errors.Is(err, ErrMissingName) {
		t.Errorf("Create without name = %v, want ErrMissingName", err)
	}
	if _, err := svc.Create(ctx, "u1", &SaveTripRequest{Name: "x"}); !errors.Is(err, ErrMissingDates) {
		t.Errorf("Create without dates = %v, want ErrMissingDates", err)
	}
}

func TestUpdateOwnership(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewService(NewRepository(store), expense.NewRepository(store))

	created, err := svc.Create(ctx, "u1", &SaveTripRequest{Name: "Tokyo", StartDate: "2024-01-01", EndDate: "2024-01-05"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := &SaveTripRequest{Name: "Kyoto", StartDate: "2024-01-01", EndDate: "2024-01-05"}
	if _, err := svc.Update(ctx, "u2", created.ID, req); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Update by other identity = %v, want ErrNotOwner", err)
	}

	updated, err := svc.Update(ctx, "u1", created.ID, req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Kyoto" {
		t.Errorf("Name = %q, want Kyoto", updated.Name)
	}
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	expenseRepo := expense.NewRepository(store)
	expenseSvc := expense.NewService(expenseRepo)
	svc := NewService(NewRepository(store), expenseRepo)

	created, err := svc.Create(ctx, "u1", &SaveTripRequest{Name: "Tokyo", StartDate: "2024-01-01", EndDate: "2024-01-05"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 3; i++ {
		_, _, err := expenseSvc.Create(ctx, "u1", &expense.SaveExpenseRequest{
			TripID: created.ID, Date: "2024-01-02T10:00:00Z",
			OriginalCurrency: "JPY", OriginalAmount: 100, ExchangeRate: 0.22,
		})
		if err != nil {
			t.Fatalf("Create expense: %v", err)
		}
	}

	progress, err := svc.Delete(ctx, "u1", created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if progress.Step != DeleteStepDone || progress.ExpensesDeleted != 3 {
		t.Errorf("progress = %+v, want done with 3 expenses deleted", progress)
	}

	remaining, err := expenseSvc.ListByTrip(ctx, created.ID, "u1")
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("ListByTrip after delete = %d expenses, want empty list", len(remaining))
	}

	trips, _ := svc.List(ctx, "u1")
	if len(trips) != 0 {
		t.Errorf("List after delete = %d trips, want 0", len(trips))
	}
}

func TestDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewService(NewRepository(store), expense.NewRepository(store))

	if _, err := svc.Delete(ctx, "u1", "missing"); !errors.Is(err, ErrTripNotFound) {
		t.Errorf("Delete missing = %v, want ErrTripNotFound", err)
	}
}
