package expense

import (
	"context"
	"errors"

	"github.com/yucheng/tripledger/internal/expense/split"
)

// Common errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrNotOwner        = errors.New("expense belongs to another identity")
	ErrMissingTrip     = errors.New("trip id is required")
	ErrMissingDate     = errors.New("date is required")
)

// Service handles expense business logic
type Service struct {
	repo *Repository
}

// NewService creates a new expense service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// build assembles an Expense from a request, coercing invalid numeric input
// to 0 and computing the derived home-currency fields.
func build(id, ownerID string, req *SaveExpenseRequest) *Expense {
	amount := split.Coerce(req.OriginalAmount)
	rate := split.Coerce(req.ExchangeRate)
	count := req.SplitCount
	if count < 1 {
		count = 1
	}
	result := split.Compute(amount, rate, count)

	items := req.Items
	if items == nil {
		items = []Item{}
	}

	return &Expense{
		ID:               id,
		OwnerID:          ownerID,
		TripID:           req.TripID,
		StoreName:        req.StoreName,
		Date:             req.Date,
		Items:            items,
		OriginalCurrency: req.OriginalCurrency,
		OriginalAmount:   amount,
		ExchangeRate:     rate,
		TotalHome:        result.TotalHome,
		SplitCount:       count,
		MyShare:          result.MyShare,
		DebtOwed:         result.DebtOwed,
		Repaid:           req.Repaid,
		ReceiptImage:     req.ReceiptImage,
	}
}

func validate(req *SaveExpenseRequest) error {
	if req.TripID == "" {
		return ErrMissingTrip
	}
	if req.Date == "" {
		return ErrMissingDate
	}
	return nil
}

// Create saves a new expense under a fresh identifier. The returned flag
// reports whether the receipt image was dropped to fit the size limit.
func (s *Service) Create(ctx context.Context, ownerID string, req *SaveExpenseRequest) (*Expense, bool, error) {
	if err := validate(req); err != nil {
		return nil, false, err
	}

	expense := build("", ownerID, req)
	_, dropped, err := s.repo.Save(ctx, expense)
	if err != nil {
		return nil, false, err
	}
	return expense, dropped, nil
}

// Update overwrites an existing expense (full replace) after verifying
// ownership. Same oversized-document fallback as Create.
func (s *Service) Update(ctx context.Context, ownerID, id string, req *SaveExpenseRequest) (*Expense, bool, error) {
	if err := validate(req); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, ErrExpenseNotFound
	}
	if existing.OwnerID != ownerID {
		return nil, false, ErrNotOwner
	}

	expense := build(id, ownerID, req)
	_, dropped, err := s.repo.Save(ctx, expense)
	if err != nil {
		return nil, false, err
	}
	return expense, dropped, nil
}

// ListByTrip retrieves the caller's expenses for a trip, newest first
func (s *Service) ListByTrip(ctx context.Context, tripID, ownerID string) ([]*Expense, error) {
	return s.repo.ListByTrip(ctx, tripID, ownerID)
}

// SetRepaid toggles the repaid flag. The flag is only meaningful when the
// expense carries a debt, but toggling it on a debt-free expense is harmless.
func (s *Service) SetRepaid(ctx context.Context, ownerID, id string, repaid bool) (*Expense, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrExpenseNotFound
	}
	if existing.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	if err := s.repo.SetRepaid(ctx, id, repaid); err != nil {
		return nil, err
	}
	existing.Repaid = repaid
	return existing, nil
}

// Delete removes an expense after verifying ownership
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrExpenseNotFound
	}
	if existing.OwnerID != ownerID {
		return ErrNotOwner
	}

	return s.repo.Delete(ctx, id)
}
