// Package auth owns the session endpoints: starting a guest session and
// linking it to a permanent identity, including the record migration the
// link performs. It sits above the identity, trip and expense packages so
// that identity itself stays a leaf the middleware can import.
package auth

import (
	"context"
	"errors"

	"github.com/yucheng/tripledger/internal/identity"
)

// ErrMissingPermanentID rejects link requests without a credential subject.
var ErrMissingPermanentID = errors.New("permanent identity id is required")

// Service handles guest sessions and the guest-to-permanent upgrade
type Service struct {
	issuer   *identity.Issuer
	trips    TripStore
	expenses ExpenseStore
}

// NewService creates a new auth service with dependencies injected
func NewService(issuer *identity.Issuer, trips TripStore, expenses ExpenseStore) *Service {
	return &Service{issuer: issuer, trips: trips, expenses: expenses}
}

// StartGuest mints a temporary identity and its session token.
func (s *Service) StartGuest() (string, identity.Identity, error) {
	return s.issuer.IssueGuest()
}

// Link upgrades a temporary identity to the permanent one identified by
// permanentID. When the permanent identity already owns records elsewhere
// (an identity collision), the guest's records are copied under fresh
// identifiers; otherwise they are re-owned in place. Either path is a
// best-effort batch with no rollback: on partial failure the returned
// report marks the step reached and the counts migrated so far.
func (s *Service) Link(ctx context.Context, current identity.Identity, permanentID string) (string, identity.Identity, *Report, error) {
	if !current.Temporary {
		return "", identity.Identity{}, nil, identity.ErrNotTemporary
	}
	if permanentID == "" {
		return "", identity.Identity{}, nil, ErrMissingPermanentID
	}

	linked := identity.Identity{ID: permanentID, Temporary: false}

	existing, err := s.trips.ListByOwner(ctx, permanentID)
	if err != nil {
		return "", identity.Identity{}, nil, err
	}

	var report *Report
	if len(existing) > 0 {
		report, err = s.migrate(ctx, current.ID, permanentID)
	} else {
		report, err = s.reown(ctx, current.ID, permanentID)
	}
	if err != nil {
		return "", identity.Identity{}, report, err
	}

	token, err := s.issuer.Issue(linked)
	if err != nil {
		return "", identity.Identity{}, report, err
	}
	return token, linked, report, nil
}
