package rates

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ratePrompt asks for a bare number so the first numeric token is the rate.
const ratePrompt = "You are a currency rate assistant. Reply with ONLY the current exchange rate as a plain number, no symbols, no words."

var numberPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// Lookup is the external rate source, satisfied by the ai client.
type Lookup interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Service resolves exchange rates: home currency short-circuits to 1, a
// same-day cached value wins, otherwise the external lookup runs. A failed
// lookup yields rate 1 and is never cached, so the next call retries.
type Service struct {
	repo   *Repository
	lookup Lookup
	home   string
	now    func() time.Time
}

// NewService creates a new rate resolver
func NewService(repo *Repository, lookup Lookup, homeCurrency string) *Service {
	return &Service{
		repo:   repo,
		lookup: lookup,
		home:   strings.ToUpper(homeCurrency),
		now:    time.Now,
	}
}

// Resolve returns the original-currency-to-home-currency rate for the given
// currency code.
func (s *Service) Resolve(ctx context.Context, currency string) Rate {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" || currency == s.home {
		return Rate{Rate: 1, Source: SourceDefault}
	}

	today := s.now().Format("2006-01-02")

	cached, ok, err := s.repo.GetCached(ctx, currency, today)
	if err != nil {
		// A broken cache read degrades to a fresh lookup.
		slog.Warn("rate cache read failed", "currency", currency, "error", err)
	}
	if ok {
		return Rate{Rate: cached, Source: SourceCache}
	}

	prompt := fmt.Sprintf("What is the exchange rate from 1 %s to %s today?", currency, s.home)
	reply, err := s.lookup.Complete(ctx, ratePrompt, prompt)
	if err != nil {
		slog.Warn("rate lookup failed", "currency", currency, "error", err)
		return Rate{Rate: 1, Source: SourceError}
	}

	rate := parseFirstNumber(reply)
	if rate <= 0 {
		return Rate{Rate: 1, Source: SourceFailed}
	}

	if err := s.repo.PutCached(ctx, currency, today, rate); err != nil {
		slog.Warn("rate cache write failed", "currency", currency, "error", err)
	}
	return Rate{Rate: rate, Source: SourceExternal}
}

// parseFirstNumber extracts the first numeric token from the lookup reply,
// or 0 when none is present.
func parseFirstNumber(text string) float64 {
	token := numberPattern.FindString(text)
	if token == "" {
		return 0
	}
	n, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0
	}
	return n
}
