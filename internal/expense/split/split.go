// Package split is the pure currency-conversion and cost-split calculator.
// It performs no I/O and depends on no global or time-varying state.
package split

import "math"

// Result holds the home-currency totals for a single expense.
type Result struct {
	// TotalHome is the expense total converted to the home currency.
	TotalHome float64 `json:"totalHome"`
	// MyShare is the payer's portion of the total.
	MyShare float64 `json:"myShare"`
	// DebtOwed is the portion attributable to the other participants.
	DebtOwed float64 `json:"debtOwed"`
}

// Compute converts originalAmount to the home currency using exchangeRate
// and divides the total among splitCount participants, payer included.
// A splitCount below 1 is treated as 1 (no split). Invariants:
//
//	TotalHome = originalAmount × exchangeRate
//	splitCount = 1 ⇒ MyShare = TotalHome, DebtOwed = 0
//	splitCount > 1 ⇒ MyShare = TotalHome / splitCount, DebtOwed = TotalHome − MyShare
//
// Invalid numeric input must be coerced by the caller (see Coerce); Compute
// itself never fails.
func Compute(originalAmount, exchangeRate float64, splitCount int) Result {
	if splitCount < 1 {
		splitCount = 1
	}

	total := originalAmount * exchangeRate
	if splitCount == 1 {
		return Result{TotalHome: total, MyShare: total, DebtOwed: 0}
	}

	share := total / float64(splitCount)
	return Result{
		TotalHome: total,
		MyShare:   share,
		DebtOwed:  total - share,
	}
}

// Coerce maps invalid numeric input (NaN, ±Inf, negative) to 0. Callers
// sanitize amounts and rates with Coerce before calling Compute.
func Coerce(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// RoundHome rounds a home-currency value to a whole unit for display.
// Stored values keep full precision; rounding is a display concern only.
func RoundHome(v float64) float64 {
	return math.Round(v)
}
