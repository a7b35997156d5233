package rates

// Rate sources, in resolution order.
const (
	SourceDefault  = "default"  // requested currency is the home currency
	SourceCache    = "cache"    // same-day cached value
	SourceExternal = "external" // fresh external lookup
	SourceFailed   = "failed"   // lookup returned no usable number
	SourceError    = "error"    // lookup call itself failed
)

// Rate is the resolver result: an original-currency-to-home-currency
// multiplier and where it came from.
type Rate struct {
	Rate   float64 `json:"rate"`
	Source string  `json:"source"`
}

// cachedRate is the persisted cache document, one per currency. The cache is
// invalidated implicitly by date rollover, never evicted.
type cachedRate struct {
	Currency string  `json:"currency"`
	Date     string  `json:"date"` // local calendar date, YYYY-MM-DD
	Rate     float64 `json:"rate"`
}
