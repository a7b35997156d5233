package trip

// Trip is a persisted trip record. Dates are ISO 8601 strings, matching the
// wire and storage shape.
type Trip struct {
	ID        string   `json:"id"`
	OwnerID   string   `json:"ownerId"`
	Name      string   `json:"name"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Budget    *float64 `json:"budget,omitempty"` // optional ceiling in home currency
}
