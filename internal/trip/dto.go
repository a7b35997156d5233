package trip

// SaveTripRequest represents the request to create or overwrite a trip
type SaveTripRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=255"`
	StartDate string   `json:"startDate" validate:"required"`
	EndDate   string   `json:"endDate" validate:"required"`
	Budget    *float64 `json:"budget,omitempty"`
}

// DeleteTripResponse reports the outcome of the cascading delete
type DeleteTripResponse struct {
	TripID   string          `json:"tripId"`
	Progress *DeleteProgress `json:"progress"`
}
