package expense

// SaveExpenseRequest represents the request to create or overwrite an expense.
// TotalHome, MyShare and DebtOwed are computed server-side from the numeric
// fields; invalid numeric input is coerced to 0 before calculation.
type SaveExpenseRequest struct {
	TripID           string  `json:"tripId" validate:"required"`
	StoreName        string  `json:"storeName"`
	Date             string  `json:"date" validate:"required"`
	Items            []Item  `json:"items"`
	OriginalCurrency string  `json:"originalCurrency" validate:"required,len=3"`
	OriginalAmount   float64 `json:"originalAmount"`
	ExchangeRate     float64 `json:"exchangeRate"`
	SplitCount       int     `json:"splitCount"`
	Repaid           bool    `json:"repaid"`
	ReceiptImage     string  `json:"receiptImage,omitempty"`
}

// SetRepaidRequest represents the request to toggle the repaid flag
type SetRepaidRequest struct {
	Repaid bool `json:"repaid"`
}
