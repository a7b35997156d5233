package receipt

import "github.com/yucheng/tripledger/internal/expense"

// Receipt is the structured result of analyzing a receipt photo.
type Receipt struct {
	StoreName          string         `json:"storeName"`
	Date               string         `json:"date"` // YYYY-MM-DD
	TotalAmount        float64        `json:"totalAmount"`
	Currency           string         `json:"currency"`
	Items              []expense.Item `json:"items"`
	ExchangeRateToHome float64        `json:"exchangeRateToHome"`
}

// AnalysisResult distinguishes a genuine analysis from the deterministic
// fallback that masks a failed model call. Callers always receive a
// structurally valid Receipt either way.
type AnalysisResult struct {
	UsedFallback bool    `json:"usedFallback"`
	Receipt      Receipt `json:"receipt"`
}

// usageRecord counts analyses per identity per local day.
type usageRecord struct {
	OwnerID string `json:"ownerId"`
	Date    string `json:"date"`
	Count   int    `json:"count"`
}
