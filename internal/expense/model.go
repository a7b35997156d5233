package expense

import (
	"encoding/json"
	"fmt"
)

// Item is a single receipt line item. Name is the translated display text,
// OriginalName the source-language text; the two may be equal.
type Item struct {
	Name         string `json:"name"`
	OriginalName string `json:"originalName"`
}

// ItemList decodes both the current item shape and the legacy pre-translation
// shape (a bare string array). Legacy entries upgrade on read with the
// original string used for both fields; the stored document is not touched
// until the next explicit save.
type ItemList []Item

// UnmarshalJSON implements the legacy-shape upgrade.
func (l *ItemList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode items: %w", err)
	}

	items := make([]Item, 0, len(raw))
	for _, entry := range raw {
		var name string
		if err := json.Unmarshal(entry, &name); err == nil {
			items = append(items, Item{Name: name, OriginalName: name})
			continue
		}

		var item Item
		if err := json.Unmarshal(entry, &item); err != nil {
			return fmt.Errorf("failed to decode item: %w", err)
		}
		items = append(items, item)
	}

	*l = items
	return nil
}

// Expense is a persisted expense record, in its wire shape.
type Expense struct {
	ID               string   `json:"id"`
	OwnerID          string   `json:"ownerId"`
	TripID           string   `json:"tripId"`
	StoreName        string   `json:"storeName"`
	Date             string   `json:"date"` // ISO 8601
	Items            ItemList `json:"items"`
	OriginalCurrency string   `json:"originalCurrency"`
	OriginalAmount   float64  `json:"originalAmount"`
	ExchangeRate     float64  `json:"exchangeRate"`
	TotalHome        float64  `json:"totalHome"`
	SplitCount       int      `json:"splitCount"`
	MyShare          float64  `json:"myShare"`
	DebtOwed         float64  `json:"debtOwed"`
	Repaid           bool     `json:"repaid"`
	ReceiptImage     string   `json:"receiptImage,omitempty"` // base64 data URL
}
