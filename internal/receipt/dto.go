package receipt

import "strings"

// AnalyzeRequest carries the receipt image. Image may be raw base64 or a
// data URL; APIKey is the caller's optional personal credential, which
// bypasses the daily quota.
type AnalyzeRequest struct {
	Image    string `json:"image" validate:"required"`
	MimeType string `json:"mimeType"`
	APIKey   string `json:"apiKey,omitempty"`
}

// ImageData returns the raw base64 payload, stripping a data-URL prefix if
// present, and the effective MIME type.
func (r *AnalyzeRequest) ImageData() (data, mimeType string) {
	data = r.Image
	mimeType = r.MimeType

	if strings.HasPrefix(data, "data:") {
		if idx := strings.Index(data, ";base64,"); idx > 0 {
			if mimeType == "" {
				mimeType = data[len("data:"):idx]
			}
			data = data[idx+len(";base64,"):]
		}
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return data, mimeType
}
