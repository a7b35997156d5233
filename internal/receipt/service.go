package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yucheng/tripledger/internal/expense"
)

// ErrDailyLimitReached rejects an analysis before the model is invoked.
var ErrDailyLimitReached = errors.New("daily analysis limit reached")

// Analyzer is the external model call, satisfied by the ai client. A
// non-empty apiKey is the caller's personal credential.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, apiKey, mediaType, data, prompt string) (string, error)
}

// Service is the receipt analysis gateway. Past the quota gate it never
// fails: any model error is masked by a deterministic fallback record so
// the caller always reaches an editable state.
type Service struct {
	usage     *UsageRepository
	analyzer  Analyzer
	home      string
	limit     int
	allowlist map[string]bool
	now       func() time.Time
}

// NewService creates a new receipt gateway
func NewService(usage *UsageRepository, analyzer Analyzer, homeCurrency string, dailyLimit int, allowlist []string) *Service {
	allowed := make(map[string]bool, len(allowlist))
	for _, id := range allowlist {
		allowed[id] = true
	}
	return &Service{
		usage:     usage,
		analyzer:  analyzer,
		home:      strings.ToUpper(homeCurrency),
		limit:     dailyLimit,
		allowlist: allowed,
		now:       time.Now,
	}
}

const analysisPrompt = `Analyze this receipt photo and reply with ONLY a JSON object, no other text:
{"storeName": "...", "date": "YYYY-MM-DD", "totalAmount": 0, "currency": "ISO code", "items": [{"originalName": "text as printed", "name": "translated to English"}], "exchangeRateToHome": 0}
exchangeRateToHome is the estimated rate from the receipt currency to %s. If a field is unreadable use an empty string or 0.`

// Analyze runs the quota gate and the model call for one receipt image.
// imageData is raw base64 (no data-URL prefix). personalKey, when set,
// bypasses the daily quota.
func (s *Service) Analyze(ctx context.Context, ownerID, mimeType, imageData, personalKey string) (*AnalysisResult, error) {
	today := s.now().Format("2006-01-02")

	metered := personalKey == "" && !s.allowlist[ownerID]
	if metered {
		count, err := s.usage.Count(ctx, ownerID, today)
		if err != nil {
			return nil, err
		}
		if count >= s.limit {
			return nil, ErrDailyLimitReached
		}
		if err := s.usage.Increment(ctx, ownerID, today); err != nil {
			return nil, err
		}
	}

	prompt := fmt.Sprintf(analysisPrompt, s.home)
	reply, err := s.analyzer.AnalyzeImage(ctx, personalKey, mimeType, imageData, prompt)
	if err != nil {
		slog.Warn("receipt analysis failed", "owner", ownerID, "error", err)
		return s.fallback(), nil
	}

	receipt, err := s.parse(reply)
	if err != nil {
		slog.Warn("receipt analysis unusable", "owner", ownerID, "error", err)
		return s.fallback(), nil
	}

	return &AnalysisResult{Receipt: *receipt}, nil
}

// parse extracts and sanitizes the JSON object from the model reply.
func (s *Service) parse(reply string) (*Receipt, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, errors.New("reply contained no JSON object")
	}

	var receipt Receipt
	if err := json.Unmarshal([]byte(reply[start:end+1]), &receipt); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}

	if receipt.Currency == "" {
		receipt.Currency = s.home
	}
	receipt.Currency = strings.ToUpper(receipt.Currency)
	if receipt.Date == "" {
		receipt.Date = s.now().Format("2006-01-02")
	}
	if receipt.ExchangeRateToHome <= 0 {
		receipt.ExchangeRateToHome = 1
	}
	if receipt.TotalAmount < 0 {
		receipt.TotalAmount = 0
	}
	if len(receipt.Items) == 0 {
		receipt.Items = []expense.Item{placeholderItem()}
	}
	return &receipt, nil
}

// fallback is the fixed record returned when the model call fails or its
// output is unusable.
func (s *Service) fallback() *AnalysisResult {
	return &AnalysisResult{
		UsedFallback: true,
		Receipt: Receipt{
			StoreName:          "",
			Date:               s.now().Format("2006-01-02"),
			TotalAmount:        0,
			Currency:           s.home,
			Items:              []expense.Item{placeholderItem()},
			ExchangeRateToHome: 1,
		},
	}
}

func placeholderItem() expense.Item {
	return expense.Item{Name: "Item", OriginalName: "Item"}
}
