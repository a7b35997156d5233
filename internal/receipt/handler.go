package receipt

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yucheng/tripledger/pkg/middleware"
	"github.com/yucheng/tripledger/pkg/response"
)

// Handler handles HTTP requests for receipt analysis
type Handler struct {
	service *Service
}

// NewHandler creates a new receipt handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for receipt endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/analyze", h.Analyze)
	return r
}

// Analyze handles POST /receipts/analyze
// @Summary      Analyze a receipt photo
// @Description  Extract store, date, total, currency and items from a receipt image. A failed analysis returns 200 with usedFallback=true and a placeholder record, never an error.
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AnalyzeRequest true "Receipt image"
// @Success      200 {object} response.APIResponse{data=AnalysisResult}
// @Failure      400 {object} response.APIResponse
// @Failure      429 {object} response.APIResponse
// @Router       /receipts/analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.AuthRequired(w, "No active identity")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Image == "" {
		response.BadRequest(w, "Receipt image is required")
		return
	}

	data, mimeType := req.ImageData()
	result, err := h.service.Analyze(r.Context(), id.ID, mimeType, data, req.APIKey)
	if err != nil {
		if errors.Is(err, ErrDailyLimitReached) {
			response.DailyLimitReached(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to record analysis usage")
		return
	}

	response.JSON(w, http.StatusOK, result)
}
