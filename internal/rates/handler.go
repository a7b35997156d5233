package rates

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yucheng/tripledger/pkg/middleware"
	"github.com/yucheng/tripledger/pkg/response"
)

// Handler handles HTTP requests for exchange rate resolution
type Handler struct {
	service *Service
}

// NewHandler creates a new rates handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for rate endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{currency}", h.Resolve)
	return r
}

// Resolve handles GET /rates/{currency}
// @Summary      Resolve an exchange rate
// @Description  Returns the original-currency-to-home-currency rate and its source (default, cache, external, failed, error)
// @Tags         rates
// @Produce      json
// @Security     BearerAuth
// @Param        currency path string true "ISO currency code"
// @Success      200 {object} response.APIResponse{data=Rate}
// @Failure      401 {object} response.APIResponse
// @Router       /rates/{currency} [get]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetIdentity(r.Context()); !ok {
		response.AuthRequired(w, "No active identity")
		return
	}

	rate := h.service.Resolve(r.Context(), chi.URLParam(r, "currency"))
	response.JSON(w, http.StatusOK, rate)
}
