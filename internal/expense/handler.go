package expense

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yucheng/tripledger/internal/docstore"
	"github.com/yucheng/tripledger/pkg/middleware"
	"github.com/yucheng/tripledger/pkg/response"
)

// droppedImageWarning is surfaced when a save succeeded only after the
// oversized-document retry stripped the receipt image.
const droppedImageWarning = "Receipt image was too large to store and was dropped"

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/repaid", h.SetRepaid)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /expenses
// @Summary      Create an expense
// @Description  Save an expense; home-currency total, share and debt are computed server-side
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SaveExpenseRequest true "Expense to create"
// @Success      201 {object} response.APIResponse{data=Expense}
// @Failure      400 {object} response.APIResponse
// @Failure      413 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.AuthRequired(w, "No active identity")
		return
	}

	var req SaveExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	expense, dropped, err := h.service.Create(r.Context(), id.ID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if dropped {
		response.JSONWithWarning(w, http.StatusCreated, expense, droppedImageWarning)
		return
	}
	response.JSON(w, http.StatusCreated, expense)
}

// Update handles PUT /expenses/{id}
// @Summary      Overwrite an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Expense ID"
// @Param        request body SaveExpenseRequest true "New expense contents"
// @Success      200 {object} response.APIResponse{data=Expense}
// @Failure      404 {object} response.APIResponse
// @Failure      413 {object} response.APIResponse
// @Router       /expenses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.AuthRequired(w, "No active identity")
		return
	}

	var req SaveExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	expense, dropped, err := h.service.Update(r.Context(), id.ID, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if dropped {
		response.JSONWithWarning(w, http.StatusOK, expense, droppedImageWarning)
		return
	}
	response.JSON(w, http.StatusOK, expense)
}

// SetRepaid handles PATCH /expenses/{id}/repaid
// @Summary      Toggle the repaid flag
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Expense ID"
// @Param        request body SetRepaidRequest true "New repaid state"
// @Success      200 {object} response.APIResponse{data=Expense}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id}/repaid [patch]
func (h *Handler) SetRepaid(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.AuthRequired(w, "No active identity")
		return
	}

	var req SetRepaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	expense, err := h.service.SetRepaid(r.Context(), id.ID, chi.URLParam(r, "id"), req.Repaid)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, expense)
}

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Expense ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.AuthRequired(w, "No active identity")
		return
	}

	if err := h.service.Delete(r.Context(), id.ID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

// ListByTrip handles GET /trips/{id}/expenses (registered on the trip
// router).
// @Summary      List expenses for a trip
// @Description  Get the caller's expenses for a trip, sorted by date descending
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Trip ID"
// @Success      200 {object} response.APIResponse{data=[]Expense}
// @Failure      503 {object} response.APIResponse
// @Router       /trips/{id}/expenses [get]
func (h *Handler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.AuthRequired(w, "No active identity")
		return
	}

	expenses, err := h.service.ListByTrip(r.Context(), chi.URLParam(r, "id"), id.ID)
	if err != nil {
		if errors.Is(err, docstore.ErrUnavailable) {
			response.StorageUnavailable(w, "Could not load expenses")
			return
		}
		response.InternalError(w, "Failed to list expenses")
		return
	}

	response.JSON(w, http.StatusOK, expenses)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingTrip), errors.Is(err, ErrMissingDate):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrExpenseNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, err.Error())
	case errors.Is(err, docstore.ErrTooLarge):
		response.DocumentTooLarge(w, "Expense exceeds the per-document size limit")
	case errors.Is(err, docstore.ErrUnavailable):
		response.StorageUnavailable(w, err.Error())
	case errors.Is(err, docstore.ErrWriteFailed):
		response.WriteFailed(w, err.Error())
	default:
		response.InternalError(w, "Failed to save expense")
	}
}
