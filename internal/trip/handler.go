package trip

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yucheng/tripledger/internal/docstore"
	"github.com/yucheng/tripledger/pkg/middleware"
	"github.com/yucheng/tripledger/pkg/response"
)

// Handler handles HTTP requests for trip operations
type Handler struct {
	service *Service
	// listExpenses serves GET /trips/{id}/expenses; injected to keep the
	// expense feature owning its own handler.
	listExpenses http.HandlerFunc
}

// NewHandler creates a new trip handler
func NewHandler(service *Service, listExpenses http.HandlerFunc) *Handler {
	return &Handler{service: service, listExpenses: listExpenses}
}

// Routes returns the router for trip endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/expenses", h.listExpenses)

	return r
}

// List handles GET /trips
// @Summary      List trips
// @Description  Get all trips owned by the caller, newest start date first
// @Tags         trips
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]Trip}
// @Failure      401 {object} response.APIResponse
// @Failure      503 {object} response.APIResponse
// @Router       /trips [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.AuthRequired(w, "No active identity")
		return
	}

	trips, err := h.service.List(r.Context(), id.ID)
	if err != nil {
		if errors.Is(err, docstore.ErrUnavailable) {
			response.StorageUnavailable(w, "Could not load trips")
			return
		}
		response.InternalError(w, "Failed to list trips")
		return
	}

	response.JSON(w, http.StatusOK, trips)
}

// Create handles POST /trips
// @Summary      Create a trip
// @Description  Create a new trip owned by the caller
// @Tags         trips
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SaveTripRequest true "Trip to create"
// @Success      201 {object} response.APIResponse{data=Trip}
// @Failure      400 {object} response.APIResponse
// @Router       /trips [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.AuthRequired(w, "No active identity")
		return
	}

	var req SaveTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	trip, err := h.service.Create(r.Context(), id.ID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, trip)
}

// Update handles PUT /trips/{id}
// @Summary      Overwrite a trip
// @Tags         trips
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Trip ID"
// @Param        request body SaveTripRequest true "New trip contents"
// @Success      200 {object} response.APIResponse{data=Trip}
// @Failure      404 {object} response.APIResponse
// @Router       /trips/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.AuthRequired(w, "No active identity")
		return
	}

	var req SaveTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	trip, err := h.service.Update(r.Context(), id.ID, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, trip)
}

// Delete handles DELETE /trips/{id}
// @Summary      Delete a trip
// @Description  Delete a trip and, best-effort, all expenses referencing it
// @Tags         trips
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Trip ID"
// @Success      200 {object} response.APIResponse{data=DeleteTripResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /trips/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.AuthRequired(w, "No active identity")
		return
	}

	tripID := chi.URLParam(r, "id")
	progress, err := h.service.Delete(r.Context(), id.ID, tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, ErrNotOwner) {
			response.Forbidden(w, err.Error())
			return
		}
		if progress != nil && progress.Step == DeleteStepChildren {
			// The trip record is gone but children remain; report the
			// partial cascade rather than a plain failure.
			response.JSONWithWarning(w, http.StatusOK,
				&DeleteTripResponse{TripID: tripID, Progress: progress},
				"Trip deleted but some expenses could not be removed")
			return
		}
		response.WriteFailed(w, "Failed to delete trip")
		return
	}

	response.JSON(w, http.StatusOK, &DeleteTripResponse{TripID: tripID, Progress: progress})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingName), errors.Is(err, ErrMissingDates):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrTripNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, err.Error())
	case errors.Is(err, docstore.ErrUnavailable):
		response.StorageUnavailable(w, err.Error())
	case errors.Is(err, docstore.ErrWriteFailed):
		response.WriteFailed(w, err.Error())
	default:
		response.InternalError(w, "Failed to save trip")
	}
}
