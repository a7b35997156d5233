package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yucheng/tripledger/internal/identity"
	"github.com/yucheng/tripledger/pkg/response"
)

// LinkRequest carries the permanent credential subject to link to.
type LinkRequest struct {
	PermanentID string `json:"permanentId" validate:"required"`
}

// SessionResponse is returned by guest start and link.
type SessionResponse struct {
	Token     string            `json:"token"`
	Identity  identity.Identity `json:"identity"`
	Migration *Report           `json:"migration,omitempty"`
}

// Handler handles HTTP requests for session operations
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PublicRoutes returns the unauthenticated session endpoints. Link is
// registered separately behind the auth middleware.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/guest", h.StartGuest)
	return r
}

// StartGuest handles POST /auth/guest
// @Summary      Start a guest session
// @Description  Mint a temporary identity and its session token
// @Tags         auth
// @Produce      json
// @Success      201 {object} response.APIResponse{data=SessionResponse}
// @Router       /auth/guest [post]
func (h *Handler) StartGuest(w http.ResponseWriter, r *http.Request) {
	token, id, err := h.service.StartGuest()
	if err != nil {
		response.InternalError(w, "Failed to start guest session")
		return
	}

	response.JSON(w, http.StatusCreated, &SessionResponse{Token: token, Identity: id})
}

// Link handles POST /auth/link
// @Summary      Link a guest to a permanent identity
// @Description  Upgrade the temporary identity; on collision the guest's records are migrated under fresh identifiers. Partial failures are reported with the step reached and counts migrated, with no rollback.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body LinkRequest true "Permanent identity"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /auth/link [post]
func (h *Handler) Link(w http.ResponseWriter, r *http.Request) {
	current, ok := identity.FromContext(r.Context())
	if !ok {
		response.AuthRequired(w, "No active identity")
		return
	}

	var req LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	token, linked, report, err := h.service.Link(r.Context(), current, req.PermanentID)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNotTemporary), errors.Is(err, ErrMissingPermanentID):
			response.BadRequest(w, err.Error())
		default:
			msg := "Migration incomplete"
			if report != nil {
				msg = "Migration incomplete: " + report.String()
			}
			response.Error(w, http.StatusInternalServerError, "INCOMPLETE_MIGRATION", msg)
		}
		return
	}

	response.JSON(w, http.StatusOK, &SessionResponse{Token: token, Identity: linked, Migration: report})
}
