package status

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carecircle/backend/internal/session"
	"github.com/carecircle/backend/internal/store"
	"github.com/carecircle/backend/pkg/response"
)

// Handler handles HTTP requests for status update operations
type Handler struct {
	service  *Service
	sessions *session.Service
}

// NewHandler creates a new status handler
func NewHandler(service *Service, sessions *session.Service) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Routes returns the router for status update endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Post)
	r.Get("/", h.List)

	return r
}

// Post handles POST /updates
// @Summary      Post a status update
// @Description  Record a mood-tagged update; a BAD mood may rally the circle
// @Tags         updates
// @Accept       json
// @Produce      json
// @Param        request body PostUpdateRequest true "Update to post"
// @Success      201 {object} response.APIResponse{data=UpdateResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /updates [post]
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	var req PostUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	actor := h.sessions.Get()
	update, alerted, err := h.service.Post(actor, store.Mood(req.Mood), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAuthorized):
			response.Unauthorized(w, err.Error())
		case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrInvalidMood):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to post update")
		}
		return
	}

	resp := Update{StatusUpdate: update, Author: actor.User}.ToResponse()
	resp.Alerted = alerted
	response.JSON(w, http.StatusCreated, resp)
}

// List handles GET /updates
// @Summary      List status updates
// @Description  The circle's updates, most recent first
// @Tags         updates
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]UpdateResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /updates [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	updates, err := h.service.List(h.sessions.Get())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	out := make([]*UpdateResponse, len(updates))
	for i, u := range updates {
		out[i] = u.ToResponse()
	}
	response.JSON(w, http.StatusOK, out)
}
