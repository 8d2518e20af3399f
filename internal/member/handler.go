package member

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carecircle/backend/internal/session"
	"github.com/carecircle/backend/internal/store"
	"github.com/carecircle/backend/pkg/response"
)

// Handler handles HTTP requests for member operations
type Handler struct {
	service  *Service
	sessions *session.Service
}

// NewHandler creates a new member handler
func NewHandler(service *Service, sessions *session.Service) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Routes returns the router for member endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Add)
	r.Put("/{userId}/role", h.ChangeRole)
	r.Delete("/{userId}", h.Remove)

	return r
}

// List handles GET /members
// @Summary      List circle members
// @Description  Active members of the current circle with their roles
// @Tags         members
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]MemberResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /members [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.List(h.sessions.Get())
	if err != nil {
		response.Unauthorized(w, "No active circle session")
		return
	}

	out := make([]*MemberResponse, len(members))
	for i, m := range members {
		out[i] = m.ToResponse()
	}
	response.JSON(w, http.StatusOK, out)
}

// Add handles POST /members
// @Summary      Add a member by email
// @Description  Patient or admin invites a helper into the circle
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body AddMemberRequest true "Member to add"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /members [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		response.BadRequest(w, "Email is required")
		return
	}
	role := store.Role(req.Role)
	if req.Role == "" {
		role = store.RoleMember
	}

	added, err := h.service.Add(h.sessions.Get(), req.Email, role)
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrInvalidRole):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to add member")
		}
		return
	}

	response.JSON(w, http.StatusCreated, added.ToResponse())
}

// ChangeRole handles PUT /members/{userId}/role
// @Summary      Change a member's role
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        userId path string true "Target user ID"
// @Param        request body ChangeRoleRequest true "New role"
// @Success      200 {object} response.APIResponse{data=MemberResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /members/{userId}/role [put]
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	targetUserID := chi.URLParam(r, "userId")

	var req ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	changed, err := h.service.ChangeRole(h.sessions.Get(), targetUserID, store.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrInvalidTarget):
			response.UnprocessableEntity(w, err.Error())
		case errors.Is(err, ErrInvalidRole):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrMemberNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to change role")
		}
		return
	}

	response.JSON(w, http.StatusOK, changed.ToResponse())
}

// Remove handles DELETE /members/{userId}
// @Summary      Remove a member
// @Description  Marks the membership REMOVED; the patient cannot be removed
// @Tags         members
// @Produce      json
// @Param        userId path string true "Target user ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /members/{userId} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	targetUserID := chi.URLParam(r, "userId")

	if err := h.service.Remove(h.sessions.Get(), targetUserID); err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrInvalidTarget):
			response.UnprocessableEntity(w, err.Error())
		case errors.Is(err, ErrMemberNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to remove member")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}
