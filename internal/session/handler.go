package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carecircle/backend/pkg/response"
)

// Handler handles HTTP requests for session operations
type Handler struct {
	service *Service
}

// NewHandler creates a new session handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for auth/session endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Post("/join", h.Join)
	r.Post("/select-group", h.SelectGroup)
	r.Get("/session", h.GetSession)
	r.Get("/groups", h.ListGroups)

	return r
}

// Login handles POST /auth/login
// @Summary      Sign in by email
// @Description  Find or create the user for this email and start a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		response.BadRequest(w, "Email is required")
		return
	}

	user, err := h.service.Login(req.Email)
	if err != nil {
		response.InternalError(w, "Failed to log in")
		return
	}

	response.JSON(w, http.StatusOK, ToUserResponse(user))
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(); err != nil {
		response.InternalError(w, "Failed to log out")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Join handles POST /auth/join
// @Summary      Join a circle by invite code
// @Description  Resolve an invite code, create or find the user and add them as a MEMBER
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body JoinRequest true "Join request"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /auth/join [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	req.Code = strings.TrimSpace(req.Code)
	req.Email = strings.TrimSpace(req.Email)
	if req.Code == "" || req.Email == "" {
		response.BadRequest(w, "Invite code and email are required")
		return
	}

	sess, err := h.service.Join(req.Code, strings.TrimSpace(req.Name), req.Email)
	if err != nil {
		if errors.Is(err, ErrInvalidInviteCode) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to join circle")
		return
	}

	response.JSON(w, http.StatusOK, sess.ToResponse())
}

// SelectGroup handles POST /auth/select-group
// @Summary      Switch the active circle
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SelectGroupRequest true "Group selection"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /auth/select-group [post]
func (h *Handler) SelectGroup(w http.ResponseWriter, r *http.Request) {
	var req SelectGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.SelectGroup(req.GroupID); err != nil {
		switch {
		case errors.Is(err, ErrNotLoggedIn):
			response.Unauthorized(w, err.Error())
		case errors.Is(err, ErrNotAMember):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to select group")
		}
		return
	}

	response.JSON(w, http.StatusOK, h.service.Get().ToResponse())
}

// GetSession handles GET /auth/session
// @Summary      Resolve the current session
// @Description  Returns the current user, circle and role, or all nulls when signed out
// @Tags         auth
// @Produce      json
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Router       /auth/session [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.Get().ToResponse())
}

// ListGroups handles GET /auth/groups
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.Groups()
	if err != nil {
		if errors.Is(err, ErrNotLoggedIn) {
			response.Unauthorized(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list groups")
		return
	}

	out := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		out[i] = ToGroupResponse(g)
	}
	response.JSON(w, http.StatusOK, out)
}
