package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carecircle/backend/internal/session"
	"github.com/carecircle/backend/pkg/response"
)

// Handler handles HTTP requests for task operations
type Handler struct {
	service  *Service
	sessions *session.Service
}

// NewHandler creates a new task handler
func NewHandler(service *Service, sessions *session.Service) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Routes returns the router for task endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/claim", h.Claim)
	r.Delete("/{id}/claim", h.Unclaim)
	r.Get("/{id}/calendar.ics", h.DownloadCalendar)

	return r
}

// Create handles POST /tasks
// @Summary      Create a task
// @Description  Add a bounded-capacity help request to the circle calendar
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body CreateTaskRequest true "Task to create"
// @Success      201 {object} response.APIResponse{data=TaskResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /tasks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		response.BadRequest(w, "Title is required")
		return
	}

	actor := h.sessions.Get()
	created, err := h.service.Create(actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAuthorized):
			response.Unauthorized(w, err.Error())
		case errors.Is(err, ErrInvalidSlotCount), errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidTime):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to create task")
		}
		return
	}

	summary, err := h.service.Get(actor, created.ID)
	if err != nil {
		response.InternalError(w, "Failed to create task")
		return
	}
	response.JSON(w, http.StatusCreated, summary.ToResponse())
}

// List handles GET /tasks
// @Summary      List circle tasks
// @Description  Tasks for the current circle, optionally for a single date
// @Tags         tasks
// @Produce      json
// @Param        date query string false "Calendar date (YYYY-MM-DD)"
// @Success      200 {object} response.APIResponse{data=[]TaskResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.List(h.sessions.Get(), r.URL.Query().Get("date"))
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	out := make([]*TaskResponse, len(summaries))
	for i, s := range summaries {
		out[i] = s.ToResponse()
	}
	response.JSON(w, http.StatusOK, out)
}

// GetByID handles GET /tasks/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Get(h.sessions.Get(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.Unauthorized(w, err.Error())
		return
	}
	response.JSON(w, http.StatusOK, summary.ToResponse())
}

// Claim handles POST /tasks/{id}/claim
// @Summary      Claim a slot
// @Description  Take one open slot on a task; the claimant gets a confirmation with a calendar attachment
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      201 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /tasks/{id}/claim [post]
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	signup, err := h.service.Claim(h.sessions.Get(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrSlotsFull), errors.Is(err, ErrAlreadyClaimed):
			response.Conflict(w, err.Error())
		case errors.Is(err, ErrNotAuthorized):
			response.Unauthorized(w, err.Error())
		default:
			response.InternalError(w, "Failed to claim task")
		}
		return
	}

	response.JSON(w, http.StatusCreated, map[string]string{
		"task_id":    signup.TaskID,
		"claimed_at": signup.ClaimedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// Unclaim handles DELETE /tasks/{id}/claim
// @Summary      Release a claimed slot
// @Description  Remove the caller's claim; near-term reopenings notify the circle
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /tasks/{id}/claim [delete]
func (h *Handler) Unclaim(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Unclaim(h.sessions.Get(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			response.Unauthorized(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to unclaim task")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Slot released"})
}

// DownloadCalendar handles GET /tasks/{id}/calendar.ics
func (h *Handler) DownloadCalendar(w http.ResponseWriter, r *http.Request) {
	text, task, err := h.service.RenderCalendar(h.sessions.Get(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.Unauthorized(w, err.Error())
		return
	}

	filename := strings.ReplaceAll(task.Title, " ", "-") + ".ics"
	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}
