package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carecircle/backend/internal/store"
	"github.com/carecircle/backend/pkg/response"
)

// MailResponse represents a captured outbound message
type MailResponse struct {
	ID        string   `json:"id"`
	To        []string `json:"to"`
	Subject   string   `json:"subject"`
	Body      string   `json:"body"`
	Kind      string   `json:"kind"`
	TaskID    string   `json:"task_id,omitempty"`
	HasICS    bool     `json:"has_ics"`
	CreatedAt string   `json:"created_at"`
}

func toResponse(n store.Notification) *MailResponse {
	return &MailResponse{
		ID:        n.ID,
		To:        n.To,
		Subject:   n.Subject,
		Body:      n.Body,
		Kind:      n.Meta.Kind,
		TaskID:    n.Meta.TaskID,
		HasICS:    n.Meta.ICS != "",
		CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Handler handles HTTP requests for the mailbox viewer
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for mailbox endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}

// List handles GET /mailbox
// @Summary      List captured notifications
// @Description  Every message the rule engines have generated, newest first
// @Tags         mailbox
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]MailResponse}
// @Router       /mailbox [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	mailbox := h.service.List()

	out := make([]*MailResponse, len(mailbox))
	for i, n := range mailbox {
		out[i] = toResponse(n)
	}
	response.JSON(w, http.StatusOK, out)
}
