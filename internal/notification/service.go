package notification

import (
	"github.com/carecircle/backend/internal/store"
)

// Service reads the captured mailbox for the viewer UI. The core rule
// engines only ever append; nothing here mutates.
type Service struct {
	store *store.Store
}

// NewService creates a new notification service
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// List returns every captured notification, newest first.
func (s *Service) List() []store.Notification {
	mailbox := s.store.Read().Mailbox

	out := make([]store.Notification, len(mailbox))
	for i, n := range mailbox {
		out[len(mailbox)-1-i] = n
	}
	return out
}
