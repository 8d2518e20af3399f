package status

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carecircle/backend/internal/notification"
	"github.com/carecircle/backend/internal/session"
	"github.com/carecircle/backend/internal/store"
)

// Common errors
var (
	ErrNotAuthorized = errors.New("no active circle session")
	ErrEmptyContent  = errors.New("update content is empty")
	ErrInvalidMood   = errors.New("mood must be GOOD, OKAY or BAD")
)

// alertWindow is the rolling throttle for bad-day alerts: at most one
// alert per group inside this window.
const alertWindow = 12 * time.Hour

// Update is a status update joined with its author for display
type Update struct {
	store.StatusUpdate
	Author store.User
}

// Service records mood updates and raises throttled circle alerts
type Service struct {
	store *store.Store
	now   func() time.Time
}

// NewService creates a new status service
func NewService(st *store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// Post records a mood-tagged update. A BAD mood additionally rallies
// the circle, at most once per alert window: the throttle check, the
// alert append and the lastAlertAt stamp all happen inside the same
// store mutation, so two near-simultaneous bad posts cannot both slip
// through the window. Returns the update and whether an alert went out.
func (s *Service) Post(actor session.Session, mood store.Mood, content string) (store.StatusUpdate, bool, error) {
	if !actor.Active() {
		return store.StatusUpdate{}, false, ErrNotAuthorized
	}
	if mood != store.MoodGood && mood != store.MoodOkay && mood != store.MoodBad {
		return store.StatusUpdate{}, false, ErrInvalidMood
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return store.StatusUpdate{}, false, ErrEmptyContent
	}

	update := store.StatusUpdate{
		ID:         uuid.NewString(),
		GroupID:    actor.Group.ID,
		AuthorID:   actor.User.ID,
		Mood:       mood,
		Content:    content,
		CreatedAt:  s.now(),
		Visibility: "members",
	}

	alerted := false
	err := s.store.Mutate(func(root store.Root) (store.Root, error) {
		if _, ok := root.ActiveMembership(actor.Group.ID, actor.User.ID); !ok {
			return root, ErrNotAuthorized
		}

		root.Updates = append([]store.StatusUpdate{update}, root.Updates...)

		if mood != store.MoodBad {
			return root, nil
		}

		last, stamped := root.Session.LastAlertAt[actor.Group.ID]
		if stamped && s.now().Sub(last) < alertWindow {
			return root, nil
		}

		recipients := root.MemberEmails(actor.Group.ID, actor.User.ID)
		if len(recipients) > 0 {
			root.Mailbox = append(root.Mailbox, notification.BadDayAlert(recipients, actor.User, content))
		}
		root.Session.LastAlertAt[actor.Group.ID] = s.now()
		alerted = true
		return root, nil
	})
	if err != nil {
		return store.StatusUpdate{}, false, err
	}
	return update, alerted, nil
}

// List returns the circle's updates, most recent first, with authors
// resolved.
func (s *Service) List(actor session.Session) ([]Update, error) {
	if !actor.Active() {
		return nil, ErrNotAuthorized
	}

	root := s.store.Read()
	var out []Update
	for _, u := range root.Updates {
		if u.GroupID != actor.Group.ID {
			continue
		}
		out = append(out, Update{StatusUpdate: u, Author: root.Users[u.AuthorID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
