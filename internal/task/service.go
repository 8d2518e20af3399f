package task

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/carecircle/backend/internal/notification"
	"github.com/carecircle/backend/internal/session"
	"github.com/carecircle/backend/internal/store"
	"github.com/carecircle/backend/pkg/ics"
)

// Common errors
var (
	ErrNotAuthorized    = errors.New("no active circle session")
	ErrNotFound         = errors.New("task not found")
	ErrInvalidSlotCount = errors.New("slot count must be at least 1")
	ErrInvalidDate      = errors.New("invalid or missing task date")
	ErrInvalidTime      = errors.New("invalid time format")
	ErrSlotsFull        = errors.New("all slots for this task are claimed")
	ErrAlreadyClaimed   = errors.New("task already claimed by this user")
)

// reopenWindow is how close to a task's start an unclaim still pings
// the rest of the circle about the reopened slot.
const reopenWindow = 12 * time.Hour

var categories = map[string]bool{
	"meal":     true,
	"delivery": true,
	"laundry":  true,
	"ride":     true,
	"visit":    true,
	"meds":     true,
	"other":    true,
}

// Summary is a task joined with its live slot accounting
type Summary struct {
	store.Task
	Claimed   bool
	ClaimedBy int
	Available int
	Creator   store.User
}

// Service owns task creation and the slot claim/unclaim rules
type Service struct {
	store *store.Store
	now   func() time.Time
}

// NewService creates a new task service
func NewService(st *store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// Create appends an immutable task to the actor's circle. Unknown
// categories fall back to "other".
func (s *Service) Create(actor session.Session, req *CreateTaskRequest) (store.Task, error) {
	if !actor.Active() {
		return store.Task{}, ErrNotAuthorized
	}
	if req.Slots < 1 {
		return store.Task{}, ErrInvalidSlotCount
	}
	if _, err := time.Parse("2006-01-02", req.TaskDate); err != nil {
		return store.Task{}, ErrInvalidDate
	}
	for _, clock := range []string{req.StartTime, req.EndTime} {
		if clock == "" {
			continue
		}
		if _, err := time.Parse("15:04", clock); err != nil {
			return store.Task{}, ErrInvalidTime
		}
	}

	category := req.Category
	if !categories[category] {
		category = "other"
	}

	task := store.Task{
		ID:        uuid.NewString(),
		GroupID:   actor.Group.ID,
		Title:     req.Title,
		Category:  category,
		TaskDate:  req.TaskDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Details:   req.Details,
		Slots:     req.Slots,
		CreatedBy: actor.User.ID,
		CreatedAt: s.now(),
	}

	err := s.store.Mutate(func(root store.Root) (store.Root, error) {
		if _, ok := root.ActiveMembership(actor.Group.ID, actor.User.ID); !ok {
			return root, ErrNotAuthorized
		}
		root.Tasks = append(root.Tasks, task)
		return root, nil
	})
	if err != nil {
		return store.Task{}, err
	}
	return task, nil
}

// Claim takes one slot on a task for the actor. The capacity check and
// the signup insert happen inside one store mutation, which is what
// keeps two near-simultaneous claims on the last slot from both
// landing. The claim confirmation, calendar attachment included, is
// appended in the same mutation.
func (s *Service) Claim(actor session.Session, taskID string) (store.Signup, error) {
	if !actor.Active() {
		return store.Signup{}, ErrNotAuthorized
	}

	var signup store.Signup
	err := s.store.Mutate(func(root store.Root) (store.Root, error) {
		task, ok := root.TaskByID(taskID)
		if !ok {
			return root, ErrNotFound
		}
		if _, ok := root.ActiveMembership(task.GroupID, actor.User.ID); !ok {
			return root, ErrNotAuthorized
		}
		if root.HasClaim(taskID, actor.User.ID) {
			return root, ErrAlreadyClaimed
		}
		if root.ClaimedCount(taskID) >= task.Slots {
			return root, ErrSlotsFull
		}

		signup = store.Signup{
			TaskID:    taskID,
			UserID:    actor.User.ID,
			Status:    store.SignupStatusClaimed,
			ClaimedAt: s.now(),
		}
		root.Signups = append(root.Signups, signup)

		icsText, err := ics.Render(task)
		if err != nil {
			icsText = ""
		}
		root.Mailbox = append(root.Mailbox, notification.TaskClaimed(actor.User, task, icsText))
		return root, nil
	})
	if err != nil {
		return store.Signup{}, err
	}
	return signup, nil
}

// Unclaim releases the actor's slot on a task. Releasing a slot the
// actor never held is a no-op, not an error. When the task starts
// within the reopen window the rest of the circle is told the slot is
// open again; far-future reopenings stay quiet.
func (s *Service) Unclaim(actor session.Session, taskID string) error {
	if !actor.Active() {
		return ErrNotAuthorized
	}

	return s.store.Mutate(func(root store.Root) (store.Root, error) {
		if !root.HasClaim(taskID, actor.User.ID) {
			return root, nil
		}

		kept := root.Signups[:0:0]
		for _, sg := range root.Signups {
			if sg.TaskID == taskID && sg.UserID == actor.User.ID {
				continue
			}
			kept = append(kept, sg)
		}
		root.Signups = kept

		task, ok := root.TaskByID(taskID)
		if !ok {
			return root, nil
		}
		if s.now().Add(reopenWindow).Before(task.StartAt()) {
			return root, nil
		}
		recipients := root.MemberEmails(task.GroupID, actor.User.ID)
		if len(recipients) > 0 {
			root.Mailbox = append(root.Mailbox, notification.SlotReopened(recipients, task))
		}
		return root, nil
	})
}

// AvailableSlots reports how many slots remain on a task. Never
// negative: claims are capacity-checked at insert.
func (s *Service) AvailableSlots(taskID string) (int, error) {
	root := s.store.Read()
	task, ok := root.TaskByID(taskID)
	if !ok {
		return 0, ErrNotFound
	}
	return task.Slots - root.ClaimedCount(taskID), nil
}

// Get returns one task with its slot accounting.
func (s *Service) Get(actor session.Session, taskID string) (Summary, error) {
	if !actor.Active() {
		return Summary{}, ErrNotAuthorized
	}
	root := s.store.Read()
	task, ok := root.TaskByID(taskID)
	if !ok || task.GroupID != actor.Group.ID {
		return Summary{}, ErrNotFound
	}
	return summarize(root, task, actor.User.ID), nil
}

// List returns the circle's tasks sorted by date then start time,
// optionally narrowed to one calendar date.
func (s *Service) List(actor session.Session, date string) ([]Summary, error) {
	if !actor.Active() {
		return nil, ErrNotAuthorized
	}

	root := s.store.Read()
	var out []Summary
	for _, t := range root.Tasks {
		if t.GroupID != actor.Group.ID {
			continue
		}
		if date != "" && t.TaskDate != date {
			continue
		}
		out = append(out, summarize(root, t, actor.User.ID))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TaskDate != out[j].TaskDate {
			return out[i].TaskDate < out[j].TaskDate
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

// RenderCalendar produces the iCalendar text for a task, for the
// download button on the calendar page.
func (s *Service) RenderCalendar(actor session.Session, taskID string) (string, store.Task, error) {
	if !actor.Active() {
		return "", store.Task{}, ErrNotAuthorized
	}
	root := s.store.Read()
	task, ok := root.TaskByID(taskID)
	if !ok || task.GroupID != actor.Group.ID {
		return "", store.Task{}, ErrNotFound
	}
	text, err := ics.Render(task)
	if err != nil {
		return "", store.Task{}, err
	}
	return text, task, nil
}

func summarize(root store.Root, t store.Task, userID string) Summary {
	claimed := root.ClaimedCount(t.ID)
	return Summary{
		Task:      t,
		Claimed:   root.HasClaim(t.ID, userID),
		ClaimedBy: claimed,
		Available: t.Slots - claimed,
		Creator:   root.Users[t.CreatedBy],
	}
}
