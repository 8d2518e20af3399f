package store

import "time"

// Role is a member's role within a circle
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleMember  Role = "MEMBER"
	RoleAdmin   Role = "ADMIN"
)

// MemberStatus represents the status of a circle membership.
// Removed members keep their row so history is preserved.
type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "ACTIVE"
	MemberStatusRemoved MemberStatus = "REMOVED"
)

// SignupStatus represents the status of a slot signup. A signup row is
// removed outright on unclaim, so CLAIMED is the only value.
type SignupStatus string

const SignupStatusClaimed SignupStatus = "CLAIMED"

// Mood is a coarse self-reported status tag
type Mood string

const (
	MoodGood Mood = "GOOD"
	MoodOkay Mood = "OKAY"
	MoodBad  Mood = "BAD"
)

// Notification meta kinds identifying the triggering event
const (
	NotifyTaskClaimed  = "task-claimed"
	NotifySlotReopened = "slot-reopened"
	NotifyBadDayAlert  = "bad-day-alert"
)

// User represents a person known to the system. Users are created on
// first login or first add-by-email and never deleted.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Group represents a support circle
type Group struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"inviteCode"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Membership ties a user to a group with a role. Role changes and
// removal mutate the row in place rather than deleting it.
type Membership struct {
	GroupID  string       `json:"groupId"`
	UserID   string       `json:"userId"`
	Role     Role         `json:"role"`
	Status   MemberStatus `json:"status"`
	JoinedAt time.Time    `json:"joinedAt"`
}

// Task is a bounded-capacity help request on the circle calendar.
// Tasks are immutable once created.
type Task struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"groupId"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	TaskDate  string    `json:"taskDate"`            // YYYY-MM-DD
	StartTime string    `json:"startTime,omitempty"` // HH:MM
	EndTime   string    `json:"endTime,omitempty"`   // HH:MM
	Location  string    `json:"location,omitempty"`
	Details   string    `json:"details,omitempty"`
	Slots     int       `json:"slots"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// StartAt resolves the task's start as a point in time. Tasks without a
// start time begin at midnight.
func (t Task) StartAt() time.Time {
	return atTime(t.TaskDate, t.StartTime, "00:00")
}

// EndAt resolves the task's end, defaulting to the end of the day.
func (t Task) EndAt() time.Time {
	return atTime(t.TaskDate, t.EndTime, "23:59")
}

func atTime(date, clock, fallback string) time.Time {
	if clock == "" {
		clock = fallback
	}
	ts, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Signup records one user's claim on one task slot. Its existence is
// the sole source of truth for "is this user committed to this task".
type Signup struct {
	TaskID    string       `json:"taskId"`
	UserID    string       `json:"userId"`
	Status    SignupStatus `json:"status"`
	ClaimedAt time.Time    `json:"claimedAt"`
}

// StatusUpdate is an append-only mood-tagged post
type StatusUpdate struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"groupId"`
	AuthorID   string    `json:"authorId"`
	Mood       Mood      `json:"mood"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	Visibility string    `json:"visibility"`
}

// NotificationMeta tags a notification with its triggering event
type NotificationMeta struct {
	Kind   string `json:"kind"`
	TaskID string `json:"taskId,omitempty"`
	ICS    string `json:"ics,omitempty"`
}

// Notification is a captured outbound message. The mailbox is
// append-only; real delivery is external.
type Notification struct {
	ID        string           `json:"id"`
	To        []string         `json:"to"`
	Subject   string           `json:"subject"`
	Body      string           `json:"body"`
	Text      string           `json:"text,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	Meta      NotificationMeta `json:"meta"`
}

// SessionState is the current-actor pointer plus per-group alert
// throttle bookkeeping.
type SessionState struct {
	UserID      string               `json:"userId,omitempty"`
	GroupID     string               `json:"groupId,omitempty"`
	LastAlertAt map[string]time.Time `json:"lastAlertAt,omitempty"`
}

// Root is the full document held by the store. Mutations replace whole
// collections (copy-on-write); entities are treated as immutable values.
type Root struct {
	Users   map[string]User  `json:"users"`
	Groups  map[string]Group `json:"groups"`
	Members []Membership     `json:"members"`
	Tasks   []Task           `json:"tasks"`
	Signups []Signup         `json:"signups"`
	Updates []StatusUpdate   `json:"updates"`
	Mailbox []Notification   `json:"mailbox"`
	Session SessionState     `json:"session"`
}

// Clone returns a copy of the document with every collection copied, so
// a mutator can append and replace freely without touching the snapshot
// other readers hold.
func (r Root) Clone() Root {
	out := Root{
		Users:   make(map[string]User, len(r.Users)),
		Groups:  make(map[string]Group, len(r.Groups)),
		Members: append([]Membership(nil), r.Members...),
		Tasks:   append([]Task(nil), r.Tasks...),
		Signups: append([]Signup(nil), r.Signups...),
		Updates: append([]StatusUpdate(nil), r.Updates...),
		Mailbox: append([]Notification(nil), r.Mailbox...),
		Session: SessionState{
			UserID:      r.Session.UserID,
			GroupID:     r.Session.GroupID,
			LastAlertAt: make(map[string]time.Time, len(r.Session.LastAlertAt)),
		},
	}
	for id, u := range r.Users {
		out.Users[id] = u
	}
	for id, g := range r.Groups {
		out.Groups[id] = g
	}
	for id, ts := range r.Session.LastAlertAt {
		out.Session.LastAlertAt[id] = ts
	}
	return out
}
