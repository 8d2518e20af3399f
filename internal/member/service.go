package member

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carecircle/backend/internal/session"
	"github.com/carecircle/backend/internal/store"
)

// Common errors
var (
	ErrForbidden      = errors.New("not allowed to manage members")
	ErrInvalidTarget  = errors.New("cannot change this membership")
	ErrInvalidRole    = errors.New("role must be MEMBER or ADMIN")
	ErrMemberNotFound = errors.New("member not found")
)

// Member joins a membership row with its user for display
type Member struct {
	store.Membership
	User store.User
}

// Service enforces who may add, remove and re-role circle members
type Service struct {
	store *store.Store
}

// NewService creates a new member service
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// canManage is the single role gate for membership mutation: only the
// patient and admins may manage the circle.
func canManage(actor session.Session) bool {
	return actor.Active() && (actor.Role == store.RoleAdmin || actor.Role == store.RolePatient)
}

// List returns the ACTIVE members of the actor's circle with their
// users resolved.
func (s *Service) List(actor session.Session) ([]Member, error) {
	if !actor.Active() {
		return nil, ErrForbidden
	}

	root := s.store.Read()
	var out []Member
	for _, m := range root.ActiveMembers(actor.Group.ID) {
		if u, ok := root.Users[m.UserID]; ok {
			out = append(out, Member{Membership: m, User: u})
		}
	}
	return out, nil
}

// Add finds or creates a user by email and gives them an ACTIVE
// membership with the requested role. A previously removed row is
// reactivated rather than duplicated, so at most one row ever exists
// per (group, user). PATIENT is not assignable through this path.
func (s *Service) Add(actor session.Session, email string, role store.Role) (Member, error) {
	if !canManage(actor) {
		return Member{}, ErrForbidden
	}
	if role != store.RoleMember && role != store.RoleAdmin {
		return Member{}, ErrInvalidRole
	}

	var added Member
	err := s.store.Mutate(func(root store.Root) (store.Root, error) {
		user, ok := root.UserByEmail(email)
		if !ok {
			user = store.User{ID: uuid.NewString(), Email: email, Name: localPart(email)}
			root.Users[user.ID] = user
		}

		if m, i, exists := root.MembershipOf(actor.Group.ID, user.ID); exists {
			m.Status = store.MemberStatusActive
			m.Role = role
			root.Members[i] = m
			added = Member{Membership: m, User: user}
			return root, nil
		}

		m := store.Membership{
			GroupID:  actor.Group.ID,
			UserID:   user.ID,
			Role:     role,
			Status:   store.MemberStatusActive,
			JoinedAt: time.Now(),
		}
		root.Members = append(root.Members, m)
		added = Member{Membership: m, User: user}
		return root, nil
	})
	return added, err
}

// Remove flips the target's membership to REMOVED. The actor cannot
// remove themselves and nobody removes the patient through this path.
func (s *Service) Remove(actor session.Session, targetUserID string) error {
	if !canManage(actor) {
		return ErrForbidden
	}
	if targetUserID == actor.User.ID {
		return ErrInvalidTarget
	}

	return s.store.Mutate(func(root store.Root) (store.Root, error) {
		m, i, ok := root.MembershipOf(actor.Group.ID, targetUserID)
		if !ok || m.Status != store.MemberStatusActive {
			return root, ErrMemberNotFound
		}
		if m.Role == store.RolePatient {
			return root, ErrInvalidTarget
		}
		m.Status = store.MemberStatusRemoved
		root.Members[i] = m
		return root, nil
	})
}

// ChangeRole sets the target's role to MEMBER or ADMIN under the same
// gate and target guards as removal. Re-applying the current role is a
// no-op.
func (s *Service) ChangeRole(actor session.Session, targetUserID string, newRole store.Role) (Member, error) {
	if !canManage(actor) {
		return Member{}, ErrForbidden
	}
	if targetUserID == actor.User.ID {
		return Member{}, ErrInvalidTarget
	}
	if newRole != store.RoleMember && newRole != store.RoleAdmin {
		return Member{}, ErrInvalidRole
	}

	var changed Member
	err := s.store.Mutate(func(root store.Root) (store.Root, error) {
		m, i, ok := root.MembershipOf(actor.Group.ID, targetUserID)
		if !ok || m.Status != store.MemberStatusActive {
			return root, ErrMemberNotFound
		}
		if m.Role == store.RolePatient {
			return root, ErrInvalidTarget
		}
		m.Role = newRole
		root.Members[i] = m
		changed = Member{Membership: m, User: root.Users[m.UserID]}
		return root, nil
	})
	return changed, err
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
