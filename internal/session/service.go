package session

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carecircle/backend/internal/store"
)

// Common errors
var (
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrNotAMember        = errors.New("user is not a member of this group")
	ErrInvalidInviteCode = errors.New("invalid invite code")
)

// Session is the resolved current actor: who is acting, in which
// circle, with which role. The zero value means "no session" and pages
// gate on that.
type Session struct {
	User  store.User
	Group store.Group
	Role  store.Role
}

// Active reports whether every link of the session resolved.
func (s Session) Active() bool {
	return s.User.ID != "" && s.Group.ID != "" && s.Role != ""
}

// Service resolves and moves the store-resident session pointer
type Service struct {
	store *store.Store
}

// NewService creates a new session service
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Get derives the current session from the store. A missing user or
// group, or a membership that is not ACTIVE, yields the zero session
// rather than a partial one.
func (s *Service) Get() Session {
	root := s.store.Read()
	return resolve(root)
}

// Authenticated reports whether a full session is currently active.
// Satisfies the middleware gate.
func (s *Service) Authenticated() bool {
	return s.Get().Active()
}

func resolve(root store.Root) Session {
	userID, groupID := root.Session.UserID, root.Session.GroupID
	if userID == "" || groupID == "" {
		return Session{}
	}

	user, okUser := root.Users[userID]
	group, okGroup := root.Groups[groupID]
	if !okUser || !okGroup {
		return Session{}
	}

	member, ok := root.ActiveMembership(groupID, userID)
	if !ok {
		return Session{}
	}

	return Session{User: user, Group: group, Role: member.Role}
}

// Login finds the user by exact email match, creating one on first
// login with the email's local part as display name, and points the
// session at them. The selected group, if any, is left alone.
func (s *Service) Login(email string) (store.User, error) {
	var user store.User
	err := s.store.Mutate(func(root store.Root) (store.Root, error) {
		existing, ok := root.UserByEmail(email)
		if !ok {
			existing = store.User{
				ID:    uuid.NewString(),
				Email: email,
				Name:  localPart(email),
			}
			root.Users[existing.ID] = existing
		}
		root.Session.UserID = existing.ID
		user = existing
		return root, nil
	})
	return user, err
}

// SelectGroup points the session at a group the current user actively
// belongs to.
func (s *Service) SelectGroup(groupID string) error {
	return s.store.Mutate(func(root store.Root) (store.Root, error) {
		userID := root.Session.UserID
		if userID == "" {
			return root, ErrNotLoggedIn
		}
		if _, ok := root.ActiveMembership(groupID, userID); !ok {
			return root, ErrNotAMember
		}
		root.Session.GroupID = groupID
		return root, nil
	})
}

// Logout clears both session pointers. Alert throttle bookkeeping is
// group state and survives.
func (s *Service) Logout() error {
	return s.store.Mutate(func(root store.Root) (store.Root, error) {
		root.Session.UserID = ""
		root.Session.GroupID = ""
		return root, nil
	})
}

// Join resolves an invite code to its circle, finds or creates the
// user, makes sure they hold an ACTIVE membership with role MEMBER and
// signs them in to that circle.
func (s *Service) Join(code, name, email string) (Session, error) {
	err := s.store.Mutate(func(root store.Root) (store.Root, error) {
		group, ok := root.GroupByInviteCode(code)
		if !ok {
			return root, ErrInvalidInviteCode
		}

		user, ok := root.UserByEmail(email)
		if !ok {
			user = store.User{ID: uuid.NewString(), Email: email, Name: name}
			if user.Name == "" {
				user.Name = localPart(email)
			}
			root.Users[user.ID] = user
		} else if user.Name == "" && name != "" {
			user.Name = name
			root.Users[user.ID] = user
		}

		if member, i, exists := root.MembershipOf(group.ID, user.ID); exists {
			if member.Status != store.MemberStatusActive {
				member.Status = store.MemberStatusActive
				member.Role = store.RoleMember
				root.Members[i] = member
			}
		} else {
			root.Members = append(root.Members, store.Membership{
				GroupID:  group.ID,
				UserID:   user.ID,
				Role:     store.RoleMember,
				Status:   store.MemberStatusActive,
				JoinedAt: time.Now(),
			})
		}

		root.Session.UserID = user.ID
		root.Session.GroupID = group.ID
		return root, nil
	})
	if err != nil {
		return Session{}, err
	}
	return s.Get(), nil
}

// Groups lists the circles where the current user holds an ACTIVE
// membership, for the group switcher.
func (s *Service) Groups() ([]store.Group, error) {
	root := s.store.Read()
	userID := root.Session.UserID
	if userID == "" {
		return nil, ErrNotLoggedIn
	}

	var out []store.Group
	for _, m := range root.Members {
		if m.UserID != userID || m.Status != store.MemberStatusActive {
			continue
		}
		if g, ok := root.Groups[m.GroupID]; ok {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// localPart derives a default display name from an email address.
func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
