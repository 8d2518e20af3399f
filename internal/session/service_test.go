package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carecircle/backend/internal/store"
)

type fixture struct {
	group   store.Group
	patient store.User
	helper  store.User
}

func newFixture(t *testing.T) (*store.Store, fixture) {
	t.Helper()

	st, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	f := fixture{
		group:   store.Group{ID: "g-1", Name: "Test Circle", InviteCode: "JOIN01", CreatedAt: time.Now()},
		patient: store.User{ID: "u-patient", Email: "pat@example.com", Name: "Pat"},
		helper:  store.User{ID: "u-helper", Email: "helper@example.com", Name: "Hana"},
	}

	err = st.Mutate(func(store.Root) (store.Root, error) {
		return store.Root{
			Users: map[string]store.User{
				f.patient.ID: f.patient,
				f.helper.ID:  f.helper,
			},
			Groups: map[string]store.Group{f.group.ID: f.group},
			Members: []store.Membership{
				{GroupID: f.group.ID, UserID: f.patient.ID, Role: store.RolePatient, Status: store.MemberStatusActive, JoinedAt: time.Now()},
				{GroupID: f.group.ID, UserID: f.helper.ID, Role: store.RoleMember, Status: store.MemberStatusActive, JoinedAt: time.Now()},
			},
		}, nil
	})
	require.NoError(t, err)

	return st, f
}

func TestLoginCreatesUserWithDefaultName(t *testing.T) {
	st, _ := newFixture(t)
	svc := NewService(st)

	user, err := svc.Login("newcomer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "newcomer", user.Name)
	assert.Equal(t, "newcomer@example.com", user.Email)

	root := st.Read()
	assert.Equal(t, user.ID, root.Session.UserID)
	_, ok := root.Users[user.ID]
	assert.True(t, ok)
}

func TestLoginFindsExistingUser(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	user, err := svc.Login(f.helper.Email)
	require.NoError(t, err)
	assert.Equal(t, f.helper.ID, user.ID)
	assert.Len(t, st.Read().Users, 2, "no duplicate user created")
}

func TestSelectGroupRequiresLogin(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	err := svc.SelectGroup(f.group.ID)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestSelectGroupRejectsNonMember(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	_, err := svc.Login("stranger@example.com")
	require.NoError(t, err)

	err = svc.SelectGroup(f.group.ID)
	assert.ErrorIs(t, err, ErrNotAMember)
	assert.False(t, svc.Get().Active())
}

func TestSelectGroupResolvesFullSession(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	_, err := svc.Login(f.patient.Email)
	require.NoError(t, err)
	require.NoError(t, svc.SelectGroup(f.group.ID))

	sess := svc.Get()
	require.True(t, sess.Active())
	assert.Equal(t, f.patient.ID, sess.User.ID)
	assert.Equal(t, f.group.ID, sess.Group.ID)
	assert.Equal(t, store.RolePatient, sess.Role)
}

func TestGetReturnsZeroSessionWhenMembershipRemoved(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	_, err := svc.Login(f.helper.Email)
	require.NoError(t, err)
	require.NoError(t, svc.SelectGroup(f.group.ID))
	require.True(t, svc.Get().Active())

	err = st.Mutate(func(root store.Root) (store.Root, error) {
		for i, m := range root.Members {
			if m.UserID == f.helper.ID {
				m.Status = store.MemberStatusRemoved
				root.Members[i] = m
			}
		}
		return root, nil
	})
	require.NoError(t, err)

	sess := svc.Get()
	assert.False(t, sess.Active())
	assert.Empty(t, sess.User.ID, "partial sessions are never returned")
	assert.Empty(t, sess.Group.ID)
}

func TestLogoutClearsPointers(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	_, err := svc.Login(f.patient.Email)
	require.NoError(t, err)
	require.NoError(t, svc.SelectGroup(f.group.ID))

	require.NoError(t, svc.Logout())
	assert.False(t, svc.Get().Active())

	root := st.Read()
	assert.Empty(t, root.Session.UserID)
	assert.Empty(t, root.Session.GroupID)
}

func TestJoinRejectsUnknownInviteCode(t *testing.T) {
	st, _ := newFixture(t)
	svc := NewService(st)

	_, err := svc.Join("NOPE99", "Sam", "sam@example.com")
	assert.ErrorIs(t, err, ErrInvalidInviteCode)
}

func TestJoinCreatesMemberAndSignsIn(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	sess, err := svc.Join(f.group.InviteCode, "Sam", "sam@example.com")
	require.NoError(t, err)
	require.True(t, sess.Active())
	assert.Equal(t, store.RoleMember, sess.Role)
	assert.Equal(t, "Sam", sess.User.Name)

	m, ok := st.Read().ActiveMembership(f.group.ID, sess.User.ID)
	require.True(t, ok)
	assert.Equal(t, store.RoleMember, m.Role)
}

func TestJoinReactivatesRemovedMembership(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	err := st.Mutate(func(root store.Root) (store.Root, error) {
		for i, m := range root.Members {
			if m.UserID == f.helper.ID {
				m.Status = store.MemberStatusRemoved
				root.Members[i] = m
			}
		}
		return root, nil
	})
	require.NoError(t, err)

	sess, err := svc.Join(f.group.InviteCode, "", f.helper.Email)
	require.NoError(t, err)
	assert.True(t, sess.Active())

	root := st.Read()
	count := 0
	for _, m := range root.Members {
		if m.UserID == f.helper.ID && m.GroupID == f.group.ID {
			count++
			assert.Equal(t, store.MemberStatusActive, m.Status)
		}
	}
	assert.Equal(t, 1, count, "membership row reactivated, not duplicated")
}

func TestGroupsListsActiveMembershipsOnly(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	other := store.Group{ID: "g-2", Name: "Another Circle", InviteCode: "JOIN02"}
	err := st.Mutate(func(root store.Root) (store.Root, error) {
		root.Groups[other.ID] = other
		root.Members = append(root.Members, store.Membership{
			GroupID: other.ID, UserID: f.patient.ID, Role: store.RoleMember, Status: store.MemberStatusRemoved,
		})
		return root, nil
	})
	require.NoError(t, err)

	_, err = svc.Login(f.patient.Email)
	require.NoError(t, err)

	groups, err := svc.Groups()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, f.group.ID, groups[0].ID)
}
