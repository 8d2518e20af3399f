package member

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carecircle/backend/internal/session"
	"github.com/carecircle/backend/internal/store"
)

type fixture struct {
	group   store.Group
	patient store.User
	admin   store.User
	helper  store.User
}

func newFixture(t *testing.T) (*store.Store, fixture) {
	t.Helper()

	st, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	f := fixture{
		group:   store.Group{ID: "g-1", Name: "Test Circle", InviteCode: "JOIN01"},
		patient: store.User{ID: "u-patient", Email: "pat@example.com", Name: "Pat"},
		admin:   store.User{ID: "u-admin", Email: "admin@example.com", Name: "Ada"},
		helper:  store.User{ID: "u-helper", Email: "helper@example.com", Name: "Hana"},
	}

	err = st.Mutate(func(store.Root) (store.Root, error) {
		return store.Root{
			Users: map[string]store.User{
				f.patient.ID: f.patient,
				f.admin.ID:   f.admin,
				f.helper.ID:  f.helper,
			},
			Groups: map[string]store.Group{f.group.ID: f.group},
			Members: []store.Membership{
				{GroupID: f.group.ID, UserID: f.patient.ID, Role: store.RolePatient, Status: store.MemberStatusActive, JoinedAt: time.Now()},
				{GroupID: f.group.ID, UserID: f.admin.ID, Role: store.RoleAdmin, Status: store.MemberStatusActive, JoinedAt: time.Now()},
				{GroupID: f.group.ID, UserID: f.helper.ID, Role: store.RoleMember, Status: store.MemberStatusActive, JoinedAt: time.Now()},
			},
		}, nil
	})
	require.NoError(t, err)

	return st, f
}

func (f fixture) as(u store.User, role store.Role) session.Session {
	return session.Session{User: u, Group: f.group, Role: role}
}

func TestListResolvesUsers(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	members, err := svc.List(f.as(f.helper, store.RoleMember))
	require.NoError(t, err)
	require.Len(t, members, 3)

	byID := map[string]Member{}
	for _, m := range members {
		byID[m.UserID] = m
	}
	assert.Equal(t, "Pat", byID[f.patient.ID].User.Name)
	assert.Equal(t, store.RoleAdmin, byID[f.admin.ID].Role)
}

func TestListExcludesRemovedMembers(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	require.NoError(t, svc.Remove(f.as(f.admin, store.RoleAdmin), f.helper.ID))

	members, err := svc.List(f.as(f.admin, store.RoleAdmin))
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestAddRequiresManagerRole(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	_, err := svc.Add(f.as(f.helper, store.RoleMember), "new@example.com", store.RoleMember)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAddCreatesUserAndMembership(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	added, err := svc.Add(f.as(f.admin, store.RoleAdmin), "new@example.com", store.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "new", added.User.Name)
	assert.Equal(t, store.RoleAdmin, added.Role)
	assert.Equal(t, store.MemberStatusActive, added.Status)

	m, ok := st.Read().ActiveMembership(f.group.ID, added.UserID)
	require.True(t, ok)
	assert.Equal(t, store.RoleAdmin, m.Role)
}

func TestAddByPatientAllowed(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	_, err := svc.Add(f.as(f.patient, store.RolePatient), "new@example.com", store.RoleMember)
	assert.NoError(t, err)
}

func TestAddRejectsPatientRole(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	_, err := svc.Add(f.as(f.admin, store.RoleAdmin), "new@example.com", store.RolePatient)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAddReactivatesRemovedRow(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)
	actor := f.as(f.admin, store.RoleAdmin)

	require.NoError(t, svc.Remove(actor, f.helper.ID))

	added, err := svc.Add(actor, f.helper.Email, store.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, f.helper.ID, added.UserID)
	assert.Equal(t, store.RoleAdmin, added.Role)

	count := 0
	for _, m := range st.Read().Members {
		if m.GroupID == f.group.ID && m.UserID == f.helper.ID {
			count++
		}
	}
	assert.Equal(t, 1, count, "one membership row per user and group")
}

func TestRemoveSelfRejected(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	err := svc.Remove(f.as(f.admin, store.RoleAdmin), f.admin.ID)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestRemovePatientRejected(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	err := svc.Remove(f.as(f.admin, store.RoleAdmin), f.patient.ID)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, ok := st.Read().ActiveMembership(f.group.ID, f.patient.ID)
	assert.True(t, ok, "patient membership untouched")
}

func TestRemoveUnknownTarget(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	err := svc.Remove(f.as(f.admin, store.RoleAdmin), "u-nobody")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestRemoveFlipsStatus(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	require.NoError(t, svc.Remove(f.as(f.patient, store.RolePatient), f.helper.ID))

	m, _, ok := st.Read().MembershipOf(f.group.ID, f.helper.ID)
	require.True(t, ok, "row is kept, not deleted")
	assert.Equal(t, store.MemberStatusRemoved, m.Status)
}

func TestChangeRolePromotesMember(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)

	changed, err := svc.ChangeRole(f.as(f.patient, store.RolePatient), f.helper.ID, store.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, store.RoleAdmin, changed.Role)
	assert.Equal(t, f.helper.Email, changed.User.Email)

	m, ok := st.Read().ActiveMembership(f.group.ID, f.helper.ID)
	require.True(t, ok)
	assert.Equal(t, store.RoleAdmin, m.Role)
}

func TestChangeRoleGuards(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)
	actor := f.as(f.admin, store.RoleAdmin)

	_, err := svc.ChangeRole(f.as(f.helper, store.RoleMember), f.admin.ID, store.RoleMember)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ChangeRole(actor, f.admin.ID, store.RoleMember)
	assert.ErrorIs(t, err, ErrInvalidTarget, "cannot re-role yourself")

	_, err = svc.ChangeRole(actor, f.patient.ID, store.RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidTarget, "the patient role is fixed")

	_, err = svc.ChangeRole(actor, f.helper.ID, store.RolePatient)
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.ChangeRole(actor, "u-nobody", store.RoleAdmin)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestChangeRoleIdempotent(t *testing.T) {
	st, f := newFixture(t)
	svc := NewService(st)
	actor := f.as(f.admin, store.RoleAdmin)

	first, err := svc.ChangeRole(actor, f.helper.ID, store.RoleAdmin)
	require.NoError(t, err)
	second, err := svc.ChangeRole(actor, f.helper.ID, store.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, first.Role, second.Role)
}
