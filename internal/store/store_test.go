package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSeedsEmptyStore(t *testing.T) {
	s := openTestStore(t)

	root := s.Read()
	assert.Len(t, root.Groups, 1)
	assert.Len(t, root.Users, 3)
	assert.Len(t, root.Members, 3)
	assert.NotEmpty(t, root.Tasks)

	_, ok := root.GroupByInviteCode("CARE42")
	assert.True(t, ok)

	assert.Empty(t, root.Session.UserID, "seed starts signed out")
	assert.Empty(t, root.Session.GroupID)
}

func TestMutateSwapsSnapshot(t *testing.T) {
	s := openTestStore(t)

	u := User{ID: "u-test", Email: "test@example.com", Name: "Test"}
	err := s.Mutate(func(root Root) (Root, error) {
		root.Users[u.ID] = u
		return root, nil
	})
	require.NoError(t, err)

	got, ok := s.Read().Users["u-test"]
	require.True(t, ok)
	assert.Equal(t, "test@example.com", got.Email)
}

func TestMutateErrorLeavesSnapshotUntouched(t *testing.T) {
	s := openTestStore(t)
	before := s.Read()

	boom := errors.New("boom")
	err := s.Mutate(func(root Root) (Root, error) {
		root.Users["u-ghost"] = User{ID: "u-ghost", Email: "ghost@example.com"}
		root.Tasks = nil
		return root, boom
	})
	require.ErrorIs(t, err, boom)

	after := s.Read()
	assert.Equal(t, len(before.Users), len(after.Users))
	assert.Equal(t, len(before.Tasks), len(after.Tasks))
	_, ok := after.Users["u-ghost"]
	assert.False(t, ok)
}

func TestReadReturnsIsolatedCopy(t *testing.T) {
	s := openTestStore(t)

	snapshot := s.Read()
	snapshot.Users["u-rogue"] = User{ID: "u-rogue"}
	snapshot.Members[0].Status = MemberStatusRemoved

	fresh := s.Read()
	_, ok := fresh.Users["u-rogue"]
	assert.False(t, ok, "edits to a snapshot must not leak into the store")
	assert.Equal(t, MemberStatusActive, fresh.Members[0].Status)
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)

	err = s.Mutate(func(root Root) (Root, error) {
		root.Users["u-persist"] = User{ID: "u-persist", Email: "persist@example.com"}
		root.Session.LastAlertAt["g-x"] = time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
		return root, nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	root := reopened.Read()
	_, ok := root.Users["u-persist"]
	assert.True(t, ok)
	assert.Equal(t, 9, root.Session.LastAlertAt["g-x"].UTC().Hour())
}

func TestConcurrentMutations(t *testing.T) {
	s := openTestStore(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Mutate(func(root Root) (Root, error) {
				root.Signups = append(root.Signups, Signup{
					TaskID:    "t-stress",
					UserID:    string(rune('a' + i)),
					Status:    SignupStatusClaimed,
					ClaimedAt: time.Now(),
				})
				return root, nil
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, s.Read().ClaimedCount("t-stress"))
}
