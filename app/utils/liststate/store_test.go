package liststate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID     string
	Active bool
}

func newItemStore() *Store[item] {
	return New(func(i item) string { return i.ID })
}

func TestStaleEpochIsDiscarded(t *testing.T) {
	s := newItemStore()

	slow := s.Begin()
	fast := s.Begin()

	assert.True(t, s.Apply(fast, []item{{ID: "new"}}))
	assert.False(t, s.Apply(slow, []item{{ID: "old"}}))

	assert.Equal(t, []item{{ID: "new"}}, s.Items())
	assert.Equal(t, fast, s.Generation())
}

func TestGenerationOnlyMovesOnApply(t *testing.T) {
	s := newItemStore()
	assert.False(t, s.Loaded())

	e := s.Begin()
	assert.Equal(t, Epoch(0), s.Generation())

	require.True(t, s.Apply(e, []item{{ID: "a"}}))
	assert.True(t, s.Loaded())
	assert.Equal(t, e, s.Generation())

	s.Begin()
	assert.Equal(t, e, s.Generation(), "a pending fetch keeps the held data's generation")
}

func TestStoreMutations(t *testing.T) {
	s := newItemStore()
	require.True(t, s.Apply(s.Begin(), []item{{ID: "a"}, {ID: "b"}, {ID: "c"}}))

	s.Upsert(item{ID: "b", Active: true})
	s.Upsert(item{ID: "d"})
	assert.Equal(t, 4, s.Len())

	got, ok := s.Get("b")
	require.True(t, ok)
	assert.True(t, got.Active)

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, []item{{ID: "b", Active: true}, {ID: "c"}, {ID: "d"}}, s.Items())

	assert.False(t, s.Update("zzz", func(*item) {}))
}

func TestUpsertSkipsBlankID(t *testing.T) {
	s := newItemStore()
	require.True(t, s.Apply(s.Begin(), []item{{ID: "a"}}))

	s.Upsert(item{Active: true})
	assert.Equal(t, []item{{ID: "a"}}, s.Items())
}

func TestItemsReturnsCopy(t *testing.T) {
	s := newItemStore()
	require.True(t, s.Apply(s.Begin(), []item{{ID: "a"}}))

	items := s.Items()
	items[0].ID = "mutated"

	got, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "a", got.ID)
}

func TestBoolView(t *testing.T) {
	s := newItemStore()
	require.True(t, s.Apply(s.Begin(), []item{{ID: "a"}}))
	v := NewBoolView(s, map[string]BoolField[item]{
		"isActive": {Get: func(i item) bool { return i.Active }, Set: func(i *item, b bool) { i.Active = b }},
	})

	assert.True(t, v.SetBool("a", "isActive", true))
	got, ok := v.GetBool("a", "isActive")
	assert.True(t, ok)
	assert.True(t, got)

	_, ok = v.GetBool("a", "isTopPick")
	assert.False(t, ok)
	assert.False(t, v.SetBool("missing", "isActive", true))
	assert.Equal(t, s.Generation(), v.Generation())
}

func TestRegistryExpiresIdleWorkspaces(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	created := 0
	r := NewRegistry(time.Hour, func() *Store[item] {
		created++
		return newItemStore()
	})
	r.now = func() time.Time { return now }

	first := r.Get("session-a")
	assert.Same(t, first, r.Get("session-a"))
	assert.Equal(t, 1, created)

	r.Get("session-b")
	now = now.Add(2 * time.Hour)
	r.Get("session-b")
	assert.Equal(t, 1, r.Len(), "both expired, only session-b was recreated")
	assert.Equal(t, 3, created)

	assert.NotSame(t, first, r.Get("session-a"))
	assert.Equal(t, 2, r.Len())

	r.Drop("session-a")
	assert.Equal(t, 1, r.Len())
}
