package feed

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_OpenApplyGet(t *testing.T) {
	r := NewRegistry(time.Minute, nil)
	s := r.Open(FallbackPostings(), "")

	updated, err := r.Apply(s.ID, SetQuery("python"))
	require.NoError(t, err)
	assert.Equal(t, "python", updated.State.Filters.Query)

	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "5"}, ids(got.View(DefaultPageSize).Items))
}

func TestRegistry_UnknownSession(t *testing.T) {
	r := NewRegistry(time.Minute, nil)

	_, err := r.Get(uuid.New())
	var notFound *SessionNotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = r.Apply(uuid.New(), ClearFilters())
	assert.ErrorAs(t, err, &notFound)
}

func TestRegistry_ApplyErrorLeavesStateUnchanged(t *testing.T) {
	r := NewRegistry(time.Minute, nil)
	s := r.Open(FallbackPostings(), "")
	_, err := r.Apply(s.ID, GoToPage(2))
	require.NoError(t, err)

	_, err = r.Apply(s.ID, Action{Type: "bogus"})
	require.Error(t, err)

	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.State.Page)
}

func TestRegistry_DismissPersistsForSession(t *testing.T) {
	r := NewRegistry(time.Minute, nil)
	s := r.Open(FallbackPostings(), FallbackNotice)

	_, err := r.Apply(s.ID, Dismiss("4"))
	require.NoError(t, err)
	_, err = r.Apply(s.ID, SetSkills("Python"))
	require.NoError(t, err)
	got, err := r.Apply(s.ID, ClearFilters())
	require.NoError(t, err)

	assert.NotContains(t, ids(got.View(DefaultPageSize).Items), "4")
	assert.Equal(t, FallbackNotice, got.Notice)
}

func TestRegistry_Expire(t *testing.T) {
	r := NewRegistry(time.Minute, nil)
	now := time.Now()
	r.now = func() time.Time { return now }

	stale := r.Open(nil, "")
	now = now.Add(45 * time.Second)
	fresh := r.Open(nil, "")
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, r.expire())
	_, err := r.Get(stale.ID)
	assert.Error(t, err)
	_, err = r.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestRegistry_RunStopsOnCancel(t *testing.T) {
	r := NewRegistry(time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRegistry_Close(t *testing.T) {
	r := NewRegistry(time.Minute, nil)
	s := r.Open(nil, "")
	require.Equal(t, 1, r.Len())

	r.Close(s.ID)
	r.Close(s.ID)

	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ApplyAllIsAtomic(t *testing.T) {
	r := NewRegistry(time.Minute, nil)
	s := r.Open(FallbackPostings(), "")

	_, err := r.ApplyAll(s.ID, []Action{SetQuery("react"), Dismiss("1"), {Type: "bogus"}})
	require.Error(t, err)

	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.State.Filters.Query)
	assert.Empty(t, got.State.Dismissed)

	got, err = r.ApplyAll(s.ID, []Action{SetQuery("react"), Dismiss("1")})
	require.NoError(t, err)
	assert.Equal(t, "react", got.State.Filters.Query)
	assert.Equal(t, []string{"1"}, got.State.Dismissed)
}
