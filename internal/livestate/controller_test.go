package livestate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID     int
	Status string
}

func itemKey(i item) int { return i.ID }

type fakeStore struct {
	mu    sync.Mutex
	items []item
	calls int
}

func (s *fakeStore) load(ctx context.Context) ([]item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	out := make([]item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *fakeStore) set(id int, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = status
		}
	}
}

func newStore() *fakeStore {
	return &fakeStore{items: []item{{ID: 1, Status: "pending"}, {ID: 2, Status: "working"}}}
}

func TestReloadIsIdempotent(t *testing.T) {
	store := newStore()
	c := New[item, int](store.load, itemKey, nil)
	ctx := context.Background()

	require.NoError(t, c.Reload(ctx))
	first := c.Snapshot().Entities
	require.NoError(t, c.Reload(ctx))

	assert.Equal(t, first, c.Snapshot().Entities)
	assert.False(t, c.Snapshot().Loading)
	assert.Equal(t, 2, store.calls)
}

func TestApplyLocalUpdateVisibleBeforeCommit(t *testing.T) {
	store := newStore()
	c := New[item, int](store.load, itemKey, nil)
	ctx := context.Background()
	require.NoError(t, c.Reload(ctx))

	err := c.ApplyLocalUpdate(ctx, item{ID: 1, Status: "done"}, func(ctx context.Context) error {
		got, ok := c.Find(1)
		require.True(t, ok)
		assert.Equal(t, "done", got.Status)
		store.set(1, "done")
		return nil
	})
	require.NoError(t, err)

	got, _ := c.Find(1)
	assert.Equal(t, "done", got.Status)
}

func TestFailedCommitConvergesToStore(t *testing.T) {
	store := newStore()
	c := New[item, int](store.load, itemKey, nil)
	ctx := context.Background()
	require.NoError(t, c.Reload(ctx))

	commitErr := errors.New("network down")
	err := c.ApplyLocalUpdate(ctx, item{ID: 2, Status: "stuck"}, func(ctx context.Context) error {
		return commitErr
	})
	require.ErrorIs(t, err, commitErr)

	got, ok := c.Find(2)
	require.True(t, ok)
	assert.Equal(t, "working", got.Status)
}

func TestFailedDeleteRestoresEntity(t *testing.T) {
	store := newStore()
	c := New[item, int](store.load, itemKey, nil)
	ctx := context.Background()
	require.NoError(t, c.Reload(ctx))

	err := c.ApplyLocalDelete(ctx, 1, func(ctx context.Context) error {
		_, ok := c.Find(1)
		assert.False(t, ok)
		return errors.New("rejected")
	})
	require.Error(t, err)

	_, ok := c.Find(1)
	assert.True(t, ok)
}

func TestApplyLocalCreatePrepends(t *testing.T) {
	store := newStore()
	c := New[item, int](store.load, itemKey, nil)
	require.NoError(t, c.Reload(context.Background()))

	require.NoError(t, c.ApplyLocalCreate(item{ID: 3, Status: "pending"}))

	entities := c.Snapshot().Entities
	require.Len(t, entities, 3)
	assert.Equal(t, 3, entities[0].ID)
}

func TestConcurrentReloadAndEditConverge(t *testing.T) {
	store := newStore()
	c := New[item, int](store.load, itemKey, nil)
	ctx := context.Background()
	require.NoError(t, c.Reload(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.Reload(ctx)
		}()
		go func() {
			defer wg.Done()
			_ = c.ApplyLocalUpdate(ctx, item{ID: 1, Status: "done"}, func(ctx context.Context) error {
				store.set(1, "done")
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, c.Reload(ctx))
	got, _ := c.Find(1)
	assert.Equal(t, "done", got.Status)
	assert.False(t, c.Snapshot().Loading)
}

func TestLoadingTracksInflightReloads(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	c := New[item, int](func(ctx context.Context) ([]item, error) {
		close(started)
		<-release
		return nil, nil
	}, itemKey, nil)

	done := make(chan error, 1)
	go func() { done <- c.Reload(context.Background()) }()

	<-started
	assert.True(t, c.Snapshot().Loading)
	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Snapshot().Loading)
}

func TestReloadErrorKeepsEntities(t *testing.T) {
	fail := false
	c := New[item, int](func(ctx context.Context) ([]item, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return []item{{ID: 1}}, nil
	}, itemKey, nil)
	ctx := context.Background()
	require.NoError(t, c.Reload(ctx))

	fail = true
	require.Error(t, c.Reload(ctx))
	assert.Len(t, c.Snapshot().Entities, 1)
}

func TestWatchReceivesLatestSnapshot(t *testing.T) {
	store := newStore()
	c := New[item, int](store.load, itemKey, nil)
	ch, cancel := c.Watch()
	defer cancel()

	initial := <-ch
	assert.Empty(t, initial.Entities)

	require.NoError(t, c.Reload(context.Background()))

	select {
	case snap := <-ch:
		assert.Len(t, snap.Entities, 2)
		assert.Greater(t, snap.Version, initial.Version)
	case <-time.After(time.Second):
		t.Fatal("no snapshot after reload")
	}
}

func TestCloseIgnoresLateResults(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	c := New[item, int](func(ctx context.Context) ([]item, error) {
		close(started)
		<-release
		return []item{{ID: 9}}, nil
	}, itemKey, nil)
	ch, _ := c.Watch()
	<-ch

	done := make(chan error, 1)
	go func() { done <- c.Reload(context.Background()) }()
	<-started
	c.Close()
	close(release)

	assert.ErrorIs(t, <-done, ErrClosed)
	assert.Empty(t, c.Snapshot().Entities)
	assert.ErrorIs(t, c.ApplyLocalCreate(item{ID: 1}), ErrClosed)

	for range ch {
	}
}

func TestApplyLocalUpdatesCommitsOnce(t *testing.T) {
	store := newStore()
	c := New[item, int](store.load, itemKey, nil)
	ctx := context.Background()
	require.NoError(t, c.Reload(ctx))

	commits := 0
	err := c.ApplyLocalUpdates(ctx, []item{{ID: 1, Status: "done"}, {ID: 2, Status: "done"}}, func(ctx context.Context) error {
		commits++
		return errors.New("offline")
	})
	require.Error(t, err)
	assert.Equal(t, 1, commits)
	assert.Equal(t, []item{{ID: 1, Status: "pending"}, {ID: 2, Status: "working"}}, c.Snapshot().Entities)
}
