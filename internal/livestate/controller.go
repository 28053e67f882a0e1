// Package livestate keeps a presentation-ready list of entities current under
// three independent triggers: initial load, local mutation, and external
// change notification.
//
// Consistency is deliberately weak. Reloads and optimistic edits may complete
// in any order and the last state-replacing operation to finish wins. An
// optimistic edit whose remote call fails is discarded by a full reload; there
// is no per-field rollback.
package livestate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var ErrClosed = errors.New("livestate: controller is closed")

// Loader fetches the complete entity list from the store.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Commit performs the remote half of an optimistic mutation.
type Commit func(ctx context.Context) error

// Snapshot is an immutable view of the controller state.
type Snapshot[T any] struct {
	Entities []T    `json:"entities"`
	Loading  bool   `json:"loading"`
	Version  uint64 `json:"version"`
}

type Controller[T any, K comparable] struct {
	load   Loader[T]
	key    func(T) K
	logger *zap.Logger

	mu       sync.Mutex
	entities []T
	inflight int
	version  uint64
	closed   bool
	watchers map[int]chan Snapshot[T]
	nextID   int
}

func New[T any, K comparable](load Loader[T], key func(T) K, logger *zap.Logger) *Controller[T, K] {
	if logger == nil {
		logger = zap.L()
	}
	return &Controller[T, K]{
		load:     load,
		key:      key,
		logger:   logger,
		watchers: make(map[int]chan Snapshot[T]),
	}
}

// Reload replaces the entity list wholesale with the store's view.
// A result arriving after Close is dropped.
func (c *Controller[T, K]) Reload(ctx context.Context) error {
	if !c.beginLoad() {
		return ErrClosed
	}

	entities, err := c.load(ctx)

	c.mu.Lock()
	c.inflight--
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err == nil {
		c.entities = entities
	}
	c.publishLocked()
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	return nil
}

// ApplyLocalUpdate swaps entity in by identity before commit runs. If commit
// fails the controller reloads and the commit error is returned.
func (c *Controller[T, K]) ApplyLocalUpdate(ctx context.Context, entity T, commit Commit) error {
	id := c.key(entity)
	err := c.mutate(func(entities []T) []T {
		next := make([]T, len(entities))
		copy(next, entities)
		for i := range next {
			if c.key(next[i]) == id {
				next[i] = entity
			}
		}
		return next
	})
	if err != nil {
		return err
	}
	return c.commitOrReload(ctx, commit)
}

// ApplyLocalUpdates swaps several entities in at once under a single commit.
func (c *Controller[T, K]) ApplyLocalUpdates(ctx context.Context, entities []T, commit Commit) error {
	byID := make(map[K]T, len(entities))
	for _, e := range entities {
		byID[c.key(e)] = e
	}
	err := c.mutate(func(current []T) []T {
		next := make([]T, len(current))
		for i, e := range current {
			if replacement, ok := byID[c.key(e)]; ok {
				next[i] = replacement
				continue
			}
			next[i] = e
		}
		return next
	})
	if err != nil {
		return err
	}
	return c.commitOrReload(ctx, commit)
}

// ApplyLocalDelete removes the entity before commit runs, with the same
// reload-on-failure policy as ApplyLocalUpdate.
func (c *Controller[T, K]) ApplyLocalDelete(ctx context.Context, id K, commit Commit) error {
	err := c.mutate(func(entities []T) []T {
		next := make([]T, 0, len(entities))
		for _, e := range entities {
			if c.key(e) != id {
				next = append(next, e)
			}
		}
		return next
	})
	if err != nil {
		return err
	}
	return c.commitOrReload(ctx, commit)
}

// ApplyLocalCreate prepends an entity the store has already created.
// Creation is never optimistic: identity only exists once the store assigns it.
func (c *Controller[T, K]) ApplyLocalCreate(entity T) error {
	return c.mutate(func(entities []T) []T {
		next := make([]T, 0, len(entities)+1)
		next = append(next, entity)
		return append(next, entities...)
	})
}

// Find returns the entity with the given identity, if present.
func (c *Controller[T, K]) Find(id K) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entities {
		if c.key(e) == id {
			return e, true
		}
	}
	var zero T
	return zero, false
}

func (c *Controller[T, K]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Watch returns a channel carrying the latest snapshot after every change.
// Slow readers only ever see the most recent snapshot. The channel is closed
// by the returned cancel func or by Close.
func (c *Controller[T, K]) Watch() (<-chan Snapshot[T], func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Snapshot[T], 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextID
	c.nextID++
	c.watchers[id] = ch
	ch <- c.snapshotLocked()

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if w, ok := c.watchers[id]; ok {
			delete(c.watchers, id)
			close(w)
		}
	}
}

// Close stops the controller. In-flight results are ignored from now on.
func (c *Controller[T, K]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	for id, w := range c.watchers {
		delete(c.watchers, id)
		close(w)
	}
}

func (c *Controller[T, K]) beginLoad() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	c.inflight++
	c.publishLocked()
	return true
}

func (c *Controller[T, K]) mutate(fn func([]T) []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.entities = fn(c.entities)
	c.publishLocked()
	return nil
}

func (c *Controller[T, K]) commitOrReload(ctx context.Context, commit Commit) error {
	err := commit(ctx)
	if err == nil {
		return nil
	}

	if reloadErr := c.Reload(ctx); reloadErr != nil && !errors.Is(reloadErr, ErrClosed) {
		c.logger.Warn("reload after failed mutation also failed", zap.Error(reloadErr))
	}
	return err
}

func (c *Controller[T, K]) snapshotLocked() Snapshot[T] {
	entities := make([]T, len(c.entities))
	copy(entities, c.entities)
	return Snapshot[T]{
		Entities: entities,
		Loading:  c.inflight > 0,
		Version:  c.version,
	}
}

func (c *Controller[T, K]) publishLocked() {
	c.version++
	snap := c.snapshotLocked()
	for _, w := range c.watchers {
		select {
		case <-w:
		default:
		}
		w <- snap
	}
}
