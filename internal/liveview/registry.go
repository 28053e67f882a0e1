package liveview

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrViewNotFound = errors.New("live view not found")

// View is an open live view.
type View interface {
	ID() string
	OwnerID() uint64
	Close()
}

// Registry tracks the open views so intents can find them by id.
type Registry struct {
	mu    sync.Mutex
	views map[string]View
}

func NewRegistry() *Registry {
	return &Registry{views: make(map[string]View)}
}

// NewID returns a fresh view id.
func NewID() string {
	return uuid.NewString()
}

func (r *Registry) Add(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[v.ID()] = v
}

// Get returns the view only to the user who opened it.
func (r *Registry) Get(id string, ownerID uint64) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.views[id]
	if !ok || v.OwnerID() != ownerID {
		return nil, ErrViewNotFound
	}
	return v, nil
}

// Remove closes and forgets a view. Unknown ids are ignored.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if ok {
		v.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// CloseAll closes every view, on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]View)
	r.mu.Unlock()

	for _, v := range views {
		v.Close()
	}
}
