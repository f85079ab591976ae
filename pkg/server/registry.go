package server

import (
	"sync"
	"time"

	"github.com/mcteamhub/teamhub/pkg/crossfilter"
	"github.com/mcteamhub/teamhub/pkg/dataset"
)

// Scope is one page-level filtering context: its store and the view bound to
// it. Created empty on first use, dropped on navigation reset or idle
// eviction.
type Scope struct {
	Id       string
	Store    *crossfilter.Store
	View     *dataset.View
	lastUsed time.Time
}

type ViewFactory func(store *crossfilter.Store) *dataset.View

// Registry owns the scopes of one server instance. Scopes that go untouched
// for the ttl are evicted, mirroring the page unmount teardown of the
// dashboard clients.
type Registry struct {
	mu      sync.Mutex
	scopes  map[string]*Scope
	newView ViewFactory
	ttl     time.Duration
	quit    chan struct{}
}

func NewRegistry(newView ViewFactory, ttl time.Duration) *Registry {
	r := &Registry{
		scopes:  make(map[string]*Scope),
		newView: newView,
		ttl:     ttl,
		quit:    make(chan struct{}),
	}
	go r.evictLoop()
	return r
}

// Get returns the scope, creating it with empty filter sets on first use.
func (r *Registry) Get(id string) *Scope {
	r.mu.Lock()
	defer r.mu.Unlock()
	scope, ok := r.scopes[id]
	if !ok {
		store := crossfilter.NewStore()
		scope = &Scope{
			Id:    id,
			Store: store,
			View:  r.newView(store),
		}
		r.scopes[id] = scope
	}
	scope.lastUsed = time.Now()
	return scope
}

// Reset drops the scope entirely, the next Get starts from empty sets.
func (r *Registry) Reset(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scopes, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scopes)
}

func (r *Registry) Close() {
	close(r.quit)
}

func (r *Registry) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
			r.evictIdle(time.Now())
		}
	}
}

func (r *Registry) evictIdle(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, scope := range r.scopes {
		if now.Sub(scope.lastUsed) > r.ttl {
			delete(r.scopes, id)
		}
	}
}
