package crossfilter

import (
	"sync"

	"github.com/mcteamhub/teamhub/pkg/filter"
)

// FetchStrategy tells data-fetching collaborators whether the cached full
// dataset can be narrowed in process or a fresh server query is needed.
type FetchStrategy string

const (
	ServerSide FetchStrategy = "server-side"
	ClientSide FetchStrategy = "client-side"
)

// Store is the single source of truth for the active and pending filter sets
// of one analytics scope. All mutations go through the named operations,
// subscribers are notified after each one.
type Store struct {
	mu          sync.RWMutex
	active      []filter.Filter
	pending     []filter.Filter
	subscribers map[int]func()
	nextSub     int
}

func NewStore() *Store {
	return &Store{
		active:      make([]filter.Filter, 0),
		pending:     make([]filter.Filter, 0),
		subscribers: make(map[int]func()),
	}
}

// toggle removes the (field, value) pair when present, appends it otherwise.
func toggle(list []filter.Filter, f filter.Filter) []filter.Filter {
	for i, existing := range list {
		if existing.Same(f) {
			return append(list[:i], list[i+1:]...)
		}
	}
	return append(list, f)
}

// Add applies one click. Default replaces the whole active set with the new
// filter, appendMode toggles membership (ctrl-click multi select) and
// batchMode stages the toggle in pending until FlushPending.
func (s *Store) Add(f filter.Filter, appendMode bool, batchMode bool) {
	f = filter.New(f.Field, f.Value, f.Label)
	s.mu.Lock()
	switch {
	case batchMode:
		s.pending = toggle(s.pending, f)
	case appendMode:
		s.active = toggle(s.active, f)
	default:
		s.active = []filter.Filter{f}
	}
	s.mu.Unlock()
	s.notify()
}

// Remove drops every active filter on the given field. Pending is untouched.
func (s *Store) Remove(field string) {
	s.mu.Lock()
	kept := s.active[:0]
	for _, f := range s.active {
		if f.Field != field {
			kept = append(kept, f)
		}
	}
	s.active = kept
	s.mu.Unlock()
	s.notify()
}

// ClearAll empties the active set. An abandoned batch stays in pending until
// its gesture flushes it.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.active = make([]filter.Filter, 0)
	s.mu.Unlock()
	s.notify()
}

// FlushPending merges the staged batch into active, skipping (field, value)
// pairs already present, and empties pending. Called when the modifier key of
// a multi-select gesture is released.
func (s *Store) FlushPending() {
	s.mu.Lock()
	for _, staged := range s.pending {
		exists := false
		for _, f := range s.active {
			if f.Same(staged) {
				exists = true
				break
			}
		}
		if !exists {
			s.active = append(s.active, staged)
		}
	}
	s.pending = make([]filter.Filter, 0)
	s.mu.Unlock()
	s.notify()
}

// Export returns the active set stripped of ids, the shape saved views keep.
func (s *Store) Export() []filter.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]filter.Filter, len(s.active))
	for i, f := range s.active {
		f.Id = ""
		out[i] = f
	}
	return out
}

// Import replaces the active set wholesale, stamping fresh ids.
func (s *Store) Import(filters []filter.Filter) {
	fresh := make([]filter.Filter, 0, len(filters))
	for _, f := range filters {
		fresh = append(fresh, filter.New(f.Field, f.Value, f.Label))
	}
	s.mu.Lock()
	s.active = fresh
	s.mu.Unlock()
	s.notify()
}

// Active returns a copy of the active set in insertion order.
func (s *Store) Active() []filter.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]filter.Filter, len(s.active))
	copy(out, s.active)
	return out
}

// Pending returns a copy of the staged batch.
func (s *Store) Pending() []filter.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]filter.Filter, len(s.pending))
	copy(out, s.pending)
	return out
}

func (s *Store) HasActiveFilters() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active) > 0
}

// FetchStrategy flips to client-side as soon as any cross filter is active,
// back to server-side when the set empties.
func (s *Store) FetchStrategy() FetchStrategy {
	if s.HasActiveFilters() {
		return ClientSide
	}
	return ServerSide
}

// Subscribe registers a callback run after every mutation and returns its
// unsubscribe func.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}
