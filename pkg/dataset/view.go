package dataset

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mcteamhub/teamhub/pkg/crossfilter"
	"github.com/mcteamhub/teamhub/pkg/filter"
)

const defaultCacheTtl = 5 * time.Minute

// View binds one scope's store to its fetched dataset. It fetches on base-key
// change only and memoizes derived row sets per active-filter signature, so
// toggling cross filters against loaded data costs a scan, never a fetch.
type View struct {
	mu       sync.Mutex
	store    *crossfilter.Store
	fetcher  Fetcher
	cache    *Cache
	cacheTtl time.Duration
	page     map[string]any
	baseKey  string
	hasBase  bool
	baseRows []crossfilter.Row
	derived  map[string][]crossfilter.Row
}

func NewView(store *crossfilter.Store, fetcher Fetcher, cache *Cache) *View {
	return &View{
		store:    store,
		fetcher:  fetcher,
		cache:    cache,
		cacheTtl: defaultCacheTtl,
		page:     make(map[string]any),
		derived:  make(map[string][]crossfilter.Row),
	}
}

// SetPageFilters replaces the page's full filter object (form controls, date
// pickers). A changed base key takes effect on the next Rows call.
func (v *View) SetPageFilters(filters map[string]any) {
	page := make(map[string]any, len(filters))
	for key, value := range filters {
		page[key] = value
	}
	v.mu.Lock()
	v.page = page
	v.mu.Unlock()
}

// Rows returns the currently visible subset: the base dataset narrowed by the
// active cross filters.
func (v *View) Rows(ctx context.Context) ([]crossfilter.Row, error) {
	active := v.store.Active()

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.ensureBase(ctx, active); err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return v.baseRows, nil
	}
	sig := crossfilter.Signature(active)
	if rows, ok := v.derived[sig]; ok {
		return rows, nil
	}
	rows := crossfilter.Refilter(v.baseRows, active)
	v.derived[sig] = rows
	return rows, nil
}

// RowsWithFlags returns the whole base dataset plus per-row match flags, for
// adapters that dim instead of dropping non-matching rows.
func (v *View) RowsWithFlags(ctx context.Context) ([]crossfilter.Row, []bool, error) {
	active := v.store.Active()

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.ensureBase(ctx, active); err != nil {
		return nil, nil, err
	}
	return v.baseRows, crossfilter.MatchFlags(v.baseRows, active), nil
}

// ensureBase fetches when the base key moved, caller holds the lock.
func (v *View) ensureBase(ctx context.Context, active []filter.Filter) error {
	base := crossfilter.BaseFilters(v.page, active)
	key := crossfilter.CacheKey(base)
	if v.hasBase && key == v.baseKey {
		return nil
	}
	rows, err := v.load(ctx, key, base)
	if err != nil {
		return err
	}
	v.baseRows = rows
	v.baseKey = key
	v.hasBase = true
	v.derived = make(map[string][]crossfilter.Row)
	return nil
}

func (v *View) load(ctx context.Context, key string, base map[string]any) ([]crossfilter.Row, error) {
	if v.cache != nil {
		if rows, err := v.cache.Get(key); err == nil {
			return rows, nil
		}
	}
	rows, err := v.fetcher.Fetch(ctx, base)
	if err != nil {
		return nil, err
	}
	if v.cache != nil {
		if err := v.cache.Set(key, rows, v.cacheTtl); err != nil {
			log.Printf("Failed to cache dataset %s: %v", key, err)
		}
	}
	return rows, nil
}
