package news

import (
	"sync"
	"time"

	"newsdeck/model"
	"newsdeck/utils/log"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const (
	// cacheTTL is how long a fetched entry is served without hitting the
	// provider again.
	cacheTTL = 60 * time.Second
	// refreshPeriod is the cadence of the background refresh loop.
	refreshPeriod = 5 * time.Minute
)

// Entry is one cached fetch result. Entries are replaced wholesale on every
// successful refresh and never mutated in place, so readers can hold one
// without a lock.
type Entry struct {
	Articles  []model.Article
	Endpoint  string
	Params    map[string]string
	UpdatedAt time.Time
}

// Cache is a read-through TTL cache over the provider, keyed by the query
// plan's cache key. Entries are shared by every user with the same
// normalized preferences and date window, which is what bounds provider call
// volume. Keys are never evicted; the key space is a function of the seven
// category tags plus bounded preference joins and day windows, so growth is
// bounded in practice.
//
// Construct one per process and inject it into handlers; tests construct
// isolated instances with a fake fetcher.
type Cache struct {
	fetcher Fetcher

	mu      sync.RWMutex
	entries map[string]*Entry
	plans   map[string]QueryPlan

	group singleflight.Group

	ttl          time.Duration
	refreshEvery time.Duration
	now          func() time.Time
}

func NewCache(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher:      fetcher,
		entries:      map[string]*Entry{},
		plans:        map[string]QueryPlan{},
		ttl:          cacheTTL,
		refreshEvery: refreshPeriod,
		now:          time.Now,
	}
}

// Ensure returns a live entry for the plan, fetching from the provider when
// the entry is absent or older than the TTL. Concurrent misses on the same
// key are collapsed into a single provider call whose result every waiter
// shares.
func (c *Cache) Ensure(plan QueryPlan) (*Entry, error) {
	key := plan.CacheKey()
	if entry := c.live(key); entry != nil {
		return entry, nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A waiter that queued behind the winning fetch finds the fresh
		// entry here instead of fetching again.
		if entry := c.live(key); entry != nil {
			return entry, nil
		}
		return c.fetch(key, plan)
	})
	if err != nil {
		// A missing credential is a normal degraded state, not a fetch
		// failure worth a log line per request.
		if !errors.Is(err, ErrNotConfigured) {
			log.Log.WithField("cache_key", key).Warnf("provider fetch failed: %v", err)
		}
		return nil, err
	}
	return result.(*Entry), nil
}

// live returns the entry for key if it is younger than the TTL.
func (c *Cache) live(key string) *Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry := c.entries[key]
	if entry != nil && c.now().Sub(entry.UpdatedAt) < c.ttl {
		return entry
	}
	return nil
}

// fetch calls the provider and replaces the entry for key on success. Fresh
// articles get their stable ids here; an article that already carries one
// keeps it.
func (c *Cache) fetch(key string, plan QueryPlan) (*Entry, error) {
	articles, err := c.fetcher.Fetch(plan)
	if err != nil {
		return nil, err
	}
	for i := range articles {
		articles[i].EnsureID()
	}

	entry := &Entry{
		Articles:  articles,
		Endpoint:  plan.Endpoint,
		Params:    plan.Params,
		UpdatedAt: c.now(),
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.plans[key] = plan
	c.mu.Unlock()
	return entry, nil
}

// StartRefresh launches the background loop that proactively re-fetches
// every known key. The returned stop function halts the loop; it is safe to
// call more than once. The loop is not started during tests and does not
// keep the process alive on its own.
func (c *Cache) StartRefresh() (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(c.refreshEvery)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.refreshAll()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// refreshAll re-fetches every cached key. A failed refresh is logged and the
// stale entry kept; stale-but-available beats empty, and one key's failure
// never aborts the rest.
func (c *Cache) refreshAll() {
	c.mu.RLock()
	plans := make(map[string]QueryPlan, len(c.plans))
	for key, plan := range c.plans {
		plans[key] = plan
	}
	c.mu.RUnlock()

	for key, plan := range plans {
		if _, err := c.fetch(key, plan); err != nil {
			log.Log.WithField("cache_key", key).Warnf("background refresh failed: %v", err)
		}
	}
}
