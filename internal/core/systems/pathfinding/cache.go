package pathfinding

import (
	"sync"

	"github.com/llamasearchai/llamaquest/internal/core/grid"
)

// Cache memoizes Pathfinder results per grid content, so repeated queries on an
// unchanged map skip the search. Keys use the grid fingerprint; the grid itself
// is never retained. Eviction is first-in first-out.
type Cache struct {
	finder   *Pathfinder
	capacity int

	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	order   []cacheKey
	hits    uint64
	misses  uint64
}

type cacheKey struct {
	fingerprint uint64
	width       int
	height      int
	start, end  grid.Coord
	budget      int
}

type cacheEntry struct {
	path Path
	err  error
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// NewCache wraps finder. capacity <= 0 disables memoization.
func NewCache(finder *Pathfinder, capacity int) *Cache {
	return &Cache{
		finder:   finder,
		capacity: capacity,
		entries:  make(map[cacheKey]cacheEntry),
	}
}

func (c *Cache) FindPath(start, end grid.Coord, g *grid.Grid) (Path, error) {
	return c.FindPathWithBudget(start, end, g, c.finder.MaxExplored())
}

func (c *Cache) FindPathWithBudget(start, end grid.Coord, g *grid.Grid, maxExplored int) (Path, error) {
	if c.capacity <= 0 || g == nil {
		return c.finder.FindPathWithBudget(start, end, g, maxExplored)
	}

	key := cacheKey{
		fingerprint: g.Fingerprint(),
		width:       g.Width(),
		height:      g.Height(),
		start:       start,
		end:         end,
		budget:      maxExplored,
	}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return e.path.Clone(), e.err
	}
	c.misses++
	c.mu.Unlock()

	path, err := c.finder.FindPathWithBudget(start, end, g, maxExplored)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.entries[key] = cacheEntry{path: path.Clone(), err: err}
		c.order = append(c.order, key)
	}
	return path, err
}

func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

// Purge drops every entry, e.g. after a level change.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.order = c.order[:0]
}
