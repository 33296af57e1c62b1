package subtitles

import (
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"subresolver/models"
)

// responseCache holds ranked results per cache key. Entries carry their own
// TTL, picked at write time by whether the result is empty.
type responseCache struct {
	entries  *lru.Cache[string, models.ResponseCacheEntry]
	ttl      time.Duration
	emptyTTL time.Duration
	now      func() time.Time
}

func newResponseCache(size int, ttl, emptyTTL time.Duration, now func() time.Time) *responseCache {
	entries, err := lru.New[string, models.ResponseCacheEntry](size)
	if err != nil {
		panic(err)
	}
	if now == nil {
		now = time.Now
	}
	return &responseCache{entries: entries, ttl: ttl, emptyTTL: emptyTTL, now: now}
}

// Get returns a copy of the cached candidates while the entry is fresh.
func (c *responseCache) Get(key string) ([]models.ResolvedSubtitle, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if !entry.Valid(c.now()) {
		// Left in place; the next Put for the key overwrites it.
		return nil, false
	}
	return slices.Clone(entry.Candidates), true
}

// Put stores candidates, replacing whatever the key held.
func (c *responseCache) Put(key string, candidates []models.ResolvedSubtitle) {
	ttl := c.ttl
	if len(candidates) == 0 {
		ttl = c.emptyTTL
	}
	c.add(key, candidates, ttl)
}

// PutPartial stores the result of a resolution that did not finish. It lives
// only as long as an empty result so the next request soon retries in full.
func (c *responseCache) PutPartial(key string, candidates []models.ResolvedSubtitle) {
	c.add(key, candidates, c.emptyTTL)
}

func (c *responseCache) add(key string, candidates []models.ResolvedSubtitle, ttl time.Duration) {
	c.entries.Add(key, models.ResponseCacheEntry{
		Candidates: slices.Clone(candidates),
		CreatedAt:  c.now(),
		TTL:        ttl,
	})
}
