package subtitles

import (
	"testing"
	"time"

	"subresolver/models"
)

func TestResponseCacheTTLByEmptiness(t *testing.T) {
	clock := newFakeClock()
	cache := newResponseCache(10, time.Hour, 5*time.Minute, clock.Now)

	cache.Put("full", []models.ResolvedSubtitle{{ID: "1", URL: "1/YQ", Lang: "eng"}})
	cache.Put("empty", []models.ResolvedSubtitle{})

	clock.Advance(4 * time.Minute)
	if _, ok := cache.Get("empty"); !ok {
		t.Fatal("empty entry should still be fresh after 4m")
	}

	clock.Advance(time.Minute)
	if _, ok := cache.Get("empty"); ok {
		t.Fatal("empty entry should expire at its TTL")
	}
	if got, ok := cache.Get("full"); !ok || len(got) != 1 {
		t.Fatalf("full entry should still be fresh, got %v %v", got, ok)
	}

	clock.Advance(time.Hour)
	if _, ok := cache.Get("full"); ok {
		t.Fatal("full entry should expire after an hour")
	}
}

func TestResponseCachePartialUsesShortTTL(t *testing.T) {
	clock := newFakeClock()
	cache := newResponseCache(10, time.Hour, 5*time.Minute, clock.Now)

	cache.PutPartial("partial", []models.ResolvedSubtitle{{ID: "1", URL: "1/YQ", Lang: "eng"}})

	if got, ok := cache.Get("partial"); !ok || len(got) != 1 {
		t.Fatalf("partial entry should be served while fresh, got %v %v", got, ok)
	}
	clock.Advance(5 * time.Minute)
	if _, ok := cache.Get("partial"); ok {
		t.Fatal("partial entry should expire with the empty-result TTL")
	}
}

func TestResponseCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := newResponseCache(2, time.Hour, time.Minute, newFakeClock().Now)

	cache.Put("a", []models.ResolvedSubtitle{{ID: "a"}})
	cache.Put("b", []models.ResolvedSubtitle{{ID: "b"}})
	cache.Get("a")
	cache.Put("c", []models.ResolvedSubtitle{{ID: "c"}})

	if _, ok := cache.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Fatal("expected a to survive")
	}
}

func TestServiceOptionsKeepEmptyTTLShorter(t *testing.T) {
	opts := Options{ResponseTTL: time.Hour, EmptyResponseTTL: 2 * time.Hour}.withDefaults()
	if opts.EmptyResponseTTL >= opts.ResponseTTL {
		t.Fatalf("empty TTL %s should be shorter than %s", opts.EmptyResponseTTL, opts.ResponseTTL)
	}
}
