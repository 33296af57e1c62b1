package subtitles

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"subresolver/models"
)

// pageMetadataCache memoizes provider page metadata by page URL.
type pageMetadataCache struct {
	search  SearchClient
	entries *expirable.LRU[string, models.PageMetadata]
	group   singleflight.Group
}

func newPageMetadataCache(search SearchClient, size int, ttl time.Duration) *pageMetadataCache {
	return &pageMetadataCache{
		search:  search,
		entries: expirable.NewLRU[string, models.PageMetadata](size, nil, ttl),
	}
}

// Get returns the page's metadata, or nil when the page cannot be fetched.
func (c *pageMetadataCache) Get(ctx context.Context, callerKey, pageURL string) *models.PageMetadata {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil
	}
	if meta, ok := c.entries.Get(pageURL); ok {
		pageMetadataLookups.WithLabelValues("hit").Inc()
		return &meta
	}

	v, err, _ := c.group.Do(pageURL, func() (interface{}, error) {
		if meta, ok := c.entries.Get(pageURL); ok {
			return meta, nil
		}
		pageMetadataLookups.WithLabelValues("miss").Inc()
		meta, err := c.search.FetchPageMetadata(ctx, callerKey, pageURL)
		if err != nil {
			return nil, err
		}
		c.entries.Add(pageURL, meta)
		return meta, nil
	})
	if err != nil {
		pageMetadataLookups.WithLabelValues("error").Inc()
		log.Printf("[subtitles] page metadata %s unavailable: %v", pageURL, err)
		return nil
	}
	meta := v.(models.PageMetadata)
	return &meta
}
