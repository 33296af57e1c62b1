package subtitles

import (
	"context"
	"log"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"subresolver/models"
)

// archiveCache memoizes download+listing per subtitle record. The archive of
// a record is the same for every caller, so the key is the record id alone.
// Failed downloads or listings are never stored.
type archiveCache struct {
	downloader Downloader
	lister     Lister
	entries    *expirable.LRU[string, models.ArchiveCacheEntry]
	group      singleflight.Group
	now        func() time.Time
}

func newArchiveCache(downloader Downloader, lister Lister, size int, ttl time.Duration, now func() time.Time) *archiveCache {
	if now == nil {
		now = time.Now
	}
	return &archiveCache{
		downloader: downloader,
		lister:     lister,
		entries:    expirable.NewLRU[string, models.ArchiveCacheEntry](size, nil, ttl),
		now:        now,
	}
}

// GetSrtList returns the subtitle paths inside a record's archive,
// downloading it through callerKey's queue on a miss. Any failure yields an
// empty list.
func (c *archiveCache) GetSrtList(ctx context.Context, callerKey, recordID string) []string {
	if entry, ok := c.entries.Get(recordID); ok {
		archiveCacheLookups.WithLabelValues("hit").Inc()
		return slices.Clone(entry.SrtPaths)
	}

	v, err, _ := c.group.Do(recordID, func() (interface{}, error) {
		// A concurrent flight may have stored it since our lookup.
		if entry, ok := c.entries.Get(recordID); ok {
			return entry, nil
		}
		archiveCacheLookups.WithLabelValues("miss").Inc()
		entry, err := c.load(ctx, callerKey, recordID)
		if err != nil {
			return nil, err
		}
		c.entries.Add(recordID, entry)
		return entry, nil
	})
	if err != nil {
		archiveCacheLookups.WithLabelValues("error").Inc()
		log.Printf("[subtitles] archive %s unavailable: %v", recordID, err)
		return []string{}
	}
	return slices.Clone(v.(models.ArchiveCacheEntry).SrtPaths)
}

func (c *archiveCache) load(ctx context.Context, callerKey, recordID string) (models.ArchiveCacheEntry, error) {
	data, err := c.downloader.DownloadArchive(ctx, callerKey, recordID)
	depth := c.downloader.QueueDepth(callerKey)
	downloadQueueDepth.Set(float64(depth))
	if err != nil {
		return models.ArchiveCacheEntry{}, err
	}

	paths, kind, err := c.lister.List(data)
	if err != nil {
		return models.ArchiveCacheEntry{}, err
	}
	log.Printf("[subtitles] archive %s: %s with %d subtitle file(s), %d bytes (queue depth %d)",
		recordID, kind, len(paths), len(data), depth)

	return models.ArchiveCacheEntry{
		RawBytes:  data,
		SrtPaths:  paths,
		Kind:      kind,
		CreatedAt: c.now(),
	}, nil
}

// Entry returns the cached archive of a record, if present.
func (c *archiveCache) Entry(recordID string) (models.ArchiveCacheEntry, bool) {
	return c.entries.Peek(recordID)
}
