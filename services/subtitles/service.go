package subtitles

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"subresolver/internal/mediaresolve"
	"subresolver/models"
)

//go:generate mockgen -source=service.go -destination=mocks_test.go -package=subtitles

// SearchClient is the upstream provider as seen by the resolver. Both calls
// are scoped to the caller's credential.
type SearchClient interface {
	SearchByCatalogID(ctx context.Context, callerKey, mediaID string) ([]models.SubtitleRecord, error)
	FetchPageMetadata(ctx context.Context, callerKey, pageURL string) (models.PageMetadata, error)
}

// Downloader is the per-caller rate-limited archive download queue.
type Downloader interface {
	DownloadArchive(ctx context.Context, callerKey, recordID string) ([]byte, error)
	QueueDepth(callerKey string) int
}

// Lister lists the subtitle files of a downloaded archive.
type Lister interface {
	List(data []byte) ([]string, models.ArchiveKind, error)
}

// Match strategies for series requests.
const (
	// MatchStrategyEntry filters individual archive entries by episode.
	MatchStrategyEntry = "entry"
	// MatchStrategyRecord filters whole records by title/description and
	// falls back to every record when none matches.
	MatchStrategyRecord = "record"
)

const (
	defaultTopN              = 5
	defaultResolutionTimeout = 2 * time.Minute
	defaultResponseTTL       = 6 * time.Hour
	defaultEmptyResponseTTL  = 15 * time.Minute
	defaultResponseEntries   = 1000
	defaultArchiveTTL        = 24 * time.Hour
	defaultArchiveEntries    = 500
	defaultPageTTL           = 7 * 24 * time.Hour
	defaultPageEntries       = 2000

	idHashLength = 10
)

// Options configures a Service.
type Options struct {
	TopN              int
	MatchStrategy     string
	ResolutionTimeout time.Duration

	ResponseTTL        time.Duration
	EmptyResponseTTL   time.Duration
	ResponseMaxEntries int

	ArchiveTTL        time.Duration
	ArchiveMaxEntries int

	PageMetadataTTL        time.Duration
	PageMetadataMaxEntries int

	// Debug logs every scored candidate.
	Debug bool
	// Now overrides the clock of the response cache.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = defaultTopN
	}
	if o.MatchStrategy != MatchStrategyRecord {
		o.MatchStrategy = MatchStrategyEntry
	}
	if o.ResolutionTimeout <= 0 {
		o.ResolutionTimeout = defaultResolutionTimeout
	}
	if o.ResponseTTL <= 0 {
		o.ResponseTTL = defaultResponseTTL
	}
	if o.EmptyResponseTTL <= 0 || o.EmptyResponseTTL >= o.ResponseTTL {
		o.EmptyResponseTTL = min(defaultEmptyResponseTTL, o.ResponseTTL/2)
	}
	if o.ResponseMaxEntries <= 0 {
		o.ResponseMaxEntries = defaultResponseEntries
	}
	if o.ArchiveTTL <= 0 {
		o.ArchiveTTL = defaultArchiveTTL
	}
	if o.ArchiveMaxEntries <= 0 {
		o.ArchiveMaxEntries = defaultArchiveEntries
	}
	if o.PageMetadataTTL <= 0 {
		o.PageMetadataTTL = defaultPageTTL
	}
	if o.PageMetadataMaxEntries <= 0 {
		o.PageMetadataMaxEntries = defaultPageEntries
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Service resolves, ranks and caches subtitle candidates for a media item.
// Identical concurrent requests share one resolution.
type Service struct {
	search    SearchClient
	archives  *archiveCache
	pages     *pageMetadataCache
	responses *responseCache
	flights   singleflight.Group

	topN     int
	strategy string
	timeout  time.Duration
	debug    bool
}

// NewService wires the resolver to its collaborators.
func NewService(search SearchClient, downloader Downloader, lister Lister, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		search:    search,
		archives:  newArchiveCache(downloader, lister, opts.ArchiveMaxEntries, opts.ArchiveTTL, opts.Now),
		pages:     newPageMetadataCache(search, opts.PageMetadataMaxEntries, opts.PageMetadataTTL),
		responses: newResponseCache(opts.ResponseMaxEntries, opts.ResponseTTL, opts.EmptyResponseTTL, opts.Now),
		topN:      opts.TopN,
		strategy:  opts.MatchStrategy,
		timeout:   opts.ResolutionTimeout,
		debug:     opts.Debug,
	}
}

// Resolve returns the best subtitle candidates for req, best first. It never
// fails: a missing credential, an invalid id, an upstream outage or a caller
// that stops waiting all produce an empty slice.
//
// The shared resolution is detached from ctx, so it completes for the cache
// and for other waiters even if this caller goes away.
func (s *Service) Resolve(ctx context.Context, req models.ResolutionRequest) []models.ResolvedSubtitle {
	if strings.TrimSpace(req.CallerKey) == "" {
		return []models.ResolvedSubtitle{}
	}
	if !models.ValidMediaID(req.MediaID) {
		log.Printf("[subtitles] ignoring invalid media id %q", req.MediaID)
		return []models.ResolvedSubtitle{}
	}

	key := CacheKey(req)
	if cached, ok := s.responses.Get(key); ok {
		responseCacheLookups.WithLabelValues("hit").Inc()
		return orEmpty(cached)
	}
	responseCacheLookups.WithLabelValues("miss").Inc()

	detached := context.WithoutCancel(ctx)
	ch := s.flights.DoChan(key, func() (interface{}, error) {
		return s.runResolution(detached, key, req), nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			sharedResolutions.Inc()
		}
		return orEmpty(slices.Clone(res.Val.([]models.ResolvedSubtitle)))
	case <-ctx.Done():
		log.Printf("[subtitles] caller stopped waiting for %s: %v", key, ctx.Err())
		return []models.ResolvedSubtitle{}
	}
}

// Archive returns the cached archive of a record, if it has been downloaded.
func (s *Service) Archive(recordID string) (models.ArchiveCacheEntry, bool) {
	return s.archives.Entry(recordID)
}

// runResolution executes one uncached resolution and stores its result. It
// runs inside the single-flight group, so a panic is turned into an empty
// result here instead of escaping into the group.
func (s *Service) runResolution(parent context.Context, key string, req models.ResolutionRequest) (out []models.ResolvedSubtitle) {
	resolutionID := uuid.NewString()[:8]
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[subtitles] %s: resolution of %s panicked: %v", resolutionID, key, r)
			out = []models.ResolvedSubtitle{}
		}
		resolutionDuration.Observe(time.Since(start).Seconds())
	}()

	// Another flight for the key may have finished between our cache miss
	// and joining the group.
	if cached, ok := s.responses.Get(key); ok {
		return orEmpty(cached)
	}

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	out = s.resolve(ctx, resolutionID, req)
	if err := ctx.Err(); err != nil {
		s.responses.PutPartial(key, out)
		log.Printf("[subtitles] %s: resolution of %s cut short (%v), keeping %d candidate(s) briefly",
			resolutionID, key, err, len(out))
		return out
	}
	s.responses.Put(key, out)
	log.Printf("[subtitles] %s: resolved %s to %d candidate(s) in %s",
		resolutionID, key, len(out), time.Since(start).Round(time.Millisecond))
	return out
}

func (s *Service) resolve(ctx context.Context, resolutionID string, req models.ResolutionRequest) []models.ResolvedSubtitle {
	records, err := s.search.SearchByCatalogID(ctx, req.CallerKey, req.MediaID)
	if err != nil {
		log.Printf("[subtitles] %s: search for %s failed: %v", resolutionID, req.MediaID, err)
		return []models.ResolvedSubtitle{}
	}

	records = filterRecords(records, req.LanguageFilter)
	if req.IsSeries && s.strategy == MatchStrategyRecord {
		records = selectEpisodeRecords(records, req.SeasonNumber(), req.EpisodeNumber())
	}

	var candidates []models.SubtitleCandidate
	for _, record := range records {
		if ctx.Err() != nil {
			log.Printf("[subtitles] %s: stopping after timeout: %v", resolutionID, ctx.Err())
			break
		}
		candidates = append(candidates, s.recordCandidates(ctx, resolutionID, req, record)...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchScore > candidates[j].MatchScore
	})
	if len(candidates) > s.topN {
		candidates = candidates[:s.topN]
	}
	return project(candidates)
}

// recordCandidates lists and scores the subtitle files of one record. A
// record whose archive cannot be fetched contributes nothing.
func (s *Service) recordCandidates(ctx context.Context, resolutionID string, req models.ResolutionRequest, record models.SubtitleRecord) []models.SubtitleCandidate {
	paths := s.archives.GetSrtList(ctx, req.CallerKey, record.ID)
	if len(paths) == 0 {
		return nil
	}
	single := len(paths) == 1

	if req.IsSeries && s.strategy == MatchStrategyEntry {
		season, episode := req.SeasonNumber(), req.EpisodeNumber()
		matched := paths[:0]
		for _, p := range paths {
			if mediaresolve.MatchesEpisode(p, season, episode) {
				matched = append(matched, p)
			}
		}
		paths = matched
	}
	if len(paths) == 0 {
		return nil
	}

	var meta *models.PageMetadata
	if req.VideoFilename != "" && slices.ContainsFunc(paths, mediaresolve.NeedsPageMetadata) {
		meta = s.pages.Get(ctx, req.CallerKey, record.Link)
	}

	lang := languageCode(record.Language)
	retail := mediaresolve.IsRetail(record)
	out := make([]models.SubtitleCandidate, 0, len(paths))
	for _, p := range paths {
		score := mediaresolve.WithRetailBonus(mediaresolve.Score(req.VideoFilename, p, meta), record)
		if s.debug {
			log.Printf("[subtitles] %s: record %s %q score=%d retail=%t", resolutionID, record.ID, p, score, retail)
		}
		out = append(out, models.SubtitleCandidate{
			RecordID:   record.ID,
			SrtPath:    p,
			Language:   lang,
			MatchScore: score,
			IsRetail:   retail,
			Single:     single,
		})
	}
	return out
}

func filterRecords(records []models.SubtitleRecord, languages []string) []models.SubtitleRecord {
	out := make([]models.SubtitleRecord, 0, len(records))
	for _, record := range records {
		if !record.Valid() || !matchesLanguage(record.Language, languages) {
			continue
		}
		out = append(out, record)
	}
	return out
}

// selectEpisodeRecords keeps the records whose title or description names
// the episode, or every record when none does.
func selectEpisodeRecords(records []models.SubtitleRecord, season, episode int) []models.SubtitleRecord {
	var matched []models.SubtitleRecord
	for _, record := range records {
		if mediaresolve.MatchesEpisode(record.Title, season, episode) ||
			mediaresolve.MatchesEpisode(record.Description, season, episode) {
			matched = append(matched, record)
		}
	}
	if len(matched) == 0 {
		return records
	}
	return matched
}

func project(candidates []models.SubtitleCandidate) []models.ResolvedSubtitle {
	out := make([]models.ResolvedSubtitle, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, models.ResolvedSubtitle{
			ID:   candidateID(c),
			URL:  DeliveryPath(c.RecordID, c.SrtPath),
			Lang: c.Language,
		})
	}
	return out
}

// candidateID is the record id for single-file archives, otherwise the
// record id plus a short hash of the entry path.
func candidateID(c models.SubtitleCandidate) string {
	if c.Single {
		return c.RecordID
	}
	sum := sha1.Sum([]byte(c.SrtPath))
	return fmt.Sprintf("%s-%s", c.RecordID, hex.EncodeToString(sum[:])[:idHashLength])
}

// DeliveryPath is the caller-independent "{recordId}/{encodedPath}" part of a
// subtitle delivery URL.
func DeliveryPath(recordID, srtPath string) string {
	return recordID + "/" + base64.RawURLEncoding.EncodeToString([]byte(srtPath))
}

func orEmpty(results []models.ResolvedSubtitle) []models.ResolvedSubtitle {
	if results == nil {
		return []models.ResolvedSubtitle{}
	}
	return results
}
