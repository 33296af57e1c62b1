package models

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Basic structures shared by the resolver, the provider client and the handlers.

// ResolutionRequest is one inbound subtitle lookup. It is never mutated once built.
type ResolutionRequest struct {
	MediaID        string   `json:"mediaId"` // catalog id without season/episode suffix (e.g. tt0903747)
	Season         *int     `json:"season,omitempty"`
	Episode        *int     `json:"episode,omitempty"`
	IsSeries       bool     `json:"isSeries"`
	LanguageFilter []string `json:"languageFilter,omitempty"` // empty = every language
	VideoFilename  string   `json:"videoFilename,omitempty"`
	CallerKey      string   `json:"-"`
}

// SeasonNumber returns the requested season, or 0 when none was given.
func (r ResolutionRequest) SeasonNumber() int {
	if r.Season == nil {
		return 0
	}
	return *r.Season
}

// EpisodeNumber returns the requested episode, or 0 when none was given.
func (r ResolutionRequest) EpisodeNumber() int {
	if r.Episode == nil {
		return 0
	}
	return *r.Episode
}

// SubtitleRecord is one search hit returned by the upstream provider.
type SubtitleRecord struct {
	ID          string `json:"id"`
	Language    string `json:"language"`
	Link        string `json:"link"` // provider page URL
	Translator  string `json:"translator,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Valid reports whether the record carries the fields the resolver needs.
func (r SubtitleRecord) Valid() bool {
	return strings.TrimSpace(r.ID) != ""
}

// PageMetadata is auxiliary release information scraped from a provider page.
type PageMetadata struct {
	FPS     string   `json:"fps,omitempty"`
	Formats []string `json:"formats,omitempty"`
}

// ArchiveKind identifies the container a subtitle bundle was shipped in.
type ArchiveKind string

const (
	ArchiveKindUnknown ArchiveKind = "unknown"
	ArchiveKindZip     ArchiveKind = "zip"
	ArchiveKindRar     ArchiveKind = "rar"
	ArchiveKind7z      ArchiveKind = "7z"
)

// SubtitleCandidate is one subtitle file inside one archive, scored against the target video.
type SubtitleCandidate struct {
	RecordID   string
	SrtPath    string
	Language   string
	MatchScore int
	IsRetail   bool
	// Single is set when the archive held only this subtitle file.
	Single bool
}

// ResolvedSubtitle is what callers receive. URL is the caller-independent
// delivery path ("{recordId}/{encodedPath}"); the HTTP layer prefixes it with
// the base URL and the caller credential.
type ResolvedSubtitle struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Lang string `json:"lang"`
}

// ResponseCacheEntry is the cached outcome of one resolution.
type ResponseCacheEntry struct {
	Candidates []ResolvedSubtitle
	CreatedAt  time.Time
	TTL        time.Duration
}

// Valid reports whether the entry is still fresh at now.
func (e ResponseCacheEntry) Valid(now time.Time) bool {
	return now.Sub(e.CreatedAt) < e.TTL
}

// ArchiveCacheEntry is the memoized download+listing of one subtitle record.
type ArchiveCacheEntry struct {
	RawBytes  []byte
	SrtPaths  []string
	Kind      ArchiveKind
	CreatedAt time.Time
}

var (
	// ErrInvalidCatalogID is returned for ids that are not IMDB-style.
	ErrInvalidCatalogID = errors.New("invalid catalog id")

	imdbIDPattern = regexp.MustCompile(`^tt\d{5,10}$`)
)

// CatalogID is a parsed catalog identifier, optionally carrying season/episode.
type CatalogID struct {
	MediaID string
	Season  *int
	Episode *int
}

// ParseCatalogID parses "tt0903747" or "tt0903747:1:5".
func ParseCatalogID(raw string) (CatalogID, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ":")
	if !imdbIDPattern.MatchString(parts[0]) {
		return CatalogID{}, fmt.Errorf("%w: %q", ErrInvalidCatalogID, raw)
	}

	id := CatalogID{MediaID: parts[0]}
	switch len(parts) {
	case 1:
		return id, nil
	case 3:
		season, err := strconv.Atoi(parts[1])
		if err != nil || season < 0 {
			return CatalogID{}, fmt.Errorf("%w: bad season in %q", ErrInvalidCatalogID, raw)
		}
		episode, err := strconv.Atoi(parts[2])
		if err != nil || episode <= 0 {
			return CatalogID{}, fmt.Errorf("%w: bad episode in %q", ErrInvalidCatalogID, raw)
		}
		id.Season = &season
		id.Episode = &episode
		return id, nil
	default:
		return CatalogID{}, fmt.Errorf("%w: %q", ErrInvalidCatalogID, raw)
	}
}

// ValidMediaID reports whether id is a bare IMDB-style identifier.
func ValidMediaID(id string) bool {
	return imdbIDPattern.MatchString(id)
}
