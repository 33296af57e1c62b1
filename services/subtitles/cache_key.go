package subtitles

import (
	"fmt"
	"strings"

	"subresolver/models"
)

// CacheKey derives the response cache and single-flight key for a request:
// media id, season/episode for series, and the normalized language filter.
// Language order and case do not change the key.
func CacheKey(req models.ResolutionRequest) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(req.MediaID)))
	if req.IsSeries {
		fmt.Fprintf(&b, ":%d:%d", req.SeasonNumber(), req.EpisodeNumber())
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(normalizeLanguages(req.LanguageFilter), ","))
	return b.String()
}
