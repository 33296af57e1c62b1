package mediaresolve

import (
	"math"
	"path"
	"strings"

	"subresolver/models"
	"subresolver/utils/similarity"
)

// Score weights.
const (
	GroupBonus              = 50
	SourceBonus             = 30
	TechnicalBonus          = 5
	FuzzyMaxWithMetadata    = 15
	FuzzyMaxWithoutMetadata = 20
	RetailBonusPoints       = 5
	MaxScore                = 100
)

// Caps on the lower tiers, leaving room for the retail bonus, so that a
// candidate matching a higher tier always outranks one that misses it.
const (
	maxBelowSource = SourceBonus - RetailBonusPoints - 1
	maxBelowGroup  = GroupBonus - RetailBonusPoints - 1
)

// Score rates how well a subtitle filename fits a video filename, in [0,100].
// meta is optional provider page metadata; when present its declared formats
// can satisfy the source tier and the fuzzy tier shrinks to 15.
func Score(videoFilename, subtitleFilename string, meta *models.PageMetadata) int {
	video := baseName(videoFilename)
	subtitle := baseName(subtitleFilename)
	if video == "" || subtitle == "" {
		return 0
	}

	videoTags := ExtractTags(video)
	subtitleTags := ExtractTags(subtitle)

	minor := 0
	if overlaps(videoTags.Technical, subtitleTags.Technical) {
		minor += TechnicalBonus
	}
	fuzzyMax := FuzzyMaxWithoutMetadata
	if meta != nil {
		fuzzyMax = FuzzyMaxWithMetadata
	}
	ratio := similarity.TokenSetRatio(NormalizeReleasePart(video), NormalizeReleasePart(subtitle))
	minor += int(math.Round(float64(ratio) * float64(fuzzyMax) / 100))

	lower := min(minor, maxBelowSource)
	if overlaps(videoTags.Quality, subtitleTags.Quality) ||
		(meta != nil && formatsOverlap(videoTags.Quality, meta.Formats)) {
		lower += SourceBonus
	}

	score := min(lower, maxBelowGroup)
	if group := ExtractGroup(video); group != "" {
		if group == ExtractGroup(subtitle) || strings.Contains(strings.ToUpper(subtitle), group) {
			score += GroupBonus
		}
	}

	return clampScore(score)
}

// IsRetail reports whether a record is flagged as a retail rip by its translator or title.
func IsRetail(record models.SubtitleRecord) bool {
	return strings.Contains(strings.ToLower(record.Translator), "retail") ||
		strings.Contains(strings.ToLower(record.Title), "retail")
}

// RetailBonus is the tie-break bonus for retail records.
func RetailBonus(record models.SubtitleRecord) int {
	if IsRetail(record) {
		return RetailBonusPoints
	}
	return 0
}

// WithRetailBonus adds the retail tie-break to a filename score, keeping the result bounded.
func WithRetailBonus(score int, record models.SubtitleRecord) int {
	return clampScore(score + RetailBonus(record))
}

// NeedsPageMetadata reports whether a subtitle filename lacks a detectable
// group or source tag, which is when the provider page is worth fetching.
func NeedsPageMetadata(subtitleFilename string) bool {
	name := baseName(subtitleFilename)
	return ExtractGroup(name) == "" || len(ExtractQualityTags(name)) == 0
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func formatsOverlap(tags, formats []string) bool {
	for _, format := range formats {
		f := strings.ToUpper(strings.TrimSpace(format))
		if f == "" {
			continue
		}
		for _, tag := range tags {
			if strings.Contains(f, tag) || strings.Contains(tag, f) {
				return true
			}
		}
	}
	return false
}

func baseName(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	base := path.Base(strings.ReplaceAll(trimmed, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return base
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
