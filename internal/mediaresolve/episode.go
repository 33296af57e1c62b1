package mediaresolve

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Season/episode keywords in English, Romanian, Italian, French, German,
// Hungarian, Greek and Portuguese. Compiled once; per-call patterns only
// interpolate the numbers.
const (
	seasonKeywords  = `season|sezonul|sezon|stagione|saison|staffel|évad|evad|σεζόν|σεζον|κύκλος|κυκλος|temporada`
	episodeKeywords = `episode|episodul|episodio|episódio|épisode|episod|epizód|epizod|folge|rész|resz|επεισόδιο|επεισοδιο|ep\.?`
)

var (
	seasonIndicatorPattern = regexp.MustCompile(
		`(?i)s\d{1,2}\s*e\d{1,3}|(?:^|\D)\d{1,2}x\d{1,3}(?:\D|$)|(?:` + seasonKeywords + `)[\s._-]*\d{1,2}`,
	)

	episodePatternCache sync.Map // episodeKey -> *episodePatterns
)

type episodeKey struct {
	season  int
	episode int
}

type episodePatterns struct {
	strict []*regexp.Regexp
	loose  []*regexp.Regexp
}

// hasSeasonIndicator reports whether text already names a season
// (S01E02, 1x02, "Season 1", "Sezonul 1", "Staffel 1", ...).
func hasSeasonIndicator(text string) bool {
	return seasonIndicatorPattern.MatchString(text)
}

// MatchesEpisode reports whether text (a subtitle filename, record title or
// description) refers to the given season and episode.
//
// When the text names a season and a season is requested, the numbers must
// match exactly, so a season pack entry for S02E05 is rejected for S01E05.
// Otherwise an episode-only match is accepted, which covers flat-numbered
// releases that never carry a season token. A season <= 0 means no season
// context is known.
func MatchesEpisode(text string, season, episode int) bool {
	if episode <= 0 {
		return false
	}
	named := hasSeasonIndicator(text)
	if !containsDigit(text) && !named {
		return false
	}

	patterns := patternsFor(season, episode)
	if season > 0 && named {
		return matchAny(patterns.strict, text)
	}
	return matchAny(patterns.loose, text)
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func containsDigit(text string) bool {
	return strings.ContainsAny(text, "0123456789")
}

func patternsFor(season, episode int) *episodePatterns {
	key := episodeKey{season: season, episode: episode}
	if cached, ok := episodePatternCache.Load(key); ok {
		return cached.(*episodePatterns)
	}
	built := buildEpisodePatterns(season, episode)
	actual, _ := episodePatternCache.LoadOrStore(key, built)
	return actual.(*episodePatterns)
}

func buildEpisodePatterns(season, episode int) *episodePatterns {
	seasonForms := numberForms(season)
	episodeForms := numberForms(episode)

	var strict []string
	// S01E05, then every padded/unpadded combination.
	for _, s := range seasonForms {
		for _, e := range episodeForms {
			strict = append(strict, fmt.Sprintf(`(?i)s%s\s*e%s(?:\D|$)`, s, e))
		}
	}
	// 1x05 / 01x05 / 1x5
	for _, s := range seasonForms {
		for _, e := range episodeForms {
			strict = append(strict, fmt.Sprintf(`(?i)(?:^|\D)%sx%s(?:\D|$)`, s, e))
		}
	}
	// "Season 1 ... Episode 5", "Sezonul 1 Episodul 05", "Staffel 01 Folge 5"
	for _, s := range seasonForms {
		for _, e := range episodeForms {
			strict = append(strict, fmt.Sprintf(
				`(?i)(?:%s)[\s._-]*%s(?:\D|$).*?(?:%s)[\s._-]*%s(?:\D|$)`,
				seasonKeywords, s, episodeKeywords, e,
			))
		}
	}

	var loose []string
	for _, e := range episodeForms {
		loose = append(loose, fmt.Sprintf(`(?i)(?:^|[^\pL])e%s(?:\D|$)`, e))
	}
	for _, e := range episodeForms {
		loose = append(loose, fmt.Sprintf(`(?i)(?:^|[^\pL])ep(?:\.\s*|\s+|)%s(?:\D|$)`, e))
	}
	for _, e := range episodeForms {
		loose = append(loose, fmt.Sprintf(`(?i)(?:%s)[\s._-]*%s(?:\D|$)`, episodeKeywords, e))
	}
	for _, e := range episodeForms {
		loose = append(loose, fmt.Sprintf(`[-._ ]%s(?:[-._ \[]|$)`, e))
	}

	return &episodePatterns{
		strict: compileAll(strict),
		loose:  compileAll(loose),
	}
}

// numberForms returns the zero-padded and unpadded spellings of n, padded first.
func numberForms(n int) []string {
	padded := fmt.Sprintf("%02d", n)
	plain := fmt.Sprintf("%d", n)
	if padded == plain {
		return []string{padded}
	}
	return []string{padded, plain}
}

func compileAll(exprs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(expr))
	}
	return out
}
