package subtitles

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// languageAliases covers provider spellings that are not BCP 47 tags.
var languageAliases = map[string]string{
	"romanian":   "ron",
	"rum":        "ron",
	"english":    "eng",
	"french":     "fra",
	"fre":        "fra",
	"german":     "deu",
	"ger":        "deu",
	"italian":    "ita",
	"spanish":    "spa",
	"portuguese": "por",
	"hungarian":  "hun",
	"greek":      "ell",
	"gre":        "ell",
	"dutch":      "nld",
	"dut":        "nld",
	"moldavian":  "ron",
}

// languageCode maps a provider language value to its ISO 639-2 code.
// Unknown values are returned lower-cased.
func languageCode(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}
	if alias, ok := languageAliases[value]; ok {
		return alias
	}
	base, err := language.ParseBase(value)
	if err != nil {
		// "pt-BR", "en_US"
		tag, tagErr := language.Parse(strings.ReplaceAll(value, "_", "-"))
		if tagErr != nil {
			return value
		}
		base, _ = tag.Base()
	}
	if iso3 := base.ISO3(); iso3 != "" {
		return iso3
	}
	return value
}

// matchesLanguage reports whether a record language passes the filter.
// An empty filter lets everything through.
func matchesLanguage(recordLanguage string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	code := languageCode(recordLanguage)
	if code == "" {
		return false
	}
	for _, wanted := range filter {
		if languageCode(wanted) == code {
			return true
		}
	}
	return false
}

// normalizeLanguages lower-cases, trims, de-duplicates and sorts a language filter.
func normalizeLanguages(filter []string) []string {
	seen := make(map[string]struct{}, len(filter))
	out := make([]string, 0, len(filter))
	for _, lang := range filter {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" {
			continue
		}
		if _, dup := seen[lang]; dup {
			continue
		}
		seen[lang] = struct{}{}
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
