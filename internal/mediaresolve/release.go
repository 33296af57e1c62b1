package mediaresolve

import (
	"path"
	"regexp"
	"strings"
)

// Tags holds the catalog tags found in a filename.
type Tags struct {
	Quality   []string
	Technical []string
}

var (
	dashGroupPattern     = regexp.MustCompile(`-([a-z0-9]+)(?:[\s\[\]()]|$)`)
	leadingGroupPattern  = regexp.MustCompile(`^\[([a-z0-9.]+)\]`)
	trailingGroupPattern = regexp.MustCompile(`\[([a-z0-9.]+)\]$`)
	bareYearPattern      = regexp.MustCompile(`^\d{4}$`)
)

// ExtractGroup derives the release group from a filename. An empty string
// means no group could be identified, which is common and not an error.
//
// Strategies, first hit wins:
//  1. the last dash-prefixed token right before whitespace, a bracket or the
//     end ("...x264-GRP"), skipping catalog pieces such as the DL of WEB-DL,
//     years and single characters
//  2. a bracketed token at the start or end ("[SubsPlease] Show - 01")
//  3. one of the last two tokens that is neither a catalog tag nor a year,
//     only for names that carry at least one catalog tag
func ExtractGroup(filename string) string {
	stem := strings.ToLower(stripExtension(strings.TrimSpace(filename)))
	if stem == "" {
		return ""
	}

	matches := dashGroupPattern.FindAllStringSubmatch(stem, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		if tok := matches[i][1]; plausibleGroup(tok) {
			return strings.ToUpper(tok)
		}
	}

	if m := leadingGroupPattern.FindStringSubmatch(stem); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := trailingGroupPattern.FindStringSubmatch(stem); m != nil {
		return strings.ToUpper(m[1])
	}

	tokens := splitReleaseTokens(stem)
	if !hasCatalogToken(tokens) {
		return ""
	}
	for i := len(tokens) - 1; i >= 0 && i >= len(tokens)-2; i-- {
		if tok := tokens[i]; plausibleGroup(tok) {
			return strings.ToUpper(tok)
		}
	}

	return ""
}

// plausibleGroup rejects catalog pieces, bare years and single characters.
func plausibleGroup(token string) bool {
	return len(token) >= 2 && !isCatalogToken(token) && !bareYearPattern.MatchString(token)
}

// ExtractTags scans a filename for quality and technical catalog tags.
func ExtractTags(filename string) Tags {
	upper := strings.ToUpper(filename)
	return Tags{
		Quality:   scanTags(upper, qualityTags),
		Technical: scanTags(upper, technicalTags),
	}
}

// ExtractQualityTags returns the quality/source tags present in text.
func ExtractQualityTags(text string) []string {
	return scanTags(strings.ToUpper(text), qualityTags)
}

func scanTags(upper string, catalog []string) []string {
	var found []string
	for _, tag := range catalog {
		if strings.Contains(upper, tag) {
			found = append(found, tag)
		}
	}
	return found
}

func hasCatalogToken(tokens []string) bool {
	for _, tok := range tokens {
		if len(tok) >= 2 && isCatalogToken(tok) {
			return true
		}
	}
	return false
}

// splitReleaseTokens splits on the separators scene names use: . - _ [ ] ( ) and whitespace.
func splitReleaseTokens(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		switch r {
		case '.', '-', '_', '[', ']', '(', ')', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
}

var releaseNameExtensions = map[string]struct{}{
	".srt":  {},
	".sub":  {},
	".ssa":  {},
	".ass":  {},
	".vtt":  {},
	".txt":  {},
	".idx":  {},
	".mkv":  {},
	".mp4":  {},
	".m4v":  {},
	".avi":  {},
	".mov":  {},
	".mpg":  {},
	".mpeg": {},
	".ts":   {},
	".m2ts": {},
	".wmv":  {},
	".webm": {},
	".zip":  {},
	".rar":  {},
	".7z":   {},
}

// stripExtension drops the final extension when it is a known media,
// subtitle or archive extension.
func stripExtension(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return name
	}
	if _, ok := releaseNameExtensions[strings.ToLower(ext)]; ok {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

// NormalizeReleasePart returns the base name of a path with a known extension removed.
func NormalizeReleasePart(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	normalized := strings.ReplaceAll(trimmed, "\\", "/")
	base := path.Base(normalized)
	if base == "." || base == "/" || base == "" {
		base = trimmed
	}

	return stripExtension(base)
}

// TokenizeParts splits release components into lowercase alphanumeric tokens.
func TokenizeParts(parts ...string) []string {
	var tokens []string
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		fields := strings.FieldsFunc(part, func(r rune) bool {
			if r >= 'a' && r <= 'z' {
				return false
			}
			if r >= '0' && r <= '9' {
				return false
			}
			return true
		})
		tokens = append(tokens, fields...)
	}
	return tokens
}
