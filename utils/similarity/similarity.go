package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// TokenSetRatio returns a 0-100 fuzzy similarity between two release names.
//
// Both strings are normalized and split into token sets. The shared tokens
// are compared against each side's full sorted token list, so extra tokens
// on one side (a year, a group name) cost less than reordered or different
// words would.
func TokenSetRatio(s1, s2 string) int {
	set1 := tokenSet(s1)
	set2 := tokenSet(s2)
	if len(set1) == 0 || len(set2) == 0 {
		return 0
	}

	var shared, only1, only2 []string
	for tok := range set1 {
		if _, ok := set2[tok]; ok {
			shared = append(shared, tok)
		} else {
			only1 = append(only1, tok)
		}
	}
	for tok := range set2 {
		if _, ok := set1[tok]; !ok {
			only2 = append(only2, tok)
		}
	}
	sort.Strings(shared)
	sort.Strings(only1)
	sort.Strings(only2)

	base := strings.Join(shared, " ")
	combined1 := strings.TrimSpace(base + " " + strings.Join(only1, " "))
	combined2 := strings.TrimSpace(base + " " + strings.Join(only2, " "))

	best := ratio(combined1, combined2)
	if base != "" {
		best = max(best, ratio(base, combined1), ratio(base, combined2))
	}
	return best
}

// ratio is the normalized Levenshtein similarity of two strings, scaled to 0-100.
func ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false
	return int(math.Round(strutil.Similarity(a, b, lev) * 100))
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(normalize(s)) {
		set[tok] = struct{}{}
	}
	return set
}

// normalize converts a string to lowercase and removes non-alphanumeric characters
// (except spaces) to make title comparison more forgiving.
// Also converts "&" to "and" for equivalence (e.g., "Me & You" matches "Me and You").
func normalize(s string) string {
	s = strings.ReplaceAll(s, "&", " and ")

	var result strings.Builder
	result.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		} else if unicode.IsSpace(r) || r == '.' || r == '-' || r == '_' || r == '[' || r == ']' || r == '(' || r == ')' {
			result.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(result.String()), " ")
}
