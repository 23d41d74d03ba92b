// Package ticker extracts and canonicalizes symbol candidates from free text.
package ticker

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// Sigil-prefixed tokens like $PEPE are accepted unconditionally.
	sigilPattern = regexp.MustCompile(`\$([A-Z]{2,10})\b`)
	// Bare uppercase tokens need whitelist membership to count.
	barePattern = regexp.MustCompile(`\b([A-Z]{3,6})\b`)
)

// Normalizer extracts canonical ticker symbols and matches narrative
// keywords in free text.
type Normalizer struct {
	wellKnown map[string]struct{}
}

// NewNormalizer creates a normalizer with the given well-known asset
// whitelist. The whitelist gates bare (non-sigil) uppercase tokens so that
// ordinary capitalized words are not misread as tickers.
func NewNormalizer(wellKnown []string) *Normalizer {
	set := make(map[string]struct{}, len(wellKnown))
	for _, s := range wellKnown {
		set[strings.ToUpper(s)] = struct{}{}
	}
	return &Normalizer{wellKnown: set}
}

// Extract returns the deduplicated set of ticker candidates in text, in
// lexicographic order. The input is case-folded to uppercase before
// matching. Dedup is per call only; cross-document dedup belongs to the
// aggregator.
func (n *Normalizer) Extract(text string) []string {
	if text == "" {
		return nil
	}
	upper := strings.ToUpper(text)

	seen := make(map[string]struct{})
	for _, m := range sigilPattern.FindAllStringSubmatch(upper, -1) {
		seen[m[1]] = struct{}{}
	}
	for _, m := range barePattern.FindAllStringSubmatch(upper, -1) {
		if _, ok := n.wellKnown[m[1]]; ok {
			seen[m[1]] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// MatchKeywords returns every keyword from vocabulary that occurs in text,
// matched case-insensitively as a substring. Vocabulary order is preserved.
func (n *Normalizer) MatchKeywords(text string, vocabulary []string) []string {
	if text == "" || len(vocabulary) == 0 {
		return nil
	}
	lower := strings.ToLower(text)

	var found []string
	for _, kw := range vocabulary {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	return found
}
