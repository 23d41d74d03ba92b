// Package models provides domain models for the narrative tracker.
package models

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"narrative-tracker/internal/errors"
)

// Tally maps a canonical ticker symbol to a non-negative mention count.
type Tally map[string]int

// SourceTally maps a source id to the per-ticker mention counts it produced
// during one aggregation run. Never persisted directly.
type SourceTally map[string]Tally

// InsightType classifies a generated insight.
type InsightType string

const (
	// InsightCrossPlatform flags a ticker confirmed across multiple sources.
	InsightCrossPlatform InsightType = "cross_platform_alert"
	// InsightGenesis flags a ticker's first appearance above the noise floor.
	InsightGenesis InsightType = "genesis_alert"
)

// symbolPattern is the canonical ticker form: 2-10 uppercase letters.
var symbolPattern = regexp.MustCompile(`^[A-Z]{2,10}$`)

// ValidSymbol reports whether s is a canonical ticker symbol.
func ValidSymbol(s string) bool {
	return symbolPattern.MatchString(s)
}

// ScanSnapshot is one point-in-time tally of ticker mention counts.
// Immutable once written to history.
type ScanSnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Tickers   Tally     `json:"tickers"`
}

// NewScanSnapshot builds a validated snapshot. Counts must be non-negative
// and symbols canonical; malformed input is a contract violation surfaced
// to the caller, never coerced.
func NewScanSnapshot(ts time.Time, tickers Tally) (ScanSnapshot, error) {
	if ts.IsZero() {
		return ScanSnapshot{}, fmt.Errorf("snapshot: zero timestamp")
	}
	copied := make(Tally, len(tickers))
	for symbol, count := range tickers {
		if !ValidSymbol(symbol) {
			return ScanSnapshot{}, fmt.Errorf("snapshot: %w: %q", errors.ErrInvalidSymbol, symbol)
		}
		if count < 0 {
			return ScanSnapshot{}, fmt.Errorf("snapshot: %w: %d for %s", errors.ErrNegativeCount, count, symbol)
		}
		copied[symbol] = count
	}
	return ScanSnapshot{Timestamp: ts, Tickers: copied}, nil
}

// TrendRecord describes how a ticker's mention count moved between the two
// most recent snapshots.
type TrendRecord struct {
	Ticker   string  `json:"ticker"`
	Change   int     `json:"change"`
	Percent  float64 `json:"percent"`
	Previous int     `json:"previous"`
	IsNew    bool    `json:"is_new"`
}

// ScoredTicker is one entry of the ranked output. Derived, recomputed every
// run, never mutated after creation.
type ScoredTicker struct {
	Ticker         string   `json:"ticker"`
	NarrativeScore float64  `json:"narrative_score"`
	TotalMentions  int      `json:"total_mentions"`
	Sources        []string `json:"sources"`
}

// Insight is a higher-level alert derived from scored and trend data.
type Insight struct {
	Type    InsightType `json:"type"`
	Message string      `json:"message"`
	Tickers []string    `json:"tickers"`
}

// FlaggedDocument is a post or note that matched at least one narrative
// keyword, as reported by a source adapter.
type FlaggedDocument struct {
	Excerpt  string   `json:"excerpt"`
	Keywords []string `json:"keywords"`
	Tickers  []string `json:"tickers"`
	Source   string   `json:"source"`
}

// NewFlaggedDocument builds a validated flagged document. At least one
// matched keyword is required; ticker symbols must be canonical.
func NewFlaggedDocument(excerpt string, keywords, tickers []string, source string) (FlaggedDocument, error) {
	if len(keywords) == 0 {
		return FlaggedDocument{}, fmt.Errorf("flagged document: no keywords matched")
	}
	if source == "" {
		return FlaggedDocument{}, fmt.Errorf("flagged document: empty source")
	}
	for _, t := range tickers {
		if !ValidSymbol(t) {
			return FlaggedDocument{}, fmt.Errorf("flagged document: %w: %q", errors.ErrInvalidSymbol, t)
		}
	}
	return FlaggedDocument{
		Excerpt:  excerpt,
		Keywords: append([]string(nil), keywords...),
		Tickers:  append([]string(nil), tickers...),
		Source:   source,
	}, nil
}

// KeywordSignal is one keyword cluster over the run's flagged documents.
type KeywordSignal struct {
	Keyword        string   `json:"keyword"`
	DocumentCount  int      `json:"document_count"`
	Tickers        []string `json:"tickers"`
	SampleExcerpts []string `json:"sample_excerpts"`
}

// Merge sums tallies into a single tally.
func Merge(tallies ...Tally) Tally {
	merged := make(Tally)
	for _, t := range tallies {
		for symbol, count := range t {
			merged[symbol] += count
		}
	}
	return merged
}

// SortedSymbols returns the tally's symbols in lexicographic order.
func SortedSymbols(t Tally) []string {
	symbols := make([]string, 0, len(t))
	for s := range t {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
