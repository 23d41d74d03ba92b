// Package signals groups flagged documents by matched narrative keyword.
package signals

import (
	"sort"

	"narrative-tracker/internal/models"
)

// DefaultExcerptCap bounds the excerpt sample kept per keyword group.
const DefaultExcerptCap = 3

// Clusterer groups the run's flagged documents into keyword signals.
type Clusterer struct {
	excerptCap int
}

// NewClusterer creates a clusterer with the given excerpt sample cap.
// A cap of 0 falls back to DefaultExcerptCap.
func NewClusterer(excerptCap int) *Clusterer {
	if excerptCap <= 0 {
		excerptCap = DefaultExcerptCap
	}
	return &Clusterer{excerptCap: excerptCap}
}

// Cluster groups documents by each keyword they matched; a document
// matching k keywords contributes to all k groups. Groups are ordered by
// document count descending, ties broken by keyword ascending.
func (c *Clusterer) Cluster(docs []models.FlaggedDocument) []models.KeywordSignal {
	type group struct {
		count    int
		tickers  map[string]struct{}
		excerpts []string
	}
	groups := make(map[string]*group)

	for _, doc := range docs {
		for _, kw := range doc.Keywords {
			g, ok := groups[kw]
			if !ok {
				g = &group{tickers: make(map[string]struct{})}
				groups[kw] = g
			}
			g.count++
			for _, t := range doc.Tickers {
				g.tickers[t] = struct{}{}
			}
			if len(g.excerpts) < c.excerptCap && doc.Excerpt != "" {
				g.excerpts = append(g.excerpts, doc.Excerpt)
			}
		}
	}

	out := make([]models.KeywordSignal, 0, len(groups))
	for kw, g := range groups {
		tickers := make([]string, 0, len(g.tickers))
		for t := range g.tickers {
			tickers = append(tickers, t)
		}
		sort.Strings(tickers)

		out = append(out, models.KeywordSignal{
			Keyword:        kw,
			DocumentCount:  g.count,
			Tickers:        tickers,
			SampleExcerpts: g.excerpts,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DocumentCount != out[j].DocumentCount {
			return out[i].DocumentCount > out[j].DocumentCount
		}
		return out[i].Keyword < out[j].Keyword
	})
	return out
}
