// Package aggregate merges per-source mention tallies into a single ranked,
// weighted view of emerging narratives.
package aggregate

import (
	"sort"
	"strings"

	"narrative-tracker/internal/errors"
	"narrative-tracker/internal/models"
)

// ScoreWeights defines the parameters of the narrative score.
type ScoreWeights struct {
	// CrossSourceBonus is the per-additional-source multiplier. A ticker
	// seen in k sources scores total * (1 + CrossSourceBonus*(k-1)), so a
	// ticker confirmed by more platforms always outranks one with the same
	// volume from fewer.
	CrossSourceBonus float64
}

// DefaultScoreWeights returns the default scoring parameters.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{CrossSourceBonus: 0.5}
}

// Aggregator merges source tallies and produces the ranked narrative list.
type Aggregator struct {
	excluded map[string]struct{}
	weights  ScoreWeights
}

// NewAggregator creates an aggregator that drops the given major assets
// from its output and scores with the default weights.
func NewAggregator(excludedMajors []string) *Aggregator {
	return NewAggregatorWithWeights(excludedMajors, DefaultScoreWeights())
}

// NewAggregatorWithWeights creates an aggregator with custom score weights.
func NewAggregatorWithWeights(excludedMajors []string, weights ScoreWeights) *Aggregator {
	excluded := make(map[string]struct{}, len(excludedMajors))
	for _, m := range excludedMajors {
		excluded[strings.ToUpper(m)] = struct{}{}
	}
	return &Aggregator{excluded: excluded, weights: weights}
}

// Rank merges every source tally, drops excluded majors, scores each
// remaining ticker and returns the list sorted by narrative score
// descending, ties broken by ticker name ascending. Identical inputs always
// produce identical output.
func (a *Aggregator) Rank(tallies models.SourceTally) ([]models.ScoredTicker, error) {
	type entry struct {
		total   int
		sources map[string]struct{}
	}
	merged := make(map[string]*entry)

	for source, tally := range tallies {
		for symbol, count := range tally {
			if count < 0 {
				return nil, errors.NewValidationError("count", count,
					"negative mention count from source "+source)
			}
			e, ok := merged[symbol]
			if !ok {
				e = &entry{sources: make(map[string]struct{})}
				merged[symbol] = e
			}
			e.total += count
			if count > 0 {
				e.sources[source] = struct{}{}
			}
		}
	}

	ranked := make([]models.ScoredTicker, 0, len(merged))
	for symbol, e := range merged {
		if _, drop := a.excluded[symbol]; drop {
			continue
		}
		sources := make([]string, 0, len(e.sources))
		for s := range e.sources {
			sources = append(sources, s)
		}
		sort.Strings(sources)

		ranked = append(ranked, models.ScoredTicker{
			Ticker:         symbol,
			NarrativeScore: a.Score(e.total, len(e.sources)),
			TotalMentions:  e.total,
			Sources:        sources,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].NarrativeScore != ranked[j].NarrativeScore {
			return ranked[i].NarrativeScore > ranked[j].NarrativeScore
		}
		return ranked[i].Ticker < ranked[j].Ticker
	})
	return ranked, nil
}

// Score computes the narrative score for a ticker with the given total
// mention count and number of distinct contributing sources. Monotonically
// non-decreasing in both arguments.
func (a *Aggregator) Score(totalMentions, sourceCount int) float64 {
	if totalMentions <= 0 || sourceCount <= 0 {
		return 0
	}
	return float64(totalMentions) * (1 + a.weights.CrossSourceBonus*float64(sourceCount-1))
}
