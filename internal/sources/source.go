// Package sources provides the source adapter contract and the per-platform
// collectors that feed the aggregation core.
package sources

import (
	"context"
	"time"

	"narrative-tracker/internal/models"
)

// Source is the collaborator contract: one adapter per platform, yielding a
// per-ticker mention tally and the documents that matched narrative
// keywords. Adapter failures are isolated at this boundary; they surface as
// an error alongside an empty result, never as a panic and never as partial
// data.
type Source interface {
	Name() string
	Collect(ctx context.Context) (models.Tally, []models.FlaggedDocument, error)
}

// Result is the explicit success/failure record for one source collection.
// A failed or timed-out source carries an empty tally and document list.
type Result struct {
	Source  string
	Tally   models.Tally
	Docs    []models.FlaggedDocument
	Err     error
	Elapsed time.Duration
}

// Tallies assembles the per-source tally mapping from a result set,
// taking only successful collections.
func Tallies(results []Result) models.SourceTally {
	st := make(models.SourceTally, len(results))
	for _, r := range results {
		if r.Err != nil {
			st[r.Source] = models.Tally{}
			continue
		}
		if r.Tally == nil {
			st[r.Source] = models.Tally{}
			continue
		}
		st[r.Source] = r.Tally
	}
	return st
}

// Documents returns the union of flagged documents across all successful
// collections, in source registration order.
func Documents(results []Result) []models.FlaggedDocument {
	var docs []models.FlaggedDocument
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		docs = append(docs, r.Docs...)
	}
	return docs
}
