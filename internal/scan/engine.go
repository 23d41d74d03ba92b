// Package scan wires the source collectors and the aggregation core into a
// single scan run.
package scan

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"narrative-tracker/internal/aggregate"
	"narrative-tracker/internal/history"
	"narrative-tracker/internal/insight"
	"narrative-tracker/internal/logging"
	"narrative-tracker/internal/models"
	"narrative-tracker/internal/signals"
	"narrative-tracker/internal/sources"
	"narrative-tracker/internal/trend"
)

// Report is the complete outcome of one scan: the ranked narrative board,
// trend movement against the previous scan, keyword clusters, alerts, and
// the per-source collection outcomes.
type Report struct {
	When         time.Time
	Ranked       []models.ScoredTicker
	Trends       map[string]models.TrendRecord
	Signals      []models.KeywordSignal
	Insights     []models.Insight
	Results      []sources.Result
	SourceErrors map[string]error
}

// Engine runs scans: collect from every source, rank against the exclusion
// list, diff against history, cluster flagged documents, and persist the
// new snapshot.
type Engine struct {
	collector  *sources.Collector
	aggregator *aggregate.Aggregator
	generator  *insight.Generator
	clusterer  *signals.Clusterer
	store      history.Store
	excluded   map[string]bool
	logger     zerolog.Logger

	// now is swappable so tests control snapshot timestamps.
	now func() time.Time
}

// Options configures a scan engine.
type Options struct {
	Collector  *sources.Collector
	Aggregator *aggregate.Aggregator
	Generator  *insight.Generator
	Clusterer  *signals.Clusterer
	Store      history.Store
	Excluded   []string
	Logger     zerolog.Logger
}

// NewEngine creates a scan engine from the given components.
func NewEngine(opts Options) *Engine {
	excluded := make(map[string]bool, len(opts.Excluded))
	for _, symbol := range opts.Excluded {
		excluded[strings.ToUpper(symbol)] = true
	}
	gen := opts.Generator
	if gen == nil {
		gen = insight.NewGenerator()
	}
	clusterer := opts.Clusterer
	if clusterer == nil {
		clusterer = signals.NewClusterer(0)
	}
	return &Engine{
		collector:  opts.Collector,
		aggregator: opts.Aggregator,
		generator:  gen,
		clusterer:  clusterer,
		store:      opts.Store,
		excluded:   excluded,
		logger:     opts.Logger,
		now:        time.Now,
	}
}

// Run executes a full scan. Collection failures are carried in the report,
// never fatal; only an invalid tally or a history write fails the run.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	results := e.collector.CollectAll(ctx)

	tallies := sources.Tallies(results)
	docs := sources.Documents(results)

	log, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	ranked, trends, sigs, alerts, err := e.Aggregate(tallies, docs, log)
	if err != nil {
		return nil, err
	}

	snapshot, err := models.NewScanSnapshot(e.now(), e.currentTally(tallies))
	if err != nil {
		return nil, err
	}
	if err := e.store.Append(snapshot); err != nil {
		return nil, err
	}

	logging.LogScan(e.logger, len(ranked), len(sigs), len(alerts))

	report := &Report{
		When:         snapshot.Timestamp,
		Ranked:       ranked,
		Trends:       trends,
		Signals:      sigs,
		Insights:     alerts,
		Results:      results,
		SourceErrors: make(map[string]error),
	}
	for _, r := range results {
		if r.Err != nil {
			report.SourceErrors[r.Source] = r.Err
		}
	}
	return report, nil
}

// Aggregate is the pure core of a scan: no I/O, fully deterministic for a
// given input. Trend movement is computed against the last snapshot in log
// using the current scan's merged tally.
func (e *Engine) Aggregate(tallies models.SourceTally, docs []models.FlaggedDocument, log []models.ScanSnapshot) (
	[]models.ScoredTicker, map[string]models.TrendRecord, []models.KeywordSignal, []models.Insight, error) {

	ranked, err := e.aggregator.Rank(tallies)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	trends := trend.CalculateWith(log, e.currentTally(tallies))
	sigs := e.clusterer.Cluster(docs)
	alerts := e.generator.Generate(ranked, trends)

	return ranked, trends, sigs, alerts, nil
}

// History returns the persisted snapshot log, oldest first.
func (e *Engine) History() ([]models.ScanSnapshot, error) {
	return e.store.Load()
}

// Trends diffs the two most recent persisted snapshots.
func (e *Engine) Trends() (map[string]models.TrendRecord, error) {
	log, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	return trend.Calculate(log), nil
}

// currentTally merges the per-source tallies and drops excluded majors, so
// snapshots and trend records line up with the ranked view.
func (e *Engine) currentTally(tallies models.SourceTally) models.Tally {
	merged := make(models.Tally)
	for _, tally := range tallies {
		for symbol, count := range tally {
			if e.excluded[symbol] {
				continue
			}
			merged[symbol] += count
		}
	}
	return merged
}
