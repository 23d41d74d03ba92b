package sources

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"narrative-tracker/internal/errors"
	"narrative-tracker/internal/logging"
	"narrative-tracker/internal/models"
)

// DefaultTimeout bounds how long one source may take before it is treated
// as a failure with an empty result.
const DefaultTimeout = 30 * time.Second

// Collector fans collection out to every registered source and joins at a
// full barrier: aggregation never starts until each source has resolved,
// with a result or with an isolated failure.
type Collector struct {
	sources []Source
	timeout time.Duration
	logger  zerolog.Logger
}

// NewCollector creates a collector over the given sources. A timeout of 0
// falls back to DefaultTimeout.
func NewCollector(sources []Source, timeout time.Duration, logger zerolog.Logger) *Collector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Collector{sources: sources, timeout: timeout, logger: logger}
}

// collected pairs a source index with its outcome so results can be
// reassembled in registration order.
type collected struct {
	index  int
	result Result
}

// CollectAll runs every source in parallel and blocks until all have
// resolved. A source exceeding its timeout yields an empty result with
// ErrCollectTimeout; its late output is discarded, never mixed in. The
// returned slice preserves source registration order.
func (c *Collector) CollectAll(ctx context.Context) []Result {
	resultChan := make(chan collected, len(c.sources))

	var wg sync.WaitGroup
	for i, src := range c.sources {
		wg.Add(1)
		go func(index int, s Source) {
			defer wg.Done()
			resultChan <- collected{index: index, result: c.collectOne(ctx, s)}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]Result, len(c.sources))
	for cr := range resultChan {
		results[cr.index] = cr.result
	}

	for _, r := range results {
		logging.LogCollection(logging.WithSource(c.logger, r.Source), len(r.Tally), len(r.Docs), r.Elapsed, r.Err)
	}
	return results
}

// sourceOutput carries one adapter's raw return values across the timeout
// boundary.
type sourceOutput struct {
	tally models.Tally
	docs  []models.FlaggedDocument
	err   error
}

func (c *Collector) collectOne(ctx context.Context, s Source) Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan sourceOutput, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- sourceOutput{err: errors.NewCollectionError(s.Name(), "collect",
					fmt.Errorf("panic: %v", r))}
			}
		}()
		tally, docs, err := s.Collect(ctx)
		done <- sourceOutput{tally: tally, docs: docs, err: err}
	}()

	select {
	case out := <-done:
		elapsed := time.Since(start)
		if out.err != nil {
			return Result{Source: s.Name(), Tally: models.Tally{}, Err: out.err, Elapsed: elapsed}
		}
		tally := out.tally
		if tally == nil {
			tally = models.Tally{}
		}
		return Result{Source: s.Name(), Tally: tally, Docs: out.docs, Elapsed: elapsed}
	case <-ctx.Done():
		return Result{
			Source:  s.Name(),
			Tally:   models.Tally{},
			Err:     errors.NewCollectionError(s.Name(), "collect", errors.ErrCollectTimeout),
			Elapsed: time.Since(start),
		}
	}
}
