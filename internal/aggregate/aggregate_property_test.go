package aggregate

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"narrative-tracker/internal/models"
)

// symbolGen generates canonical ticker symbols.
func symbolGen() gopter.Gen {
	return gen.SliceOfN(4, gen.RuneRange('A', 'Z')).Map(func(rs []rune) string {
		return string(rs)
	})
}

// tallyGen generates a source tally over a small symbol universe.
func tallyGen(sources []string) gopter.Gen {
	return gen.SliceOfN(len(sources)*3, gen.IntRange(0, 50)).FlatMap(
		func(v interface{}) gopter.Gen {
			counts := v.([]int)
			return gen.SliceOfN(3, symbolGen()).Map(func(symbols []string) models.SourceTally {
				st := make(models.SourceTally)
				i := 0
				for _, src := range sources {
					tally := make(models.Tally)
					for _, sym := range symbols {
						tally[sym] = counts[i%len(counts)]
						i++
					}
					st[src] = tally
				}
				return st
			})
		},
		reflect.TypeOf(models.SourceTally{}),
	)
}

func TestProperty_ScoreMonotonicInMentions(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	agg := NewAggregator(nil)

	properties.Property("raising mentions never lowers the score", prop.ForAll(
		func(mentions, extra, sources int) bool {
			return agg.Score(mentions+extra, sources) >= agg.Score(mentions, sources)
		},
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
		gen.IntRange(1, 10),
	))

	properties.Property("raising source count never lowers the score", prop.ForAll(
		func(mentions, sources, extra int) bool {
			return agg.Score(mentions, sources+extra) >= agg.Score(mentions, sources)
		},
		gen.IntRange(0, 1000),
		gen.IntRange(1, 10),
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}

func TestProperty_CrossPlatformBonusStrict(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	agg := NewAggregator(nil)

	properties.Property("same volume from more sources scores strictly higher", prop.ForAll(
		func(mentions, fewer, more int) bool {
			if fewer >= more {
				fewer, more = more, fewer+1
			}
			return agg.Score(mentions, more) > agg.Score(mentions, fewer)
		},
		gen.IntRange(1, 1000),
		gen.IntRange(1, 5),
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}

func TestProperty_RankMonotonicInSingleSourceIncrease(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)
	agg := NewAggregator(nil)

	sources := []string{"reddit", "nostr", "farcaster"}

	properties.Property("bumping one ticker in one source never drops its rank", prop.ForAll(
		func(st models.SourceTally, bump int) bool {
			before, err := agg.Rank(st)
			if err != nil || len(before) == 0 {
				return true
			}
			target := before[len(before)-1].Ticker

			bumped := make(models.SourceTally, len(st))
			for src, tally := range st {
				cp := make(models.Tally, len(tally))
				for k, v := range tally {
					cp[k] = v
				}
				bumped[src] = cp
			}
			bumped["reddit"][target] += bump

			after, err := agg.Rank(bumped)
			if err != nil {
				return false
			}

			rank := func(list []models.ScoredTicker, sym string) int {
				for i, s := range list {
					if s.Ticker == sym {
						return i
					}
				}
				return len(list)
			}
			scoreOf := func(list []models.ScoredTicker, sym string) float64 {
				for _, s := range list {
					if s.Ticker == sym {
						return s.NarrativeScore
					}
				}
				return 0
			}

			if scoreOf(after, target) < scoreOf(before, target) {
				return false
			}
			return rank(after, target) <= rank(before, target)
		},
		tallyGen(sources),
		gen.IntRange(1, 30),
	))

	properties.TestingRun(t)
}

func TestProperty_ExclusionInvariant(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("no excluded major ever appears in ranked output", prop.ForAll(
		func(st models.SourceTally, volume int) bool {
			agg := NewAggregator([]string{"BTCX", "ETHX"})

			// Force heavy mention volume for the excluded majors.
			for _, tally := range st {
				tally["BTCX"] = volume
				tally["ETHX"] = volume * 2
			}

			ranked, err := agg.Rank(st)
			if err != nil {
				return false
			}
			for _, s := range ranked {
				if s.Ticker == "BTCX" || s.Ticker == "ETHX" {
					return false
				}
			}
			return true
		},
		tallyGen([]string{"reddit", "nostr"}),
		gen.IntRange(1, 10000),
	))

	properties.TestingRun(t)
}

func TestProperty_RankDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)
	agg := NewAggregator(nil)

	properties.Property("identical inputs produce identical output", prop.ForAll(
		func(st models.SourceTally) bool {
			first, err1 := agg.Rank(st)
			second, err2 := agg.Rank(st)
			if err1 != nil || err2 != nil {
				return err1 != nil && err2 != nil
			}
			return reflect.DeepEqual(first, second)
		},
		tallyGen([]string{"reddit", "nostr", "coingecko"}),
	))

	properties.TestingRun(t)
}
