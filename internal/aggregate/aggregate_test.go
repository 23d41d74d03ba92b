package aggregate

import (
	"reflect"
	"testing"

	"narrative-tracker/internal/models"
)

func TestRankMergesAcrossSources(t *testing.T) {
	agg := NewAggregator(nil)

	ranked, err := agg.Rank(models.SourceTally{
		"reddit":    {"XYZ": 4, "AAA": 1},
		"nostr":     {"XYZ": 2},
		"farcaster": {"AAA": 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 tickers, got %d", len(ranked))
	}

	top := ranked[0]
	if top.Ticker != "XYZ" || top.TotalMentions != 6 {
		t.Errorf("top = %+v, want XYZ with 6 mentions", top)
	}
	if !reflect.DeepEqual(top.Sources, []string{"nostr", "reddit"}) {
		t.Errorf("sources = %v, want [nostr reddit]", top.Sources)
	}
	// 6 mentions, 2 sources: 6 * (1 + 0.5) = 9
	if top.NarrativeScore != 9 {
		t.Errorf("score = %v, want 9", top.NarrativeScore)
	}
}

func TestRankExcludesMajors(t *testing.T) {
	agg := NewAggregator([]string{"BTC", "ETH"})

	ranked, err := agg.Rank(models.SourceTally{
		"reddit": {"BTC": 500, "ETH": 300, "PEPE": 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 1 || ranked[0].Ticker != "PEPE" {
		t.Errorf("majors not excluded: %+v", ranked)
	}
}

func TestRankZeroCountDoesNotContributeSource(t *testing.T) {
	agg := NewAggregator(nil)

	ranked, err := agg.Rank(models.SourceTally{
		"reddit": {"AAA": 3},
		"nostr":  {"AAA": 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked[0].Sources) != 1 {
		t.Errorf("zero-count source must not count as confirmation: %v", ranked[0].Sources)
	}
}

func TestRankCrossPlatformBonus(t *testing.T) {
	agg := NewAggregator(nil)

	// A: 6 mentions from one source. B: 6 mentions spread over three.
	ranked, err := agg.Rank(models.SourceTally{
		"reddit":    {"AAA": 6, "BBB": 2},
		"nostr":     {"BBB": 2},
		"farcaster": {"BBB": 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if ranked[0].Ticker != "BBB" {
		t.Fatalf("multi-source ticker must outrank single-source peer: %+v", ranked)
	}
	if ranked[0].NarrativeScore <= ranked[1].NarrativeScore {
		t.Errorf("score(B)=%v must exceed score(A)=%v",
			ranked[0].NarrativeScore, ranked[1].NarrativeScore)
	}
}

func TestRankTieBreakByName(t *testing.T) {
	agg := NewAggregator(nil)

	ranked, err := agg.Rank(models.SourceTally{
		"reddit": {"ZED": 3, "ACE": 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	if ranked[0].Ticker != "ACE" || ranked[1].Ticker != "ZED" {
		t.Errorf("tie must break by name ascending: %+v", ranked)
	}
}

func TestRankNegativeCountRejected(t *testing.T) {
	agg := NewAggregator(nil)

	_, err := agg.Rank(models.SourceTally{"reddit": {"AAA": -1}})
	if err == nil {
		t.Error("negative count must be reported, not coerced")
	}
}

func TestRankCustomWeights(t *testing.T) {
	agg := NewAggregatorWithWeights(nil, ScoreWeights{CrossSourceBonus: 1})

	ranked, err := agg.Rank(models.SourceTally{
		"reddit": {"AAA": 2},
		"nostr":  {"AAA": 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	// 4 mentions, 2 sources, bonus 1: 4 * (1 + 1) = 8
	if ranked[0].NarrativeScore != 8 {
		t.Errorf("score = %v, want 8", ranked[0].NarrativeScore)
	}
}
