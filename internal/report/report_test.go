package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"narrative-tracker/internal/models"
	"narrative-tracker/internal/scan"
	"narrative-tracker/internal/sources"
)

func sampleReport() *scan.Report {
	return &scan.Report{
		When: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Ranked: []models.ScoredTicker{
			{Ticker: "NEWT", NarrativeScore: 9, TotalMentions: 6, Sources: []string{"nostr", "reddit"}},
			{Ticker: "FRG", NarrativeScore: 5, TotalMentions: 5, Sources: []string{"coingecko"}},
		},
		Trends: map[string]models.TrendRecord{
			"NEWT": {Ticker: "NEWT", Change: 6, Percent: 100, IsNew: true},
			"FRG":  {Ticker: "FRG", Change: 2, Percent: 66.7, Previous: 3},
		},
		Signals: []models.KeywordSignal{
			{Keyword: "airdrop", DocumentCount: 2, Tickers: []string{"NEWT"}, SampleExcerpts: []string{"NEWT airdrop live"}},
		},
		Insights: []models.Insight{
			{Type: models.InsightGenesis, Message: "$NEWT appeared for the first time with 6 mentions", Tickers: []string{"NEWT"}},
		},
		Results: []sources.Result{
			{Source: "reddit", Tally: models.Tally{"NEWT": 4}},
			{Source: "nostr", Tally: models.Tally{"NEWT": 2}},
			{Source: "farcaster", Err: fmt.Errorf("api down")},
		},
		SourceErrors: map[string]error{"farcaster": fmt.Errorf("api down")},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, Options{ColorEnabled: false, TopRanked: 20, TopSignals: 10, TopMovers: 5})
	r.Render(sampleReport())
	out := buf.String()

	for _, want := range []string{
		"$NEWT",
		"✨ NEW",
		"airdrop",
		"NEWT airdrop live",
		"appeared for the first time",
		"Biggest Movers",
		"Sources unavailable: farcaster",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// NEWT outranks FRG.
	if strings.Index(out, "$NEWT") > strings.Index(out, "$FRG") {
		t.Error("ranked order not preserved in output")
	}
}

func TestRender_RespectsTopRankedLimit(t *testing.T) {
	rep := sampleReport()
	// No trends: keeps the movers section from also naming tickers.
	rep.Trends = nil

	var buf bytes.Buffer
	r := NewRenderer(&buf, Options{ColorEnabled: false, TopRanked: 1, TopSignals: 10, TopMovers: 5})
	r.Render(rep)

	if strings.Contains(buf.String(), "$FRG") {
		t.Error("second-ranked ticker shown despite limit of 1")
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var decoded struct {
		Ranked  []models.ScoredTicker `json:"ranked"`
		Sources []struct {
			Source string `json:"source"`
			Error  string `json:"error"`
		} `json:"sources"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Ranked) != 2 || decoded.Ranked[0].Ticker != "NEWT" {
		t.Errorf("ranked payload wrong: %+v", decoded.Ranked)
	}

	var failed string
	for _, s := range decoded.Sources {
		if s.Error != "" {
			failed = s.Source
		}
	}
	if failed != "farcaster" {
		t.Errorf("failed source = %q, want farcaster", failed)
	}
}
