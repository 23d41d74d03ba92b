package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const trendingFixture = `{"coins":[
	{"item":{"symbol":"newt","name":"Newton","market_cap_rank":412}},
	{"item":{"symbol":"frg","name":"Frogcoin","market_cap_rank":977}}
]}`

const marketsFixture = `[
	{"symbol":"frg","name":"Frogcoin","price_change_percentage_24h":34.2,"total_volume":120000},
	{"symbol":"mky","name":"Monkey","price_change_percentage_24h":12.5,"total_volume":80000},
	{"symbol":"slw","name":"Slowcoin","price_change_percentage_24h":4.1,"total_volume":50000}
]`

func coingeckoServer(t *testing.T, trendingStatus, marketsStatus int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search/trending":
			if trendingStatus != http.StatusOK {
				http.Error(w, "down", trendingStatus)
				return
			}
			fmt.Fprint(w, trendingFixture)
		case strings.HasPrefix(r.URL.Path, "/coins/markets"):
			if marketsStatus != http.StatusOK {
				http.Error(w, "down", marketsStatus)
				return
			}
			fmt.Fprint(w, marketsFixture)
		default:
			http.NotFound(w, r)
		}
	}))
}

func testCoinGeckoConfig(baseURL string) CoinGeckoConfig {
	cfg := DefaultCoinGeckoConfig()
	cfg.BaseURL = baseURL
	return cfg
}

func TestCoinGeckoCollect_Weighting(t *testing.T) {
	server := coingeckoServer(t, http.StatusOK, http.StatusOK)
	defer server.Close()

	src := NewCoinGeckoSource(testCoinGeckoConfig(server.URL))
	tally, docs, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	// NEWT: trending only (x3). FRG: trending (x3) plus 34.2% gainer (x2).
	// MKY: gainer only. SLW: below the 10% gainer floor.
	if tally["NEWT"] != 3 {
		t.Errorf("NEWT tally = %d, want 3", tally["NEWT"])
	}
	if tally["FRG"] != 5 {
		t.Errorf("FRG tally = %d, want 5", tally["FRG"])
	}
	if tally["MKY"] != 2 {
		t.Errorf("MKY tally = %d, want 2", tally["MKY"])
	}
	if _, ok := tally["SLW"]; ok {
		t.Errorf("SLW should be below the gainer floor, got %d", tally["SLW"])
	}

	// Two trending docs plus one gainer doc: FRG is above the 20% flag
	// threshold, MKY is not.
	if len(docs) != 3 {
		t.Fatalf("got %d flagged documents, want 3: %+v", len(docs), docs)
	}
	if docs[0].Keywords[0] != "trending" {
		t.Errorf("docs[0] keywords = %v, want trending first", docs[0].Keywords)
	}
	last := docs[len(docs)-1]
	if last.Keywords[0] != "pump" || last.Tickers[0] != "FRG" {
		t.Errorf("gainer doc = %+v, want pump/FRG", last)
	}
}

func TestCoinGeckoCollect_OneFeedDownIsTolerated(t *testing.T) {
	server := coingeckoServer(t, http.StatusInternalServerError, http.StatusOK)
	defer server.Close()

	src := NewCoinGeckoSource(testCoinGeckoConfig(server.URL))
	tally, _, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("markets feed alone should carry the collection: %v", err)
	}
	if tally["FRG"] != 2 {
		t.Errorf("FRG tally = %d, want gainer weight 2", tally["FRG"])
	}
}

func TestCoinGeckoCollect_BothFeedsDown(t *testing.T) {
	server := coingeckoServer(t, http.StatusInternalServerError, http.StatusInternalServerError)
	defer server.Close()

	src := NewCoinGeckoSource(testCoinGeckoConfig(server.URL))
	if _, _, err := src.Collect(context.Background()); err == nil {
		t.Fatal("expected error when both feeds fail")
	}
}
