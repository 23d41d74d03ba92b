package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"narrative-tracker/internal/errors"
	"narrative-tracker/internal/models"
)

// CoinGeckoConfig configures the CoinGecko source adapter.
type CoinGeckoConfig struct {
	BaseURL string
	// TrendingWeight amplifies each trending-list appearance; trending on
	// an aggregator is a stronger signal than a single social mention.
	TrendingWeight int
	// GainerWeight amplifies each significant 24h price gainer.
	GainerWeight int
	// GainerMinChangePct is the minimum 24h change for a coin to count as
	// a gainer at all.
	GainerMinChangePct float64
	// GainerFlagChangePct is the minimum 24h change for a gainer to emit
	// a flagged document.
	GainerFlagChangePct float64
}

// DefaultCoinGeckoConfig returns the default CoinGecko adapter configuration.
func DefaultCoinGeckoConfig() CoinGeckoConfig {
	return CoinGeckoConfig{
		BaseURL:             "https://api.coingecko.com/api/v3",
		TrendingWeight:      3,
		GainerWeight:        2,
		GainerMinChangePct:  10,
		GainerFlagChangePct: 20,
	}
}

// CoinGeckoSource is the market validation layer: trending coins and big
// 24h movers, weighted into the same mention tally as the social sources.
type CoinGeckoSource struct {
	cfg    CoinGeckoConfig
	client *httpClient
}

// NewCoinGeckoSource creates the CoinGecko source adapter.
func NewCoinGeckoSource(cfg CoinGeckoConfig) *CoinGeckoSource {
	return &CoinGeckoSource{
		cfg:    cfg,
		client: newHTTPClient(10*time.Second, 1),
	}
}

func (s *CoinGeckoSource) Name() string { return "coingecko" }

type trendingResponse struct {
	Coins []struct {
		Item struct {
			Symbol        string `json:"symbol"`
			Name          string `json:"name"`
			MarketCapRank int    `json:"market_cap_rank"`
		} `json:"item"`
	} `json:"coins"`
}

type marketCoin struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	PriceChangePct24h float64 `json:"price_change_percentage_24h"`
	TotalVolume       float64 `json:"total_volume"`
}

// Collect fetches the trending list and the 24h top gainers. Either feed
// failing alone is tolerated; both failing fails the collection.
func (s *CoinGeckoSource) Collect(ctx context.Context) (models.Tally, []models.FlaggedDocument, error) {
	tally := make(models.Tally)
	var docs []models.FlaggedDocument

	trending, trendingErr := s.fetchTrending(ctx)
	gainers, gainersErr := s.fetchGainers(ctx)
	if trendingErr != nil && gainersErr != nil {
		return nil, nil, errors.NewCollectionError(s.Name(), "fetch",
			fmt.Errorf("trending: %v; markets: %v", trendingErr, gainersErr))
	}

	for _, coin := range trending.Coins {
		symbol := strings.ToUpper(coin.Item.Symbol)
		if !models.ValidSymbol(symbol) {
			continue
		}
		tally[symbol] += s.cfg.TrendingWeight
	}

	for _, coin := range gainers {
		symbol := strings.ToUpper(coin.Symbol)
		if !models.ValidSymbol(symbol) {
			continue
		}
		tally[symbol] += s.cfg.GainerWeight
	}

	// Flagged documents for the strongest signals only.
	for i, coin := range trending.Coins {
		if i >= 5 {
			break
		}
		symbol := strings.ToUpper(coin.Item.Symbol)
		if !models.ValidSymbol(symbol) {
			continue
		}
		doc, err := models.NewFlaggedDocument(
			fmt.Sprintf("%s ($%s) is trending on CoinGecko", coin.Item.Name, symbol),
			[]string{"trending", "hot"},
			[]string{symbol},
			s.Name(),
		)
		if err == nil {
			docs = append(docs, doc)
		}
	}

	flagged := 0
	for _, coin := range gainers {
		if flagged >= 5 {
			break
		}
		if coin.PriceChangePct24h <= s.cfg.GainerFlagChangePct {
			continue
		}
		symbol := strings.ToUpper(coin.Symbol)
		if !models.ValidSymbol(symbol) {
			continue
		}
		doc, err := models.NewFlaggedDocument(
			fmt.Sprintf("%s ($%s) up %.1f%% in 24h", coin.Name, symbol, coin.PriceChangePct24h),
			[]string{"pump", "gainers"},
			[]string{symbol},
			s.Name(),
		)
		if err == nil {
			docs = append(docs, doc)
			flagged++
		}
	}

	return tally, docs, nil
}

func (s *CoinGeckoSource) fetchTrending(ctx context.Context) (trendingResponse, error) {
	var resp trendingResponse
	err := s.client.getJSON(ctx, s.cfg.BaseURL+"/search/trending", &resp)
	return resp, err
}

func (s *CoinGeckoSource) fetchGainers(ctx context.Context) ([]marketCoin, error) {
	url := s.cfg.BaseURL + "/coins/markets?vs_currency=usd&order=percent_change_24h_desc&per_page=20&page=1&sparkline=false"

	var coins []marketCoin
	if err := s.client.getJSON(ctx, url, &coins); err != nil {
		return nil, err
	}

	var gainers []marketCoin
	for _, c := range coins {
		if c.PriceChangePct24h > s.cfg.GainerMinChangePct {
			gainers = append(gainers, c)
		}
	}
	return gainers, nil
}
