package sources

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"narrative-tracker/internal/errors"
	"narrative-tracker/internal/models"
	"narrative-tracker/internal/ticker"
	"narrative-tracker/pkg/utils"
)

// FarcasterConfig configures the Farcaster source adapter, backed by the
// Searchcaster search API.
type FarcasterConfig struct {
	BaseURL           string
	SearchTerms       []string
	CastLimit         int
	RequestsPerSecond float64
}

// DefaultFarcasterConfig returns the default Farcaster adapter configuration.
func DefaultFarcasterConfig() FarcasterConfig {
	return FarcasterConfig{
		BaseURL:           "https://searchcaster.xyz/api",
		SearchTerms:       []string{"airdrop", "presale", "new token", "$"},
		CastLimit:         50,
		RequestsPerSecond: 1,
	}
}

// FarcasterSource collects ticker mentions from Farcaster casts.
type FarcasterSource struct {
	cfg        FarcasterConfig
	client     *httpClient
	normalizer *ticker.Normalizer
	vocabulary []string
}

// NewFarcasterSource creates a Farcaster source using the given normalizer
// and hype-keyword vocabulary.
func NewFarcasterSource(cfg FarcasterConfig, normalizer *ticker.Normalizer, vocabulary []string) *FarcasterSource {
	return &FarcasterSource{
		cfg:        cfg,
		client:     newHTTPClient(10*time.Second, cfg.RequestsPerSecond),
		normalizer: normalizer,
		vocabulary: vocabulary,
	}
}

func (s *FarcasterSource) Name() string { return "farcaster" }

type searchcasterResponse struct {
	Casts []struct {
		Body struct {
			Data struct {
				Text string `json:"text"`
			} `json:"data"`
		} `json:"body"`
	} `json:"casts"`
}

// Collect searches casts for each configured term and tallies extracted
// tickers. A failed term is skipped; all terms failing fails the collection.
func (s *FarcasterSource) Collect(ctx context.Context) (models.Tally, []models.FlaggedDocument, error) {
	tally := make(models.Tally)
	var docs []models.FlaggedDocument
	seen := make(map[string]bool)

	var lastErr error
	failed := 0
	for _, term := range s.cfg.SearchTerms {
		resp, err := s.search(ctx, term)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, errors.NewCollectionError(s.Name(), "search", ctx.Err())
			}
			lastErr = err
			failed++
			continue
		}

		for _, cast := range resp.Casts {
			text := cast.Body.Data.Text
			if text == "" || seen[text] {
				continue
			}
			seen[text] = true

			symbols := s.normalizer.Extract(text)
			for _, symbol := range symbols {
				tally[symbol]++
			}

			keywords := s.normalizer.MatchKeywords(text, s.vocabulary)
			if len(keywords) > 0 && len(symbols) > 0 {
				doc, err := models.NewFlaggedDocument(utils.Truncate(text, 100), keywords, symbols, s.Name())
				if err == nil {
					docs = append(docs, doc)
				}
			}
		}
	}

	if failed == len(s.cfg.SearchTerms) && lastErr != nil {
		return nil, nil, errors.NewCollectionError(s.Name(), "search",
			fmt.Errorf("all %d search terms failed: %w", failed, lastErr))
	}
	return tally, docs, nil
}

func (s *FarcasterSource) search(ctx context.Context, term string) (searchcasterResponse, error) {
	endpoint := fmt.Sprintf("%s/search?text=%s&count=%d",
		s.cfg.BaseURL, url.QueryEscape(term), s.cfg.CastLimit)

	var resp searchcasterResponse
	err := s.client.getJSON(ctx, endpoint, &resp)
	return resp, err
}
