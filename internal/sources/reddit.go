package sources

import (
	"context"
	"fmt"
	"time"

	"narrative-tracker/internal/errors"
	"narrative-tracker/internal/models"
	"narrative-tracker/internal/ticker"
	"narrative-tracker/pkg/utils"
)

// RedditConfig configures the Reddit source adapter.
type RedditConfig struct {
	BaseURL    string
	Subreddits []string
	PostLimit  int
	// RequestsPerSecond paces subreddit fetches to stay under Reddit's
	// unauthenticated rate limits.
	RequestsPerSecond float64
}

// DefaultRedditConfig returns the default Reddit adapter configuration.
func DefaultRedditConfig() RedditConfig {
	return RedditConfig{
		BaseURL:           "https://www.reddit.com",
		Subreddits:        []string{"CryptoCurrency", "CryptoMoonShots", "SatoshiStreetBets", "altcoin"},
		PostLimit:         50,
		RequestsPerSecond: 0.5,
	}
}

// RedditSource scans crypto subreddits through the public .json listing
// endpoints, no OAuth required.
type RedditSource struct {
	cfg        RedditConfig
	client     *httpClient
	normalizer *ticker.Normalizer
	vocabulary []string
}

// NewRedditSource creates the Reddit source adapter.
func NewRedditSource(cfg RedditConfig, normalizer *ticker.Normalizer, vocabulary []string) *RedditSource {
	return &RedditSource{
		cfg:        cfg,
		client:     newHTTPClient(15*time.Second, cfg.RequestsPerSecond),
		normalizer: normalizer,
		vocabulary: vocabulary,
	}
}

func (s *RedditSource) Name() string { return "reddit" }

// redditListing mirrors the subset of the Reddit listing payload we read.
type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title    string `json:"title"`
				SelfText string `json:"selftext"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Collect scans each configured subreddit's new listing. A rate-limited or
// failing subreddit is skipped; the adapter only fails when every subreddit
// fails.
func (s *RedditSource) Collect(ctx context.Context) (models.Tally, []models.FlaggedDocument, error) {
	tally := make(models.Tally)
	var docs []models.FlaggedDocument

	var fetched, failed int
	for _, sub := range s.cfg.Subreddits {
		listing, err := s.fetchSubreddit(ctx, sub)
		if err != nil {
			failed++
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, nil, errors.NewCollectionError(s.Name(), "fetch "+sub, err)
			}
			continue
		}
		fetched++

		for _, child := range listing.Data.Children {
			text := child.Data.Title + " " + child.Data.SelfText
			tickers := s.normalizer.Extract(text)
			for _, t := range tickers {
				tally[t]++
			}

			keywords := s.normalizer.MatchKeywords(text, s.vocabulary)
			if len(keywords) == 0 {
				continue
			}
			doc, err := models.NewFlaggedDocument(
				utils.Truncate(child.Data.Title, 100), keywords, tickers, s.Name())
			if err != nil {
				continue
			}
			docs = append(docs, doc)
		}
	}

	if fetched == 0 && failed > 0 {
		return nil, nil, errors.NewCollectionError(s.Name(), "fetch", fmt.Errorf("all %d subreddits failed", failed))
	}
	return tally, docs, nil
}

func (s *RedditSource) fetchSubreddit(ctx context.Context, sub string) (*redditListing, error) {
	url := fmt.Sprintf("%s/r/%s/new.json?limit=%d&raw_json=1", s.cfg.BaseURL, sub, s.cfg.PostLimit)

	var listing redditListing
	if err := s.client.getJSON(ctx, url, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}
