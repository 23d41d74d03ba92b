package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"narrative-tracker/internal/errors"
	"narrative-tracker/internal/models"
	"narrative-tracker/internal/ticker"
	"narrative-tracker/pkg/utils"
)

// NostrConfig configures the Nostr source adapter, backed by the nostr.band
// indexer API.
type NostrConfig struct {
	BaseURL           string
	SearchTerms       []string
	NoteLimit         int
	RequestsPerSecond float64
}

// DefaultNostrConfig returns the default Nostr adapter configuration.
func DefaultNostrConfig() NostrConfig {
	return NostrConfig{
		BaseURL:           "https://api.nostr.band",
		SearchTerms:       []string{"altcoin", "memecoin", "presale", "airdrop"},
		NoteLimit:         50,
		RequestsPerSecond: 1,
	}
}

// cryptoContext gates trending notes: nostr is a general-purpose network, so
// a note only counts when it reads like crypto talk.
var cryptoContext = []string{
	"crypto", "token", "coin", "defi", "altcoin", "airdrop",
	"presale", "pump", "moon", "bullish", "dex", "chain",
}

// NostrSource collects ticker mentions from Nostr notes.
type NostrSource struct {
	cfg        NostrConfig
	client     *httpClient
	normalizer *ticker.Normalizer
	vocabulary []string
}

// NewNostrSource creates a Nostr source using the given normalizer and
// hype-keyword vocabulary.
func NewNostrSource(cfg NostrConfig, normalizer *ticker.Normalizer, vocabulary []string) *NostrSource {
	return &NostrSource{
		cfg:        cfg,
		client:     newHTTPClient(10*time.Second, cfg.RequestsPerSecond),
		normalizer: normalizer,
		vocabulary: vocabulary,
	}
}

func (s *NostrSource) Name() string { return "nostr" }

type nostrNotes struct {
	Notes []struct {
		Event struct {
			Content string `json:"content"`
		} `json:"event"`
	} `json:"notes"`
}

// Collect pulls the trending-notes feed plus one search per configured term.
// Trending alone feeding the tally is fine; everything failing is not.
func (s *NostrSource) Collect(ctx context.Context) (models.Tally, []models.FlaggedDocument, error) {
	tally := make(models.Tally)
	var docs []models.FlaggedDocument
	seen := make(map[string]bool)

	succeeded := 0
	var lastErr error

	process := func(notes nostrNotes, requireCryptoContext bool) {
		for _, note := range notes.Notes {
			content := note.Event.Content
			if content == "" {
				continue
			}
			// Notes get edited and reboosted; dedup on a content prefix.
			key := utils.Truncate(content, 80)
			if seen[key] {
				continue
			}
			seen[key] = true

			if requireCryptoContext && !hasCryptoContext(content) {
				continue
			}

			symbols := s.normalizer.Extract(content)
			for _, symbol := range symbols {
				tally[symbol]++
			}

			keywords := s.normalizer.MatchKeywords(content, s.vocabulary)
			if len(keywords) > 0 && len(symbols) > 0 {
				doc, err := models.NewFlaggedDocument(utils.Truncate(content, 100), keywords, symbols, s.Name())
				if err == nil {
					docs = append(docs, doc)
				}
			}
		}
	}

	trending, err := s.fetchTrending(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, errors.NewCollectionError(s.Name(), "trending", ctx.Err())
		}
		lastErr = err
	} else {
		succeeded++
		process(trending, true)
	}

	for _, term := range s.cfg.SearchTerms {
		results, err := s.search(ctx, term)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, errors.NewCollectionError(s.Name(), "search", ctx.Err())
			}
			lastErr = err
			continue
		}
		succeeded++
		process(results, false)
	}

	if succeeded == 0 {
		return nil, nil, errors.NewCollectionError(s.Name(), "fetch",
			fmt.Errorf("no feed reachable: %w", lastErr))
	}
	return tally, docs, nil
}

func (s *NostrSource) fetchTrending(ctx context.Context) (nostrNotes, error) {
	var resp nostrNotes
	err := s.client.getJSON(ctx, s.cfg.BaseURL+"/v0/trending/notes", &resp)
	return resp, err
}

func (s *NostrSource) search(ctx context.Context, term string) (nostrNotes, error) {
	endpoint := fmt.Sprintf("%s/v0/search/notes?q=%s&limit=%d",
		s.cfg.BaseURL, url.QueryEscape(term), s.cfg.NoteLimit)

	var resp nostrNotes
	err := s.client.getJSON(ctx, endpoint, &resp)
	return resp, err
}

func hasCryptoContext(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range cryptoContext {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
