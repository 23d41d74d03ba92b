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

// TelegramConfig configures the Telegram source adapter. Without a bot token
// the source still registers but collects nothing.
type TelegramConfig struct {
	BaseURL  string
	BotToken string
	Channels []string
}

// DefaultTelegramConfig returns the default Telegram adapter configuration.
// The token is expected to arrive from config or environment.
func DefaultTelegramConfig() TelegramConfig {
	return TelegramConfig{
		BaseURL:  "https://api.telegram.org",
		Channels: []string{"cryptosignals", "altcoinalerts"},
	}
}

// TelegramSource collects ticker mentions from Telegram channel updates via
// the Bot API.
type TelegramSource struct {
	cfg        TelegramConfig
	client     *httpClient
	normalizer *ticker.Normalizer
	vocabulary []string
}

// NewTelegramSource creates a Telegram source using the given normalizer and
// hype-keyword vocabulary.
func NewTelegramSource(cfg TelegramConfig, normalizer *ticker.Normalizer, vocabulary []string) *TelegramSource {
	return &TelegramSource{
		cfg:        cfg,
		client:     newHTTPClient(10*time.Second, 1),
		normalizer: normalizer,
		vocabulary: vocabulary,
	}
}

func (s *TelegramSource) Name() string { return "telegram" }

// Enabled reports whether the source has credentials to work with.
func (s *TelegramSource) Enabled() bool { return s.cfg.BotToken != "" }

type telegramUpdates struct {
	OK     bool `json:"ok"`
	Result []struct {
		ChannelPost struct {
			Text string `json:"text"`
		} `json:"channel_post"`
	} `json:"result"`
}

// Collect tallies tickers from channel posts. Missing credentials yields an
// empty result rather than an error: the scan should not degrade just
// because an optional source is unconfigured.
func (s *TelegramSource) Collect(ctx context.Context) (models.Tally, []models.FlaggedDocument, error) {
	if !s.Enabled() {
		return models.Tally{}, nil, nil
	}

	endpoint := fmt.Sprintf("%s/bot%s/getUpdates?allowed_updates=%s",
		s.cfg.BaseURL, s.cfg.BotToken, url.QueryEscape(`["channel_post"]`))

	var updates telegramUpdates
	if err := s.client.getJSON(ctx, endpoint, &updates); err != nil {
		return nil, nil, errors.NewCollectionError(s.Name(), "fetch", err)
	}
	if !updates.OK {
		return nil, nil, errors.NewCollectionError(s.Name(), "fetch",
			fmt.Errorf("bot api returned ok=false"))
	}

	tally := make(models.Tally)
	var docs []models.FlaggedDocument
	for _, update := range updates.Result {
		text := update.ChannelPost.Text
		if text == "" {
			continue
		}

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
	return tally, docs, nil
}
