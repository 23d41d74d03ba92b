package scan

import (
	"time"

	"github.com/rs/zerolog"

	"narrative-tracker/internal/aggregate"
	"narrative-tracker/internal/config"
	"narrative-tracker/internal/history"
	"narrative-tracker/internal/insight"
	"narrative-tracker/internal/signals"
	"narrative-tracker/internal/sources"
	"narrative-tracker/internal/ticker"
)

// Build assembles a scan engine from configuration. The returned closer
// releases the history store; call it when the engine is done.
func Build(cfg *config.Config, logger zerolog.Logger) (*Engine, func() error, error) {
	normalizer := ticker.NewNormalizer(cfg.Tickers.WellKnown)
	vocabulary := cfg.Tickers.Keywords

	var srcs []sources.Source
	if cfg.SourceEnabled("reddit") {
		rc := sources.DefaultRedditConfig()
		rc.Subreddits = cfg.Sources.Reddit.Subreddits
		rc.PostLimit = cfg.Sources.Reddit.PostLimit
		rc.RequestsPerSecond = cfg.Sources.Reddit.RequestsPerSecond
		srcs = append(srcs, sources.NewRedditSource(rc, normalizer, vocabulary))
	}
	if cfg.SourceEnabled("coingecko") {
		gc := sources.DefaultCoinGeckoConfig()
		gc.TrendingWeight = cfg.Sources.CoinGecko.TrendingWeight
		gc.GainerWeight = cfg.Sources.CoinGecko.GainerWeight
		gc.GainerMinChangePct = cfg.Sources.CoinGecko.GainerMinChangePct
		gc.GainerFlagChangePct = cfg.Sources.CoinGecko.GainerFlagChangePct
		srcs = append(srcs, sources.NewCoinGeckoSource(gc))
	}
	if cfg.SourceEnabled("farcaster") {
		fc := sources.DefaultFarcasterConfig()
		fc.SearchTerms = cfg.Sources.Farcaster.SearchTerms
		fc.CastLimit = cfg.Sources.Farcaster.CastLimit
		srcs = append(srcs, sources.NewFarcasterSource(fc, normalizer, vocabulary))
	}
	if cfg.SourceEnabled("nostr") {
		nc := sources.DefaultNostrConfig()
		nc.SearchTerms = cfg.Sources.Nostr.SearchTerms
		nc.NoteLimit = cfg.Sources.Nostr.NoteLimit
		srcs = append(srcs, sources.NewNostrSource(nc, normalizer, vocabulary))
	}
	if cfg.SourceEnabled("telegram") {
		tc := sources.DefaultTelegramConfig()
		tc.BotToken = cfg.Sources.Telegram.BotToken
		if len(cfg.Sources.Telegram.Channels) > 0 {
			tc.Channels = cfg.Sources.Telegram.Channels
		}
		srcs = append(srcs, sources.NewTelegramSource(tc, normalizer, vocabulary))
	}

	store, closer, err := buildStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	gen := insight.NewGenerator()
	gen.CrossPlatformThreshold = cfg.Insight.CrossPlatformThreshold
	gen.GenesisMentionFloor = cfg.Insight.GenesisMentionFloor

	timeout := time.Duration(cfg.Scan.TimeoutSeconds) * time.Second
	engine := NewEngine(Options{
		Collector: sources.NewCollector(srcs, timeout, logger),
		Aggregator: aggregate.NewAggregatorWithWeights(cfg.Scoring.Excluded,
			aggregate.ScoreWeights{CrossSourceBonus: cfg.Scoring.CrossSourceBonus}),
		Generator: gen,
		Clusterer: signals.NewClusterer(cfg.Signals.ExcerptCap),
		Store:     store,
		Excluded:  cfg.Scoring.Excluded,
		Logger:    logger,
	})
	return engine, closer, nil
}

func buildStore(cfg *config.Config, logger zerolog.Logger) (history.Store, func() error, error) {
	if cfg.History.Backend == "sqlite" {
		store, err := history.NewSQLiteStore(cfg.History.Path, cfg.History.Cap, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	store := history.NewFileStore(cfg.History.Path, cfg.History.Cap, logger)
	return store, func() error { return nil }, nil
}
