// Package config provides configuration management for the narrative tracker.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"narrative-tracker/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Tickers Tickers `mapstructure:"tickers"`
	Scoring Scoring `mapstructure:"scoring"`
	Insight Insight `mapstructure:"insight"`
	Signals Signals `mapstructure:"signals"`
	History History `mapstructure:"history"`
	Scan    Scan    `mapstructure:"scan"`
	Sources Sources `mapstructure:"sources"`
	UI      UI      `mapstructure:"ui"`
	Logging Logging `mapstructure:"logging"`
}

// Tickers controls symbol extraction and keyword matching.
type Tickers struct {
	// WellKnown is the whitelist that lets bare ALL-CAPS tokens count as
	// tickers. Sigil-prefixed tokens never need it.
	WellKnown []string `mapstructure:"well_known"`
	// Keywords is the narrative vocabulary matched against document text.
	Keywords []string `mapstructure:"keywords"`
}

// Scoring controls the narrative score formula and exclusions.
type Scoring struct {
	// Excluded lists major tickers whose volume would drown out emerging
	// narratives.
	Excluded         []string `mapstructure:"excluded"`
	CrossSourceBonus float64  `mapstructure:"cross_source_bonus"`
}

// Insight controls the alert thresholds.
type Insight struct {
	CrossPlatformThreshold int `mapstructure:"cross_platform_threshold"`
	GenesisMentionFloor    int `mapstructure:"genesis_mention_floor"`
}

// Signals controls keyword clustering.
type Signals struct {
	ExcerptCap int `mapstructure:"excerpt_cap"`
}

// History controls snapshot persistence.
type History struct {
	// Backend selects the store: "json" or "sqlite".
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	Cap     int    `mapstructure:"cap"`
}

// Scan controls the collection run.
type Scan struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// Sources holds per-platform adapter configuration.
type Sources struct {
	Enabled   []string  `mapstructure:"enabled"`
	Reddit    Reddit    `mapstructure:"reddit"`
	CoinGecko CoinGecko `mapstructure:"coingecko"`
	Farcaster Farcaster `mapstructure:"farcaster"`
	Nostr     Nostr     `mapstructure:"nostr"`
	Telegram  Telegram  `mapstructure:"telegram"`
}

// Reddit holds Reddit adapter configuration.
type Reddit struct {
	Subreddits        []string `mapstructure:"subreddits"`
	PostLimit         int      `mapstructure:"post_limit"`
	RequestsPerSecond float64  `mapstructure:"requests_per_second"`
}

// CoinGecko holds CoinGecko adapter configuration.
type CoinGecko struct {
	TrendingWeight      int     `mapstructure:"trending_weight"`
	GainerWeight        int     `mapstructure:"gainer_weight"`
	GainerMinChangePct  float64 `mapstructure:"gainer_min_change_pct"`
	GainerFlagChangePct float64 `mapstructure:"gainer_flag_change_pct"`
}

// Farcaster holds Farcaster adapter configuration.
type Farcaster struct {
	SearchTerms []string `mapstructure:"search_terms"`
	CastLimit   int      `mapstructure:"cast_limit"`
}

// Nostr holds Nostr adapter configuration.
type Nostr struct {
	SearchTerms []string `mapstructure:"search_terms"`
	NoteLimit   int      `mapstructure:"note_limit"`
}

// Telegram holds Telegram adapter configuration. Loaded from credentials.toml;
// the source stays dormant without a bot token.
type Telegram struct {
	BotToken string   `mapstructure:"bot_token"`
	Channels []string `mapstructure:"channels"`
}

// UI holds output configuration.
type UI struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
	TopRanked    int  `mapstructure:"top_ranked"`
	TopSignals   int  `mapstructure:"top_signals"`
	TopMovers    int  `mapstructure:"top_movers"`
}

// Logging holds log output configuration.
type Logging struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/narrative-tracker"
	}
	return filepath.Join(home, ".config", "narrative-tracker")
}

// Load loads configuration from the specified directory. If configDir is
// empty, uses the default config directory. A missing config.toml is created
// from the template and then loaded, so a first run works out of the box.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Sources.Telegram); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)
	applyFallbacks(cfg, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			// Fall through with defaults; the template mirrors them.
		} else {
			return err
		}
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, tg *Telegram) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.UnmarshalKey("telegram", tg)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tickers.well_known", DefaultWellKnown())
	v.SetDefault("tickers.keywords", DefaultKeywords())
	v.SetDefault("scoring.excluded", DefaultExcluded())
	v.SetDefault("scoring.cross_source_bonus", 0.5)
	v.SetDefault("insight.cross_platform_threshold", 3)
	v.SetDefault("insight.genesis_mention_floor", 3)
	v.SetDefault("signals.excerpt_cap", 3)
	v.SetDefault("history.backend", "json")
	v.SetDefault("history.cap", 100)
	v.SetDefault("scan.timeout_seconds", 30)
	v.SetDefault("sources.enabled", []string{"reddit", "coingecko", "farcaster", "nostr", "telegram"})
	v.SetDefault("sources.reddit.subreddits", []string{"CryptoCurrency", "CryptoMoonShots", "SatoshiStreetBets", "altcoin"})
	v.SetDefault("sources.reddit.post_limit", 50)
	v.SetDefault("sources.reddit.requests_per_second", 0.5)
	v.SetDefault("sources.coingecko.trending_weight", 3)
	v.SetDefault("sources.coingecko.gainer_weight", 2)
	v.SetDefault("sources.coingecko.gainer_min_change_pct", 10.0)
	v.SetDefault("sources.coingecko.gainer_flag_change_pct", 20.0)
	v.SetDefault("sources.farcaster.search_terms", []string{"airdrop", "presale", "new token"})
	v.SetDefault("sources.farcaster.cast_limit", 50)
	v.SetDefault("sources.nostr.search_terms", []string{"altcoin", "memecoin", "presale", "airdrop"})
	v.SetDefault("sources.nostr.note_limit", 50)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.top_ranked", 20)
	v.SetDefault("ui.top_signals", 10)
	v.SetDefault("ui.top_movers", 5)
	v.SetDefault("logging.level", "info")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Sources.Telegram.BotToken = v
	}
	if v := os.Getenv("NARRATIVE_TRACKER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("NARRATIVE_TRACKER_HISTORY"); v != "" {
		cfg.History.Path = v
	}
}

// applyFallbacks fills paths the template leaves empty.
func applyFallbacks(cfg *Config, configDir string) {
	if cfg.History.Path == "" {
		name := "history.json"
		if cfg.History.Backend == "sqlite" {
			name = "history.db"
		}
		cfg.History.Path = filepath.Join(configDir, name)
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(configDir, "logs", "tracker.log")
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Tickers.Keywords) == 0 {
		return fmt.Errorf("%w: %w", errors.ErrConfigInvalid, errors.ErrEmptyVocabulary)
	}
	if c.History.Backend != "json" && c.History.Backend != "sqlite" {
		return fmt.Errorf("%w: history.backend must be \"json\" or \"sqlite\", got %q",
			errors.ErrConfigInvalid, c.History.Backend)
	}
	if c.History.Cap <= 0 {
		return fmt.Errorf("%w: history.cap must be positive", errors.ErrConfigInvalid)
	}
	if c.Scan.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: scan.timeout_seconds must be positive", errors.ErrConfigInvalid)
	}
	if c.Scoring.CrossSourceBonus < 0 {
		return fmt.Errorf("%w: scoring.cross_source_bonus must be non-negative", errors.ErrConfigInvalid)
	}
	if c.Insight.CrossPlatformThreshold < 1 {
		return fmt.Errorf("%w: insight.cross_platform_threshold must be at least 1", errors.ErrConfigInvalid)
	}
	for _, name := range c.Sources.Enabled {
		switch name {
		case "reddit", "coingecko", "farcaster", "nostr", "telegram":
		default:
			return fmt.Errorf("%w: unknown source %q", errors.ErrConfigInvalid, name)
		}
	}
	return nil
}

// SourceEnabled reports whether the named source is in the enabled list.
func (c *Config) SourceEnabled(name string) bool {
	for _, s := range c.Sources.Enabled {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
