package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Narrative Tracker Configuration

[tickers]
# Bare ALL-CAPS tokens only count as tickers when whitelisted here.
# $-prefixed tokens always count.
well_known = [
    "PEPE", "BONK", "WIF", "FLOKI", "TURBO", "MOG", "BRETT",
    "POPCAT", "PNUT", "GOAT", "MEW", "BOME", "SLERF", "MYRO",
    "WEN", "PONKE", "TOSHI", "DEGEN", "AERO", "JUP", "PYTH",
    "TIA", "SEI", "SUI", "APT", "ARB", "OP", "INJ", "RNDR",
]
# Narrative vocabulary; documents matching any of these are flagged.
keywords = [
    "airdrop", "presale", "launch", "mint", "ido", "ico",
    "listing", "whitelist", "stealth", "fair launch",
    "locked liquidity", "renounced", "100x", "gem", "moonshot",
    "low cap", "micro cap", "next big",
]

[scoring]
# Majors excluded from rankings.
excluded = [
    "BTC", "ETH", "USDT", "USDC", "BNB", "XRP", "ADA", "DOGE",
    "SOL", "TRX", "DOT", "MATIC", "LTC", "SHIB", "AVAX", "ATOM",
    "LINK", "XMR", "ETC", "BCH", "XLM", "ALGO", "FIL", "VET",
]
# Score multiplier bonus per additional source beyond the first.
cross_source_bonus = 0.5

[insight]
# Sources needed for a cross-platform alert.
cross_platform_threshold = 3
# Mentions needed for a first-appearance alert.
genesis_mention_floor = 3

[signals]
# Sample excerpts kept per keyword cluster.
excerpt_cap = 3

[history]
# Snapshot store backend: "json" or "sqlite"
backend = "json"
# Store path (file for json, database file for sqlite)
path = ""
# Maximum snapshots retained (oldest evicted first)
cap = 100

[scan]
# Per-source collection timeout in seconds
timeout_seconds = 30

[sources]
enabled = ["reddit", "coingecko", "farcaster", "nostr", "telegram"]

[sources.reddit]
subreddits = ["CryptoCurrency", "CryptoMoonShots", "SatoshiStreetBets", "altcoin"]
post_limit = 50
requests_per_second = 0.5

[sources.coingecko]
# Mention weight per trending-list appearance
trending_weight = 3
# Mention weight per 24h gainer
gainer_weight = 2
# Minimum 24h change to count as a gainer
gainer_min_change_pct = 10.0
# Minimum 24h change to flag a gainer document
gainer_flag_change_pct = 20.0

[sources.farcaster]
search_terms = ["airdrop", "presale", "new token"]
cast_limit = 50

[sources.nostr]
search_terms = ["altcoin", "memecoin", "presale", "airdrop"]
note_limit = 50

[ui]
# Enable colored output
color_enabled = true
# Ranked tickers shown
top_ranked = 20
# Keyword clusters shown
top_signals = 10
# Biggest movers shown
top_movers = 5

[logging]
# Log level: trace, debug, info, warn, error
level = "info"
# Log file path (empty for default)
file = ""
`

const credentialsTemplate = `# Narrative Tracker Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[telegram]
bot_token = ""
channels = ["cryptosignals", "altcoinalerts"]
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Use restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return nil
}
