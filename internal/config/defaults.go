package config

// DefaultExcluded returns the major tickers filtered out of rankings. Their
// mention volume is permanent background noise, not an emerging narrative.
func DefaultExcluded() []string {
	return []string{
		"BTC", "ETH", "USDT", "USDC", "BNB", "XRP", "ADA", "DOGE",
		"SOL", "TRX", "DOT", "MATIC", "LTC", "SHIB", "AVAX", "ATOM",
		"LINK", "XMR", "ETC", "BCH", "XLM", "ALGO", "FIL", "VET",
	}
}

// DefaultWellKnown returns the whitelist for bare (unsigiled) ticker tokens.
// Bare ALL-CAPS words are too ambiguous to count otherwise.
func DefaultWellKnown() []string {
	return []string{
		"PEPE", "BONK", "WIF", "FLOKI", "TURBO", "MOG", "BRETT",
		"POPCAT", "PNUT", "GOAT", "MEW", "BOME", "SLERF", "MYRO",
		"WEN", "PONKE", "TOSHI", "DEGEN", "AERO", "JUP", "PYTH",
		"TIA", "SEI", "SUI", "APT", "ARB", "OP", "INJ", "RNDR",
	}
}

// DefaultKeywords returns the narrative vocabulary matched against document
// text. A document matching any of these is flagged for clustering.
func DefaultKeywords() []string {
	return []string{
		"airdrop", "presale", "launch", "mint", "ido", "ico",
		"listing", "whitelist", "stealth", "fair launch",
		"locked liquidity", "renounced", "100x", "gem", "moonshot",
		"low cap", "micro cap", "next big",
	}
}
