// Package insight derives higher-level alerts from scored and trend data.
package insight

import (
	"fmt"
	"strings"

	"narrative-tracker/internal/models"
)

// Generator turns a ranked list plus trend context into insights. Pure, no
// I/O; all thresholds are injected.
type Generator struct {
	// CrossPlatformThreshold is the minimum distinct source count for a
	// cross-platform alert.
	CrossPlatformThreshold int
	// GenesisMentionFloor is the minimum total mentions for a brand-new
	// ticker to be alerted on, keeping noise out of genesis detection.
	GenesisMentionFloor int
}

// NewGenerator creates a generator with the default thresholds.
func NewGenerator() *Generator {
	return &Generator{
		CrossPlatformThreshold: 3,
		GenesisMentionFloor:    3,
	}
}

// Generate produces the ordered insight list. Cross-platform alerts come
// first, then genesis alerts; within each rule tickers keep rank order.
// A ticker may trigger both rules.
func (g *Generator) Generate(ranked []models.ScoredTicker, trends map[string]models.TrendRecord) []models.Insight {
	var insights []models.Insight

	var crossPlatform []string
	sourceCounts := make(map[string]int)
	for _, s := range ranked {
		if len(s.Sources) >= g.CrossPlatformThreshold {
			crossPlatform = append(crossPlatform, s.Ticker)
			sourceCounts[s.Ticker] = len(s.Sources)
		}
	}
	if len(crossPlatform) > 0 {
		parts := make([]string, len(crossPlatform))
		for i, t := range crossPlatform {
			parts[i] = fmt.Sprintf("%s (%d sources)", t, sourceCounts[t])
		}
		insights = append(insights, models.Insight{
			Type: models.InsightCrossPlatform,
			Message: fmt.Sprintf("Cross-platform momentum: %s confirmed on %d+ platforms: %s",
				pluralTickers(len(crossPlatform)), g.CrossPlatformThreshold, strings.Join(parts, ", ")),
			Tickers: crossPlatform,
		})
	}

	var genesis []string
	for _, s := range ranked {
		rec, ok := trends[s.Ticker]
		if ok && rec.IsNew && s.TotalMentions >= g.GenesisMentionFloor {
			genesis = append(genesis, s.Ticker)
		}
	}
	if len(genesis) > 0 {
		insights = append(insights, models.Insight{
			Type: models.InsightGenesis,
			Message: fmt.Sprintf("Genesis detection: %s appearing for the first time with %d+ mentions",
				pluralTickers(len(genesis)), g.GenesisMentionFloor),
			Tickers: genesis,
		})
	}

	return insights
}

func pluralTickers(n int) string {
	if n == 1 {
		return "1 ticker"
	}
	return fmt.Sprintf("%d tickers", n)
}
