// Package trend diffs the latest scan snapshot against the prior one.
package trend

import (
	"sort"

	"narrative-tracker/internal/models"
)

// Calculate diffs the two most recent snapshots in history. With fewer than
// two snapshots there is no baseline and the result is empty.
func Calculate(history []models.ScanSnapshot) map[string]models.TrendRecord {
	if len(history) < 2 {
		return map[string]models.TrendRecord{}
	}
	previous := history[len(history)-2].Tickers
	current := history[len(history)-1].Tickers
	return diff(previous, current)
}

// CalculateWith diffs an explicit current tally against the latest snapshot
// already in history. Used when the current scan has not been persisted yet.
// An empty history gives no baseline and an empty result.
func CalculateWith(history []models.ScanSnapshot, current models.Tally) map[string]models.TrendRecord {
	if len(history) < 1 {
		return map[string]models.TrendRecord{}
	}
	previous := history[len(history)-1].Tickers
	return diff(previous, current)
}

// diff emits a record for every ticker in current. Tickers present only in
// previous are not emitted; fading signals are intentionally not surfaced.
func diff(previous, current models.Tally) map[string]models.TrendRecord {
	trends := make(map[string]models.TrendRecord, len(current))
	for symbol, count := range current {
		prev := previous[symbol]
		change := count - prev

		var percent float64
		switch {
		case prev > 0:
			percent = float64(change) / float64(prev) * 100
		case count > 0:
			percent = 100
		default:
			percent = 0
		}

		trends[symbol] = models.TrendRecord{
			Ticker:   symbol,
			Change:   change,
			Percent:  percent,
			Previous: prev,
			IsNew:    prev == 0,
		}
	}
	return trends
}

// Movers returns the tickers with the largest positive change, best first,
// capped at limit. Ties are broken by ticker name ascending.
func Movers(trends map[string]models.TrendRecord, limit int) []models.TrendRecord {
	var movers []models.TrendRecord
	for _, rec := range trends {
		if rec.Change > 0 {
			movers = append(movers, rec)
		}
	}
	sort.Slice(movers, func(i, j int) bool {
		if movers[i].Change != movers[j].Change {
			return movers[i].Change > movers[j].Change
		}
		return movers[i].Ticker < movers[j].Ticker
	})
	if limit > 0 && len(movers) > limit {
		movers = movers[:limit]
	}
	return movers
}
