package cli

import (
	"time"

	"github.com/spf13/cobra"

	"narrative-tracker/internal/models"
	"narrative-tracker/internal/scan"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the persisted scan snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			limit, _ := cmd.Flags().GetInt("limit")

			engine, closer, err := scan.Build(app.Config, app.Logger)
			if err != nil {
				return err
			}
			defer closer()

			log, err := engine.History()
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(log)
			}
			if len(log) == 0 {
				output.Warning("No scan history yet - run 'narrative-tracker scan' first")
				return nil
			}

			// Newest first for display.
			if limit > 0 && len(log) > limit {
				log = log[len(log)-limit:]
			}
			output.Info("🗄️ Scan History (%d snapshots)", len(log))
			for i := len(log) - 1; i >= 0; i-- {
				snap := log[i]
				output.Printf("  %s  %4d tickers  top: %s\n",
					snap.Timestamp.Format(time.RFC3339), len(snap.Tickers), topTicker(snap.Tickers))
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "maximum snapshots to show")
	return cmd
}

func topTicker(tally models.Tally) string {
	best, bestCount := "-", 0
	for _, symbol := range models.SortedSymbols(tally) {
		if tally[symbol] > bestCount {
			best, bestCount = "$"+symbol, tally[symbol]
		}
	}
	return best
}
