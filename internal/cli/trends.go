package cli

import (
	"github.com/spf13/cobra"

	"narrative-tracker/internal/scan"
	"narrative-tracker/internal/trend"
)

func newTrendsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Show mention movement between the two most recent scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			limit, _ := cmd.Flags().GetInt("limit")

			engine, closer, err := scan.Build(app.Config, app.Logger)
			if err != nil {
				return err
			}
			defer closer()

			trends, err := engine.Trends()
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trends)
			}
			if len(trends) == 0 {
				output.Warning("Not enough scan history for trends - run at least two scans")
				return nil
			}

			output.Info("📈 Trends (vs previous scan)")
			for _, tr := range trend.Movers(trends, limit) {
				if tr.IsNew {
					output.Success("  $%-11s %+d mentions  ✨ NEW", tr.Ticker, tr.Change)
					continue
				}
				output.Printf("  $%-11s %+d mentions (%+.1f%%)\n", tr.Ticker, tr.Change, tr.Percent)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "maximum tickers to show")
	return cmd
}
