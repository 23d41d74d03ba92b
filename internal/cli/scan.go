package cli

import (
	"github.com/spf13/cobra"

	"narrative-tracker/internal/report"
	"narrative-tracker/internal/scan"
)

func newScanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run a full scan across all enabled sources",
		Long: `Collects ticker mentions from every enabled source, ranks them by
narrative score, diffs against the previous scan, and appends a new
snapshot to history.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			engine, closer, err := scan.Build(app.Config, app.Logger)
			if err != nil {
				return err
			}
			defer closer()

			rep, err := engine.Run(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return report.RenderJSON(cmd.OutOrStdout(), rep)
			}
			renderer := report.NewRenderer(cmd.OutOrStdout(), report.Options{
				ColorEnabled: app.Config.UI.ColorEnabled,
				TopRanked:    app.Config.UI.TopRanked,
				TopSignals:   app.Config.UI.TopSignals,
				TopMovers:    app.Config.UI.TopMovers,
			})
			renderer.Render(rep)
			return nil
		},
	}
}
