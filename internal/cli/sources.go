package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSourcesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Show configured sources and their status",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cfg := app.Config

			type sourceInfo struct {
				Name    string `json:"name"`
				Enabled bool   `json:"enabled"`
				Detail  string `json:"detail"`
			}
			infos := []sourceInfo{
				{"reddit", cfg.SourceEnabled("reddit"),
					formatList(cfg.Sources.Reddit.Subreddits, "subreddit")},
				{"coingecko", cfg.SourceEnabled("coingecko"), "trending + 24h gainers"},
				{"farcaster", cfg.SourceEnabled("farcaster"),
					formatList(cfg.Sources.Farcaster.SearchTerms, "search term")},
				{"nostr", cfg.SourceEnabled("nostr"),
					formatList(cfg.Sources.Nostr.SearchTerms, "search term")},
				{"telegram", cfg.SourceEnabled("telegram"), telegramDetail(cfg.Sources.Telegram.BotToken)},
			}

			if output.IsJSON() {
				return output.JSON(infos)
			}

			output.Info("📡 Sources")
			for _, info := range infos {
				status := "enabled"
				if !info.Enabled {
					status = "disabled"
				}
				output.Printf("  %-11s %-9s %s\n", info.Name, status, info.Detail)
			}
			return nil
		},
	}
}

func formatList(items []string, noun string) string {
	if len(items) == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", len(items), noun)
}

func telegramDetail(token string) string {
	if token == "" {
		return "no bot token configured (dormant)"
	}
	return "bot token configured"
}
