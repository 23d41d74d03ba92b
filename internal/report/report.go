// Package report renders scan results for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"narrative-tracker/internal/models"
	"narrative-tracker/internal/scan"
	"narrative-tracker/internal/trend"
	"narrative-tracker/pkg/utils"
)

// Options controls rendering limits and color.
type Options struct {
	ColorEnabled bool
	TopRanked    int
	TopSignals   int
	TopMovers    int
}

// DefaultOptions returns the default rendering limits.
func DefaultOptions() Options {
	return Options{ColorEnabled: true, TopRanked: 20, TopSignals: 10, TopMovers: 5}
}

// Renderer writes scan reports to a terminal.
type Renderer struct {
	out  io.Writer
	opts Options
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, opts Options) *Renderer {
	if opts.TopRanked <= 0 {
		opts.TopRanked = 20
	}
	if opts.TopSignals <= 0 {
		opts.TopSignals = 10
	}
	if opts.TopMovers <= 0 {
		opts.TopMovers = 5
	}
	color.NoColor = !opts.ColorEnabled
	return &Renderer{out: out, opts: opts}
}

// Render writes the full scan report: ranked board, alerts, keyword
// clusters, biggest movers, and the per-source summary.
func (r *Renderer) Render(rep *scan.Report) {
	heading := color.New(color.FgCyan, color.Bold)
	heading.Fprintf(r.out, "🔥 Narrative Board - %s\n", rep.When.Format(time.RFC1123))
	fmt.Fprintln(r.out)

	r.renderRanked(rep)
	r.renderInsights(rep)
	r.renderSignals(rep)
	r.renderMovers(rep)
	r.renderSummary(rep)
}

func (r *Renderer) renderRanked(rep *scan.Report) {
	if len(rep.Ranked) == 0 {
		color.New(color.FgYellow).Fprintln(r.out, "No emerging tickers found this scan")
		fmt.Fprintln(r.out)
		return
	}

	// Keyword hits per ticker, for the signals column.
	signalsFor := make(map[string][]string)
	for _, sig := range rep.Signals {
		for _, t := range sig.Tickers {
			signalsFor[t] = append(signalsFor[t], sig.Keyword)
		}
	}

	fmt.Fprintf(r.out, "%-5s %-12s %9s %8s %8s  %s\n", "RANK", "TICKER", "SCORE", "MENTIONS", "TREND", "SIGNALS")
	green := color.New(color.FgGreen)
	for i, st := range rep.Ranked {
		if i >= r.opts.TopRanked {
			break
		}
		line := fmt.Sprintf("%-5d $%-11s %9s %8d %8s  %s",
			i+1, st.Ticker, utils.FormatScore(st.NarrativeScore), st.TotalMentions,
			trendCell(rep.Trends, st.Ticker), strings.Join(signalsFor[st.Ticker], ","))
		if tr, ok := rep.Trends[st.Ticker]; ok && tr.IsNew {
			green.Fprintln(r.out, line+"  ✨ NEW")
			continue
		}
		fmt.Fprintln(r.out, line)
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) renderInsights(rep *scan.Report) {
	if len(rep.Insights) == 0 {
		return
	}
	color.New(color.FgMagenta, color.Bold).Fprintln(r.out, "💡 Key Insights")
	for _, ins := range rep.Insights {
		fmt.Fprintf(r.out, "  • %s\n", ins.Message)
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) renderSignals(rep *scan.Report) {
	if len(rep.Signals) == 0 {
		return
	}
	color.New(color.FgCyan, color.Bold).Fprintln(r.out, "📢 Narrative Alerts")
	for i, sig := range rep.Signals {
		if i >= r.opts.TopSignals {
			break
		}
		fmt.Fprintf(r.out, "  %-16s %-20s %3d docs  [%s]\n",
			sig.Keyword, utils.Bar(sig.DocumentCount, 20), sig.DocumentCount, strings.Join(sig.Tickers, " "))
		for _, excerpt := range sig.SampleExcerpts {
			fmt.Fprintf(r.out, "      \"%s\"\n", excerpt)
		}
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) renderMovers(rep *scan.Report) {
	movers := trend.Movers(rep.Trends, r.opts.TopMovers)
	if len(movers) == 0 {
		return
	}
	color.New(color.FgCyan, color.Bold).Fprintln(r.out, "📈 Biggest Movers")
	for _, m := range movers {
		fmt.Fprintf(r.out, "  $%-11s %+d mentions (%s)\n", m.Ticker, m.Change, percentCell(m))
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) renderSummary(rep *scan.Report) {
	var failed []string
	for name := range rep.SourceErrors {
		failed = append(failed, name)
	}
	sort.Strings(failed)

	fmt.Fprintf(r.out, "Scanned %d sources, %d tickers ranked, %d narrative signals\n",
		len(rep.Results), len(rep.Ranked), len(rep.Signals))
	if len(failed) > 0 {
		color.New(color.FgYellow).Fprintf(r.out, "⚠️ Sources unavailable: %s\n", strings.Join(failed, ", "))
	}
}

func trendCell(trends map[string]models.TrendRecord, ticker string) string {
	tr, ok := trends[ticker]
	if !ok {
		return "-"
	}
	switch {
	case tr.IsNew:
		return "NEW"
	case tr.Change > 0:
		return fmt.Sprintf("+%d", tr.Change)
	case tr.Change < 0:
		return fmt.Sprintf("%d", tr.Change)
	default:
		return "="
	}
}

func percentCell(tr models.TrendRecord) string {
	if tr.IsNew {
		return "new"
	}
	return fmt.Sprintf("%+.1f%%", tr.Percent)
}

// RenderJSON writes the report as indented JSON for machine consumption.
func RenderJSON(out io.Writer, rep *scan.Report) error {
	type sourceStatus struct {
		Source  string `json:"source"`
		Tickers int    `json:"tickers"`
		Docs    int    `json:"documents"`
		Error   string `json:"error,omitempty"`
	}
	payload := struct {
		When     time.Time                     `json:"when"`
		Ranked   []models.ScoredTicker         `json:"ranked"`
		Trends   map[string]models.TrendRecord `json:"trends"`
		Signals  []models.KeywordSignal        `json:"signals"`
		Insights []models.Insight              `json:"insights"`
		Sources  []sourceStatus                `json:"sources"`
	}{
		When:     rep.When,
		Ranked:   rep.Ranked,
		Trends:   rep.Trends,
		Signals:  rep.Signals,
		Insights: rep.Insights,
	}
	for _, res := range rep.Results {
		status := sourceStatus{Source: res.Source, Tickers: len(res.Tally), Docs: len(res.Docs)}
		if res.Err != nil {
			status.Error = res.Err.Error()
		}
		payload.Sources = append(payload.Sources, status)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
