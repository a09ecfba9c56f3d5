// Package report turns windowed usage aggregates into terminal output.
package report

import (
	"fmt"
	"strings"

	"github.com/openclaw/clawmon/internal/cli"
	"github.com/openclaw/clawmon/internal/model"
)

// NoDataMessage is printed when the window holds no qualifying events.
const NoDataMessage = "No usage data found."

// RenderSummary renders the full cost summary: total, daily average,
// by-model table, by-agent table (only when more than one agent has
// nonzero cost), and the chronological per-day breakdown. Rendering is
// pure; it never mutates the report.
func RenderSummary(r model.Report) string {
	if r.Empty() {
		return "\n  " + NoDataMessage + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cli.RenderTitle(fmt.Sprintf("COST SUMMARY  Last %dd", r.Days)))
	b.WriteString("\n\n")

	first := r.Daily[0].Date.Format("2006-01-02")
	last := r.Daily[len(r.Daily)-1].Date.Format("2006-01-02")
	b.WriteString(fmt.Sprintf("  Total:     %s\n", cli.FormatUSD(r.TotalCost)))
	b.WriteString(fmt.Sprintf("  Daily avg: %s\n", cli.FormatUSD(r.DailyAverage())))
	b.WriteString(fmt.Sprintf("  Period:    %s to %s\n\n", first, last))

	b.WriteString(renderModelTable(r))

	if agentsWithCost(r) > 1 {
		b.WriteString(renderAgentTable(r))
	}

	b.WriteString(renderDailyBreakdown(r))
	return b.String()
}

func renderModelTable(r model.Report) string {
	rows := make([][]string, 0, len(r.ByModel))
	for _, mc := range r.ByModel {
		rows = append(rows, []string{mc.Model, cli.FormatUSD(mc.Cost)})
	}
	return cli.RenderTable(cli.Table{
		Title:   "By Model",
		Headers: []string{"Model", "Cost"},
		Rows:    rows,
	})
}

func renderAgentTable(r model.Report) string {
	rows := make([][]string, 0, len(r.ByAgent))
	for _, ac := range r.ByAgent {
		rows = append(rows, []string{ac.Agent, cli.FormatUSD(ac.Cost)})
	}
	return cli.RenderTable(cli.Table{
		Title:   "By Agent",
		Headers: []string{"Agent", "Cost"},
		Rows:    rows,
	})
}

func renderDailyBreakdown(r model.Report) string {
	rows := make([][]string, 0, len(r.Daily))
	for _, d := range r.Daily {
		rows = append(rows, []string{
			d.Date.Format("2006-01-02"),
			cli.FormatDayOfWeek(d.Date.Weekday()),
			cli.FormatUSD(d.Cost),
			cli.FormatNumber(d.TotalTokens()),
		})
	}
	return cli.RenderTable(cli.Table{
		Title:   "Daily Breakdown",
		Headers: []string{"Date", "Day", "Cost", "Tokens"},
		Rows:    rows,
	})
}

func agentsWithCost(r model.Report) int {
	n := 0
	for _, ac := range r.ByAgent {
		if ac.Cost > 0 {
			n++
		}
	}
	return n
}
