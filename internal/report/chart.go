package report

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/openclaw/clawmon/internal/cli"
	"github.com/openclaw/clawmon/internal/model"
)

const (
	chartHeight    = 10
	chartBarWidth  = 3
	shareBarWidth  = 24
	maxShareModels = 6
)

var (
	chartTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(cli.ColorAccent)
	chartBarStyle   = lipgloss.NewStyle().Foreground(cli.ColorBlue)
	chartDimStyle   = lipgloss.NewStyle().Foreground(cli.ColorTextMuted)
)

// RenderChart renders the two-panel usage visualization: a bar chart of
// daily cost next to the per-model cost share. It reuses the summary
// aggregates and adds no accounting of its own.
func RenderChart(r model.Report) string {
	if r.Empty() {
		return "\n  " + NoDataMessage + "\n"
	}

	daily := renderDailyBars(r)
	share := renderModelShare(r)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cli.RenderTitle(fmt.Sprintf("COSTS  Last %dd  Total %s", r.Days, cli.FormatUSD(r.TotalCost))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, daily, "    ", share))
	b.WriteString("\n")
	return b.String()
}

func renderDailyBars(r model.Report) string {
	data := lo.Map(r.Daily, func(d model.DailyUsage, _ int) barchart.BarData {
		return barchart.BarData{
			Label: d.Date.Format("01-02"),
			Values: []barchart.BarValue{
				{Name: "cost", Value: d.Cost, Style: chartBarStyle},
			},
		}
	})

	bc := barchart.New(len(data)*(chartBarWidth+1)+2, chartHeight)
	bc.PushAll(data)
	bc.Draw()

	return lipgloss.JoinVertical(lipgloss.Left,
		chartTitleStyle.Render("  Daily cost (USD)"),
		bc.View(),
	)
}

func renderModelShare(r model.Report) string {
	models := r.ByModel
	if len(models) > maxShareModels {
		rest := lo.SumBy(models[maxShareModels:], func(mc model.ModelCost) float64 {
			return mc.Cost
		})
		models = append(models[:maxShareModels:maxShareModels],
			model.ModelCost{Model: "other", Cost: rest})
	}

	maxCost := models[0].Cost
	lines := []string{chartTitleStyle.Render("  By model"), ""}
	for _, mc := range models {
		pct := 0.0
		if r.TotalCost > 0 {
			pct = mc.Cost / r.TotalCost * 100
		}
		lines = append(lines, fmt.Sprintf("  %-28s %s %s",
			shortModel(mc.Model),
			cli.RenderHorizontalBar(mc.Cost, maxCost, shareBarWidth),
			chartDimStyle.Render(fmt.Sprintf("%s (%.0f%%)", cli.FormatUSD(mc.Cost), pct)),
		))
	}

	return strings.Join(lines, "\n")
}

// shortModel trims the vendor prefix for chart labels.
// "claude-opus-4-20250929" -> "opus-4-20250929"
func shortModel(name string) string {
	return strings.TrimPrefix(name, "claude-")
}
