// Package pipeline orchestrates log loading, caching, and usage aggregation.
package pipeline

import (
	"sort"
	"time"

	"github.com/openclaw/clawmon/internal/model"
)

// Aggregate folds events with timestamp >= since into a windowed report.
// The lower bound is inclusive: an event exactly at the cutoff counts.
// The fold is commutative and associative, so event order (and how events
// were partitioned across files and agents) cannot affect the result.
func Aggregate(events []model.UsageEvent, since time.Time, days int) model.Report {
	daily := make(map[string]*model.DailyUsage)
	byModel := make(map[string]float64)
	byAgent := make(map[string]float64)

	var total float64
	for _, ev := range events {
		if ev.Timestamp.Before(since) {
			continue
		}

		day := ev.Timestamp.UTC().Format("2006-01-02")
		du, ok := daily[day]
		if !ok {
			t, _ := time.Parse("2006-01-02", day)
			du = &model.DailyUsage{Date: t}
			daily[day] = du
		}
		du.Cost += ev.Cost
		du.InputTokens += ev.InputTokens
		du.OutputTokens += ev.OutputTokens
		du.CacheReadTokens += ev.CacheReadTokens

		byModel[ev.Model] += ev.Cost
		byAgent[ev.Agent] += ev.Cost
		total += ev.Cost
	}

	report := model.Report{
		Days:       days,
		TotalCost:  total,
		ActiveDays: len(daily),
	}

	report.Daily = make([]model.DailyUsage, 0, len(daily))
	for _, du := range daily {
		report.Daily = append(report.Daily, *du)
	}
	sort.Slice(report.Daily, func(i, j int) bool {
		return report.Daily[i].Date.Before(report.Daily[j].Date)
	})

	report.ByModel = make([]model.ModelCost, 0, len(byModel))
	for m, c := range byModel {
		report.ByModel = append(report.ByModel, model.ModelCost{Model: m, Cost: c})
	}
	sortByCostDesc(report.ByModel, func(mc model.ModelCost) (string, float64) {
		return mc.Model, mc.Cost
	})

	report.ByAgent = make([]model.AgentCost, 0, len(byAgent))
	for a, c := range byAgent {
		report.ByAgent = append(report.ByAgent, model.AgentCost{Agent: a, Cost: c})
	}
	sortByCostDesc(report.ByAgent, func(ac model.AgentCost) (string, float64) {
		return ac.Agent, ac.Cost
	})

	return report
}

// sortByCostDesc orders by descending cost, breaking ties by name so that
// output is deterministic across runs.
func sortByCostDesc[T any](items []T, keyFn func(T) (string, float64)) {
	sort.Slice(items, func(i, j int) bool {
		ni, ci := keyFn(items[i])
		nj, cj := keyFn(items[j])
		if ci != cj {
			return ci > cj
		}
		return ni < nj
	})
}

// Window returns the cutoff instant for a trailing N-day window ending now.
func Window(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}
