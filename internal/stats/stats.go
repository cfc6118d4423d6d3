// Package stats derives daily totals and the trailing calorie trend from a
// listed set of log entries. It only reads; nothing here mutates the store.
package stats

import (
	"github.com/lionsys/fittrack/internal/store"
)

const trendWindow = 7

type Summary struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
	WaterML  int `json:"water_ml"`
}

type TrendPoint struct {
	Date     string `json:"date"`
	Calories int    `json:"calories"`
}

// DailySummary totals the macros of every entry attributed to target. An
// entry matches on its canonical calendar day, so rows carrying either the
// canonical or a legacy date encoding both count.
func DailySummary(entries []store.LogEntry, target string) Summary {
	var sum Summary
	for _, e := range entries {
		if !sameDay(e.Date, target) {
			continue
		}
		sum.Calories += e.Calories
		sum.Protein += e.Protein
		sum.Carbs += e.Carbs
		sum.Fats += e.Fats
		sum.WaterML += e.WaterML
	}
	return sum
}

// Trend groups calories by raw date key in first-appearance order over the
// most-recent-first entry list, then keeps the last trendWindow groups of
// that iteration order. The window is deliberately not re-sorted
// chronologically; the dashboard has always displayed it this way.
func Trend(entries []store.LogEntry) []TrendPoint {
	totals := make(map[string]int)
	var order []string
	for _, e := range entries {
		if _, seen := totals[e.Date]; !seen {
			order = append(order, e.Date)
		}
		totals[e.Date] += e.Calories
	}
	if len(order) > trendWindow {
		order = order[len(order)-trendWindow:]
	}
	points := make([]TrendPoint, 0, len(order))
	for _, date := range order {
		points = append(points, TrendPoint{Date: date, Calories: totals[date]})
	}
	return points
}

func sameDay(date, target string) bool {
	if date == target {
		return true
	}
	d, okD := store.CanonicalDate(date)
	tg, okT := store.CanonicalDate(target)
	return okD && okT && d == tg
}
