package report

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/granthours/core/allocation"
	"github.com/kilianp07/granthours/core/model"
)

// DayRow is one workday of a weekly pivot. Hours follows the grant order of
// the enclosing WeekPivot.
type DayRow struct {
	Day         string    `json:"day"`
	Hours       []float64 `json:"hours"`
	Total       float64   `json:"total"`
	Utilization float64   `json:"utilization"`
}

// WeekPivot lays out one week as days × grants with daily totals.
type WeekPivot struct {
	Week        int      `json:"week"`
	Grants      []string `json:"grants"`
	Days        []DayRow `json:"days"`
	Total       float64  `json:"total"`
	Utilization float64  `json:"utilization"`
}

// Pivot builds one WeekPivot per week. Utilization figures are percentages of
// the 8-hour day and the 40-hour week.
func Pivot(res *allocation.Result) []WeekPivot {
	names := make([]string, len(res.Grants))
	for i, g := range res.Grants {
		names[i] = g.Name
	}
	weeks := make([]WeekPivot, model.Weeks)
	for w := range weeks {
		weeks[w] = WeekPivot{Week: w + 1, Grants: names}
	}
	for _, s := range model.Slots() {
		row := DayRow{Day: s.Day().String(), Hours: make([]float64, len(res.Grants))}
		for i := range res.Grants {
			row.Hours[i] = res.Grid.Get(s, i)
		}
		row.Total = floats.Sum(row.Hours)
		row.Utilization = row.Total / model.DayCapacity * 100
		wp := &weeks[s.Week()-1]
		wp.Days = append(wp.Days, row)
		wp.Total += row.Total
	}
	for w := range weeks {
		weeks[w].Utilization = weeks[w].Total / model.WeekCapacity * 100
	}
	return weeks
}
