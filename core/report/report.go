// Package report folds an allocation grid into the tables shown to users:
// a detail list of non-zero cells, a per-grant summary, a weekly pivot and
// overall utilization figures. It never changes the grid.
package report

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/granthours/core/allocation"
	"github.com/kilianp07/granthours/core/model"
)

// DetailRow is one non-zero allocation.
type DetailRow struct {
	Week  int     `json:"week"`
	Day   string  `json:"day"`
	Grant string  `json:"grant"`
	Hours float64 `json:"hours"`
}

// SummaryRow aggregates a grant over the period.
type SummaryRow struct {
	Grant          string  `json:"grant"`
	Week1Hours     float64 `json:"week1_hours"`
	Week2Hours     float64 `json:"week2_hours"`
	TotalHours     float64 `json:"total_hours"`
	MaximumHours   float64 `json:"maximum_hours"`
	RemainingHours float64 `json:"remaining_hours"`
}

// Totals are the headline figures of a run.
type Totals struct {
	Allocated    float64 `json:"allocated"`
	Maximum      float64 `json:"maximum"`
	WorkdayHours float64 `json:"workday_hours"`
	// GrantUtilization is Allocated as a percentage of Maximum.
	GrantUtilization float64 `json:"grant_utilization"`
	// WorkdayFill is Allocated as a percentage of WorkdayHours.
	WorkdayFill float64 `json:"workday_fill"`
}

// Report is the read-only view of an allocation result.
type Report struct {
	Mode     allocation.Mode      `json:"mode"`
	Details  []DetailRow          `json:"details"`
	Summary  []SummaryRow         `json:"summary"`
	Weeks    []WeekPivot          `json:"weeks"`
	Totals   Totals               `json:"totals"`
	Warnings []allocation.Warning `json:"warnings,omitempty"`
}

// Build aggregates res.
func Build(res *allocation.Result) Report {
	return Report{
		Mode:     res.Mode,
		Details:  Details(res),
		Summary:  Summary(res),
		Weeks:    Pivot(res),
		Totals:   Summarize(res),
		Warnings: res.Warnings,
	}
}

// Details lists every non-zero cell ordered by week, day and grant input
// order.
func Details(res *allocation.Result) []DetailRow {
	var out []DetailRow
	for _, s := range model.Slots() {
		for i, g := range res.Grants {
			h := res.Grid.Get(s, i)
			if h <= 0 {
				continue
			}
			out = append(out, DetailRow{Week: s.Week(), Day: s.Day().String(), Grant: g.Name, Hours: h})
		}
	}
	return out
}

// Summary returns one row per grant in input order.
func Summary(res *allocation.Result) []SummaryRow {
	out := make([]SummaryRow, len(res.Grants))
	for i, g := range res.Grants {
		w1 := res.Grid.WeekTotal(i, 1)
		w2 := res.Grid.WeekTotal(i, 2)
		total := w1 + w2
		out[i] = SummaryRow{
			Grant:          g.Name,
			Week1Hours:     w1,
			Week2Hours:     w2,
			TotalHours:     total,
			MaximumHours:   g.MaxHours,
			RemainingHours: g.MaxHours - total,
		}
	}
	return out
}

// Summarize computes the headline totals.
func Summarize(res *allocation.Result) Totals {
	allocated := make([]float64, len(res.Grants))
	maxima := make([]float64, len(res.Grants))
	for i, g := range res.Grants {
		allocated[i] = res.Grid.GrantTotal(i)
		maxima[i] = g.MaxHours
	}
	t := Totals{
		Allocated:    floats.Sum(allocated),
		Maximum:      floats.Sum(maxima),
		WorkdayHours: model.PeriodCapacity,
	}
	if t.Maximum > 0 {
		t.GrantUtilization = t.Allocated / t.Maximum * 100
	}
	t.WorkdayFill = t.Allocated / t.WorkdayHours * 100
	return t
}
