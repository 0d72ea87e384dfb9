package allocation

import (
	"fmt"
	"math"

	"github.com/kilianp07/granthours/core/model"
)

// WarningKind classifies a non-fatal allocation warning.
type WarningKind string

const (
	// WarningDayTotal flags a day that missed its 8-hour target in exact-80
	// mode or exceeded it in any mode.
	WarningDayTotal WarningKind = "day_total"
	// WarningGrantTotal flags a grant whose total differs from its maximum in
	// exact-80 mode.
	WarningGrantTotal WarningKind = "grant_total"
	// WarningRepairBudget flags a repair that stopped before converging.
	WarningRepairBudget WarningKind = "repair_budget"
)

// Warning reports an invariant the heuristic could not restore. The grid is
// still returned; callers decide what to do with it.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	Week     int         `json:"week,omitempty"`
	Day      string      `json:"day,omitempty"`
	Grant    string      `json:"grant,omitempty"`
	Expected float64     `json:"expected"`
	Actual   float64     `json:"actual"`
}

func (w Warning) String() string {
	switch w.Kind {
	case WarningDayTotal:
		return fmt.Sprintf("%s of week %d has %.2f hours, expected %.2f", w.Day, w.Week, w.Actual, w.Expected)
	case WarningGrantTotal:
		return fmt.Sprintf("grant %s has %.2f hours allocated, expected %.2f", w.Grant, w.Actual, w.Expected)
	case WarningRepairBudget:
		return fmt.Sprintf("repair stopped after %.0f of %.0f rounds without converging", w.Actual, w.Expected)
	default:
		return string(w.Kind)
	}
}

// verify lists the days and grants that violate the targets of the given
// mode.
func verify(grants []model.Grant, grid *Grid, mode Mode) []Warning {
	var out []Warning
	for _, s := range model.Slots() {
		total := grid.DayTotal(s)
		off := total > model.DayCapacity+Epsilon
		if mode == ModeExact {
			off = math.Abs(total-model.DayCapacity) > Epsilon
		}
		if off {
			out = append(out, Warning{
				Kind:     WarningDayTotal,
				Week:     s.Week(),
				Day:      s.Day().String(),
				Expected: model.DayCapacity,
				Actual:   total,
			})
		}
	}
	if mode != ModeExact {
		return out
	}
	for i, g := range grants {
		total := grid.GrantTotal(i)
		if math.Abs(total-g.MaxHours) > Epsilon {
			out = append(out, Warning{
				Kind:     WarningGrantTotal,
				Grant:    g.Name,
				Expected: g.MaxHours,
				Actual:   total,
			})
		}
	}
	return out
}
