package allocation

import (
	"math"

	"github.com/kilianp07/granthours/core/model"
)

// RepairReport summarizes the repair of an exact-80 grid.
type RepairReport struct {
	Rounds      int  `json:"rounds"`
	Adjustments int  `json:"adjustments"`
	Converged   bool `json:"converged"`
}

// repair runs rounds of grant-level, day-level and clamp passes until every
// day holds DayCapacity and every grant its maximum, a round makes no change,
// or maxRounds is reached.
func repair(grants []model.Grant, grid *Grid, maxRounds int) RepairReport {
	var rep RepairReport
	if balanced(grants, grid) {
		rep.Converged = true
		return rep
	}
	for rep.Rounds < maxRounds {
		rep.Rounds++
		changed := rebalanceGrants(grants, grid)
		changed += rebalanceDays(grants, grid)
		changed += clampGrants(grants, grid)
		rep.Adjustments += changed
		if balanced(grants, grid) {
			rep.Converged = true
			return rep
		}
		if changed == 0 {
			break
		}
	}
	return rep
}

// rebalanceGrants moves every grant towards its maximum: shortfalls go to
// days with spare room, excess is taken from the grant's non-zero cells.
func rebalanceGrants(grants []model.Grant, grid *Grid) int {
	changes := 0
	for i, g := range grants {
		diff := g.MaxHours - grid.GrantTotal(i)
		switch {
		case diff > Epsilon:
			needed := diff
			for _, s := range model.Slots() {
				if needed < Epsilon {
					break
				}
				room := model.DayCapacity - grid.DayTotal(s)
				if room < Quarter {
					continue
				}
				add := floorQuarter(math.Min(needed, room))
				if add < Quarter {
					continue
				}
				grid.Add(s, i, add)
				needed -= add
				changes++
			}
		case diff < -Epsilon:
			changes += trimGrant(grid, i, -diff)
		}
	}
	return changes
}

// rebalanceDays moves every day towards DayCapacity: a short day takes hours
// from grants with headroom, an overfull day gives hours back.
func rebalanceDays(grants []model.Grant, grid *Grid) int {
	changes := 0
	for _, s := range model.Slots() {
		total := grid.DayTotal(s)
		switch {
		case total < model.DayCapacity-Epsilon:
			short := model.DayCapacity - total
			for i, g := range grants {
				if short < Epsilon {
					break
				}
				headroom := g.MaxHours - grid.GrantTotal(i)
				add := floorQuarter(math.Min(short, headroom))
				if add < Quarter {
					continue
				}
				grid.Add(s, i, add)
				short -= add
				changes++
			}
		case total > model.DayCapacity+Epsilon:
			over := total - model.DayCapacity
			for i := range grants {
				if over < Epsilon {
					break
				}
				cell := grid.Get(s, i)
				if cell <= 0 {
					continue
				}
				cut := math.Min(ceilQuarter(over), cell)
				grid.Add(s, i, -cut)
				over -= cut
				changes++
			}
		}
	}
	return changes
}

// clampGrants strips hours from any grant above its maximum.
func clampGrants(grants []model.Grant, grid *Grid) int {
	changes := 0
	for i, g := range grants {
		if excess := grid.GrantTotal(i) - g.MaxHours; excess > Epsilon {
			changes += trimGrant(grid, i, excess)
		}
	}
	return changes
}

// trimGrant removes excess hours from grant i, visiting its non-zero cells in
// calendar order.
func trimGrant(grid *Grid, i int, excess float64) int {
	changes := 0
	for _, s := range model.Slots() {
		if excess < Epsilon {
			break
		}
		cell := grid.Get(s, i)
		if cell <= 0 {
			continue
		}
		cut := math.Min(ceilQuarter(excess), cell)
		grid.Add(s, i, -cut)
		excess -= cut
		changes++
	}
	return changes
}

func balanced(grants []model.Grant, grid *Grid) bool {
	for _, s := range model.Slots() {
		if math.Abs(grid.DayTotal(s)-model.DayCapacity) > Epsilon {
			return false
		}
	}
	for i, g := range grants {
		if math.Abs(grid.GrantTotal(i)-g.MaxHours) > Epsilon {
			return false
		}
	}
	return true
}
