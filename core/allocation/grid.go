package allocation

import "github.com/kilianp07/granthours/core/model"

// Grid holds the hours assigned to each grant on each workday. Grant columns
// follow the order of the normalized grants.
type Grid struct {
	hours [model.NumSlots][]float64
}

// NewGrid returns an empty grid for n grants.
func NewGrid(n int) *Grid {
	g := &Grid{}
	for s := range g.hours {
		g.hours[s] = make([]float64, n)
	}
	return g
}

// Grants returns the number of grant columns.
func (g *Grid) Grants() int { return len(g.hours[0]) }

// Get returns the hours of grant i on slot s.
func (g *Grid) Get(s model.Slot, i int) float64 { return g.hours[s][i] }

// Add adds h hours to grant i on slot s. Negative values remove hours; the
// cell never drops below zero.
func (g *Grid) Add(s model.Slot, i int, h float64) {
	v := g.hours[s][i] + h
	if v < 0 {
		v = 0
	}
	g.hours[s][i] = v
}

// Set overwrites the hours of grant i on slot s.
func (g *Grid) Set(s model.Slot, i int, h float64) {
	if h < 0 {
		h = 0
	}
	g.hours[s][i] = h
}

// DayTotal sums the hours of every grant on slot s.
func (g *Grid) DayTotal(s model.Slot) float64 {
	var sum float64
	for _, h := range g.hours[s] {
		sum += h
	}
	return sum
}

// GrantTotal sums the hours of grant i over the whole period.
func (g *Grid) GrantTotal(i int) float64 {
	var sum float64
	for s := range g.hours {
		sum += g.hours[s][i]
	}
	return sum
}

// WeekTotal sums the hours of grant i over the given 1-based week.
func (g *Grid) WeekTotal(i, week int) float64 {
	var sum float64
	for s := range g.hours {
		if model.Slot(s).Week() == week {
			sum += g.hours[s][i]
		}
	}
	return sum
}

// Total sums every cell.
func (g *Grid) Total() float64 {
	var sum float64
	for s := range g.hours {
		for _, h := range g.hours[s] {
			sum += h
		}
	}
	return sum
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{}
	for s := range g.hours {
		c.hours[s] = append([]float64(nil), g.hours[s]...)
	}
	return c
}
