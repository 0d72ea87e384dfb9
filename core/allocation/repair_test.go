package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/granthours/core/model"
)

func fillDays(grid *Grid, i int, h float64) {
	for _, s := range model.Slots() {
		grid.Set(s, i, h)
	}
}

func TestRepairBalancedGridIsUntouched(t *testing.T) {
	grants := []model.Grant{{Name: "A", MaxHours: 40}, {Name: "B", MaxHours: 40}}
	grid := NewGrid(2)
	fillDays(grid, 0, 4)
	fillDays(grid, 1, 4)
	before := grid.Clone()
	rep := repair(grants, grid, 20)
	assert.True(t, rep.Converged)
	assert.Zero(t, rep.Rounds)
	assert.Equal(t, before, grid)
}

func TestRepairUnderAllocatedGrant(t *testing.T) {
	grants := []model.Grant{{Name: "A", MaxHours: 40}, {Name: "B", MaxHours: 40}}
	grid := NewGrid(2)
	fillDays(grid, 0, 4)
	fillDays(grid, 1, 4)
	grid.Set(3, 1, 1.5)
	grid.Set(8, 1, 3)
	rep := repair(grants, grid, 20)
	assert.True(t, rep.Converged)
	assert.Equal(t, 1, rep.Rounds)
	assert.True(t, balanced(grants, grid))
}

func TestRepairOverAllocatedGrant(t *testing.T) {
	grants := []model.Grant{{Name: "A", MaxHours: 40}, {Name: "B", MaxHours: 40}}
	grid := NewGrid(2)
	fillDays(grid, 0, 4)
	fillDays(grid, 1, 4)
	grid.Set(0, 0, 6)
	grid.Set(1, 1, 1)
	rep := repair(grants, grid, 20)
	assert.True(t, rep.Converged, "report %+v", rep)
	assert.InDelta(t, 40, grid.GrantTotal(0), Epsilon)
	assert.InDelta(t, 40, grid.GrantTotal(1), Epsilon)
	for _, s := range model.Slots() {
		assert.InDelta(t, 8, grid.DayTotal(s), Epsilon)
	}
}

func TestRepairSwapsBetweenGrants(t *testing.T) {
	// Every day is full but A holds an hour that belongs to B.
	grants := []model.Grant{{Name: "A", MaxHours: 40}, {Name: "B", MaxHours: 40}}
	grid := NewGrid(2)
	fillDays(grid, 0, 4)
	fillDays(grid, 1, 4)
	grid.Set(5, 0, 5)
	grid.Set(5, 1, 3)
	rep := repair(grants, grid, 20)
	assert.True(t, rep.Converged)
	assert.True(t, balanced(grants, grid))
}

func TestRepairStopsWhenStalled(t *testing.T) {
	// Maxima off the quarter grid cannot be met in quarter steps.
	grants := []model.Grant{{Name: "A", MaxHours: 79.9}, {Name: "B", MaxHours: 0.1}}
	grid := NewGrid(2)
	rep := repair(grants, grid, 20)
	assert.False(t, rep.Converged)
	assert.Equal(t, 2, rep.Rounds)
	for _, s := range model.Slots() {
		assert.LessOrEqual(t, grid.DayTotal(s), model.DayCapacity+Epsilon)
	}
	assert.LessOrEqual(t, grid.GrantTotal(0), 79.9+Epsilon)
}

func TestRepairHonoursRoundBudget(t *testing.T) {
	grants := []model.Grant{{Name: "A", MaxHours: 79.9}, {Name: "B", MaxHours: 0.1}}
	grid := NewGrid(2)
	rep := repair(grants, grid, 1)
	assert.False(t, rep.Converged)
	assert.Equal(t, 1, rep.Rounds)
}

func TestClampGrantsRemovesExcess(t *testing.T) {
	grants := []model.Grant{{Name: "A", MaxHours: 10}}
	grid := NewGrid(1)
	fillDays(grid, 0, 2)
	changes := clampGrants(grants, grid)
	assert.Equal(t, 5, changes)
	assert.Equal(t, 10.0, grid.GrantTotal(0))
	assert.Equal(t, 0.0, grid.Get(0, 0))
	assert.Equal(t, 2.0, grid.Get(9, 0))
	assert.Zero(t, clampGrants(grants, grid))
}

func TestVerifyWarnings(t *testing.T) {
	grants := []model.Grant{{Name: "A", MaxHours: 80}}
	grid := NewGrid(1)
	fillDays(grid, 0, 8)
	grid.Set(2, 0, 7)
	ws := verify(grants, grid, ModeExact)
	if assert.Len(t, ws, 2) {
		assert.Equal(t, WarningDayTotal, ws[0].Kind)
		assert.Equal(t, 1, ws[0].Week)
		assert.Equal(t, "Wednesday", ws[0].Day)
		assert.Equal(t, WarningGrantTotal, ws[1].Kind)
		assert.Equal(t, "A", ws[1].Grant)
		assert.Contains(t, ws[1].String(), "79.00")
	}
	assert.Empty(t, verify(grants, grid, ModeFlexible))

	grid.Set(4, 0, 9)
	ws = verify(grants, grid, ModeFlexible)
	if assert.Len(t, ws, 1) {
		assert.Equal(t, "Friday", ws[0].Day)
	}
}
