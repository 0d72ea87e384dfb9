package allocation

import (
	"math"

	"github.com/kilianp07/granthours/core/model"
)

const (
	// Quarter is the allocation granularity in hours.
	Quarter = 0.25
	// Epsilon is the tolerance used when comparing hour totals.
	Epsilon = 0.01
	// DriftTolerance is how far the requested total may sit from 80 hours
	// and still be treated as an intended 80.
	DriftTolerance = 0.1
)

// RoundQuarter snaps h to the nearest quarter hour. Ties go to the even
// quarter.
func RoundQuarter(h float64) float64 {
	return math.RoundToEven(h*4) / 4
}

// IsQuarter reports whether h lies on the quarter-hour grid.
func IsQuarter(h float64) bool {
	return math.Abs(h*4-math.Round(h*4)) < 1e-9
}

// IsExactTotal reports whether total selects exact-80 mode.
func IsExactTotal(total float64) bool {
	return math.Abs(total-model.PeriodCapacity) < Epsilon
}

func floorQuarter(h float64) float64 {
	return math.Floor(h*4+1e-9) / 4
}

func ceilQuarter(h float64) float64 {
	return math.Ceil(h*4-1e-9) / 4
}
