package allocation

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/kilianp07/granthours/core/model"
)

// packCapacity fills every workday to DayCapacity when the grants add up to
// the period capacity. Days are visited in random order; for each day the
// chunk palette is tried largest first against a shuffled candidate list
// ordered by remaining hours, and a final pass fills whatever room is left.
// It is a greedy heuristic: repair restores any total it misses.
func packCapacity(rng *rand.Rand, chunks []float64, grants []model.Grant, grid *Grid) {
	remaining := make([]float64, len(grants))
	for i, g := range grants {
		remaining[i] = g.MaxHours
	}

	slots := model.Slots()
	rng.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })

	for _, s := range slots {
		available := model.DayCapacity
		cands := capacityCandidates(rng, remaining)

		for _, chunk := range chunks {
			if available < Quarter || len(cands) == 0 {
				break
			}
			if chunk > available {
				continue
			}
			next := cands[:0]
			for _, i := range cands {
				if remaining[i] >= chunk && available >= chunk {
					grid.Add(s, i, chunk)
					remaining[i] -= chunk
					available -= chunk
				}
				if remaining[i] >= Quarter {
					next = append(next, i)
				}
			}
			cands = next
		}

		for _, i := range cands {
			if available < Quarter {
				break
			}
			amount := floorQuarter(math.Min(remaining[i], available))
			if amount < Quarter {
				continue
			}
			grid.Add(s, i, amount)
			remaining[i] -= amount
			available -= amount
		}
	}
}

// capacityCandidates returns the grants that still have at least a quarter
// hour left, shuffled and then stably ordered by remaining hours so that
// ties are broken randomly.
func capacityCandidates(rng *rand.Rand, remaining []float64) []int {
	var out []int
	for i, r := range remaining {
		if r >= Quarter {
			out = append(out, i)
		}
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	slices.SortStableFunc(out, func(a, b int) int {
		return cmp.Compare(remaining[b], remaining[a])
	})
	return out
}
