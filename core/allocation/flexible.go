package allocation

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/granthours/core/model"
)

// spreadFlexible distributes each grant over the period without forcing
// exact day totals. Grants are handled largest first. Each grant visits the
// days in its own random order and places either a chunk from a random
// palette subset or a uniformly drawn quarter-hour amount. Hours left once
// every day has been visited are topped up in calendar order until the grant
// is exhausted or no day has room.
func spreadFlexible(rng *rand.Rand, cfg Config, grants []model.Grant, grid *Grid) {
	coin := distuv.Bernoulli{P: cfg.ChunkProbability, Src: rng}

	for _, i := range largestFirst(grants) {
		if grants[i].MaxHours <= 0 {
			continue
		}
		remaining := grants[i].MaxHours
		palette := palettePick(rng, cfg)

		queue := model.Slots()
		rng.Shuffle(len(queue), func(a, b int) { queue[a], queue[b] = queue[b], queue[a] })

		for remaining > Epsilon && len(queue) > 0 {
			s := queue[0]
			queue = queue[1:]

			limit := floorQuarter(math.Min(model.DayCapacity-grid.DayTotal(s), remaining))
			if limit < Quarter {
				continue
			}
			var amount float64
			if coin.Rand() == 1 {
				amount = largestChunk(palette, limit)
			}
			if amount == 0 {
				amount = uniformAmount(rng, limit)
			}
			grid.Add(s, i, amount)
			remaining -= amount
		}

		for _, s := range model.Slots() {
			if remaining <= Epsilon {
				break
			}
			amount := floorQuarter(math.Min(model.DayCapacity-grid.DayTotal(s), remaining))
			if amount < Quarter {
				continue
			}
			grid.Add(s, i, amount)
			remaining -= amount
		}
	}
}

func largestFirst(grants []model.Grant) []int {
	order := make([]int, len(grants))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(grants[b].MaxHours, grants[a].MaxHours)
	})
	return order
}

// palettePick draws a random subset of the flexible palette, sorted largest
// first.
func palettePick(rng *rand.Rand, cfg Config) []float64 {
	n := len(cfg.FlexibleChunks)
	k := cfg.MinSubset
	if cfg.MaxSubset > cfg.MinSubset {
		k += rng.IntN(cfg.MaxSubset - cfg.MinSubset + 1)
	}
	if k > n {
		k = n
	}
	out := make([]float64, 0, k)
	for _, idx := range rng.Perm(n)[:k] {
		out = append(out, cfg.FlexibleChunks[idx])
	}
	slices.SortFunc(out, func(a, b float64) int { return cmp.Compare(b, a) })
	return out
}

func largestChunk(palette []float64, limit float64) float64 {
	for _, ch := range palette {
		if ch <= limit {
			return ch
		}
	}
	return 0
}

// uniformAmount draws an amount in [Quarter, limit] and snaps it to the grid.
func uniformAmount(rng *rand.Rand, limit float64) float64 {
	if limit <= Quarter {
		return Quarter
	}
	u := distuv.Uniform{Min: Quarter, Max: limit, Src: rng}
	amount := RoundQuarter(u.Rand())
	return math.Max(Quarter, math.Min(amount, limit))
}
