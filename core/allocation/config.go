package allocation

import (
	"fmt"

	"github.com/kilianp07/granthours/core/model"
)

// Config defines allocation tuning. Chunk palettes and the chunk probability
// shape the variety of the generated grids; they do not affect the
// invariants checked by verification.
type Config struct {
	// MaxRepairRounds bounds the number of repair rounds in exact-80 mode.
	MaxRepairRounds int `json:"max_repair_rounds"`
	// CapacityChunks are the chunk sizes tried, largest first, when packing
	// days to exactly 8 hours.
	CapacityChunks []float64 `json:"capacity_chunks"`
	// FlexibleChunks is the palette a random subset is drawn from for each
	// grant in flexible mode.
	FlexibleChunks []float64 `json:"flexible_chunks"`
	// MinSubset and MaxSubset bound the size of that subset.
	MinSubset int `json:"min_subset"`
	MaxSubset int `json:"max_subset"`
	// ChunkProbability is the chance of placing a palette chunk instead of a
	// uniformly drawn amount. Zero selects the default of 0.7.
	ChunkProbability float64 `json:"chunk_probability"`
	// Seed makes runs reproducible when set.
	Seed *uint64 `json:"seed"`
}

// DefaultCapacityChunks is the palette used to pack exact 8-hour days.
var DefaultCapacityChunks = []float64{8, 4, 2, 1.5, 1, 0.75, 0.5, 0.25}

// DefaultFlexibleChunks holds every quarter hour from 4 down to 0.25.
var DefaultFlexibleChunks = []float64{
	4, 3.75, 3.5, 3.25, 3, 2.75, 2.5, 2.25,
	2, 1.75, 1.5, 1.25, 1, 0.75, 0.5, 0.25,
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MaxRepairRounds <= 0 {
		c.MaxRepairRounds = 2 * model.NumSlots
	}
	if len(c.CapacityChunks) == 0 {
		c.CapacityChunks = append([]float64(nil), DefaultCapacityChunks...)
	}
	if len(c.FlexibleChunks) == 0 {
		c.FlexibleChunks = append([]float64(nil), DefaultFlexibleChunks...)
	}
	if c.MinSubset <= 0 {
		c.MinSubset = 4
	}
	if c.MaxSubset <= 0 {
		c.MaxSubset = 10
	}
	if c.ChunkProbability == 0 {
		c.ChunkProbability = 0.7
	}
}

// Validate checks that the palettes sit on the quarter-hour grid and the
// probabilities and bounds are usable.
func (c Config) Validate() error {
	if c.MaxRepairRounds <= 0 {
		return fmt.Errorf("max_repair_rounds must be positive")
	}
	if err := validateChunks("capacity_chunks", c.CapacityChunks); err != nil {
		return err
	}
	if err := validateChunks("flexible_chunks", c.FlexibleChunks); err != nil {
		return err
	}
	if c.MinSubset <= 0 || c.MaxSubset < c.MinSubset {
		return fmt.Errorf("invalid subset bounds %d..%d", c.MinSubset, c.MaxSubset)
	}
	if c.ChunkProbability < 0 || c.ChunkProbability > 1 {
		return fmt.Errorf("chunk_probability must be within [0,1], got %v", c.ChunkProbability)
	}
	return nil
}

func validateChunks(name string, chunks []float64) error {
	if len(chunks) == 0 {
		return fmt.Errorf("%s must not be empty", name)
	}
	for _, ch := range chunks {
		if ch < Quarter || ch > model.DayCapacity || !IsQuarter(ch) {
			return fmt.Errorf("%s: %v is not a quarter hour between 0.25 and 8", name, ch)
		}
	}
	return nil
}
