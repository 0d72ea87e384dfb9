package allocation

import (
	"math/rand/v2"
	"time"

	"github.com/kilianp07/granthours/core/logger"
	"github.com/kilianp07/granthours/core/model"
)

// Mode is the allocation path taken for a run.
type Mode string

const (
	// ModeExact packs every day to exactly 8 hours; used when the
	// normalized total is 80 hours.
	ModeExact Mode = "exact"
	// ModeFlexible spreads hours without forcing day totals.
	ModeFlexible Mode = "flexible"
)

// Result is the outcome of one allocation run. It is owned by the caller.
type Result struct {
	Grants   []model.Grant
	Grid     *Grid
	Mode     Mode
	Seed     uint64
	Repair   RepairReport
	Warnings []Warning
}

// GrantIndex returns the column of the named grant, or -1.
func (r *Result) GrantIndex(name string) int {
	for i, g := range r.Grants {
		if g.Name == name {
			return i
		}
	}
	return -1
}

// Hours returns the hours of the named grant on the given week and weekday.
// Unknown grants and non-workdays yield zero.
func (r *Result) Hours(week int, day time.Weekday, name string) float64 {
	i := r.GrantIndex(name)
	if i < 0 {
		return 0
	}
	s, err := model.SlotOf(week, day)
	if err != nil {
		return 0
	}
	return r.Grid.Get(s, i)
}

// Balanced reports whether the run finished without warnings.
func (r *Result) Balanced() bool { return len(r.Warnings) == 0 }

// Engine runs allocations. An Engine owns its random source and must not be
// shared between goroutines.
type Engine struct {
	cfg  Config
	rng  *rand.Rand
	seed uint64
	log  logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource replaces the random source. Result.Seed is zero for such
// engines since the seed is unknown.
func WithSource(src rand.Source) Option {
	return func(e *Engine) {
		e.rng = rand.New(src)
		e.seed = 0
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) { e.log = logger.OrNop(l) }
}

// NewEngine returns an engine for cfg. Missing config values get defaults.
// Without Config.Seed or WithSource the engine seeds itself randomly.
func NewEngine(cfg Config, opts ...Option) *Engine {
	cfg.SetDefaults()
	seed := rand.Uint64()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	e := &Engine{
		cfg:  cfg,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
		log:  logger.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Allocate normalizes the requests and builds a schedule grid. Validation
// failures are returned as *ValidationError before any allocation happens.
// Heuristic shortfalls are reported in Result.Warnings.
func (e *Engine) Allocate(reqs []model.GrantRequest) (*Result, error) {
	grants, err := Normalize(reqs)
	if err != nil {
		return nil, err
	}
	grid := NewGrid(len(grants))
	res := &Result{Grants: grants, Grid: grid, Seed: e.seed}

	total := model.TotalMax(grants)
	if IsExactTotal(total) {
		res.Mode = ModeExact
		packCapacity(e.rng, e.cfg.CapacityChunks, grants, grid)
		res.Repair = repair(grants, grid, e.cfg.MaxRepairRounds)
	} else {
		res.Mode = ModeFlexible
		spreadFlexible(e.rng, e.cfg, grants, grid)
	}

	clampGrants(grants, grid)
	res.Warnings = verify(grants, grid, res.Mode)
	if res.Mode == ModeExact && !res.Repair.Converged {
		res.Warnings = append(res.Warnings, Warning{
			Kind:     WarningRepairBudget,
			Expected: float64(e.cfg.MaxRepairRounds),
			Actual:   float64(res.Repair.Rounds),
		})
	}

	e.log.Debugw("allocation finished", map[string]any{
		"mode":          string(res.Mode),
		"grants":        len(grants),
		"total_max":     total,
		"allocated":     grid.Total(),
		"repair_rounds": res.Repair.Rounds,
		"warnings":      len(res.Warnings),
	})
	for _, w := range res.Warnings {
		e.log.Warnf("allocation: %s", w)
	}
	return res, nil
}
