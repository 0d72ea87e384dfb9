// Package allocation spreads grant hour budgets over a two-week calendar of
// ten 8-hour workdays on a quarter-hour grid.
//
// Key components:
//   - Normalize: snaps requested hours to quarter hours and corrects rounding
//     drift so that a total intended to be 80 hours is exactly 80.
//   - capacity packing: when the normalized total is 80 hours, fills every
//     day to exactly 8 hours with a randomized best-fit-descending packer.
//   - repair: bounded grant-level, day-level and clamp passes that restore
//     exact totals after packing.
//   - flexible spreading: when the total is not 80 hours, spreads each grant
//     over the days with randomized chunk sizes, capped by day capacity.
//   - verification: strips any excess over a grant maximum and reports
//     days or grants that did not reach their targets as warnings.
//
// Allocation flow:
//  1. Normalize requests
//  2. Pack (exact 80) or spread (any other total)
//  3. Repair (exact 80 only)
//  4. Clamp and verify
//
// The Engine owns its random source. Inject a seeded source with WithSource
// or set Config.Seed to get reproducible grids.
//
// Usage example:
//
//	eng := allocation.NewEngine(allocation.Config{}, allocation.WithLogger(log))
//	res, err := eng.Allocate([]model.GrantRequest{{Name: "G1", Hours: 40}, {Name: "G2", Hours: 40}})
//	if err != nil {
//	        return err
//	}
//	h := res.Hours(1, time.Monday, "G1")
package allocation
