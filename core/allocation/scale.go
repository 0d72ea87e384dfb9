package allocation

import (
	"math"

	"github.com/kilianp07/granthours/core/model"
)

// ScaleTo rescales the requests so that their hours add up to target. When
// the current total is zero the target is split evenly. Requests are
// returned as new values; the input is not modified.
func ScaleTo(reqs []model.GrantRequest, target float64) []model.GrantRequest {
	out := make([]model.GrantRequest, len(reqs))
	copy(out, reqs)
	if len(out) == 0 {
		return out
	}
	total := model.TotalRequested(reqs)
	if math.Abs(total) < Epsilon {
		share := target / float64(len(out))
		for i := range out {
			out[i].Hours = share
		}
		return out
	}
	factor := target / total
	for i := range out {
		out[i].Hours *= factor
	}
	return out
}
