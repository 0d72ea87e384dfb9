package allocation

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/granthours/core/model"
)

// ValidationError reports a request that was rejected before allocation.
type ValidationError struct {
	Index int
	Grant string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return e.Err.Error()
	}
	if e.Grant == "" {
		return fmt.Sprintf("grant #%d: %v", e.Index+1, e.Err)
	}
	return fmt.Sprintf("grant #%d (%s): %v", e.Index+1, e.Grant, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Normalize validates the requests and snaps every requested value to the
// nearest quarter hour. When the requested total is within DriftTolerance of
// 80 hours but rounding moved the normalized total away from 80, the largest
// grant absorbs the difference so the total is exactly 80.
// The input slice is never modified.
func Normalize(reqs []model.GrantRequest) ([]model.Grant, error) {
	if len(reqs) == 0 {
		return nil, &ValidationError{Index: -1, Err: model.ErrNoGrants}
	}
	grants := make([]model.Grant, len(reqs))
	var sumOriginal, sumNormalized float64
	for i, r := range reqs {
		if err := r.Validate(); err != nil {
			return nil, &ValidationError{Index: i, Grant: r.Name, Err: rootCause(err)}
		}
		h := RoundQuarter(r.Hours)
		grants[i] = model.Grant{Name: r.Name, RequestedHours: r.Hours, MaxHours: h}
		sumOriginal += r.Hours
		sumNormalized += h
	}

	target := model.PeriodCapacity
	if math.Abs(sumOriginal-target) <= DriftTolerance+1e-9 && math.Abs(sumNormalized-target) > Epsilon {
		largest := 0
		for i := range grants {
			if grants[i].MaxHours > grants[largest].MaxHours {
				largest = i
			}
		}
		adjusted := RoundQuarter(grants[largest].MaxHours + (target - sumNormalized))
		if adjusted < 0 {
			adjusted = 0
		}
		grants[largest].MaxHours = adjusted
	}
	return grants, nil
}

func rootCause(err error) error {
	for _, sentinel := range []error{model.ErrEmptyName, model.ErrNegativeHours, model.ErrNonNumericHours} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}
