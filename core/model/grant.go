package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoGrants is returned when an allocation is requested without grants.
	ErrNoGrants = errors.New("no grants to allocate")
	// ErrNegativeHours is returned for a grant with negative hours.
	ErrNegativeHours = errors.New("hours must not be negative")
	// ErrNonNumericHours is returned for hours that are not a finite number.
	ErrNonNumericHours = errors.New("hours must be numeric")
	// ErrEmptyName is returned for a grant without a name.
	ErrEmptyName = errors.New("grant name is required")
)

// GrantRequest is the caller's input for one grant: a name and the maximum
// number of hours that may be charged to it over the two-week period.
type GrantRequest struct {
	Name  string  `json:"name" yaml:"name"`
	Hours float64 `json:"max_hours" yaml:"max_hours"`
}

// Grant is a request after normalization. MaxHours is always a multiple of a
// quarter hour and is fixed for the rest of an allocation run.
type Grant struct {
	Name           string  `json:"name"`
	RequestedHours float64 `json:"requested_hours"`
	MaxHours       float64 `json:"max_hours"`
}

// Validate checks that the request can enter the allocator.
func (r GrantRequest) Validate() error {
	if r.Name == "" {
		return ErrEmptyName
	}
	if math.IsNaN(r.Hours) || math.IsInf(r.Hours, 0) {
		return fmt.Errorf("grant %q: %w", r.Name, ErrNonNumericHours)
	}
	if r.Hours < 0 {
		return fmt.Errorf("grant %q: %w", r.Name, ErrNegativeHours)
	}
	return nil
}

// TotalRequested returns the sum of requested hours.
func TotalRequested(reqs []GrantRequest) float64 {
	var sum float64
	for _, r := range reqs {
		sum += r.Hours
	}
	return sum
}

// TotalMax returns the sum of normalized maximum hours.
func TotalMax(grants []Grant) float64 {
	var sum float64
	for _, g := range grants {
		sum += g.MaxHours
	}
	return sum
}
