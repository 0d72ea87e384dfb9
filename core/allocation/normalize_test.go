package allocation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/granthours/core/model"
)

func TestNormalizeRoundsToQuarterHours(t *testing.T) {
	reqs := []model.GrantRequest{{Name: "A", Hours: 10.1}, {Name: "B", Hours: 3.9}, {Name: "C", Hours: 0}}
	grants, err := Normalize(reqs)
	require.NoError(t, err)
	assert.Equal(t, 10.0, grants[0].MaxHours)
	assert.Equal(t, 4.0, grants[1].MaxHours)
	assert.Equal(t, 0.0, grants[2].MaxHours)
	assert.Equal(t, 10.1, grants[0].RequestedHours)
}

func TestNormalizeDriftCorrection(t *testing.T) {
	grants, err := Normalize([]model.GrantRequest{{Name: "G1", Hours: 79.9}, {Name: "G2", Hours: 0.2}})
	require.NoError(t, err)
	assert.Equal(t, 79.75, grants[0].MaxHours)
	assert.Equal(t, 0.25, grants[1].MaxHours)
	assert.Equal(t, 80.0, model.TotalMax(grants))
}

func TestNormalizeDriftFromThirds(t *testing.T) {
	third := 80.0 / 3
	grants, err := Normalize([]model.GrantRequest{{Name: "A", Hours: third}, {Name: "B", Hours: third}, {Name: "C", Hours: third}})
	require.NoError(t, err)
	assert.Equal(t, 80.0, model.TotalMax(grants))
	for _, g := range grants {
		assert.True(t, IsQuarter(g.MaxHours), "%s not on quarter grid: %v", g.Name, g.MaxHours)
	}
}

func TestNormalizeNoDriftOutsideTolerance(t *testing.T) {
	grants, err := Normalize([]model.GrantRequest{{Name: "A", Hours: 79.6}})
	require.NoError(t, err)
	assert.Equal(t, 79.5, grants[0].MaxHours)
}

func TestNormalizeIdempotent(t *testing.T) {
	reqs := []model.GrantRequest{{Name: "A", Hours: 12.37}, {Name: "B", Hours: 41.1}, {Name: "C", Hours: 26.6}}
	first, err := Normalize(reqs)
	require.NoError(t, err)
	again := make([]model.GrantRequest, len(first))
	for i, g := range first {
		again[i] = model.GrantRequest{Name: g.Name, Hours: g.MaxHours}
	}
	second, err := Normalize(again)
	require.NoError(t, err)
	for i := range first {
		assert.Equal(t, first[i].MaxHours, second[i].MaxHours)
	}
}

func TestNormalizeDoesNotModifyInput(t *testing.T) {
	reqs := []model.GrantRequest{{Name: "G1", Hours: 79.9}, {Name: "G2", Hours: 0.2}}
	_, err := Normalize(reqs)
	require.NoError(t, err)
	assert.Equal(t, 79.9, reqs[0].Hours)
	assert.Equal(t, 0.2, reqs[1].Hours)
}

func TestNormalizeValidation(t *testing.T) {
	cases := []struct {
		name string
		reqs []model.GrantRequest
		want error
	}{
		{"empty", nil, model.ErrNoGrants},
		{"negative", []model.GrantRequest{{Name: "A", Hours: 5}, {Name: "B", Hours: -1}}, model.ErrNegativeHours},
		{"nan", []model.GrantRequest{{Name: "A", Hours: math.NaN()}}, model.ErrNonNumericHours},
		{"inf", []model.GrantRequest{{Name: "A", Hours: math.Inf(-1)}}, model.ErrNonNumericHours},
		{"no name", []model.GrantRequest{{Hours: 3}}, model.ErrEmptyName},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Normalize(c.reqs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, c.want), "got %v", err)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestRoundQuarter(t *testing.T) {
	assert.Equal(t, 0.25, RoundQuarter(0.2))
	assert.Equal(t, 1.0, RoundQuarter(1.1))
	assert.Equal(t, 1.5, RoundQuarter(1.4))
	assert.True(t, IsQuarter(2.75))
	assert.False(t, IsQuarter(2.7))
	assert.Equal(t, 0.5, floorQuarter(0.7))
	assert.Equal(t, 0.75, ceilQuarter(0.7))
	assert.Equal(t, 0.75, ceilQuarter(0.75))
}
