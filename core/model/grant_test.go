package model

import (
	"errors"
	"math"
	"testing"
)

func TestGrantRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  GrantRequest
		ok   bool
	}{
		{"valid", GrantRequest{Name: "G1", Hours: 10}, true},
		{"zero", GrantRequest{Name: "G1"}, true},
		{"negative", GrantRequest{Name: "G1", Hours: -1}, false},
		{"nan", GrantRequest{Name: "G1", Hours: math.NaN()}, false},
		{"inf", GrantRequest{Name: "G1", Hours: math.Inf(1)}, false},
		{"no name", GrantRequest{Hours: 1}, false},
	}
	for _, c := range cases {
		err := c.req.Validate()
		if (err == nil) != c.ok {
			t.Fatalf("%s: unexpected result %v", c.name, err)
		}
	}
}

func TestGrantRequestValidateSentinels(t *testing.T) {
	err := GrantRequest{Name: "G1", Hours: -2}.Validate()
	if !errors.Is(err, ErrNegativeHours) {
		t.Fatalf("expected ErrNegativeHours got %v", err)
	}
	err = GrantRequest{Name: "G1", Hours: math.NaN()}.Validate()
	if !errors.Is(err, ErrNonNumericHours) {
		t.Fatalf("expected ErrNonNumericHours got %v", err)
	}
	if !errors.Is(GrantRequest{}.Validate(), ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName")
	}
}

func TestAvailableCatalog(t *testing.T) {
	out := Available([]string{"A", "B", "C"}, []GrantRequest{{Name: "B"}})
	if len(out) != 2 || out[0] != "A" || out[1] != "C" {
		t.Fatalf("unexpected available %v", out)
	}
	if len(Available(DefaultCatalog, nil)) != len(DefaultCatalog) {
		t.Fatalf("empty selection should return whole catalog")
	}
}
