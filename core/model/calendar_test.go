package model

import (
	"testing"
	"time"
)

func TestSlotWeekAndDay(t *testing.T) {
	s, err := SlotOf(2, time.Wednesday)
	if err != nil {
		t.Fatalf("slot: %v", err)
	}
	if s != 7 {
		t.Fatalf("expected slot 7 got %d", s)
	}
	if s.Week() != 2 || s.Day() != time.Wednesday {
		t.Fatalf("unexpected week/day %d %s", s.Week(), s.Day())
	}
	if s.String() != "W2 Wednesday" {
		t.Fatalf("unexpected string %q", s.String())
	}
}

func TestSlotOfRejectsWeekend(t *testing.T) {
	if _, err := SlotOf(1, time.Saturday); err == nil {
		t.Fatalf("expected error for saturday")
	}
	if _, err := SlotOf(3, time.Monday); err == nil {
		t.Fatalf("expected error for week 3")
	}
}

func TestSlotsCoverPeriod(t *testing.T) {
	slots := Slots()
	if len(slots) != NumSlots {
		t.Fatalf("expected %d slots got %d", NumSlots, len(slots))
	}
	for i, s := range slots {
		round, err := SlotOf(s.Week(), s.Day())
		if err != nil || round != s || int(s) != i {
			t.Fatalf("slot %d does not round-trip", i)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	if d, ok := ParseWeekday("Friday"); !ok || d != time.Friday {
		t.Fatalf("expected friday")
	}
	if _, ok := ParseWeekday("Sunday"); ok {
		t.Fatalf("sunday is not a workday")
	}
}
