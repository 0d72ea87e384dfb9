package model

import (
	"fmt"
	"time"
)

const (
	// Weeks is the number of weeks in an allocation period.
	Weeks = 2
	// DaysPerWeek is the number of workdays per week.
	DaysPerWeek = 5
	// NumSlots is the number of workdays in an allocation period.
	NumSlots = Weeks * DaysPerWeek
	// DayCapacity is the number of hours available on a workday.
	DayCapacity = 8.0
	// PeriodCapacity is the number of hours in the whole period.
	PeriodCapacity = NumSlots * DayCapacity
	// WeekCapacity is the number of hours in a single week.
	WeekCapacity = DaysPerWeek * DayCapacity
)

// Workdays lists the days of a week in calendar order.
var Workdays = [DaysPerWeek]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

// Slot identifies one workday of the period: 0 is Monday of week 1 and 9 is
// Friday of week 2.
type Slot int

// SlotOf returns the slot for the given week (1 or 2) and weekday.
func SlotOf(week int, day time.Weekday) (Slot, error) {
	if week < 1 || week > Weeks {
		return 0, fmt.Errorf("week %d out of range", week)
	}
	if day < time.Monday || day > time.Friday {
		return 0, fmt.Errorf("%s is not a workday", day)
	}
	return Slot((week-1)*DaysPerWeek + int(day-time.Monday)), nil
}

// Slots returns every slot in calendar order.
func Slots() []Slot {
	out := make([]Slot, NumSlots)
	for i := range out {
		out[i] = Slot(i)
	}
	return out
}

// Week returns the 1-based week of the slot.
func (s Slot) Week() int { return int(s)/DaysPerWeek + 1 }

// Day returns the weekday of the slot.
func (s Slot) Day() time.Weekday { return Workdays[int(s)%DaysPerWeek] }

// Valid reports whether s lies within the period.
func (s Slot) Valid() bool { return s >= 0 && s < NumSlots }

// String returns a human-readable representation such as "W1 Monday".
func (s Slot) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return fmt.Sprintf("W%d %s", s.Week(), s.Day())
}

// ParseWeekday maps a workday name to its time.Weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	for _, d := range Workdays {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}
