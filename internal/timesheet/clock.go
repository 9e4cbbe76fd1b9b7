package timesheet

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a time of day in minutes since midnight.
type Clock int

const (
	Midnight   Clock = 0
	LastMinute Clock = 23*60 + 59
)

func ParseClock(s string) (Clock, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	mins, err := strconv.Atoi(m)
	if err != nil || len(m) != 2 || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock(hours*60 + mins), nil
}

// Clamp pins c into [00:00, 23:59]. Out-of-range values are never wrapped.
func (c Clock) Clamp() Clock {
	if c < Midnight {
		return Midnight
	}
	if c > LastMinute {
		return LastMinute
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}
