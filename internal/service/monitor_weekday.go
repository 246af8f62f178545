package service

import (
	"sort"
	"time"
)

// WeekdayConvention is the integer encoding an institution uses for period weekdays.
type WeekdayConvention string

const (
	// WeekdayISO numbers Monday=1 through Sunday=7.
	WeekdayISO WeekdayConvention = "iso"
	// WeekdayJS numbers Sunday=0 through Saturday=6.
	WeekdayJS WeekdayConvention = "js"
	// WeekdayMon0 numbers Monday=0 through Saturday=5 and has no Sunday.
	WeekdayMon0 WeekdayConvention = "mon0"
)

// ResolveWeekdayConvention infers the encoding from the raw weekday values found on an
// institution's periods. First match wins: a 7 means iso, a maximum of 5 means mon0, a 0
// with a maximum of 6 means js, anything else falls back to iso.
func ResolveWeekdayConvention(raw []int) WeekdayConvention {
	if len(raw) == 0 {
		return WeekdayISO
	}
	hasZero, hasSeven := false, false
	max := raw[0]
	for _, v := range raw {
		if v == 0 {
			hasZero = true
		}
		if v == 7 {
			hasSeven = true
		}
		if v > max {
			max = v
		}
	}
	switch {
	case hasSeven:
		return WeekdayISO
	case max == 5:
		return WeekdayMon0
	case hasZero && max == 6:
		return WeekdayJS
	default:
		return WeekdayISO
	}
}

// Code maps a natural weekday to the institution code. The boolean is false when the
// convention has no code for that day (Sunday under mon0).
func (c WeekdayConvention) Code(day time.Weekday) (int, bool) {
	d := int(day)
	switch c {
	case WeekdayJS:
		return d, true
	case WeekdayMon0:
		if day == time.Sunday {
			return 0, false
		}
		return (d + 6) % 7, true
	default:
		if d == 0 {
			return 7, true
		}
		return d, true
	}
}

// distinctWeekdays returns the sorted set of raw weekday codes, used for diagnostics.
func distinctWeekdays(raw []int) []int {
	seen := make(map[int]struct{}, len(raw))
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
