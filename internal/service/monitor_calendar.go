package service

import "time"

const ymdLayout = "2006-01-02"

// CalendarDay is one date of the requested range with its institution weekday code.
type CalendarDay struct {
	Date    time.Time
	Weekday time.Weekday
	Code    int
	HasCode bool
}

// YMD formats the day as YYYY-MM-DD.
func (d CalendarDay) YMD() string {
	return d.Date.Format(ymdLayout)
}

// Calendar is the expanded date range plus a reverse index from weekday code to dates.
type Calendar struct {
	Days   []CalendarDay
	byCode map[int][]string
}

// DatesFor returns the dates, in ascending order, carrying the given weekday code.
func (c Calendar) DatesFor(code int) []string {
	return c.byCode[code]
}

// ExpandCalendar lists every date between from and to inclusive, swapping the bounds when
// they are reversed. Dates without a code under the convention are listed but never indexed.
func ExpandCalendar(from, to time.Time, convention WeekdayConvention) Calendar {
	start, end := utcDay(from), utcDay(to)
	if end.Before(start) {
		start, end = end, start
	}
	cal := Calendar{byCode: make(map[int][]string)}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		code, ok := convention.Code(day.Weekday())
		entry := CalendarDay{Date: day, Weekday: day.Weekday(), Code: code, HasCode: ok}
		cal.Days = append(cal.Days, entry)
		if ok {
			cal.byCode[code] = append(cal.byCode[code], entry.YMD())
		}
	}
	return cal
}

func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
