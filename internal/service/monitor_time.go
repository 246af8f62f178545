package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})`)

var frenchWeekdays = [...]string{"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}

// normalizeClock turns "7:10" or "07:10:00" into "07:10". It returns "" when the value
// does not start with a clock time.
func normalizeClock(raw *string) string {
	if raw == nil {
		return ""
	}
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(*raw))
	if m == nil {
		return ""
	}
	h, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s", h, m[2])
}

// clockMinutes converts a DB time to minutes since midnight; unparsable values count as 0.
func clockMinutes(raw *string) int {
	if raw == nil {
		return 0
	}
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(*raw))
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return h*60 + min
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func frenchWeekday(day time.Weekday) string {
	return frenchWeekdays[day]
}

// PeriodWindow is a period with its times normalised for classification.
type PeriodWindow struct {
	ID       string
	Weekday  int
	Label    string
	Start    string
	End      string
	StartMin int
	EndMin   int
}

func newPeriodWindow(p models.Period) PeriodWindow {
	return PeriodWindow{
		ID:       p.ID,
		Weekday:  p.Weekday,
		Label:    trimmed(p.Label),
		Start:    normalizeClock(p.StartTime),
		End:      normalizeClock(p.EndTime),
		StartMin: clockMinutes(p.StartTime),
		EndMin:   clockMinutes(p.EndTime),
	}
}

// DisplayLabel is the period label, else "HH:MM – HH:MM" built from whichever bounds exist.
func (w PeriodWindow) DisplayLabel() string {
	if w.Label != "" {
		return w.Label
	}
	parts := make([]string, 0, 2)
	if w.Start != "" {
		parts = append(parts, w.Start)
	}
	if w.End != "" {
		parts = append(parts, w.End)
	}
	return strings.Join(parts, " – ")
}

// indexPeriods keys period windows by id.
func indexPeriods(periods []models.Period) map[string]PeriodWindow {
	out := make(map[string]PeriodWindow, len(periods))
	for _, p := range periods {
		out[p.ID] = newPeriodWindow(p)
	}
	return out
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
