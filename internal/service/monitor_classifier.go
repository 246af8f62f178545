package service

import (
	"time"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

// ClassifierConfig holds the thresholds, in minutes, used to classify slots.
type ClassifierConfig struct {
	LateThresholdMin        int
	MissingControlWindowMin int
	ForgivenessMin          int
}

func (c ClassifierConfig) withDefaults() ClassifierConfig {
	if c.LateThresholdMin < 1 {
		c.LateThresholdMin = 15
	}
	if c.MissingControlWindowMin < 0 {
		c.MissingControlWindowMin = c.LateThresholdMin
	}
	if c.ForgivenessMin <= 0 {
		c.ForgivenessMin = 120
	}
	return c
}

// ClassifyInput is the in-memory snapshot a classification runs over.
type ClassifyInput struct {
	Entries      []models.TimetableEntry
	Periods      map[string]PeriodWindow
	Calendar     Calendar
	Sessions     SessionIndex
	Affectations *AffectationFilter
	Now          time.Time
	Config       ClassifierConfig
}

// ClassifiedSlot is the verdict for one (timetable entry, date) pair.
type ClassifiedSlot struct {
	Entry       models.TimetableEntry
	Period      PeriodWindow
	Date        string
	Status      models.MonitorStatus
	LateMinutes *int
	OpenedFrom  *models.SessionOrigin
}

// SlotSkips counts entries dropped before classification.
type SlotSkips struct {
	OrphanPeriod int
	Unauthorized int
	Deferred     int
}

// ClassifySlots emits one verdict per timetable entry and date its period falls on. Future
// dates never produce a verdict, and neither does today's slot while it is still inside the
// missing control window without a recorded call.
func ClassifySlots(in ClassifyInput) ([]ClassifiedSlot, SlotSkips) {
	cfg := in.Config.withDefaults()
	now := in.Now.UTC()
	today := now.Format(ymdLayout)
	nowMin := minuteOfDay(now)

	var (
		out   []ClassifiedSlot
		skips SlotSkips
	)
	for _, entry := range in.Entries {
		period, ok := in.Periods[entry.PeriodID]
		if !ok {
			skips.OrphanPeriod++
			continue
		}
		subjectID := derefString(entry.SubjectID)
		if !in.Affectations.Authorized(entry.TeacherID, subjectID) {
			skips.Unauthorized++
			continue
		}

		for _, date := range in.Calendar.DatesFor(period.Weekday) {
			if date > today {
				skips.Deferred++
				continue
			}
			key := SessionKey{Date: date, ClassID: entry.ClassID, SubjectID: subjectID, TeacherID: entry.TeacherID}
			slot := ClassifiedSlot{Entry: entry, Period: period, Date: date}

			if call, found := earliestCall(in.Sessions[key], period.StartMin, period.EndMin+cfg.ForgivenessMin); found {
				delta := call.Minute - period.StartMin
				if delta <= cfg.LateThresholdMin {
					slot.Status = models.StatusOK
				} else {
					slot.Status = models.StatusLate
					late := delta
					slot.LateMinutes = &late
				}
				if call.Origin != "" {
					origin := call.Origin
					slot.OpenedFrom = &origin
				}
				out = append(out, slot)
				continue
			}

			if date == today && nowMin < period.StartMin+cfg.MissingControlWindowMin {
				skips.Deferred++
				continue
			}
			slot.Status = models.StatusMissing
			out = append(out, slot)
		}
	}
	return out, skips
}

// earliestCall picks the smallest minute inside [lo, hi].
func earliestCall(calls []IndexedCall, lo, hi int) (IndexedCall, bool) {
	var (
		best  IndexedCall
		found bool
	)
	for _, call := range calls {
		if call.Minute < lo || call.Minute > hi {
			continue
		}
		if !found || call.Minute < best.Minute {
			best = call
			found = true
		}
	}
	return best, found
}
