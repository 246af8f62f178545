package service

import (
	"strings"
	"time"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

// SessionKey correlates a recorded session with a timetable slot.
type SessionKey struct {
	Date      string
	ClassID   string
	SubjectID string
	TeacherID string
}

// String renders the key as date|class|subject|teacher.
func (k SessionKey) String() string {
	return strings.Join([]string{k.Date, k.ClassID, k.SubjectID, k.TeacherID}, "|")
}

// IndexedCall is the minute of day a roll call happened and where it was opened from.
type IndexedCall struct {
	Minute int
	Origin models.SessionOrigin
}

// SessionIndex groups indexed calls by slot key.
type SessionIndex map[SessionKey][]IndexedCall

// IndexSessions keys each session by the UTC date of started_at and records the minute of
// actual_call_at, or of started_at when the call instant is unknown. Sessions with neither
// timestamp are dropped.
func IndexSessions(sessions []models.AttendanceSession) SessionIndex {
	index := make(SessionIndex, len(sessions))
	for _, session := range sessions {
		call := session.ActualCallAt
		if call == nil {
			call = session.StartedAt
		}
		if call == nil {
			continue
		}
		anchor := session.StartedAt
		if anchor == nil {
			anchor = call
		}
		key := SessionKey{
			Date:      anchor.UTC().Format(ymdLayout),
			ClassID:   session.ClassID,
			SubjectID: derefString(session.SubjectID),
			TeacherID: session.TeacherID,
		}
		index[key] = append(index[key], IndexedCall{
			Minute: minuteOfDay(*call),
			Origin: models.ParseSessionOrigin(session.Origin),
		})
	}
	return index
}

// Size returns the number of indexed calls.
func (idx SessionIndex) Size() int {
	total := 0
	for _, calls := range idx {
		total += len(calls)
	}
	return total
}

func minuteOfDay(t time.Time) int {
	t = t.UTC()
	return t.Hour()*60 + t.Minute()
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
