package models

import "time"

// SessionOrigin records where a roll call was opened from.
type SessionOrigin string

const (
	OriginTeacher     SessionOrigin = "teacher"
	OriginClassDevice SessionOrigin = "class_device"
)

// ParseSessionOrigin normalises a raw origin column; unknown values map to the empty origin.
func ParseSessionOrigin(raw *string) SessionOrigin {
	if raw == nil {
		return ""
	}
	switch SessionOrigin(*raw) {
	case OriginTeacher:
		return OriginTeacher
	case OriginClassDevice:
		return OriginClassDevice
	default:
		return ""
	}
}

// AttendanceSession is a recorded roll-call event.
type AttendanceSession struct {
	ID           string     `db:"id" json:"id"`
	ClassID      string     `db:"class_id" json:"class_id"`
	SubjectID    *string    `db:"subject_id" json:"subject_id,omitempty"`
	TeacherID    string     `db:"teacher_id" json:"teacher_id"`
	StartedAt    *time.Time `db:"started_at" json:"started_at,omitempty"`
	ActualCallAt *time.Time `db:"actual_call_at" json:"actual_call_at,omitempty"`
	Origin       *string    `db:"origin" json:"origin,omitempty"`
}

// MonitorStatus is the terminal classification of a scheduled slot.
type MonitorStatus string

const (
	StatusMissing MonitorStatus = "missing"
	StatusLate    MonitorStatus = "late"
	StatusOK      MonitorStatus = "ok"
)

// Valid reports whether s is one of the three classifications.
func (s MonitorStatus) Valid() bool {
	switch s {
	case StatusMissing, StatusLate, StatusOK:
		return true
	}
	return false
}

// MonitorRow is one classified (date, slot) pair. Nullable fields serialise as null.
type MonitorRow struct {
	ID           string         `json:"id"`
	Date         string         `json:"date"`
	WeekdayLabel *string        `json:"weekday_label"`
	PeriodLabel  *string        `json:"period_label"`
	PlannedStart *string        `json:"planned_start"`
	PlannedEnd   *string        `json:"planned_end"`
	ClassLabel   *string        `json:"class_label"`
	SubjectName  *string        `json:"subject_name"`
	TeacherName  string         `json:"teacher_name"`
	Status       MonitorStatus  `json:"status"`
	LateMinutes  *int           `json:"late_minutes"`
	OpenedFrom   *SessionOrigin `json:"opened_from"`
}
