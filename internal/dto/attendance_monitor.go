package dto

import "github.com/noah-isme/sma-attendance-monitor/internal/models"

// MonitorQuery captures GET /admin/attendance/monitor query parameters.
type MonitorQuery struct {
	From   string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Debug  string `form:"debug"`
	Status string `form:"status" validate:"omitempty,oneof=missing late ok"`
}

// WantsDebug reports whether diagnostics were requested.
func (q MonitorQuery) WantsDebug() bool {
	return q.Debug == "1"
}

// MonitorExportQuery captures GET /admin/attendance/monitor/export query parameters.
type MonitorExportQuery struct {
	MonitorQuery
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}

// MonitorResponse is the monitor payload. Debug is only present when requested.
type MonitorResponse struct {
	Rows  []models.MonitorRow `json:"rows"`
	Debug *MonitorDebug       `json:"debug,omitempty"`
}

// MonitorDebug exposes the inputs that drove a classification.
type MonitorDebug struct {
	TodayYMD    string        `json:"todayYmd"`
	NowUTCHHMM  string        `json:"nowUtcHHMM"`
	NowMinutes  int           `json:"nowMinutes"`
	Range       MonitorRange  `json:"range"`
	Counts      MonitorCounts `json:"counts"`
	WeekdayMode string        `json:"weekdayMode"`
	Weekdays    []int         `json:"weekdays"`
	Thresholds  MonitorLimits `json:"thresholds"`
	CacheHit    bool          `json:"cacheHit"`
}

// MonitorRange is the normalised inclusive date range.
type MonitorRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MonitorCounts reports snapshot sizes and skip reasons.
type MonitorCounts struct {
	Periods             int `json:"periods"`
	Timetables          int `json:"timetables"`
	Classes             int `json:"classes"`
	Subjects            int `json:"subjects"`
	Teachers            int `json:"teachers"`
	Affectations        int `json:"affectations"`
	Sessions            int `json:"sessions"`
	IndexedCalls        int `json:"indexedCalls"`
	Dates               int `json:"dates"`
	OrphanTimetables    int `json:"orphanTimetables"`
	UnauthorizedEntries int `json:"unauthorizedEntries"`
	DeferredSlots       int `json:"deferredSlots"`
	Rows                int `json:"rows"`
}

// MonitorLimits echoes the thresholds in effect.
type MonitorLimits struct {
	LateThresholdMin        int `json:"lateThresholdMin"`
	MissingControlWindowMin int `json:"missingControlWindowMin"`
	ForgivenessMin          int `json:"forgivenessMin"`
}

// ExportFile is a rendered monitor export.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
