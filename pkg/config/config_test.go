package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttendanceFromRawDefaults(t *testing.T) {
	cfg := attendanceFromRaw("", "", "")

	assert.Equal(t, 15, cfg.LateThresholdMin)
	assert.Equal(t, 15, cfg.MissingControlWindowMin)
	assert.Equal(t, 120, cfg.ForgivenessMin)
}

func TestAttendanceFromRawWindowFollowsLateThreshold(t *testing.T) {
	cfg := attendanceFromRaw("20", "", "")

	assert.Equal(t, 20, cfg.LateThresholdMin)
	assert.Equal(t, 20, cfg.MissingControlWindowMin)
}

func TestAttendanceFromRawOverrides(t *testing.T) {
	cfg := attendanceFromRaw("10.9", "30", "90")

	assert.Equal(t, 10, cfg.LateThresholdMin)
	assert.Equal(t, 30, cfg.MissingControlWindowMin)
	assert.Equal(t, 90, cfg.ForgivenessMin)
}

func TestAttendanceFromRawRejectsGarbage(t *testing.T) {
	cfg := attendanceFromRaw("abc", "NaN", "-5")

	assert.Equal(t, 15, cfg.LateThresholdMin)
	assert.Equal(t, 15, cfg.MissingControlWindowMin)
	assert.Equal(t, 120, cfg.ForgivenessMin)
}

func TestAttendanceFromRawFloorsLateThreshold(t *testing.T) {
	cfg := attendanceFromRaw("0", "", "")

	assert.Equal(t, 1, cfg.LateThresholdMin)
	assert.Equal(t, 1, cfg.MissingControlWindowMin)
}

func TestLoadUsesEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ATTENDANCE_LATE_THRESHOLD_MIN", "12")
	t.Setenv("SNAPSHOT_CACHE_TTL", "2m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 12, cfg.Attendance.LateThresholdMin)
	assert.Equal(t, 12, cfg.Attendance.MissingControlWindowMin)
	assert.Equal(t, 2*time.Minute, cfg.Snapshot.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Second, parseDuration("nope", time.Second))
	assert.Equal(t, 3*time.Second, parseDuration("3s", time.Second))
}
