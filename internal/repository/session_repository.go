package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

// SessionRepository reads recorded roll-call sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// ListStartedBetween returns sessions whose started_at lies in [from, to).
func (r *SessionRepository) ListStartedBetween(ctx context.Context, institutionID string, from, to time.Time) ([]models.AttendanceSession, error) {
	const query = `SELECT id, class_id, subject_id, teacher_id, started_at, actual_call_at, origin
FROM teacher_sessions
WHERE institution_id = $1 AND started_at >= $2 AND started_at < $3`
	var sessions []models.AttendanceSession
	if err := r.db.SelectContext(ctx, &sessions, query, institutionID, from.UTC(), to.UTC()); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}
