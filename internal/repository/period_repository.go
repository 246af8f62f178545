package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

// PeriodRepository reads institution period definitions.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository creates a new period repository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// ListByInstitution returns every period of the institution. Times are read as text so that
// "07:10" and "07:10:00" both survive scanning.
func (r *PeriodRepository) ListByInstitution(ctx context.Context, institutionID string) ([]models.Period, error) {
	const query = `SELECT id, institution_id, weekday, label, start_time::text AS start_time, end_time::text AS end_time
FROM institution_periods
WHERE institution_id = $1`
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query, institutionID); err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	return periods, nil
}
