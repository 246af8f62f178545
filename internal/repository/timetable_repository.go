package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

// TimetableRepository reads weekly slot templates and teacher affectations.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// ListByInstitution returns all timetable entries of the institution.
func (r *TimetableRepository) ListByInstitution(ctx context.Context, institutionID string) ([]models.TimetableEntry, error) {
	const query = `SELECT id, institution_id, class_id, subject_id, teacher_id, period_id
FROM teacher_timetables
WHERE institution_id = $1`
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, institutionID); err != nil {
		return nil, fmt.Errorf("list timetables: %w", err)
	}
	return entries, nil
}

// ListAffectations returns the declared teacher/subject authorisations of the institution.
func (r *TimetableRepository) ListAffectations(ctx context.Context, institutionID string) ([]models.Affectation, error) {
	const query = `SELECT profile_id, subject_id
FROM teacher_subjects
WHERE institution_id = $1 AND subject_id IS NOT NULL`
	var affectations []models.Affectation
	if err := r.db.SelectContext(ctx, &affectations, query, institutionID); err != nil {
		return nil, fmt.Errorf("list affectations: %w", err)
	}
	return affectations, nil
}
