package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

// SubjectRepository reads institution subjects together with their catalog entries.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository builds a subject repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// ListInstitutionSubjects returns institution-local subjects. A dangling catalog reference
// yields NULL catalog columns rather than dropping the row.
func (r *SubjectRepository) ListInstitutionSubjects(ctx context.Context, institutionID string) ([]models.InstitutionSubject, error) {
	const query = `SELECT isub.id, isub.custom_name, isub.subject_id AS catalog_id, s.name AS catalog_name
FROM institution_subjects isub
LEFT JOIN subjects s ON s.id = isub.subject_id
WHERE isub.institution_id = $1`
	var subjects []models.InstitutionSubject
	if err := r.db.SelectContext(ctx, &subjects, query, institutionID); err != nil {
		return nil, fmt.Errorf("list institution subjects: %w", err)
	}
	return subjects, nil
}
