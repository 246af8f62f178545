package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

// ClassRepository reads class labels.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository instantiates a class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListByInstitution returns the classes of an institution.
func (r *ClassRepository) ListByInstitution(ctx context.Context, institutionID string) ([]models.Class, error) {
	const query = `SELECT id, label FROM classes WHERE institution_id = $1`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, institutionID); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}
