package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

// ProfileRepository reads profiles and institution roles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a profile repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindInstitution loads the caller's profile. A missing profile returns (nil, nil).
func (r *ProfileRepository) FindInstitution(ctx context.Context, userID string) (*models.ProfileInstitution, error) {
	const query = `SELECT id, institution_id FROM profiles WHERE id = $1`
	var profile models.ProfileInstitution
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &profile, nil
}

// FindRole returns the caller's role in the institution, or "" when none is recorded.
func (r *ProfileRepository) FindRole(ctx context.Context, userID, institutionID string) (models.UserRole, error) {
	const query = `SELECT role FROM user_roles WHERE profile_id = $1 AND institution_id = $2 LIMIT 1`
	var role string
	if err := r.db.GetContext(ctx, &role, query, userID, institutionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find role: %w", err)
	}
	return models.UserRole(role), nil
}

// ListTeachers returns the display fields of every profile attached to the institution.
func (r *ProfileRepository) ListTeachers(ctx context.Context, institutionID string) ([]models.TeacherProfile, error) {
	const query = `SELECT id, display_name, email, phone FROM profiles WHERE institution_id = $1`
	var profiles []models.TeacherProfile
	if err := r.db.SelectContext(ctx, &profiles, query, institutionID); err != nil {
		return nil, fmt.Errorf("list teacher profiles: %w", err)
	}
	return profiles, nil
}
