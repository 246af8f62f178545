package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

func TestProfileRepositoryFindInstitution(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, institution_id FROM profiles WHERE id = $1`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "institution_id"}).AddRow("user-1", "inst-1"))

	profile, err := repo.FindInstitution(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "inst-1", *profile.InstitutionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryFindInstitutionMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery("FROM profiles WHERE id").WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	profile, err := repo.FindInstitution(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestProfileRepositoryFindRole(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT role FROM user_roles WHERE profile_id = $1 AND institution_id = $2 LIMIT 1`)).
		WithArgs("user-1", "inst-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("super_admin"))
	mock.ExpectQuery("FROM user_roles").
		WithArgs("user-2", "inst-1").
		WillReturnError(sql.ErrNoRows)

	role, err := repo.FindRole(context.Background(), "user-1", "inst-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, role)

	role, err = repo.FindRole(context.Background(), "user-2", "inst-1")
	require.NoError(t, err)
	assert.Equal(t, models.UserRole(""), role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryListTeachers(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, display_name, email, phone FROM profiles WHERE institution_id = $1`)).
		WithArgs("inst-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "email", "phone"}).
			AddRow("teacher-1", "Mme Kouassi", nil, nil).
			AddRow("teacher-2", nil, "t2@ecole.ci", "+2250700000000"))

	teachers, err := repo.ListTeachers(context.Background(), "inst-1")
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	assert.Equal(t, "Mme Kouassi", *teachers[0].DisplayName)
	assert.Nil(t, teachers[1].DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
