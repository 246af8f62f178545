package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodRepositoryListByInstitution(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	rows := sqlmock.NewRows([]string{"id", "institution_id", "weekday", "label", "start_time", "end_time"}).
		AddRow("p-1", "inst-1", 1, "M1", "08:00:00", "09:00:00").
		AddRow("p-2", "inst-1", 2, nil, "9:05", nil)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, institution_id, weekday, label, start_time::text AS start_time, end_time::text AS end_time
FROM institution_periods
WHERE institution_id = $1`)).
		WithArgs("inst-1").
		WillReturnRows(rows)

	periods, err := repo.ListByInstitution(context.Background(), "inst-1")
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, 1, periods[0].Weekday)
	assert.Equal(t, "08:00:00", *periods[0].StartTime)
	assert.Nil(t, periods[1].Label)
	assert.Nil(t, periods[1].EndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryWrapsErrors(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectQuery("FROM institution_periods").WillReturnError(errors.New("permission denied for table institution_periods"))

	_, err := repo.ListByInstitution(context.Background(), "inst-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list periods: permission denied")
}
