package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/voyages-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTripRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTripRepository(db)

	mock.ExpectExec("INSERT INTO trips").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	trip := &models.Trip{Name: "Voyage Rome", Classe: "3A"}
	err := repo.Create(context.Background(), trip)
	require.NoError(t, err)
	assert.NotEmpty(t, trip.ID)
	assert.Equal(t, models.TripStatusActive, trip.Status)
	assert.False(t, trip.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTripRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "classe", "status", "created_at"}).
		AddRow("t1", "Voyage Rome", "3A", "active", time.Now()).
		AddRow("t2", "Voyage Berlin", "4B", "active", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, classe, status, created_at FROM trips ORDER BY created_at DESC")).
		WillReturnRows(rows)

	trips, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, trips, 2)
	assert.Equal(t, "Voyage Rome", trips[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepositoryExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTripRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM trips WHERE id = $1 LIMIT 1")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepositoryExistsMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTripRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM trips WHERE id = $1 LIMIT 1")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.Exists(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
