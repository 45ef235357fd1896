package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/voyages-api/internal/models"
)

func strPtr(s string) *string { return &s }

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{TripID: "t1", Nom: strPtr("Martin"), Prenom: strPtr("Lea"), Status: strPtr("incomplet")}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.False(t, student.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListByTrip(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	columns := []string{"id", "trip_id", "nom", "prenom", "naissance", "sexe", "nationalite",
		"doc_type", "doc_number", "doc_expiration", "adresse", "email", "tel",
		"contact_nom", "contact_lien", "contact_tel",
		"allergies", "allergies_details", "pai", "pai_ref", "autorisation_parentale",
		"status", "created_at"}
	rows := sqlmock.NewRows(columns).
		AddRow("s1", "t1", "Martin", "Lea", nil, nil, nil, nil, nil, nil, nil, "lea@example.com", nil,
			nil, nil, nil, nil, nil, nil, nil, nil, "incomplet", time.Now())
	mock.ExpectQuery("SELECT (.+) FROM students WHERE trip_id = \\$1").
		WithArgs("t1").
		WillReturnRows(rows)

	students, err := repo.ListByTrip(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "s1", students[0].ID)
	assert.Equal(t, "Martin", *students[0].Nom)
	assert.Equal(t, "lea@example.com", *students[0].Email)
	assert.Nil(t, students[0].Naissance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{ID: "s1", TripID: "t1", Nom: strPtr("Martin"), Status: strPtr("complet")}
	err := repo.Update(context.Background(), student)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateWithTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	student := &models.Student{TripID: "t1", Nom: strPtr("Durand")}
	require.NoError(t, repo.CreateWithTx(context.Background(), tx, student))
	require.NoError(t, tx.Commit())
	assert.NotEmpty(t, student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
