package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/voyages-api/internal/models"
	appErrors "github.com/noah-isme/voyages-api/pkg/errors"
	"github.com/noah-isme/voyages-api/pkg/export"
)

type mockTripStore struct {
	trips   []models.Trip
	created []models.Trip
}

func (m *mockTripStore) Create(ctx context.Context, trip *models.Trip) error {
	trip.ID = "t-new"
	m.created = append(m.created, *trip)
	return nil
}

func (m *mockTripStore) FindByID(ctx context.Context, id string) (*models.Trip, error) {
	for _, trip := range m.trips {
		if trip.ID == id {
			t := trip
			return &t, nil
		}
	}
	return nil, appErrors.ErrNotFound
}

func (m *mockTripStore) Exists(ctx context.Context, id string) (bool, error) {
	_, err := m.FindByID(ctx, id)
	return err == nil, nil
}

func (m *mockTripStore) List(ctx context.Context) ([]models.Trip, error) {
	return m.trips, nil
}

type mockStudentLister struct {
	students []models.Student
}

func (m *mockStudentLister) ListByTrip(ctx context.Context, tripID string) ([]models.Student, error) {
	return m.students, nil
}

type mockCSVRenderer struct {
	rendered *export.Dataset
}

func (m *mockCSVRenderer) Render(data export.Dataset) ([]byte, error) {
	m.rendered = &data
	return []byte("csv-bytes"), nil
}

type mockPDFRenderer struct {
	title string
}

func (m *mockPDFRenderer) Render(data export.Dataset, title string) ([]byte, error) {
	m.title = title
	return []byte("%PDF-bytes"), nil
}

func TestTripServiceCreate(t *testing.T) {
	store := &mockTripStore{}
	svc := NewTripService(store, &mockStudentLister{}, nil, nil, nil, nil)

	trip, err := svc.Create(context.Background(), CreateTripRequest{Name: "Voyage Rome", Classe: "3A"})
	require.NoError(t, err)
	assert.Equal(t, "t-new", trip.ID)
	assert.Equal(t, models.TripStatusActive, trip.Status)
	assert.Len(t, store.created, 1)
}

func TestTripServiceCreateMissingFields(t *testing.T) {
	store := &mockTripStore{}
	svc := NewTripService(store, &mockStudentLister{}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateTripRequest{Name: "Voyage Rome"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.created)
}

func TestTripServiceListStudents(t *testing.T) {
	nom := "Martin"
	store := &mockTripStore{trips: []models.Trip{{ID: "t1", Name: "Voyage Rome", Classe: "3A"}}}
	lister := &mockStudentLister{students: []models.Student{{ID: "s1", TripID: "t1", Nom: &nom}}}
	svc := NewTripService(store, lister, nil, nil, nil, nil)

	students, err := svc.ListStudents(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Martin", *students[0].Nom)
}

func TestTripServiceListStudentsUnknownTrip(t *testing.T) {
	svc := NewTripService(&mockTripStore{}, &mockStudentLister{}, nil, nil, nil, nil)

	_, err := svc.ListStudents(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTripServiceExportStudentsCSV(t *testing.T) {
	nom := "Martin"
	allergies := true
	store := &mockTripStore{trips: []models.Trip{{ID: "t1", Name: "Voyage Rome", Classe: "3A"}}}
	lister := &mockStudentLister{students: []models.Student{{ID: "s1", TripID: "t1", Nom: &nom, Allergies: &allergies}}}
	csv := &mockCSVRenderer{}
	svc := NewTripService(store, lister, csv, &mockPDFRenderer{}, nil, nil)

	result, err := svc.ExportStudents(context.Background(), "t1", "")
	require.NoError(t, err)
	assert.Equal(t, "voyage_t1.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, []byte("csv-bytes"), result.Content)
	require.NotNil(t, csv.rendered)
	require.Len(t, csv.rendered.Rows, 1)
	assert.Equal(t, "Martin", csv.rendered.Rows[0]["nom"])
	assert.Equal(t, "oui", csv.rendered.Rows[0]["allergies"])
	assert.Equal(t, "", csv.rendered.Rows[0]["pai"])
}

func TestTripServiceExportStudentsPDF(t *testing.T) {
	store := &mockTripStore{trips: []models.Trip{{ID: "t1", Name: "Voyage Rome", Classe: "3A"}}}
	pdf := &mockPDFRenderer{}
	svc := NewTripService(store, &mockStudentLister{}, &mockCSVRenderer{}, pdf, nil, nil)

	result, err := svc.ExportStudents(context.Background(), "t1", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "voyage_t1.pdf", result.Filename)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
	assert.Equal(t, "Voyage Voyage Rome (3A)", pdf.title)
}

func TestTripServiceExportStudentsBadFormat(t *testing.T) {
	store := &mockTripStore{trips: []models.Trip{{ID: "t1", Name: "Voyage Rome", Classe: "3A"}}}
	svc := NewTripService(store, &mockStudentLister{}, &mockCSVRenderer{}, &mockPDFRenderer{}, nil, nil)

	_, err := svc.ExportStudents(context.Background(), "t1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
