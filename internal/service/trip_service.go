package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/voyages-api/internal/models"
	appErrors "github.com/noah-isme/voyages-api/pkg/errors"
	"github.com/noah-isme/voyages-api/pkg/export"
)

type tripRepository interface {
	Create(ctx context.Context, trip *models.Trip) error
	FindByID(ctx context.Context, id string) (*models.Trip, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]models.Trip, error)
}

type studentLister interface {
	ListByTrip(ctx context.Context, tripID string) ([]models.Student, error)
}

type rosterRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// CreateTripRequest holds payload for creating trips.
type CreateTripRequest struct {
	Name   string `json:"name" validate:"required"`
	Classe string `json:"classe" validate:"required"`
}

// RosterExport is a rendered roster document.
type RosterExport struct {
	Filename    string
	ContentType string
	Content     []byte
}

// TripService handles administrator-facing trip use-cases.
type TripService struct {
	trips     tripRepository
	students  studentLister
	csv       csvRenderer
	pdf       rosterRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTripService constructs the trip service.
func NewTripService(trips tripRepository, students studentLister, csv csvRenderer, pdf rosterRenderer, validate *validator.Validate, logger *zap.Logger) *TripService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TripService{trips: trips, students: students, csv: csv, pdf: pdf, validator: validate, logger: logger}
}

// Create registers a new trip.
func (s *TripService) Create(ctx context.Context, req CreateTripRequest) (*models.Trip, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name and classe are required")
	}
	trip := &models.Trip{
		Name:   req.Name,
		Classe: req.Classe,
		Status: models.TripStatusActive,
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trip")
	}
	return trip, nil
}

// List returns all trips, most recent first.
func (s *TripService) List(ctx context.Context) ([]models.Trip, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trips")
	}
	return trips, nil
}

// ListStudents returns the submitted students of a trip.
func (s *TripService) ListStudents(ctx context.Context, tripID string) ([]models.Student, error) {
	exists, err := s.trips.Exists(ctx, tripID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check trip")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "trip not found")
	}
	students, err := s.students.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// ExportStudents renders a trip's roster as CSV or PDF.
func (s *TripService) ExportStudents(ctx context.Context, tripID, format string) (*RosterExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	trip, err := s.trips.FindByID(ctx, tripID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "trip not found")
	}
	students, err := s.students.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	dataset := rosterDataset(students)
	title := fmt.Sprintf("Voyage %s (%s)", trip.Name, trip.Classe)

	switch format {
	case "pdf":
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &RosterExport{Filename: fmt.Sprintf("voyage_%s.pdf", trip.ID), ContentType: "application/pdf", Content: content}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &RosterExport{Filename: fmt.Sprintf("voyage_%s.csv", trip.ID), ContentType: "text/csv", Content: content}, nil
	}
}

func rosterDataset(students []models.Student) export.Dataset {
	headers := []string{"nom", "prenom", "naissance", "nationalite", "email", "tel", "contact_nom", "contact_tel", "allergies", "pai", "autorisation_parentale", "status"}
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, map[string]string{
			"nom":                    deref(st.Nom),
			"prenom":                 deref(st.Prenom),
			"naissance":              deref(st.Naissance),
			"nationalite":            deref(st.Nationalite),
			"email":                  deref(st.Email),
			"tel":                    deref(st.Tel),
			"contact_nom":            deref(st.ContactNom),
			"contact_tel":            deref(st.ContactTel),
			"allergies":              derefBool(st.Allergies),
			"pai":                    derefBool(st.PAI),
			"autorisation_parentale": derefBool(st.AutorisationParentale),
			"status":                 deref(st.Status),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefBool(v *bool) string {
	if v == nil {
		return ""
	}
	if *v {
		return "oui"
	}
	return "non"
}
