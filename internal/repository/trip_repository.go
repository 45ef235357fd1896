package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/voyages-api/internal/models"
)

// TripRepository manages persistence for trips.
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository constructs a TripRepository.
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create inserts a new trip record.
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}
	if trip.Status == "" {
		trip.Status = models.TripStatusActive
	}
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO trips (id, name, classe, status, created_at)
        VALUES (:id, :name, :classe, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, trip); err != nil {
		return fmt.Errorf("create trip: %w", err)
	}
	return nil
}

// FindByID fetches a trip by ID.
func (r *TripRepository) FindByID(ctx context.Context, id string) (*models.Trip, error) {
	const query = `SELECT id, name, classe, status, created_at FROM trips WHERE id = $1`
	var trip models.Trip
	if err := r.db.GetContext(ctx, &trip, query, id); err != nil {
		return nil, err
	}
	return &trip, nil
}

// Exists reports whether a trip with the given ID exists.
func (r *TripRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM trips WHERE id = $1 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check trip: %w", err)
	}
	return true, nil
}

// List returns all trips, most recently created first.
func (r *TripRepository) List(ctx context.Context) ([]models.Trip, error) {
	const query = `SELECT id, name, classe, status, created_at FROM trips ORDER BY created_at DESC`
	var trips []models.Trip
	if err := r.db.SelectContext(ctx, &trips, query); err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}
