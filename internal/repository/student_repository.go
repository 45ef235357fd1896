package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/voyages-api/internal/models"
)

const studentColumns = `id, trip_id, nom, prenom, naissance, sexe, nationalite,
        doc_type, doc_number, doc_expiration, adresse, email, tel,
        contact_nom, contact_lien, contact_tel,
        allergies, allergies_details, pai, pai_ref, autorisation_parentale,
        status, created_at`

const studentInsert = `INSERT INTO students (id, trip_id, nom, prenom, naissance, sexe, nationalite,
        doc_type, doc_number, doc_expiration, adresse, email, tel,
        contact_nom, contact_lien, contact_tel,
        allergies, allergies_details, pai, pai_ref, autorisation_parentale,
        status, created_at)
        VALUES (:id, :trip_id, :nom, :prenom, :naissance, :sexe, :nationalite,
        :doc_type, :doc_number, :doc_expiration, :adresse, :email, :tel,
        :contact_nom, :contact_lien, :contact_tel,
        :allergies, :allergies_details, :pai, :pai_ref, :autorisation_parentale,
        :status, :created_at)`

// StudentRepository manages persistence for submitted student forms.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// CreateWithTx inserts a new student inside the caller's transaction so the
// insert can commit atomically with the link binding.
func (r *StudentRepository) CreateWithTx(ctx context.Context, tx *sqlx.Tx, student *models.Student) error {
	prepareStudent(student)
	if _, err := tx.NamedExecContext(ctx, studentInsert, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	prepareStudent(student)
	if _, err := r.db.NamedExecContext(ctx, studentInsert, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update rewrites every writable column of an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET nom = :nom, prenom = :prenom, naissance = :naissance,
        sexe = :sexe, nationalite = :nationalite, doc_type = :doc_type, doc_number = :doc_number,
        doc_expiration = :doc_expiration, adresse = :adresse, email = :email, tel = :tel,
        contact_nom = :contact_nom, contact_lien = :contact_lien, contact_tel = :contact_tel,
        allergies = :allergies, allergies_details = :allergies_details, pai = :pai, pai_ref = :pai_ref,
        autorisation_parentale = :autorisation_parentale, status = :status WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListByTrip returns a trip's students ordered by family name then first name
// with unnamed submissions last, newest first as tie-break.
func (r *StudentRepository) ListByTrip(ctx context.Context, tripID string) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE trip_id = $1
        ORDER BY nom NULLS LAST, prenom NULLS LAST, created_at DESC`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, tripID); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

func prepareStudent(student *models.Student) {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}
}
