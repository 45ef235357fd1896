package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/voyages-api/internal/models"
)

// LinkRepository manages persistence for trip-scoped access tokens.
type LinkRepository struct {
	db *sqlx.DB
}

// NewLinkRepository constructs a LinkRepository.
func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Insert stores a freshly minted token for a trip. A token collision is not
// an error: uniqueness is enforced by the primary key and the conflicting row
// is simply skipped. The return value reports whether the row was persisted.
func (r *LinkRepository) Insert(ctx context.Context, link *models.Link) (bool, error) {
	if link.Status == "" {
		link.Status = models.LinkStatusActive
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO links (token, trip_id, status, created_at)
        VALUES (:token, :trip_id, :status, :created_at)
        ON CONFLICT (token) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, link)
	if err != nil {
		return false, fmt.Errorf("insert link: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert link result: %w", err)
	}
	return affected == 1, nil
}

// FindByToken fetches a link by its token.
func (r *LinkRepository) FindByToken(ctx context.Context, token string) (*models.Link, error) {
	const query = `SELECT token, trip_id, student_id, status, created_at FROM links WHERE token = $1`
	var link models.Link
	if err := r.db.GetContext(ctx, &link, query, token); err != nil {
		return nil, err
	}
	return &link, nil
}

// BindStudentWithTx points the link at its submitted student inside the
// caller's transaction, so the binding commits atomically with the student
// insert.
func (r *LinkRepository) BindStudentWithTx(ctx context.Context, tx *sqlx.Tx, token, studentID string) error {
	const query = `UPDATE links SET student_id = $1 WHERE token = $2`
	if _, err := tx.ExecContext(ctx, query, studentID, token); err != nil {
		return fmt.Errorf("bind link: %w", err)
	}
	return nil
}

// ResolveStatus returns the bound student's status for a token, or nil when
// the link has no student or the student has no status yet. sql.ErrNoRows
// signals an unknown token.
func (r *LinkRepository) ResolveStatus(ctx context.Context, token string) (*string, error) {
	const query = `SELECT s.status
        FROM links l
        LEFT JOIN students s ON s.id = l.student_id
        WHERE l.token = $1`
	var status *string
	if err := r.db.GetContext(ctx, &status, query, token); err != nil {
		return nil, err
	}
	return status, nil
}
