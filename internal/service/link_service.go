package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/voyages-api/internal/models"
	appErrors "github.com/noah-isme/voyages-api/pkg/errors"
)

const tokenPrefix = "tok_"

// tokenRandomBytes yields a 14-character url-safe suffix, matching the entropy
// of the tokens already in circulation.
const tokenRandomBytes = 10

type linkRepository interface {
	Insert(ctx context.Context, link *models.Link) (bool, error)
	FindByToken(ctx context.Context, token string) (*models.Link, error)
	BindStudentWithTx(ctx context.Context, tx *sqlx.Tx, token, studentID string) error
	ResolveStatus(ctx context.Context, token string) (*string, error)
}

type linkStudentRepository interface {
	CreateWithTx(ctx context.Context, tx *sqlx.Tx, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type tripChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type statusCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// LinkOptions bounds token minting and status caching.
type LinkOptions struct {
	DefaultCount   int
	MaxCount       int
	StatusCacheTTL time.Duration
}

// LinkService owns the token lifecycle: minting, the submission workflow and
// status resolution.
type LinkService struct {
	links     linkRepository
	students  linkStudentRepository
	trips     tripChecker
	tx        txProvider
	cache     statusCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	opts      LinkOptions
}

// NewLinkService constructs the link service. cache and metrics may be nil.
func NewLinkService(links linkRepository, students linkStudentRepository, trips tripChecker, tx txProvider, cache statusCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, opts LinkOptions) *LinkService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultCount <= 0 {
		opts.DefaultCount = 5
	}
	if opts.MaxCount <= 0 {
		opts.MaxCount = 100
	}
	return &LinkService{links: links, students: students, trips: trips, tx: tx, cache: cache, metrics: metrics, validator: validate, logger: logger, opts: opts}
}

// Generate mints count tokens bound to the trip. Collisions with existing
// tokens are skipped and retried with a fresh token, so every returned
// descriptor is confirmed persisted.
func (s *LinkService) Generate(ctx context.Context, tripID string, count int) ([]models.TokenDescriptor, error) {
	if count == 0 {
		count = s.opts.DefaultCount
	}
	if count < 1 || count > s.opts.MaxCount {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("count must be between 1 and %d", s.opts.MaxCount))
	}

	exists, err := s.trips.Exists(ctx, tripID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check trip")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "trip not found")
	}

	tokens := make([]models.TokenDescriptor, 0, count)
	attempts := 0
	maxAttempts := count * 3
	for len(tokens) < count && attempts < maxAttempts {
		attempts++
		token, err := newToken()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate token")
		}
		persisted, err := s.links.Insert(ctx, &models.Link{Token: token, TripID: tripID})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist token")
		}
		if !persisted {
			s.logger.Warn("token collision, retrying", zap.String("trip_id", tripID))
			continue
		}
		tokens = append(tokens, models.TokenDescriptor{Token: token})
	}
	if len(tokens) < count {
		return nil, appErrors.Clone(appErrors.ErrInternal, "could not mint the requested number of tokens")
	}
	s.metrics.RecordTokensMinted(len(tokens))
	return tokens, nil
}

// Submit records a guardian's sparse form payload for the token. The first
// submission creates the student and binds the link in one transaction;
// later submissions merge into the bound student in place.
func (s *LinkService) Submit(ctx context.Context, token string, update models.StudentUpdate) (*models.Student, error) {
	if err := s.validator.Struct(update); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnprocessable.Code, appErrors.ErrUnprocessable.Status, "invalid email address")
	}

	link, err := s.links.FindByToken(ctx, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "token not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load token")
	}

	var student *models.Student
	outcome := "created"
	if link.StudentID != nil {
		student, err = s.updateBound(ctx, *link.StudentID, update)
		outcome = "updated"
	} else {
		student, err = s.createAndBind(ctx, link, update)
	}
	if err != nil {
		return nil, err
	}
	s.metrics.RecordSubmission(outcome)

	s.invalidateStatus(ctx, token)
	return student, nil
}

func (s *LinkService) updateBound(ctx context.Context, studentID string, update models.StudentUpdate) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	update.Apply(student)
	if err := s.students.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

func (s *LinkService) createAndBind(ctx context.Context, link *models.Link, update models.StudentUpdate) (*models.Student, error) {
	student := &models.Student{TripID: link.TripID}
	update.Apply(student)
	if student.Status == nil {
		status := models.StatusIncomplet
		student.Status = &status
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	if err := s.students.CreateWithTx(ctx, tx, student); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	if err := s.links.BindStudentWithTx(ctx, tx, link.Token, student.ID); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bind token")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit submission")
	}
	return student, nil
}

// Status resolves the completion label for a token: the bound student's
// status, or "incomplet" when nothing meaningful has been submitted yet.
func (s *LinkService) Status(ctx context.Context, token string) (*models.LinkStatus, error) {
	key := statusCacheKey(token)
	if s.cache != nil {
		start := time.Now()
		var cached models.LinkStatus
		err := s.cache.Get(ctx, key, &cached)
		s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		if err == nil {
			return &cached, nil
		}
	}

	status, err := s.links.ResolveStatus(ctx, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "token not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve status")
	}

	result := &models.LinkStatus{Status: models.StatusIncomplet}
	if status != nil && *status != "" {
		result.Status = *status
	}

	if s.cache != nil {
		start := time.Now()
		if err := s.cache.Set(ctx, key, result, s.opts.StatusCacheTTL); err != nil {
			s.logger.Warn("status cache write failed", zap.Error(err))
		}
		s.metrics.ObserveCacheWrite(time.Since(start))
	}
	return result, nil
}

func (s *LinkService) invalidateStatus(ctx context.Context, token string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statusCacheKey(token)); err != nil {
		s.logger.Warn("status cache invalidation failed", zap.Error(err))
	}
}

func statusCacheKey(token string) string {
	return "links:status:" + token
}

func newToken() (string, error) {
	buf := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return tokenPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}
