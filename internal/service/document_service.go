package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/voyages-api/internal/models"
	appErrors "github.com/noah-isme/voyages-api/pkg/errors"
)

type linkFinder interface {
	FindByToken(ctx context.Context, token string) (*models.Link, error)
}

type documentStore interface {
	Save(token, filename string, data []byte) (string, error)
}

// DocumentService handles guardian document intake and the OCR extraction
// stub. Both stay pluggable collaborators: storage is an interface and the
// extractor returns a fixed field set until a real backend lands.
type DocumentService struct {
	links   linkFinder
	store   documentStore
	maxSize int64
	logger  *zap.Logger
}

// NewDocumentService constructs the document service. store may be nil, in
// which case uploads are acknowledged without persisting (the original
// deployment behaviour).
func NewDocumentService(links linkFinder, store documentStore, maxSize int64, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{links: links, store: store, maxSize: maxSize, logger: logger}
}

// Upload accepts a document for a token and returns an opaque receipt. The
// document identifier keeps the historical size-derived format consumed by
// the existing frontend.
func (s *DocumentService) Upload(ctx context.Context, token, filename string, data []byte) (*models.DocumentReceipt, error) {
	if _, err := s.links.FindByToken(ctx, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "token not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load token")
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file exceeds the maximum allowed size")
	}

	if s.store != nil {
		if _, err := s.store.Save(token, filename, data); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
		}
	}

	return &models.DocumentReceipt{DocumentID: fmt.Sprintf("doc_%d", len(data))}, nil
}

// Extract runs the placeholder OCR over the token's document and returns the
// sample field set.
func (s *DocumentService) Extract(ctx context.Context, token string) (*models.OCRFields, error) {
	if _, err := s.links.FindByToken(ctx, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "token not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load token")
	}

	return &models.OCRFields{
		Nom:           "DUPONT",
		Prenom:        "Marie",
		Naissance:     "12/03/2009",
		Nationalite:   "FR",
		DocNumber:     "XX123456",
		DocExpiration: "01/05/2030",
	}, nil
}
