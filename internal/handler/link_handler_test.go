package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/voyages-api/internal/models"
	appErrors "github.com/noah-isme/voyages-api/pkg/errors"
)

type mockLinkService struct {
	tokens     []models.TokenDescriptor
	student    *models.Student
	status     *models.LinkStatus
	genErr     error
	submitErr  error
	statusErr  error
	lastTripID string
	lastCount  int
	lastUpdate models.StudentUpdate
}

func (m *mockLinkService) Generate(ctx context.Context, tripID string, count int) ([]models.TokenDescriptor, error) {
	m.lastTripID = tripID
	m.lastCount = count
	if m.genErr != nil {
		return nil, m.genErr
	}
	return m.tokens, nil
}

func (m *mockLinkService) Submit(ctx context.Context, token string, update models.StudentUpdate) (*models.Student, error) {
	m.lastUpdate = update
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.student, nil
}

func (m *mockLinkService) Status(ctx context.Context, token string) (*models.LinkStatus, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return m.status, nil
}

type mockDocumentService struct {
	receipt      *models.DocumentReceipt
	fields       *models.OCRFields
	uploadErr    error
	extractErr   error
	lastFilename string
	lastData     []byte
}

func (m *mockDocumentService) Upload(ctx context.Context, token, filename string, data []byte) (*models.DocumentReceipt, error) {
	m.lastFilename = filename
	m.lastData = data
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return m.receipt, nil
}

func (m *mockDocumentService) Extract(ctx context.Context, token string) (*models.OCRFields, error) {
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return m.fields, nil
}

func newLinkRouter(links *mockLinkService, docs *mockDocumentService, maxUpload int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewLinkHandler(links, docs, maxUpload)
	r := gin.New()
	r.POST("/trips/:id/links", h.Generate)
	r.POST("/links/:token/submit", h.Submit)
	r.GET("/links/:token/status", h.Status)
	r.POST("/links/:token/upload", h.Upload)
	r.POST("/links/:token/ocr", h.OCR)
	return r
}

func TestLinkHandlerGenerate(t *testing.T) {
	svc := &mockLinkService{tokens: []models.TokenDescriptor{{Token: "tok_a"}, {Token: "tok_b"}}}
	router := newLinkRouter(svc, &mockDocumentService{}, 0)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trips/t1/links?count=2", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "t1", svc.lastTripID)
	assert.Equal(t, 2, svc.lastCount)

	env := decodeEnvelope(t, rec)
	var tokens []models.TokenDescriptor
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	assert.Len(t, tokens, 2)
}

func TestLinkHandlerGenerateBadCount(t *testing.T) {
	svc := &mockLinkService{}
	router := newLinkRouter(svc, &mockDocumentService{}, 0)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trips/t1/links?count=abc", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)
}

func TestLinkHandlerGenerateUnknownTrip(t *testing.T) {
	svc := &mockLinkService{genErr: appErrors.Clone(appErrors.ErrNotFound, "trip not found")}
	router := newLinkRouter(svc, &mockDocumentService{}, 0)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trips/ghost/links", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLinkHandlerSubmit(t *testing.T) {
	nom := "Martin"
	incomplet := models.StatusIncomplet
	svc := &mockLinkService{student: &models.Student{ID: "s1", TripID: "t1", Nom: &nom, Status: &incomplet}}
	router := newLinkRouter(svc, &mockDocumentService{}, 0)

	body := strings.NewReader(`{"nom":"Martin","email":"lea@example.com"}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/links/tok_abc/submit", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastUpdate.Nom)
	assert.Equal(t, "Martin", *svc.lastUpdate.Nom)
	require.NotNil(t, svc.lastUpdate.Email)
	assert.Equal(t, "lea@example.com", *svc.lastUpdate.Email)

	env := decodeEnvelope(t, rec)
	var student models.Student
	require.NoError(t, json.Unmarshal(env.Data, &student))
	assert.Equal(t, "s1", student.ID)
}

func TestLinkHandlerSubmitMalformedJSON(t *testing.T) {
	svc := &mockLinkService{}
	router := newLinkRouter(svc, &mockDocumentService{}, 0)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/links/tok_abc/submit", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLinkHandlerSubmitInvalidEmail(t *testing.T) {
	svc := &mockLinkService{submitErr: appErrors.Clone(appErrors.ErrUnprocessable, "invalid email address")}
	router := newLinkRouter(svc, &mockDocumentService{}, 0)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/links/tok_abc/submit", strings.NewReader(`{"email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrUnprocessable.Code, env.Error.Code)
}

func TestLinkHandlerStatus(t *testing.T) {
	svc := &mockLinkService{status: &models.LinkStatus{Status: "incomplet"}}
	router := newLinkRouter(svc, &mockDocumentService{}, 0)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/links/tok_abc/status", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	var status models.LinkStatus
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Equal(t, "incomplet", status.Status)
}

func TestLinkHandlerStatusUnknownToken(t *testing.T) {
	svc := &mockLinkService{statusErr: appErrors.Clone(appErrors.ErrNotFound, "token not found")}
	router := newLinkRouter(svc, &mockDocumentService{}, 0)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/links/tok_ghost/status", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestLinkHandlerUpload(t *testing.T) {
	docs := &mockDocumentService{receipt: &models.DocumentReceipt{DocumentID: "doc_10"}}
	router := newLinkRouter(&mockLinkService{}, docs, 1024)

	body, contentType := multipartBody(t, "file", "passeport.png", []byte("fake-image"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/links/tok_abc/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "passeport.png", docs.lastFilename)
	assert.Equal(t, []byte("fake-image"), docs.lastData)

	env := decodeEnvelope(t, rec)
	var receipt models.DocumentReceipt
	require.NoError(t, json.Unmarshal(env.Data, &receipt))
	assert.Equal(t, "doc_10", receipt.DocumentID)
}

func TestLinkHandlerUploadMissingFile(t *testing.T) {
	router := newLinkRouter(&mockLinkService{}, &mockDocumentService{}, 1024)

	body, contentType := multipartBody(t, "other", "x.png", []byte("x"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/links/tok_abc/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLinkHandlerUploadTooLarge(t *testing.T) {
	router := newLinkRouter(&mockLinkService{}, &mockDocumentService{}, 4)

	body, contentType := multipartBody(t, "file", "big.png", []byte("too big"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/links/tok_abc/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLinkHandlerOCR(t *testing.T) {
	docs := &mockDocumentService{fields: &models.OCRFields{Nom: "DUPONT", Prenom: "Marie"}}
	router := newLinkRouter(&mockLinkService{}, docs, 0)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/links/tok_abc/ocr", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	var fields models.OCRFields
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	assert.Equal(t, "DUPONT", fields.Nom)
	assert.Equal(t, "Marie", fields.Prenom)
}
