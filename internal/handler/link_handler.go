package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/voyages-api/internal/models"
	appErrors "github.com/noah-isme/voyages-api/pkg/errors"
	"github.com/noah-isme/voyages-api/pkg/response"
)

type linkService interface {
	Generate(ctx context.Context, tripID string, count int) ([]models.TokenDescriptor, error)
	Submit(ctx context.Context, token string, update models.StudentUpdate) (*models.Student, error)
	Status(ctx context.Context, token string) (*models.LinkStatus, error)
}

type documentService interface {
	Upload(ctx context.Context, token, filename string, data []byte) (*models.DocumentReceipt, error)
	Extract(ctx context.Context, token string) (*models.OCRFields, error)
}

// LinkHandler exposes the guardian-facing token endpoints plus token minting.
type LinkHandler struct {
	links         linkService
	documents     documentService
	maxUploadSize int64
}

// NewLinkHandler constructs LinkHandler.
func NewLinkHandler(links linkService, documents documentService, maxUploadSize int64) *LinkHandler {
	return &LinkHandler{links: links, documents: documents, maxUploadSize: maxUploadSize}
}

// Generate godoc
// @Summary Mint access tokens for a trip
// @Tags Links
// @Produce json
// @Param id path string true "Trip ID"
// @Param count query int false "Number of tokens (default 5)"
// @Success 201 {object} response.Envelope
// @Router /trips/{id}/links [post]
func (h *LinkHandler) Generate(c *gin.Context) {
	count := 0
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "count must be an integer"))
			return
		}
		count = parsed
	}
	tokens, err := h.links.Generate(c.Request.Context(), c.Param("id"), count)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tokens)
}

// Submit godoc
// @Summary Submit or update a student form through a token
// @Tags Links
// @Accept json
// @Produce json
// @Param token path string true "Access token"
// @Param payload body models.StudentUpdate true "Sparse student fields"
// @Success 200 {object} response.Envelope
// @Router /links/{token}/submit [post]
func (h *LinkHandler) Submit(c *gin.Context) {
	var update models.StudentUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.links.Submit(c.Request.Context(), c.Param("token"), update)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Status godoc
// @Summary Resolve the completion status of a token
// @Tags Links
// @Produce json
// @Param token path string true "Access token"
// @Success 200 {object} response.Envelope
// @Router /links/{token}/status [get]
func (h *LinkHandler) Status(c *gin.Context) {
	status, err := h.links.Status(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Upload godoc
// @Summary Upload an identity document for a token
// @Tags Links
// @Accept multipart/form-data
// @Produce json
// @Param token path string true "Access token"
// @Param file formData file true "Document"
// @Success 200 {object} response.Envelope
// @Router /links/{token}/upload [post]
func (h *LinkHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the maximum allowed size"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close() //nolint:errcheck
	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	receipt, err := h.documents.Upload(c.Request.Context(), c.Param("token"), fileHeader.Filename, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, receipt, nil)
}

// OCR godoc
// @Summary Run placeholder OCR extraction for a token
// @Tags Links
// @Produce json
// @Param token path string true "Access token"
// @Success 200 {object} response.Envelope
// @Router /links/{token}/ocr [post]
func (h *LinkHandler) OCR(c *gin.Context) {
	fields, err := h.documents.Extract(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fields, nil)
}
