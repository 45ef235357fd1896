package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/voyages-api/internal/models"
	"github.com/noah-isme/voyages-api/internal/service"
	"github.com/noah-isme/voyages-api/pkg/response"
)

type tripService interface {
	Create(ctx context.Context, req service.CreateTripRequest) (*models.Trip, error)
	List(ctx context.Context) ([]models.Trip, error)
	ListStudents(ctx context.Context, tripID string) ([]models.Student, error)
	ExportStudents(ctx context.Context, tripID, format string) (*service.RosterExport, error)
}

// TripHandler exposes administrator trip endpoints.
type TripHandler struct {
	trips tripService
}

// NewTripHandler constructs TripHandler.
func NewTripHandler(trips tripService) *TripHandler {
	return &TripHandler{trips: trips}
}

// Create godoc
// @Summary Create trip
// @Tags Trips
// @Produce json
// @Param name query string true "Trip name"
// @Param classe query string true "Class label"
// @Success 201 {object} response.Envelope
// @Router /trips [post]
func (h *TripHandler) Create(c *gin.Context) {
	req := service.CreateTripRequest{
		Name:   c.Query("name"),
		Classe: c.Query("classe"),
	}
	trip, err := h.trips.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, trip)
}

// List godoc
// @Summary List trips
// @Tags Trips
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /trips [get]
func (h *TripHandler) List(c *gin.Context) {
	trips, err := h.trips.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trips, nil)
}

// ListStudents godoc
// @Summary List a trip's submitted students
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} response.Envelope
// @Router /trips/{id}/students [get]
func (h *TripHandler) ListStudents(c *gin.Context) {
	students, err := h.trips.ListStudents(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// ExportStudents godoc
// @Summary Export a trip's roster as CSV or PDF
// @Tags Trips
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Trip ID"
// @Param format query string false "csv or pdf"
// @Success 200
// @Router /trips/{id}/students/export [get]
func (h *TripHandler) ExportStudents(c *gin.Context) {
	roster, err := h.trips.ExportStudents(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", roster.Filename))
	c.Data(http.StatusOK, roster.ContentType, roster.Content)
}
