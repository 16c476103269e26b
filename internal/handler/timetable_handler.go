package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/acadboard/timetable-api/internal/dto"
	"github.com/acadboard/timetable-api/internal/models"
	"github.com/acadboard/timetable-api/internal/service"
	appErrors "github.com/acadboard/timetable-api/pkg/errors"
	"github.com/acadboard/timetable-api/pkg/response"
)

// TimetableHandler manages timetable lifecycle and projection endpoints.
type TimetableHandler struct {
	timetables *service.TimetableService
	projector  *service.ProjectionService
	conflicts  *service.ConflictService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(timetables *service.TimetableService, projector *service.ProjectionService, conflicts *service.ConflictService) *TimetableHandler {
	return &TimetableHandler{timetables: timetables, projector: projector, conflicts: conflicts}
}

// List godoc
// @Summary List timetables
// @Tags Timetables
// @Produce json
// @Param status query string false "Filter by status (DRAFT, APPROVED, ARCHIVED)"
// @Param batchId query string false "Filter by covered batch"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var filter models.TimetableFilter
	filter.Status = models.TimetableStatus(strings.ToUpper(c.Query("status")))
	filter.BatchID = c.Query("batchId")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	timetables, pagination, err := h.timetables.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetables, pagination)
}

// Get godoc
// @Summary Get timetable with assignments
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	timetable, err := h.timetables.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetable, nil)
}

// Create godoc
// @Summary Ingest a finished timetable
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimetableRequest true "Timetable payload"
// @Success 201 {object} response.Envelope
// @Router /timetables [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req dto.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	timetable, err := h.timetables.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, timetable)
}

// UpdateStatus godoc
// @Summary Transition timetable status
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.UpdateTimetableStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/status [patch]
func (h *TimetableHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateTimetableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	timetable, err := h.timetables.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetable, nil)
}

// Conflicts godoc
// @Summary Detect conflicts in a timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/conflicts [get]
func (h *TimetableHandler) Conflicts(c *gin.Context) {
	conflicts, err := h.conflicts.DetectForTimetable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// BatchGrid godoc
// @Summary Project the weekly grid for one batch
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Param batchId path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/batches/{batchId}/grid [get]
func (h *TimetableHandler) BatchGrid(c *gin.Context) {
	grid, err := h.projector.BatchGrid(c.Request.Context(), c.Param("id"), c.Param("batchId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}
