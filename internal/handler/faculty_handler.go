package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/acadboard/timetable-api/internal/service"
	appErrors "github.com/acadboard/timetable-api/pkg/errors"
	"github.com/acadboard/timetable-api/pkg/response"
)

const dateLayout = "2006-01-02"

// FacultyHandler serves per-faculty schedule views.
type FacultyHandler struct {
	projector *service.ProjectionService
	subs      *service.SubstitutionService
	exports   *service.ExportService
}

// NewFacultyHandler constructs handler.
func NewFacultyHandler(projector *service.ProjectionService, subs *service.SubstitutionService, exports *service.ExportService) *FacultyHandler {
	return &FacultyHandler{projector: projector, subs: subs, exports: exports}
}

// Grid godoc
// @Summary Project a faculty member's weekly grid
// @Description Without a date the grid reflects approved timetables only.
// @Description With ?date= active substitutions are resolved into the view.
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Param date query string false "Resolve substitutions for this date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /faculty/{id}/grid [get]
func (h *FacultyHandler) Grid(c *gin.Context) {
	facultyID := c.Param("id")
	rawDate := c.Query("date")

	if rawDate == "" {
		grid, err := h.projector.FacultyView(c.Request.Context(), facultyID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, grid, nil)
		return
	}

	evalDate, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}
	grid, err := h.subs.ResolveForFaculty(c.Request.Context(), facultyID, evalDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// ExportGrid godoc
// @Summary Export a faculty member's resolved grid
// @Tags Faculty
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Faculty ID"
// @Param date query string false "Resolve substitutions for this date (YYYY-MM-DD, defaults to today)"
// @Param format query string true "Export format (csv or pdf)"
// @Success 200 {file} binary
// @Router /faculty/{id}/grid/export [get]
func (h *FacultyHandler) ExportGrid(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}

	evalDate := time.Now().UTC()
	if rawDate := c.Query("date"); rawDate != "" {
		parsed, err := time.Parse(dateLayout, rawDate)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
			return
		}
		evalDate = parsed
	}

	result, err := h.exports.FacultyGrid(c.Request.Context(), c.Param("id"), evalDate, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
