package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/acadboard/timetable-api/internal/dto"
	"github.com/acadboard/timetable-api/internal/models"
	"github.com/acadboard/timetable-api/internal/service"
	appErrors "github.com/acadboard/timetable-api/pkg/errors"
	"github.com/acadboard/timetable-api/pkg/response"
)

// SubstitutionHandler manages substitution record endpoints.
type SubstitutionHandler struct {
	service *service.SubstitutionService
}

// NewSubstitutionHandler constructs handler.
func NewSubstitutionHandler(svc *service.SubstitutionService) *SubstitutionHandler {
	return &SubstitutionHandler{service: svc}
}

// List godoc
// @Summary List substitutions
// @Tags Substitutions
// @Produce json
// @Param facultyId query string false "Filter by original or substitute faculty"
// @Param batchId query string false "Filter by batch"
// @Param activeOn query string false "Only windows containing this date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /substitutions [get]
func (h *SubstitutionHandler) List(c *gin.Context) {
	var filter models.SubstitutionFilter
	filter.FacultyID = c.Query("facultyId")
	filter.BatchID = c.Query("batchId")
	if raw := c.Query("activeOn"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "activeOn must be YYYY-MM-DD"))
			return
		}
		filter.ActiveOn = &date
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	subs, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs, pagination)
}

// Create godoc
// @Summary Create substitution
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubstitutionRequest true "Substitution payload"
// @Success 201 {object} response.Envelope
// @Router /substitutions [post]
func (h *SubstitutionHandler) Create(c *gin.Context) {
	var req dto.CreateSubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sub, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}

// Delete godoc
// @Summary Expire substitution
// @Tags Substitutions
// @Produce json
// @Param id path string true "Substitution ID"
// @Success 204
// @Router /substitutions/{id} [delete]
func (h *SubstitutionHandler) Delete(c *gin.Context) {
	if err := h.service.Expire(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
