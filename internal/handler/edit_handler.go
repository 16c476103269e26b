package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadboard/timetable-api/internal/dto"
	"github.com/acadboard/timetable-api/internal/service"
	appErrors "github.com/acadboard/timetable-api/pkg/errors"
	"github.com/acadboard/timetable-api/pkg/response"
)

// EditHandler commits drag-and-drop edits against draft timetables.
type EditHandler struct {
	service *service.EditService
}

// NewEditHandler constructs handler.
func NewEditHandler(svc *service.EditService) *EditHandler {
	return &EditHandler{service: svc}
}

// Commit godoc
// @Summary Apply a drag-and-drop edit
// @Description Interprets the gesture against the current grid. Illegal
// @Description gestures produce an unapplied no-op descriptor, not an error.
// @Tags Edits
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.EditRequest true "Gesture payload"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/edits [post]
func (h *EditHandler) Commit(c *gin.Context) {
	var req dto.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Commit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
