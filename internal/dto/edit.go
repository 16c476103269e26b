package dto

import "github.com/acadboard/timetable-api/internal/models"

// EditRequest is a drag-and-drop gesture against a timetable grid.
type EditRequest struct {
	SourceAssignmentID string `json:"source_assignment_id" validate:"required"`
	TargetDay          string `json:"target_day" validate:"required"`
	TargetSlot         int    `json:"target_slot" validate:"gte=0"`
}

// EditResponse reports the descriptor built from the gesture and whether it
// was committed. Conflicts preview the post-edit state so the UI can badge
// the moved cell immediately, before the async re-check lands.
type EditResponse struct {
	Descriptor models.ChangeDescriptor `json:"descriptor"`
	Applied    bool                    `json:"applied"`
	Conflicts  models.ConflictMap      `json:"conflicts,omitempty"`
}
