package dto

// AssignmentInput is one scheduled class inside an ingested timetable.
type AssignmentInput struct {
	BatchID    string   `json:"batch_id" validate:"required"`
	SubjectID  string   `json:"subject_id" validate:"required"`
	FacultyIDs []string `json:"faculty_ids" validate:"required,min=1,dive,required"`
	RoomID     *string  `json:"room_id,omitempty"`
	Day        string   `json:"day_of_week" validate:"required"`
	Slot       int      `json:"time_slot" validate:"gte=0"`
}

// CreateTimetableRequest ingests a finished timetable from the solver.
type CreateTimetableRequest struct {
	Name        string            `json:"name" validate:"required"`
	Assignments []AssignmentInput `json:"assignments" validate:"required,min=1,dive"`
}

// UpdateTimetableStatusRequest transitions a timetable's lifecycle status.
type UpdateTimetableStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT APPROVED ARCHIVED"`
}
