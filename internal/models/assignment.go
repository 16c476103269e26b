package models

import (
	"time"

	"github.com/lib/pq"
)

// ClassAssignment is one scheduled class occurrence inside a generated
// timetable. RoomID stays nil until a room has been allocated.
type ClassAssignment struct {
	ID          string         `db:"id" json:"id"`
	TimetableID string         `db:"timetable_id" json:"timetable_id"`
	BatchID     string         `db:"batch_id" json:"batch_id"`
	SubjectID   string         `db:"subject_id" json:"subject_id"`
	FacultyIDs  pq.StringArray `db:"faculty_ids" json:"faculty_ids"`
	RoomID      *string        `db:"room_id" json:"room_id,omitempty"`
	Day         string         `db:"day_of_week" json:"day_of_week"`
	Slot        int            `db:"time_slot" json:"time_slot"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// HasFaculty reports whether the assignment involves the given faculty member.
func (a *ClassAssignment) HasFaculty(facultyID string) bool {
	for _, id := range a.FacultyIDs {
		if id == facultyID {
			return true
		}
	}
	return false
}

// AssignmentFilter describes query params for listing assignments.
type AssignmentFilter struct {
	TimetableID string
	BatchID     string
	FacultyID   string
	Day         string
	Page        int
	PageSize    int
}
