package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// TimetableStatus represents lifecycle phases for generated timetables.
type TimetableStatus string

const (
	TimetableStatusDraft    TimetableStatus = "DRAFT"
	TimetableStatusApproved TimetableStatus = "APPROVED"
	TimetableStatusArchived TimetableStatus = "ARCHIVED"
)

// GeneratedTimetable is a finished multi-batch weekly schedule produced by
// the external solver. Once approved it is only changed through validated
// edit descriptors; substitutions overlay it at view time without touching
// the stored rows.
type GeneratedTimetable struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	BatchIDs  pq.StringArray  `db:"batch_ids" json:"batch_ids"`
	Status    TimetableStatus `db:"status" json:"status"`
	Feedback  types.JSONText  `db:"feedback" json:"feedback,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`

	// Assignments are loaded from timetable_assignments alongside the row.
	Assignments []ClassAssignment `db:"-" json:"assignments,omitempty"`
}

// CoversBatch reports whether the timetable declares the given batch.
func (t *GeneratedTimetable) CoversBatch(batchID string) bool {
	for _, id := range t.BatchIDs {
		if id == batchID {
			return true
		}
	}
	return false
}

// TimetableFilter describes query params for listing timetables.
type TimetableFilter struct {
	Status   TimetableStatus
	BatchID  string
	Page     int
	PageSize int
}
