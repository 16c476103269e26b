package models

import "time"

// Substitution is a time-bounded override: between StartDate and EndDate
// (inclusive) the substitute faculty covers one occurrence originally taught
// by the original faculty. Created and expired by external admin tooling;
// this service treats the records as read-only input during resolution.
type Substitution struct {
	ID                   string    `db:"id" json:"id"`
	OriginalAssignmentID string    `db:"original_assignment_id" json:"original_assignment_id"`
	OriginalFacultyID    string    `db:"original_faculty_id" json:"original_faculty_id"`
	SubstituteFacultyID  string    `db:"substitute_faculty_id" json:"substitute_faculty_id"`
	SubstituteSubjectID  string    `db:"substitute_subject_id" json:"substitute_subject_id"`
	BatchID              string    `db:"batch_id" json:"batch_id"`
	Day                  string    `db:"day_of_week" json:"day_of_week"`
	Slot                 int       `db:"time_slot" json:"time_slot"`
	StartDate            time.Time `db:"start_date" json:"start_date"`
	EndDate              time.Time `db:"end_date" json:"end_date"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// ActiveOn reports whether the substitution window contains the given date.
// The comparison is date-granular; time-of-day components are ignored.
func (s *Substitution) ActiveOn(date time.Time) bool {
	d := truncateToDate(date)
	return !d.Before(truncateToDate(s.StartDate)) && !d.After(truncateToDate(s.EndDate))
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SubstitutionFilter describes query params for listing substitutions.
type SubstitutionFilter struct {
	FacultyID string
	BatchID   string
	ActiveOn  *time.Time
	Page      int
	PageSize  int
}
