package dto

// CreateSubstitutionRequest describes payload for creating a substitution.
// Dates use YYYY-MM-DD.
type CreateSubstitutionRequest struct {
	OriginalAssignmentID string `json:"original_assignment_id" validate:"required"`
	SubstituteFacultyID  string `json:"substitute_faculty_id" validate:"required"`
	SubstituteSubjectID  string `json:"substitute_subject_id" validate:"required"`
	OriginalFacultyID    string `json:"original_faculty_id" validate:"required"`
	StartDate            string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate              string `json:"end_date" validate:"required,datetime=2006-01-02"`
}
