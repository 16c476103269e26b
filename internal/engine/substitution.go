package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/acadboard/timetable-api/internal/models"
)

// ResolutionWarning records a substitution that could not participate in
// resolution. Warnings never abort a projection; they are reported so the
// caller can log and display them.
type ResolutionWarning struct {
	SubstitutionID string `json:"substitution_id"`
	Reason         string `json:"reason"`
}

// Resolution is the effective view for one faculty member on one date.
// Assignments is the authoritative flat result including any same-cell
// collisions, which the conflict detector surfaces; Grid is the best-effort
// cell index built from it (first occupant wins, collision recorded).
type Resolution struct {
	Grid        Grid
	Assignments []models.ClassAssignment
	BatchIDs    []string
	Suppressed  []string
	Injected    []models.ClassAssignment
	Warnings    []ResolutionWarning
}

// ResolveSubstitutions computes what viewerFacultyID actually teaches on
// evalDate. Substitutions are directional: the same record must
// simultaneously hide the occurrence from the covered faculty's grid and
// show it on the covering faculty's grid, without losing the assignment
// identity used for feedback and UI keys. Hence two passes: suppress the
// viewer's own covered originals, then inject synthetic assignments for the
// classes the viewer covers for others.
//
// A returned data-integrity error comes from the underlying faculty
// projection and accompanies a still-usable partial resolution.
func ResolveSubstitutions(
	viewerFacultyID string,
	approved []models.GeneratedTimetable,
	substitutions []models.Substitution,
	evalDate time.Time,
) (Resolution, error) {
	var res Resolution

	active := make([]models.Substitution, 0, len(substitutions))
	for _, sub := range substitutions {
		if sub.ActiveOn(evalDate) {
			active = append(active, sub)
		}
	}

	suppressed := make(map[string]struct{})
	for _, sub := range active {
		if sub.OriginalFacultyID == viewerFacultyID {
			suppressed[sub.OriginalAssignmentID] = struct{}{}
			res.Suppressed = append(res.Suppressed, sub.OriginalAssignmentID)
		}
	}

	view, integrityErr := ProjectFaculty(approved, viewerFacultyID)

	byID := make(map[string]models.ClassAssignment)
	for _, t := range approved {
		if t.Status != models.TimetableStatusApproved {
			continue
		}
		for _, a := range t.Assignments {
			byID[a.ID] = a
		}
	}

	var effective []models.ClassAssignment
	for _, cell := range view.Grid.Cells() {
		a := view.Grid[cell]
		if _, hidden := suppressed[a.ID]; hidden {
			continue
		}
		effective = append(effective, a)
	}

	for _, sub := range active {
		if sub.SubstituteFacultyID != viewerFacultyID {
			continue
		}
		original, ok := byID[sub.OriginalAssignmentID]
		if !ok {
			// Dangling reference; skip the whole substitution rather than
			// inject an assignment with an unknown room.
			res.Warnings = append(res.Warnings, ResolutionWarning{
				SubstitutionID: sub.ID,
				Reason:         fmt.Sprintf("original assignment %s not found in approved timetables", sub.OriginalAssignmentID),
			})
			continue
		}
		synthetic := models.ClassAssignment{
			ID:          sub.ID,
			TimetableID: original.TimetableID,
			BatchID:     sub.BatchID,
			SubjectID:   sub.SubstituteSubjectID,
			FacultyIDs:  []string{sub.SubstituteFacultyID},
			RoomID:      original.RoomID,
			Day:         sub.Day,
			Slot:        sub.Slot,
		}
		res.Injected = append(res.Injected, synthetic)
		effective = append(effective, synthetic)
	}

	res.Assignments = effective
	res.Grid = make(Grid, len(effective))
	batchSet := make(map[string]struct{})
	for _, a := range effective {
		batchSet[a.BatchID] = struct{}{}
		cell := Cell{Day: a.Day, Slot: a.Slot}
		if existing, ok := res.Grid[cell]; ok {
			// Both stay in Assignments; the conflict detector reports the
			// collision instead of the grid silently overwriting it.
			res.Warnings = append(res.Warnings, ResolutionWarning{
				SubstitutionID: a.ID,
				Reason:         fmt.Sprintf("collides with %s at %s slot %d", existing.ID, a.Day, a.Slot),
			})
			continue
		}
		res.Grid[cell] = a
	}

	for id := range batchSet {
		res.BatchIDs = append(res.BatchIDs, id)
	}
	sort.Strings(res.BatchIDs)

	return res, integrityErr
}
