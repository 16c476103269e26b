package engine

import (
	"fmt"
	"sort"

	"github.com/acadboard/timetable-api/internal/models"

	appErrors "github.com/acadboard/timetable-api/pkg/errors"
)

// FacultyView is the projected weekly grid for one faculty member plus the
// set of batches they teach, used by display to label cross-batch classes.
type FacultyView struct {
	Grid     Grid
	BatchIDs []string
}

// ProjectBatch derives the weekly grid for one batch from a canonical
// timetable. A batch absent from the timetable's declared set yields an
// empty grid, not an error: a batch may legitimately have no classes.
func ProjectBatch(t models.GeneratedTimetable, batchID string) Grid {
	grid := make(Grid)
	if !t.CoversBatch(batchID) {
		return grid
	}
	for _, a := range t.Assignments {
		if a.BatchID != batchID {
			continue
		}
		grid[Cell{Day: a.Day, Slot: a.Slot}] = a
	}
	return grid
}

// ProjectFaculty scans every approved timetable for assignments involving
// the given faculty member and builds their weekly grid. The canonical
// invariant promises one assignment per faculty per cell; observing two is
// upstream data corruption, so the partial grid is returned together with a
// data-integrity error instead of silently picking a winner.
func ProjectFaculty(timetables []models.GeneratedTimetable, facultyID string) (FacultyView, error) {
	view := FacultyView{Grid: make(Grid)}
	batchSet := make(map[string]struct{})
	var integrityErr error

	for _, t := range timetables {
		if t.Status != models.TimetableStatusApproved {
			continue
		}
		for _, a := range t.Assignments {
			if !a.HasFaculty(facultyID) {
				continue
			}
			cell := Cell{Day: a.Day, Slot: a.Slot}
			if existing, ok := view.Grid[cell]; ok && existing.ID != a.ID {
				if integrityErr == nil {
					integrityErr = appErrors.Wrap(
						fmt.Errorf("assignments %s and %s share %s slot %d", existing.ID, a.ID, a.Day, a.Slot),
						appErrors.ErrDataIntegrity.Code,
						appErrors.ErrDataIntegrity.Status,
						fmt.Sprintf("faculty %s double-booked in approved timetables", facultyID),
					)
				}
				continue
			}
			view.Grid[cell] = a
			batchSet[a.BatchID] = struct{}{}
		}
	}

	view.BatchIDs = make([]string, 0, len(batchSet))
	for id := range batchSet {
		view.BatchIDs = append(view.BatchIDs, id)
	}
	sort.Strings(view.BatchIDs)

	return view, integrityErr
}
