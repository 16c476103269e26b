package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadboard/timetable-api/internal/models"

	appErrors "github.com/acadboard/timetable-api/pkg/errors"
)

func TestProjectBatchCompleteAndSound(t *testing.T) {
	tt := approvedTimetable("tt-1", []string{"batch-a", "batch-b"},
		assignment("a1", "batch-a", "sub-1", models.DayMonday, 0, strPtr("r1"), "fac-1"),
		assignment("a2", "batch-a", "sub-2", models.DayTuesday, 1, strPtr("r2"), "fac-2"),
		assignment("b1", "batch-b", "sub-3", models.DayMonday, 0, strPtr("r3"), "fac-3"),
	)

	grid := ProjectBatch(tt, "batch-a")

	// Exactly the batch-a assignments: no spurious, no missing entries.
	require.Len(t, grid, 2)
	for _, a := range grid.Assignments() {
		assert.Equal(t, "batch-a", a.BatchID)
	}
	assert.NotNil(t, grid.At(models.DayMonday, 0))
	assert.NotNil(t, grid.At(models.DayTuesday, 1))
}

func TestProjectBatchUnknownBatchYieldsEmptyGrid(t *testing.T) {
	tt := approvedTimetable("tt-1", []string{"batch-a"},
		assignment("a1", "batch-a", "sub-1", models.DayMonday, 0, nil, "fac-1"),
	)

	grid := ProjectBatch(tt, "batch-zz")
	assert.Empty(t, grid)
}

func TestProjectFacultyCollectsAcrossTimetables(t *testing.T) {
	tt1 := approvedTimetable("tt-1", []string{"batch-a"},
		assignment("a1", "batch-a", "sub-1", models.DayMonday, 0, strPtr("r1"), "fac-1"),
		assignment("a2", "batch-a", "sub-2", models.DayMonday, 1, strPtr("r1"), "fac-9"),
	)
	tt2 := approvedTimetable("tt-2", []string{"batch-b"},
		assignment("b1", "batch-b", "sub-3", models.DayWednesday, 2, strPtr("r2"), "fac-1", "fac-2"),
	)

	view, err := ProjectFaculty([]models.GeneratedTimetable{tt1, tt2}, "fac-1")
	require.NoError(t, err)

	assert.Len(t, view.Grid, 2)
	assert.Equal(t, []string{"batch-a", "batch-b"}, view.BatchIDs)
	assert.Equal(t, "a1", view.Grid.At(models.DayMonday, 0).ID)
	assert.Equal(t, "b1", view.Grid.At(models.DayWednesday, 2).ID)
}

func TestProjectFacultySkipsDraftTimetables(t *testing.T) {
	draft := models.GeneratedTimetable{
		ID:       "tt-draft",
		BatchIDs: []string{"batch-a"},
		Status:   models.TimetableStatusDraft,
		Assignments: []models.ClassAssignment{
			assignment("a1", "batch-a", "sub-1", models.DayMonday, 0, nil, "fac-1"),
		},
	}

	view, err := ProjectFaculty([]models.GeneratedTimetable{draft}, "fac-1")
	require.NoError(t, err)
	assert.Empty(t, view.Grid)
	assert.Empty(t, view.BatchIDs)
}

func TestProjectFacultySurfacesDataIntegrityViolation(t *testing.T) {
	tt1 := approvedTimetable("tt-1", []string{"batch-a"},
		assignment("a1", "batch-a", "sub-1", models.DayMonday, 0, strPtr("r1"), "fac-1"),
	)
	tt2 := approvedTimetable("tt-2", []string{"batch-b"},
		assignment("b1", "batch-b", "sub-2", models.DayMonday, 0, strPtr("r2"), "fac-1"),
	)

	view, err := ProjectFaculty([]models.GeneratedTimetable{tt1, tt2}, "fac-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDataIntegrity.Code, appErrors.FromError(err).Code)
	// Partial grid is still returned so the caller can display something.
	assert.Len(t, view.Grid, 1)
}
