package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadboard/timetable-api/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func coverSubstitution(id, originalAssignmentID string) models.Substitution {
	return models.Substitution{
		ID:                   id,
		OriginalAssignmentID: originalAssignmentID,
		OriginalFacultyID:    "fac-a",
		SubstituteFacultyID:  "fac-b",
		SubstituteSubjectID:  "sub-cover",
		BatchID:              "batch-a",
		Day:                  models.DayMonday,
		Slot:                 2,
		StartDate:            date(2026, time.March, 2),
		EndDate:              date(2026, time.March, 4),
	}
}

func substitutionFixture() ([]models.GeneratedTimetable, []models.Substitution) {
	tt := approvedTimetable("tt-1", []string{"batch-a"},
		assignment("a1", "batch-a", "sub-1", models.DayMonday, 2, strPtr("r1"), "fac-a"),
		assignment("a2", "batch-a", "sub-2", models.DayWednesday, 0, strPtr("r2"), "fac-a"),
	)
	return []models.GeneratedTimetable{tt}, []models.Substitution{coverSubstitution("sx", "a1")}
}

func TestResolveHidesCoveredClassFromOriginalFaculty(t *testing.T) {
	timetables, subs := substitutionFixture()

	res, err := ResolveSubstitutions("fac-a", timetables, subs, date(2026, time.March, 3))
	require.NoError(t, err)

	assert.Nil(t, res.Grid.At(models.DayMonday, 2))
	require.NotNil(t, res.Grid.At(models.DayWednesday, 0))
	assert.Equal(t, []string{"a1"}, res.Suppressed)
	assert.Empty(t, res.Injected)
}

func TestResolveShowsCoveredClassToSubstituteFaculty(t *testing.T) {
	timetables, subs := substitutionFixture()

	res, err := ResolveSubstitutions("fac-b", timetables, subs, date(2026, time.March, 3))
	require.NoError(t, err)

	covered := res.Grid.At(models.DayMonday, 2)
	require.NotNil(t, covered)
	assert.Equal(t, "sx", covered.ID)
	assert.Equal(t, "sub-cover", covered.SubjectID)
	assert.Equal(t, []string{"fac-b"}, []string(covered.FacultyIDs))
	require.NotNil(t, covered.RoomID)
	assert.Equal(t, "r1", *covered.RoomID)
	assert.Equal(t, []string{"batch-a"}, res.BatchIDs)
}

func TestResolveOutsideWindowIsNoOp(t *testing.T) {
	timetables, subs := substitutionFixture()

	before, err := ResolveSubstitutions("fac-a", timetables, subs, date(2026, time.March, 1))
	require.NoError(t, err)
	after, err := ResolveSubstitutions("fac-a", timetables, subs, date(2026, time.March, 5))
	require.NoError(t, err)

	for _, res := range []Resolution{before, after} {
		assert.Len(t, res.Grid, 2)
		assert.Empty(t, res.Suppressed)
		assert.Empty(t, res.Injected)
		assert.Empty(t, res.Warnings)
	}

	substitute, err := ResolveSubstitutions("fac-b", timetables, subs, date(2026, time.March, 5))
	require.NoError(t, err)
	assert.Nil(t, substitute.Grid.At(models.DayMonday, 2))
}

func TestResolveWindowBoundariesInclusive(t *testing.T) {
	timetables, subs := substitutionFixture()

	for _, d := range []time.Time{date(2026, time.March, 2), date(2026, time.March, 4)} {
		res, err := ResolveSubstitutions("fac-b", timetables, subs, d)
		require.NoError(t, err)
		assert.NotNil(t, res.Grid.At(models.DayMonday, 2), "expected coverage on %s", d)
	}
}

func TestResolveSkipsDanglingSubstitution(t *testing.T) {
	timetables, _ := substitutionFixture()
	subs := []models.Substitution{coverSubstitution("sx", "ghost")}

	res, err := ResolveSubstitutions("fac-b", timetables, subs, date(2026, time.March, 3))
	require.NoError(t, err)

	assert.Nil(t, res.Grid.At(models.DayMonday, 2))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "sx", res.Warnings[0].SubstitutionID)
	assert.Contains(t, res.Warnings[0].Reason, "ghost")
}

func TestResolveKeepsCollidingAssignmentsForDetector(t *testing.T) {
	// fac-b already teaches Monday slot 2; the injected coverage collides.
	tt := approvedTimetable("tt-1", []string{"batch-a", "batch-b"},
		assignment("a1", "batch-a", "sub-1", models.DayMonday, 2, strPtr("r1"), "fac-a"),
		assignment("b1", "batch-b", "sub-9", models.DayMonday, 2, strPtr("r9"), "fac-b"),
	)
	subs := []models.Substitution{coverSubstitution("sx", "a1")}

	res, err := ResolveSubstitutions("fac-b", []models.GeneratedTimetable{tt}, subs, date(2026, time.March, 3))
	require.NoError(t, err)

	// Both occurrences stay in the flat result; the detector reports them.
	assert.Len(t, res.Assignments, 2)
	conflicts := DetectConflicts(res.Assignments, Catalog{})
	require.Len(t, conflicts["sx"], 1)
	assert.Equal(t, models.ConflictFaculty, conflicts["sx"][0].Type)
	require.Len(t, res.Warnings, 1)
}

func TestResolveIsReferentiallyTransparent(t *testing.T) {
	timetables, subs := substitutionFixture()

	first, err1 := ResolveSubstitutions("fac-b", timetables, subs, date(2026, time.March, 3))
	second, err2 := ResolveSubstitutions("fac-b", timetables, subs, date(2026, time.March, 3))
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}
