package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadboard/timetable-api/internal/models"
)

func strPtr(s string) *string { return &s }

func assignment(id, batchID, subjectID, day string, slot int, room *string, facultyIDs ...string) models.ClassAssignment {
	return models.ClassAssignment{
		ID:          id,
		TimetableID: "tt-1",
		BatchID:     batchID,
		SubjectID:   subjectID,
		FacultyIDs:  facultyIDs,
		RoomID:      room,
		Day:         day,
		Slot:        slot,
	}
}

func approvedTimetable(id string, batchIDs []string, assignments ...models.ClassAssignment) models.GeneratedTimetable {
	return models.GeneratedTimetable{
		ID:          id,
		BatchIDs:    batchIDs,
		Status:      models.TimetableStatusApproved,
		Assignments: assignments,
	}
}

func TestLookupReturnsOccupant(t *testing.T) {
	tt := approvedTimetable("tt-1", []string{"batch-a"},
		assignment("a1", "batch-a", "sub-1", models.DayMonday, 2, strPtr("r1"), "fac-1"),
	)
	canonical := BuildCanonical(tt)

	got := Lookup(tt, canonical, "batch-a", models.DayMonday, 2)
	require.NotNil(t, got)
	assert.Equal(t, "a1", got.ID)
}

func TestLookupAbsenceNeverPanics(t *testing.T) {
	tt := approvedTimetable("tt-1", []string{"batch-a"},
		assignment("a1", "batch-a", "sub-1", models.DayMonday, 2, nil, "fac-1"),
	)
	canonical := BuildCanonical(tt)

	assert.Nil(t, Lookup(tt, canonical, "batch-a", models.DayMonday, 3))
	assert.Nil(t, Lookup(tt, canonical, "batch-unknown", models.DayMonday, 2))
	assert.Nil(t, Lookup(tt, canonical, "batch-a", "FUNDAY", 2))
	assert.Nil(t, Lookup(tt, canonical, "batch-a", models.DayMonday, -1))
}

func TestGridCellsOrderedByDayThenSlot(t *testing.T) {
	grid := Grid{
		{Day: models.DayFriday, Slot: 0}:  assignment("a3", "b", "s", models.DayFriday, 0, nil, "f"),
		{Day: models.DayMonday, Slot: 4}:  assignment("a2", "b", "s", models.DayMonday, 4, nil, "f"),
		{Day: models.DayMonday, Slot: 1}:  assignment("a1", "b", "s", models.DayMonday, 1, nil, "f"),
		{Day: models.DayTuesday, Slot: 0}: assignment("a4", "b", "s", models.DayTuesday, 0, nil, "f"),
	}

	var ids []string
	for _, a := range grid.Assignments() {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"a1", "a2", "a4", "a3"}, ids)
}

func TestGridFindByID(t *testing.T) {
	grid := Grid{
		{Day: models.DayMonday, Slot: 1}: assignment("a1", "b", "s", models.DayMonday, 1, nil, "f"),
	}

	cell, found := grid.FindByID("a1")
	require.NotNil(t, found)
	assert.Equal(t, Cell{Day: models.DayMonday, Slot: 1}, cell)

	_, missing := grid.FindByID("ghost")
	assert.Nil(t, missing)
}
