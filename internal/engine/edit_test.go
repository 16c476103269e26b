package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadboard/timetable-api/internal/models"
)

func editGrid() Grid {
	return Grid{
		{Day: models.DayMonday, Slot: 1}: assignment("x", "batch-a", "sub-1", models.DayMonday, 1, strPtr("r1"), "fac-1"),
		{Day: models.DayMonday, Slot: 3}: assignment("y", "batch-a", "sub-2", models.DayMonday, 3, strPtr("r2"), "fac-2"),
	}
}

func TestBuildEditDescriptorMoveToEmptyCell(t *testing.T) {
	d := BuildEditDescriptor(editGrid(), Gesture{SourceAssignmentID: "x", TargetDay: models.DayTuesday, TargetSlot: 0})

	assert.Equal(t, models.ChangeMove, d.Type)
	assert.Equal(t, "x", d.AssignmentID)
	require.NotNil(t, d.To)
	assert.Equal(t, models.CellRef{Day: models.DayTuesday, Slot: 0}, *d.To)
}

func TestBuildEditDescriptorSwapWithOccupant(t *testing.T) {
	d := BuildEditDescriptor(editGrid(), Gesture{SourceAssignmentID: "x", TargetDay: models.DayMonday, TargetSlot: 3})

	assert.Equal(t, models.ChangeSwap, d.Type)
	assert.Equal(t, "x", d.AssignmentID)
	assert.Equal(t, "y", d.SwapAssignmentID)
	assert.Nil(t, d.To)
}

func TestBuildEditDescriptorDropOnSourceCellIsNoop(t *testing.T) {
	d := BuildEditDescriptor(editGrid(), Gesture{SourceAssignmentID: "x", TargetDay: models.DayMonday, TargetSlot: 1})

	assert.Equal(t, models.ChangeNoop, d.Type)
	assert.Empty(t, d.AssignmentID)
}

func TestBuildEditDescriptorStaleSourceIsNoop(t *testing.T) {
	d := BuildEditDescriptor(editGrid(), Gesture{SourceAssignmentID: "ghost", TargetDay: models.DayMonday, TargetSlot: 2})

	assert.Equal(t, models.ChangeNoop, d.Type)
	assert.Contains(t, d.Reason, "ghost")
}

func TestBuildEditDescriptorTargetOutsideGridIsNoop(t *testing.T) {
	d := BuildEditDescriptor(editGrid(), Gesture{SourceAssignmentID: "x", TargetDay: "FUNDAY", TargetSlot: 0})
	assert.Equal(t, models.ChangeNoop, d.Type)

	d = BuildEditDescriptor(editGrid(), Gesture{SourceAssignmentID: "x", TargetDay: models.DayMonday, TargetSlot: -2})
	assert.Equal(t, models.ChangeNoop, d.Type)
}

func TestMoveRoundTripRestoresGrid(t *testing.T) {
	original := editGrid()

	move := BuildEditDescriptor(original, Gesture{SourceAssignmentID: "x", TargetDay: models.DayTuesday, TargetSlot: 0})
	moved := ApplyDescriptor(original, move)
	require.Nil(t, moved.At(models.DayMonday, 1))
	require.NotNil(t, moved.At(models.DayTuesday, 0))

	inverse := BuildEditDescriptor(moved, Gesture{SourceAssignmentID: "x", TargetDay: models.DayMonday, TargetSlot: 1})
	restored := ApplyDescriptor(moved, inverse)

	assert.Equal(t, original, restored)
}

func TestSwapTwiceRestoresGrid(t *testing.T) {
	original := editGrid()

	first := BuildEditDescriptor(original, Gesture{SourceAssignmentID: "x", TargetDay: models.DayMonday, TargetSlot: 3})
	swapped := ApplyDescriptor(original, first)
	assert.Equal(t, "y", swapped.At(models.DayMonday, 1).ID)
	assert.Equal(t, "x", swapped.At(models.DayMonday, 3).ID)

	second := BuildEditDescriptor(swapped, Gesture{SourceAssignmentID: "x", TargetDay: models.DayMonday, TargetSlot: 1})
	restored := ApplyDescriptor(swapped, second)

	assert.Equal(t, original, restored)
}

func TestApplyDescriptorNoopLeavesGridUntouched(t *testing.T) {
	original := editGrid()
	next := ApplyDescriptor(original, models.ChangeDescriptor{Type: models.ChangeNoop, Reason: "dropped on source cell"})
	assert.Equal(t, original, next)
}
