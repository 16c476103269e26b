package engine

import (
	"fmt"

	"github.com/acadboard/timetable-api/internal/models"
)

// Gesture is the explicit form of a drag-and-drop edit: the assignment the
// scheduler picked up and the cell it was dropped on. Modelling the drag as
// data instead of UI state keeps the decision logic independent of any
// event-handling mechanism.
type Gesture struct {
	SourceAssignmentID string `json:"source_assignment_id"`
	TargetDay          string `json:"target_day"`
	TargetSlot         int    `json:"target_slot"`
}

// BuildEditDescriptor interprets a drop against the current grid and emits
// the change to commit. Illegal gestures degrade to a noop descriptor, never
// an error: a drag racing a concurrent remote update is expected, and a drop
// onto a conflicting cell stays a valid user action — conflicts are surfaced
// after commit by the detector, where they remain visible and undoable.
func BuildEditDescriptor(grid Grid, gesture Gesture) models.ChangeDescriptor {
	sourceCell, source := grid.FindByID(gesture.SourceAssignmentID)
	if source == nil {
		return models.ChangeDescriptor{
			Type:   models.ChangeNoop,
			Reason: fmt.Sprintf("assignment %s no longer present in grid", gesture.SourceAssignmentID),
		}
	}

	if models.DayIndex(gesture.TargetDay) < 0 || gesture.TargetSlot < 0 {
		return models.ChangeDescriptor{
			Type:   models.ChangeNoop,
			Reason: fmt.Sprintf("target %s slot %d is outside the grid", gesture.TargetDay, gesture.TargetSlot),
		}
	}

	target := Cell{Day: gesture.TargetDay, Slot: gesture.TargetSlot}
	if target == sourceCell {
		return models.ChangeDescriptor{Type: models.ChangeNoop, Reason: "dropped on source cell"}
	}

	if occupant := grid.At(target.Day, target.Slot); occupant != nil {
		return models.ChangeDescriptor{
			Type:             models.ChangeSwap,
			AssignmentID:     source.ID,
			SwapAssignmentID: occupant.ID,
		}
	}

	return models.ChangeDescriptor{
		Type:         models.ChangeMove,
		AssignmentID: source.ID,
		To:           &models.CellRef{Day: target.Day, Slot: target.Slot},
	}
}

// ApplyDescriptor returns a copy of the grid with the descriptor applied.
// It exists so callers can preview the post-edit state (and round-trip it
// through the conflict detector) without waiting for persistence.
func ApplyDescriptor(grid Grid, d models.ChangeDescriptor) Grid {
	next := make(Grid, len(grid))
	for cell, a := range grid {
		next[cell] = a
	}

	switch d.Type {
	case models.ChangeMove:
		cell, source := next.FindByID(d.AssignmentID)
		if source == nil || d.To == nil {
			return next
		}
		delete(next, cell)
		moved := *source
		moved.Day = d.To.Day
		moved.Slot = d.To.Slot
		next[Cell{Day: moved.Day, Slot: moved.Slot}] = moved
	case models.ChangeSwap:
		cellA, a := next.FindByID(d.AssignmentID)
		cellB, b := next.FindByID(d.SwapAssignmentID)
		if a == nil || b == nil {
			return next
		}
		movedA, movedB := *a, *b
		movedA.Day, movedA.Slot = cellB.Day, cellB.Slot
		movedB.Day, movedB.Slot = cellA.Day, cellA.Slot
		next[cellB] = movedA
		next[cellA] = movedB
	}

	return next
}
