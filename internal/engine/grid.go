// Package engine implements the timetable projection and substitution
// resolution core. Every operation is a pure function over immutable
// inputs: no I/O, no shared state, identical output for identical input.
package engine

import (
	"sort"

	"github.com/acadboard/timetable-api/internal/models"
)

// Cell addresses one slot of a single-viewer weekly grid.
type Cell struct {
	Day  string
	Slot int
}

// BatchCell addresses one slot of the canonical multi-batch timetable.
type BatchCell struct {
	BatchID string
	Day     string
	Slot    int
}

// Canonical is the canonical timetable indexed by composite cell key.
// A flat keyed table keeps absence checks and iteration uniform instead
// of nesting three levels of maps.
type Canonical map[BatchCell]models.ClassAssignment

// BuildCanonical indexes a timetable's assignments by batch/day/slot.
// Assignments referencing a batch outside the timetable's declared batch
// set are still indexed; the conflict detector, not construction, is
// responsible for flagging inconsistent data.
func BuildCanonical(t models.GeneratedTimetable) Canonical {
	c := make(Canonical, len(t.Assignments))
	for _, a := range t.Assignments {
		c[BatchCell{BatchID: a.BatchID, Day: a.Day, Slot: a.Slot}] = a
	}
	return c
}

// Lookup returns the assignment occupying a canonical cell, or nil when the
// cell is empty or the key falls outside the declared batches, working days
// or slot range. It never panics for a malformed key.
func Lookup(t models.GeneratedTimetable, c Canonical, batchID, day string, slot int) *models.ClassAssignment {
	if slot < 0 || models.DayIndex(day) < 0 || !t.CoversBatch(batchID) {
		return nil
	}
	if a, ok := c[BatchCell{BatchID: batchID, Day: day, Slot: slot}]; ok {
		cp := a
		return &cp
	}
	return nil
}

// Grid is a single-viewer weekly grid (one batch or one faculty member).
// Derived, never stored; rebuilt on every projection request.
type Grid map[Cell]models.ClassAssignment

// At returns the assignment in a cell, or nil when the cell is empty.
func (g Grid) At(day string, slot int) *models.ClassAssignment {
	if a, ok := g[Cell{Day: day, Slot: slot}]; ok {
		cp := a
		return &cp
	}
	return nil
}

// FindByID scans the grid for the assignment with the given id.
func (g Grid) FindByID(id string) (Cell, *models.ClassAssignment) {
	for cell, a := range g {
		if a.ID == id {
			cp := a
			return cell, &cp
		}
	}
	return Cell{}, nil
}

// Cells returns the occupied cells ordered by working day, then slot.
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, len(g))
	for cell := range g {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		di, dj := models.DayIndex(cells[i].Day), models.DayIndex(cells[j].Day)
		if di != dj {
			return di < dj
		}
		return cells[i].Slot < cells[j].Slot
	})
	return cells
}

// Assignments returns the grid content in deterministic cell order.
func (g Grid) Assignments() []models.ClassAssignment {
	out := make([]models.ClassAssignment, 0, len(g))
	for _, cell := range g.Cells() {
		out = append(out, g[cell])
	}
	return out
}
