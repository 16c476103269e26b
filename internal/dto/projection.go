package dto

import (
	"github.com/acadboard/timetable-api/internal/engine"
	"github.com/acadboard/timetable-api/internal/models"
)

// WeeklyGrid is the wire shape of a projected grid: day → slot → assignment.
type WeeklyGrid map[string]map[int]models.ClassAssignment

// WeeklyGridFrom flattens an engine grid into the nested wire shape.
func WeeklyGridFrom(g engine.Grid) WeeklyGrid {
	out := make(WeeklyGrid)
	for _, cell := range g.Cells() {
		if _, ok := out[cell.Day]; !ok {
			out[cell.Day] = make(map[int]models.ClassAssignment)
		}
		out[cell.Day][cell.Slot] = g[cell]
	}
	return out
}

// BatchGridResponse is the projected weekly grid for one batch.
type BatchGridResponse struct {
	TimetableID string             `json:"timetable_id"`
	BatchID     string             `json:"batch_id"`
	Grid        WeeklyGrid         `json:"grid"`
	Conflicts   models.ConflictMap `json:"conflicts,omitempty"`
}

// FacultyGridResponse is the projected weekly grid for one faculty member,
// optionally with substitutions resolved for a specific date.
type FacultyGridResponse struct {
	FacultyID  string                     `json:"faculty_id"`
	Date       string                     `json:"date,omitempty"`
	Grid       WeeklyGrid                 `json:"grid"`
	BatchIDs   []string                   `json:"batch_ids"`
	Suppressed []string                   `json:"suppressed,omitempty"`
	Warnings   []engine.ResolutionWarning `json:"warnings,omitempty"`
	Conflicts  models.ConflictMap         `json:"conflicts,omitempty"`
	// Integrity carries a data-integrity diagnostic when the canonical data
	// breaks the one-assignment-per-cell promise; the grid is then partial.
	Integrity string `json:"integrity,omitempty"`
}
