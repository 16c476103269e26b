package models

// ChangeType discriminates edit descriptor variants.
type ChangeType string

const (
	ChangeMove ChangeType = "move"
	ChangeSwap ChangeType = "swap"
	ChangeNoop ChangeType = "noop"
)

// CellRef addresses one cell of a weekly grid.
type CellRef struct {
	Day  string `json:"day_of_week"`
	Slot int    `json:"time_slot"`
}

// ChangeDescriptor is the validated intent produced from a drag gesture.
// For a move, AssignmentID relocates to To. For a swap, AssignmentID and
// SwapAssignmentID exchange cells. A noop carries the reason the gesture
// was discarded; noops are never persisted.
type ChangeDescriptor struct {
	Type             ChangeType `json:"type"`
	AssignmentID     string     `json:"assignment_id,omitempty"`
	SwapAssignmentID string     `json:"swap_assignment_id,omitempty"`
	To               *CellRef   `json:"to,omitempty"`
	Reason           string     `json:"reason,omitempty"`
}
