package models

// ConflictType classifies a detected booking conflict.
type ConflictType string

const (
	ConflictRoom     ConflictType = "ROOM"
	ConflictFaculty  ConflictType = "FACULTY"
	ConflictCapacity ConflictType = "CAPACITY"
)

// ConflictEntry describes one conflict and every assignment involved in it.
type ConflictEntry struct {
	Type          ConflictType `json:"type"`
	Message       string       `json:"message"`
	AssignmentIDs []string     `json:"assignment_ids"`
}

// ConflictMap maps an assignment id to the conflicts it participates in,
// in discovery order: room, then faculty, then capacity.
type ConflictMap map[string][]ConflictEntry
