package engine

import (
	"fmt"

	"github.com/acadboard/timetable-api/internal/models"
)

// Catalog supplies the room and batch facts needed for capacity checks.
// Either map may be nil, in which case capacity conflicts are not raised.
type Catalog struct {
	Rooms   map[string]models.Room
	Batches map[string]models.Batch
}

// DetectConflicts scans a flat set of assignments and maps each assignment
// id to the conflicts it participates in. The scan is a full rebuild on
// every call: editing is rare compared to display, and a pure function is
// trivially safe to call from concurrent request handlers.
//
// Entries attach to an assignment in discovery order: room conflicts, then
// faculty conflicts, then capacity conflicts, so test output and UI badges
// are deterministic.
func DetectConflicts(assignments []models.ClassAssignment, catalog Catalog) models.ConflictMap {
	conflicts := make(models.ConflictMap)

	type groupKey struct {
		day      string
		slot     int
		resource string
	}

	roomGroups := make(map[groupKey][]string)
	var roomOrder []groupKey
	facultyGroups := make(map[groupKey][]string)
	var facultyOrder []groupKey

	for _, a := range assignments {
		if a.RoomID != nil && *a.RoomID != "" {
			key := groupKey{day: a.Day, slot: a.Slot, resource: *a.RoomID}
			if _, seen := roomGroups[key]; !seen {
				roomOrder = append(roomOrder, key)
			}
			roomGroups[key] = append(roomGroups[key], a.ID)
		}
		for _, facultyID := range a.FacultyIDs {
			key := groupKey{day: a.Day, slot: a.Slot, resource: facultyID}
			if _, seen := facultyGroups[key]; !seen {
				facultyOrder = append(facultyOrder, key)
			}
			facultyGroups[key] = append(facultyGroups[key], a.ID)
		}
	}

	for _, key := range roomOrder {
		members := roomGroups[key]
		if len(members) < 2 {
			continue
		}
		entry := models.ConflictEntry{
			Type:          models.ConflictRoom,
			Message:       fmt.Sprintf("room %s double-booked on %s slot %d", key.resource, key.day, key.slot),
			AssignmentIDs: members,
		}
		for _, id := range members {
			conflicts[id] = append(conflicts[id], entry)
		}
	}

	for _, key := range facultyOrder {
		members := facultyGroups[key]
		if len(members) < 2 {
			continue
		}
		entry := models.ConflictEntry{
			Type:          models.ConflictFaculty,
			Message:       fmt.Sprintf("faculty %s double-booked on %s slot %d", key.resource, key.day, key.slot),
			AssignmentIDs: members,
		}
		for _, id := range members {
			conflicts[id] = append(conflicts[id], entry)
		}
	}

	if catalog.Rooms != nil && catalog.Batches != nil {
		for _, a := range assignments {
			if a.RoomID == nil || *a.RoomID == "" {
				continue
			}
			room, okRoom := catalog.Rooms[*a.RoomID]
			batch, okBatch := catalog.Batches[a.BatchID]
			if !okRoom || !okBatch {
				continue
			}
			if batch.Strength > room.Capacity {
				entry := models.ConflictEntry{
					Type: models.ConflictCapacity,
					Message: fmt.Sprintf("batch %s (%d students) exceeds capacity %d of room %s",
						a.BatchID, batch.Strength, room.Capacity, *a.RoomID),
					AssignmentIDs: []string{a.ID},
				}
				conflicts[a.ID] = append(conflicts[a.ID], entry)
			}
		}
	}

	return conflicts
}
