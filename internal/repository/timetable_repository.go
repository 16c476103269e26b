package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/acadboard/timetable-api/internal/models"
)

const assignmentColumns = "id, timetable_id, batch_id, subject_id, faculty_ids, room_id, day_of_week, time_slot, created_at, updated_at"

// TimetableRepository provides persistence for generated timetables and
// their assignment rows.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new timetable repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// List returns timetable headers (without assignments) with pagination.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.GeneratedTimetable, int, error) {
	base := "FROM generated_timetables WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.BatchID != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(batch_ids)", len(args)+1))
		args = append(args, filter.BatchID)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	query := "SELECT id, name, batch_ids, status, feedback, created_at, updated_at " + base +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, size, (page-1)*size)

	var timetables []models.GeneratedTimetable
	if err := r.db.SelectContext(ctx, &timetables, query, args...); err != nil {
		return nil, 0, err
	}
	return timetables, total, nil
}

// FindByID loads one timetable together with its assignments.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.GeneratedTimetable, error) {
	var t models.GeneratedTimetable
	err := r.db.GetContext(ctx, &t,
		"SELECT id, name, batch_ids, status, feedback, created_at, updated_at FROM generated_timetables WHERE id = $1", id)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &t.Assignments,
		"SELECT "+assignmentColumns+" FROM timetable_assignments WHERE timetable_id = $1 ORDER BY day_of_week ASC, time_slot ASC", id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListApproved loads every approved timetable with assignments, the snapshot
// consumed by faculty projection and substitution resolution.
func (r *TimetableRepository) ListApproved(ctx context.Context) ([]models.GeneratedTimetable, error) {
	var timetables []models.GeneratedTimetable
	err := r.db.SelectContext(ctx, &timetables,
		"SELECT id, name, batch_ids, status, feedback, created_at, updated_at FROM generated_timetables WHERE status = $1 ORDER BY created_at ASC",
		models.TimetableStatusApproved)
	if err != nil {
		return nil, err
	}
	if len(timetables) == 0 {
		return timetables, nil
	}

	ids := make([]string, len(timetables))
	index := make(map[string]int, len(timetables))
	for i, t := range timetables {
		ids[i] = t.ID
		index[t.ID] = i
	}

	var assignments []models.ClassAssignment
	err = r.db.SelectContext(ctx, &assignments,
		"SELECT "+assignmentColumns+" FROM timetable_assignments WHERE timetable_id = ANY($1) ORDER BY day_of_week ASC, time_slot ASC",
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		i := index[a.TimetableID]
		timetables[i].Assignments = append(timetables[i].Assignments, a)
	}
	return timetables, nil
}

// FindAssignmentByID loads a single assignment row.
func (r *TimetableRepository) FindAssignmentByID(ctx context.Context, id string) (*models.ClassAssignment, error) {
	var a models.ClassAssignment
	err := r.db.GetContext(ctx, &a,
		"SELECT "+assignmentColumns+" FROM timetable_assignments WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateStatus transitions a timetable's lifecycle status.
func (r *TimetableRepository) UpdateStatus(ctx context.Context, id string, status models.TimetableStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE generated_timetables SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Create persists a timetable header and its assignment rows in one
// transaction. Used when the external solver delivers a finished timetable.
func (r *TimetableRepository) Create(ctx context.Context, t *models.GeneratedTimetable) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		"INSERT INTO generated_timetables (id, name, batch_ids, status, feedback, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		t.ID, t.Name, t.BatchIDs, t.Status, t.Feedback, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range t.Assignments {
		a := &t.Assignments[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.TimetableID = t.ID
		a.CreatedAt = now
		a.UpdatedAt = now
		_, err = tx.ExecContext(ctx,
			"INSERT INTO timetable_assignments (id, timetable_id, batch_id, subject_id, faculty_ids, room_id, day_of_week, time_slot, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
			a.ID, a.TimetableID, a.BatchID, a.SubjectID, a.FacultyIDs, a.RoomID, a.Day, a.Slot, a.CreatedAt, a.UpdatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ApplyChange commits a move or swap descriptor atomically. Noop descriptors
// return immediately. A move that no longer matches a live assignment
// affects zero rows and reports sql.ErrNoRows so the caller can degrade to a
// no-op, mirroring how stale drag gestures are treated upstream.
func (r *TimetableRepository) ApplyChange(ctx context.Context, timetableID string, change models.ChangeDescriptor) error {
	if change.Type == models.ChangeNoop {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()

	switch change.Type {
	case models.ChangeMove:
		if change.To == nil {
			return fmt.Errorf("move descriptor without target cell")
		}
		res, err := tx.ExecContext(ctx,
			"UPDATE timetable_assignments SET day_of_week = $1, time_slot = $2, updated_at = $3 WHERE id = $4 AND timetable_id = $5",
			change.To.Day, change.To.Slot, now, change.AssignmentID, timetableID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return sql.ErrNoRows
		}
	case models.ChangeSwap:
		var a, b models.ClassAssignment
		if err := tx.GetContext(ctx, &a,
			"SELECT "+assignmentColumns+" FROM timetable_assignments WHERE id = $1 AND timetable_id = $2 FOR UPDATE",
			change.AssignmentID, timetableID); err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &b,
			"SELECT "+assignmentColumns+" FROM timetable_assignments WHERE id = $1 AND timetable_id = $2 FOR UPDATE",
			change.SwapAssignmentID, timetableID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE timetable_assignments SET day_of_week = $1, time_slot = $2, updated_at = $3 WHERE id = $4",
			b.Day, b.Slot, now, a.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE timetable_assignments SET day_of_week = $1, time_slot = $2, updated_at = $3 WHERE id = $4",
			a.Day, a.Slot, now, b.ID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported change type %q", change.Type)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE generated_timetables SET updated_at = $1 WHERE id = $2", now, timetableID); err != nil {
		return err
	}

	return tx.Commit()
}
