package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadboard/timetable-api/internal/models"
)

const substitutionColumns = "id, original_assignment_id, original_faculty_id, substitute_faculty_id, substitute_subject_id, batch_id, day_of_week, time_slot, start_date, end_date, created_at"

// SubstitutionRepository provides persistence for substitution records.
type SubstitutionRepository struct {
	db *sqlx.DB
}

// NewSubstitutionRepository creates a new substitution repository.
func NewSubstitutionRepository(db *sqlx.DB) *SubstitutionRepository {
	return &SubstitutionRepository{db: db}
}

// List returns substitutions matching the filter with pagination.
func (r *SubstitutionRepository) List(ctx context.Context, filter models.SubstitutionFilter) ([]models.Substitution, int, error) {
	base := "FROM substitutions WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.FacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("(original_faculty_id = $%d OR substitute_faculty_id = $%d)", len(args)+1, len(args)+1))
		args = append(args, filter.FacultyID)
	}
	if filter.BatchID != "" {
		conditions = append(conditions, fmt.Sprintf("batch_id = $%d", len(args)+1))
		args = append(args, filter.BatchID)
	}
	if filter.ActiveOn != nil {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d AND end_date >= $%d", len(args)+1, len(args)+1))
		args = append(args, *filter.ActiveOn)
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
	query := "SELECT " + substitutionColumns + " " + base +
		fmt.Sprintf(" ORDER BY start_date ASC, created_at ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, size, (page-1)*size)

	var subs []models.Substitution
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// ListActiveOn returns every substitution whose window contains the date.
func (r *SubstitutionRepository) ListActiveOn(ctx context.Context, date time.Time) ([]models.Substitution, error) {
	var subs []models.Substitution
	err := r.db.SelectContext(ctx, &subs,
		"SELECT "+substitutionColumns+" FROM substitutions WHERE start_date <= $1 AND end_date >= $1 ORDER BY start_date ASC, created_at ASC",
		date)
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// FindByID loads one substitution.
func (r *SubstitutionRepository) FindByID(ctx context.Context, id string) (*models.Substitution, error) {
	var sub models.Substitution
	if err := r.db.GetContext(ctx, &sub,
		"SELECT "+substitutionColumns+" FROM substitutions WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create persists a new substitution record.
func (r *SubstitutionRepository) Create(ctx context.Context, sub *models.Substitution) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	sub.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO substitutions (id, original_assignment_id, original_faculty_id, substitute_faculty_id, substitute_subject_id, batch_id, day_of_week, time_slot, start_date, end_date, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		sub.ID, sub.OriginalAssignmentID, sub.OriginalFacultyID, sub.SubstituteFacultyID, sub.SubstituteSubjectID,
		sub.BatchID, sub.Day, sub.Slot, sub.StartDate, sub.EndDate, sub.CreatedAt)
	return err
}

// Delete removes a substitution record.
func (r *SubstitutionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM substitutions WHERE id = $1", id)
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
