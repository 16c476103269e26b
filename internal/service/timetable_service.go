package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/acadboard/timetable-api/internal/dto"
	"github.com/acadboard/timetable-api/internal/models"
	appErrors "github.com/acadboard/timetable-api/pkg/errors"
)

type timetableStore interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.GeneratedTimetable, int, error)
	FindByID(ctx context.Context, id string) (*models.GeneratedTimetable, error)
	UpdateStatus(ctx context.Context, id string, status models.TimetableStatus) error
	Create(ctx context.Context, t *models.GeneratedTimetable) error
}

// TimetableService manages the timetable lifecycle: ingesting finished
// schedules from the solver and moving them through DRAFT, APPROVED and
// ARCHIVED.
type TimetableService struct {
	repo        timetableStore
	cache       *CacheService
	validator   *validator.Validate
	slotsPerDay int
	logger      *zap.Logger
}

// NewTimetableService instantiates TimetableService.
func NewTimetableService(repo timetableStore, cache *CacheService, validate *validator.Validate, slotsPerDay int, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if slotsPerDay <= 0 {
		slotsPerDay = 8
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, cache: cache, validator: validate, slotsPerDay: slotsPerDay, logger: logger}
}

// List returns timetable headers with pagination metadata.
func (s *TimetableService) List(ctx context.Context, filter models.TimetableFilter) ([]models.GeneratedTimetable, *models.Pagination, error) {
	timetables, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return timetables, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads one timetable with its assignments.
func (s *TimetableService) Get(ctx context.Context, id string) (*models.GeneratedTimetable, error) {
	timetable, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return timetable, nil
}

// Create ingests a finished timetable as a draft. Batch coverage is derived
// from the assignments rather than trusted from the payload.
func (s *TimetableService) Create(ctx context.Context, req dto.CreateTimetableRequest) (*models.GeneratedTimetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	batchSet := make(map[string]struct{})
	assignments := make([]models.ClassAssignment, 0, len(req.Assignments))
	for i, in := range req.Assignments {
		if models.DayIndex(in.Day) < 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("assignment %d: unknown day %q", i, in.Day))
		}
		if in.Slot >= s.slotsPerDay {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("assignment %d: slot %d exceeds %d slots per day", i, in.Slot, s.slotsPerDay))
		}
		batchSet[in.BatchID] = struct{}{}
		assignments = append(assignments, models.ClassAssignment{
			BatchID:    in.BatchID,
			SubjectID:  in.SubjectID,
			FacultyIDs: pq.StringArray(in.FacultyIDs),
			RoomID:     in.RoomID,
			Day:        in.Day,
			Slot:       in.Slot,
		})
	}

	batchIDs := make([]string, 0, len(batchSet))
	for id := range batchSet {
		batchIDs = append(batchIDs, id)
	}
	sort.Strings(batchIDs)

	timetable := &models.GeneratedTimetable{
		Name:        req.Name,
		BatchIDs:    pq.StringArray(batchIDs),
		Status:      models.TimetableStatusDraft,
		Assignments: assignments,
	}
	if err := s.repo.Create(ctx, timetable); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable")
	}
	s.logger.Info("timetable ingested",
		zap.String("timetable_id", timetable.ID),
		zap.Int("assignments", len(assignments)),
		zap.Int("batches", len(batchIDs)))
	return timetable, nil
}

// UpdateStatus moves a timetable along its lifecycle. Only forward
// transitions are legal; archived timetables never come back.
func (s *TimetableService) UpdateStatus(ctx context.Context, id string, req dto.UpdateTimetableStatusRequest) (*models.GeneratedTimetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	target := models.TimetableStatus(req.Status)

	timetable, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validTransition(timetable.Status, target) {
		return nil, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("cannot transition timetable from %s to %s", timetable.Status, target))
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable status")
	}

	// Approval changes what faculty projections see; drop every cached grid.
	s.cache.Invalidate(ctx, "grid:*")
	s.logger.Info("timetable status changed",
		zap.String("timetable_id", id),
		zap.String("from", string(timetable.Status)),
		zap.String("to", string(target)))

	timetable.Status = target
	return timetable, nil
}

func validTransition(from, to models.TimetableStatus) bool {
	switch from {
	case models.TimetableStatusDraft:
		return to == models.TimetableStatusApproved
	case models.TimetableStatusApproved:
		return to == models.TimetableStatusArchived
	default:
		return false
	}
}
