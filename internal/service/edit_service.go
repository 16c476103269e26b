package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acadboard/timetable-api/internal/dto"
	"github.com/acadboard/timetable-api/internal/engine"
	"github.com/acadboard/timetable-api/internal/models"
	appErrors "github.com/acadboard/timetable-api/pkg/errors"
	"github.com/acadboard/timetable-api/pkg/jobs"
)

// JobRecheckConflicts is the queue job type for post-commit conflict scans.
const JobRecheckConflicts = "recheck_conflicts"

type changeApplier interface {
	FindByID(ctx context.Context, id string) (*models.GeneratedTimetable, error)
	ApplyChange(ctx context.Context, timetableID string, change models.ChangeDescriptor) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// EditService turns drag gestures into change descriptors and commits them.
// Conflict checking deliberately happens after commit: dropping onto a
// conflicting cell is a legal edit that must stay visible and undoable.
type EditService struct {
	timetables changeApplier
	cache      *CacheService
	queue      jobEnqueuer
	validator  *validator.Validate
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewEditService instantiates EditService.
func NewEditService(
	timetables changeApplier,
	cache *CacheService,
	queue jobEnqueuer,
	validate *validator.Validate,
	metrics *MetricsService,
	logger *zap.Logger,
) *EditService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditService{
		timetables: timetables,
		cache:      cache,
		queue:      queue,
		validator:  validate,
		metrics:    metrics,
		logger:     logger,
	}
}

// Commit interprets the gesture against the current grid, applies the
// resulting descriptor and schedules a conflict re-check. Illegal gestures
// produce an unapplied noop response, never an error.
func (s *EditService) Commit(ctx context.Context, timetableID string, req dto.EditRequest) (*dto.EditResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid edit payload")
	}

	timetable, err := s.timetables.FindByID(ctx, timetableID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if timetable.Status != models.TimetableStatusDraft {
		return nil, appErrors.Clone(appErrors.ErrFinalized, "only draft timetables can be edited")
	}

	// The gesture lives inside one batch grid; find which via the source.
	var sourceBatchID string
	for _, a := range timetable.Assignments {
		if a.ID == req.SourceAssignmentID {
			sourceBatchID = a.BatchID
			break
		}
	}
	if sourceBatchID == "" {
		return &dto.EditResponse{
			Descriptor: models.ChangeDescriptor{
				Type:   models.ChangeNoop,
				Reason: "assignment no longer present in timetable",
			},
		}, nil
	}

	grid := engine.ProjectBatch(*timetable, sourceBatchID)
	descriptor := engine.BuildEditDescriptor(grid, engine.Gesture{
		SourceAssignmentID: req.SourceAssignmentID,
		TargetDay:          req.TargetDay,
		TargetSlot:         req.TargetSlot,
	})
	if descriptor.Type == models.ChangeNoop {
		return &dto.EditResponse{Descriptor: descriptor}, nil
	}

	if err := s.timetables.ApplyChange(ctx, timetableID, descriptor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The assignment vanished between projection and commit; the
			// race degrades to a no-op, same as a stale drag.
			return &dto.EditResponse{
				Descriptor: models.ChangeDescriptor{
					Type:   models.ChangeNoop,
					Reason: "assignment changed concurrently, edit discarded",
				},
			}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply edit")
	}

	s.cache.Invalidate(ctx, "grid:*")
	if s.metrics != nil {
		s.metrics.RecordEditCommit(descriptor.Type)
	}
	s.logger.Info("edit committed",
		zap.String("timetable_id", timetableID),
		zap.String("change_type", string(descriptor.Type)),
		zap.String("assignment_id", descriptor.AssignmentID))

	if s.queue != nil {
		job := jobs.Job{ID: uuid.NewString(), Type: JobRecheckConflicts, Payload: timetableID}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue conflict re-check", zap.Error(err))
		}
	}

	// Preview the post-edit conflicts for the batch so the UI can badge the
	// cells before the async re-check completes.
	preview := engine.ApplyDescriptor(grid, descriptor)
	conflicts := engine.DetectConflicts(preview.Assignments(), engine.Catalog{})

	return &dto.EditResponse{Descriptor: descriptor, Applied: true, Conflicts: conflicts}, nil
}

// RecheckHandler returns the queue handler that re-runs conflict detection
// for an edited timetable.
func RecheckHandler(conflicts *ConflictService, logger *zap.Logger) jobs.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, job jobs.Job) error {
		timetableID, ok := job.Payload.(string)
		if !ok {
			logger.Error("recheck job carried unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		_, err := conflicts.DetectForTimetable(ctx, timetableID)
		return err
	}
}
