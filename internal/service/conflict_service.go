package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/acadboard/timetable-api/internal/engine"
	"github.com/acadboard/timetable-api/internal/models"
	appErrors "github.com/acadboard/timetable-api/pkg/errors"
)

// ConflictService scans canonical timetables for double-bookings and
// capacity breaches.
type ConflictService struct {
	timetables timetableReader
	projector  *ProjectionService
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewConflictService instantiates ConflictService.
func NewConflictService(timetables timetableReader, projector *ProjectionService, metrics *MetricsService, logger *zap.Logger) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{timetables: timetables, projector: projector, metrics: metrics, logger: logger}
}

// DetectForTimetable runs the detector over a whole canonical timetable,
// the editor view's conflict map.
func (s *ConflictService) DetectForTimetable(ctx context.Context, timetableID string) (models.ConflictMap, error) {
	timetable, err := s.timetables.FindByID(ctx, timetableID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	catalog, err := s.projector.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	conflicts := engine.DetectConflicts(timetable.Assignments, catalog)
	if s.metrics != nil {
		s.metrics.RecordConflicts(conflicts)
	}
	if len(conflicts) > 0 {
		s.logger.Info("conflicts detected",
			zap.String("timetable_id", timetableID),
			zap.Int("assignments_affected", len(conflicts)))
	}
	return conflicts, nil
}
