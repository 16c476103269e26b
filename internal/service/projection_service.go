package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/acadboard/timetable-api/internal/dto"
	"github.com/acadboard/timetable-api/internal/engine"
	"github.com/acadboard/timetable-api/internal/models"
	appErrors "github.com/acadboard/timetable-api/pkg/errors"
)

type timetableReader interface {
	FindByID(ctx context.Context, id string) (*models.GeneratedTimetable, error)
	ListApproved(ctx context.Context) ([]models.GeneratedTimetable, error)
}

type catalogReader interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListBatches(ctx context.Context) ([]models.Batch, error)
}

// ProjectionService derives per-viewer grids from the canonical timetables.
type ProjectionService struct {
	timetables timetableReader
	catalogs   catalogReader
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewProjectionService instantiates ProjectionService.
func NewProjectionService(timetables timetableReader, catalogs catalogReader, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *ProjectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectionService{timetables: timetables, catalogs: catalogs, cache: cache, metrics: metrics, logger: logger}
}

// BatchGrid projects the weekly grid for one batch of a timetable, with the
// conflict map for the projected cells.
func (s *ProjectionService) BatchGrid(ctx context.Context, timetableID, batchID string) (*dto.BatchGridResponse, error) {
	cacheKey := fmt.Sprintf("grid:batch:%s:%s", timetableID, batchID)
	var cached dto.BatchGridResponse
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	timetable, err := s.timetables.FindByID(ctx, timetableID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	grid := engine.ProjectBatch(*timetable, batchID)

	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.BatchGridResponse{
		TimetableID: timetableID,
		BatchID:     batchID,
		Grid:        dto.WeeklyGridFrom(grid),
		Conflicts:   engine.DetectConflicts(grid.Assignments(), catalog),
	}

	if s.metrics != nil {
		s.metrics.RecordProjection("batch")
		s.metrics.RecordConflicts(resp.Conflicts)
	}
	s.cache.Set(ctx, cacheKey, resp)
	return resp, nil
}

// FacultyView projects the raw (substitution-free) weekly grid for one
// faculty member across all approved timetables.
func (s *ProjectionService) FacultyView(ctx context.Context, facultyID string) (*dto.FacultyGridResponse, error) {
	approved, err := s.timetables.ListApproved(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load approved timetables")
	}

	view, integrityErr := engine.ProjectFaculty(approved, facultyID)

	resp := &dto.FacultyGridResponse{
		FacultyID: facultyID,
		Grid:      dto.WeeklyGridFrom(view.Grid),
		BatchIDs:  view.BatchIDs,
	}
	if integrityErr != nil {
		// Surfaced as a diagnostic on the partial result, never fatal.
		resp.Integrity = appErrors.FromError(integrityErr).Message
		s.logger.Warn("faculty projection hit corrupted canonical data",
			zap.String("faculty_id", facultyID), zap.Error(integrityErr))
	}

	if s.metrics != nil {
		s.metrics.RecordProjection("faculty")
	}
	return resp, nil
}

// Catalog assembles the room/batch lookup consumed by capacity checks.
func (s *ProjectionService) Catalog(ctx context.Context) (engine.Catalog, error) {
	rooms, err := s.catalogs.ListRooms(ctx)
	if err != nil {
		return engine.Catalog{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	batches, err := s.catalogs.ListBatches(ctx)
	if err != nil {
		return engine.Catalog{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batches")
	}

	catalog := engine.Catalog{
		Rooms:   make(map[string]models.Room, len(rooms)),
		Batches: make(map[string]models.Batch, len(batches)),
	}
	for _, r := range rooms {
		catalog.Rooms[r.ID] = r
	}
	for _, b := range batches {
		catalog.Batches[b.ID] = b
	}
	return catalog, nil
}
