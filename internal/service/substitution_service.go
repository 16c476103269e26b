package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadboard/timetable-api/internal/dto"
	"github.com/acadboard/timetable-api/internal/engine"
	"github.com/acadboard/timetable-api/internal/models"
	appErrors "github.com/acadboard/timetable-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type substitutionRepository interface {
	List(ctx context.Context, filter models.SubstitutionFilter) ([]models.Substitution, int, error)
	ListActiveOn(ctx context.Context, date time.Time) ([]models.Substitution, error)
	FindByID(ctx context.Context, id string) (*models.Substitution, error)
	Create(ctx context.Context, sub *models.Substitution) error
	Delete(ctx context.Context, id string) error
}

type assignmentReader interface {
	ListApproved(ctx context.Context) ([]models.GeneratedTimetable, error)
	FindAssignmentByID(ctx context.Context, id string) (*models.ClassAssignment, error)
}

// SubstitutionService resolves substitution overlays and manages the records.
type SubstitutionService struct {
	subs       substitutionRepository
	timetables assignmentReader
	projector  *ProjectionService
	validator  *validator.Validate
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewSubstitutionService instantiates SubstitutionService.
func NewSubstitutionService(
	subs substitutionRepository,
	timetables assignmentReader,
	projector *ProjectionService,
	validate *validator.Validate,
	metrics *MetricsService,
	logger *zap.Logger,
) *SubstitutionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubstitutionService{
		subs:       subs,
		timetables: timetables,
		projector:  projector,
		validator:  validate,
		metrics:    metrics,
		logger:     logger,
	}
}

// ResolveForFaculty computes the effective grid a faculty member teaches on
// a given date: their own classes minus those covered by someone else, plus
// the classes they cover for others.
func (s *SubstitutionService) ResolveForFaculty(ctx context.Context, facultyID string, evalDate time.Time) (*dto.FacultyGridResponse, error) {
	approved, err := s.timetables.ListApproved(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load approved timetables")
	}
	active, err := s.subs.ListActiveOn(ctx, evalDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitutions")
	}

	res, integrityErr := engine.ResolveSubstitutions(facultyID, approved, active, evalDate)

	for _, w := range res.Warnings {
		s.logger.Warn("substitution skipped during resolution",
			zap.String("substitution_id", w.SubstitutionID),
			zap.String("reason", w.Reason),
			zap.String("faculty_id", facultyID))
	}

	var conflicts models.ConflictMap
	if catalog, catErr := s.projector.Catalog(ctx); catErr == nil {
		conflicts = engine.DetectConflicts(res.Assignments, catalog)
	} else {
		// Catalogs only add capacity checks; room/faculty clashes still matter.
		conflicts = engine.DetectConflicts(res.Assignments, engine.Catalog{})
	}

	resp := &dto.FacultyGridResponse{
		FacultyID:  facultyID,
		Date:       evalDate.Format(dateLayout),
		Grid:       dto.WeeklyGridFrom(res.Grid),
		BatchIDs:   res.BatchIDs,
		Suppressed: res.Suppressed,
		Warnings:   res.Warnings,
		Conflicts:  conflicts,
	}
	if integrityErr != nil {
		resp.Integrity = appErrors.FromError(integrityErr).Message
	}

	if s.metrics != nil {
		s.metrics.RecordProjection("faculty")
		s.metrics.RecordResolutionWarnings(len(res.Warnings))
		s.metrics.RecordConflicts(conflicts)
	}
	return resp, nil
}

// List returns substitutions with pagination metadata.
func (s *SubstitutionService) List(ctx context.Context, filter models.SubstitutionFilter) ([]models.Substitution, *models.Pagination, error) {
	subs, total, err := s.subs.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list substitutions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return subs, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create validates and persists a substitution. The window must be sane and
// the referenced original assignment must exist at creation time; resolution
// still tolerates records that dangle later.
func (s *SubstitutionService) Create(ctx context.Context, req dto.CreateSubstitutionRequest) (*models.Substitution, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid substitution payload")
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD")
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}

	original, err := s.timetables.FindAssignmentByID(ctx, req.OriginalAssignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "original assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load original assignment")
	}
	if !original.HasFaculty(req.OriginalFacultyID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "original faculty does not teach the referenced assignment")
	}

	sub := &models.Substitution{
		OriginalAssignmentID: original.ID,
		OriginalFacultyID:    req.OriginalFacultyID,
		SubstituteFacultyID:  req.SubstituteFacultyID,
		SubstituteSubjectID:  req.SubstituteSubjectID,
		BatchID:              original.BatchID,
		Day:                  original.Day,
		Slot:                 original.Slot,
		StartDate:            startDate,
		EndDate:              endDate,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create substitution")
	}
	return sub, nil
}

// Expire removes a substitution record.
func (s *SubstitutionService) Expire(ctx context.Context, id string) error {
	if err := s.subs.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "substitution not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete substitution")
	}
	return nil
}
