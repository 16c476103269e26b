package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadboard/timetable-api/internal/dto"
	"github.com/acadboard/timetable-api/internal/models"
	appErrors "github.com/acadboard/timetable-api/pkg/errors"
)

type fakeSubstitutionRepo struct {
	subs      []models.Substitution
	created   *models.Substitution
	deleteErr error
}

func (f *fakeSubstitutionRepo) List(_ context.Context, filter models.SubstitutionFilter) ([]models.Substitution, int, error) {
	return f.subs, len(f.subs), nil
}

func (f *fakeSubstitutionRepo) ListActiveOn(_ context.Context, date time.Time) ([]models.Substitution, error) {
	var active []models.Substitution
	for _, s := range f.subs {
		if s.ActiveOn(date) {
			active = append(active, s)
		}
	}
	return active, nil
}

func (f *fakeSubstitutionRepo) FindByID(context.Context, string) (*models.Substitution, error) {
	if len(f.subs) == 0 {
		return nil, sql.ErrNoRows
	}
	return &f.subs[0], nil
}

func (f *fakeSubstitutionRepo) Create(_ context.Context, sub *models.Substitution) error {
	f.created = sub
	return nil
}

func (f *fakeSubstitutionRepo) Delete(context.Context, string) error {
	return f.deleteErr
}

type fakeAssignmentReader struct {
	approved   []models.GeneratedTimetable
	assignment *models.ClassAssignment
}

func (f *fakeAssignmentReader) ListApproved(context.Context) ([]models.GeneratedTimetable, error) {
	return f.approved, nil
}

func (f *fakeAssignmentReader) FindAssignmentByID(context.Context, string) (*models.ClassAssignment, error) {
	if f.assignment == nil {
		return nil, sql.ErrNoRows
	}
	return f.assignment, nil
}

func approvedFixture() []models.GeneratedTimetable {
	return []models.GeneratedTimetable{{
		ID:       "tt-1",
		BatchIDs: pq.StringArray{"batch-a"},
		Status:   models.TimetableStatusApproved,
		Assignments: []models.ClassAssignment{
			{ID: "a-1", TimetableID: "tt-1", BatchID: "batch-a", SubjectID: "CS101",
				FacultyIDs: pq.StringArray{"fac-a"}, RoomID: room("r-1"),
				Day: models.DayMonday, Slot: 1},
			{ID: "a-2", TimetableID: "tt-1", BatchID: "batch-a", SubjectID: "CS102",
				FacultyIDs: pq.StringArray{"fac-b"}, RoomID: room("r-2"),
				Day: models.DayTuesday, Slot: 2},
		},
	}}
}

func coverFixture() models.Substitution {
	return models.Substitution{
		ID:                   "sub-1",
		OriginalAssignmentID: "a-1",
		OriginalFacultyID:    "fac-a",
		SubstituteFacultyID:  "fac-b",
		SubstituteSubjectID:  "CS101",
		BatchID:              "batch-a",
		Day:                  models.DayMonday,
		Slot:                 1,
		StartDate:            time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
	}
}

func newSubstitutionService(subs *fakeSubstitutionRepo, timetables *fakeAssignmentReader) *SubstitutionService {
	cacheSvc := NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
	projector := NewProjectionService(
		&fakeTimetableRepo{approved: timetables.approved},
		&fakeCatalogRepo{}, cacheSvc, nil, zap.NewNop())
	return NewSubstitutionService(subs, timetables, projector, nil, nil, zap.NewNop())
}

func TestSubstitutionServiceResolve_SuppressesCoveredClass(t *testing.T) {
	subs := &fakeSubstitutionRepo{subs: []models.Substitution{coverFixture()}}
	timetables := &fakeAssignmentReader{approved: approvedFixture()}
	svc := newSubstitutionService(subs, timetables)

	resp, err := svc.ResolveForFaculty(context.Background(), "fac-a",
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []string{"a-1"}, resp.Suppressed)
	assert.NotContains(t, resp.Grid, models.DayMonday)
	assert.Empty(t, resp.Warnings)
}

func TestSubstitutionServiceResolve_InjectsCoverForSubstitute(t *testing.T) {
	subs := &fakeSubstitutionRepo{subs: []models.Substitution{coverFixture()}}
	timetables := &fakeAssignmentReader{approved: approvedFixture()}
	svc := newSubstitutionService(subs, timetables)

	resp, err := svc.ResolveForFaculty(context.Background(), "fac-b",
		time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Contains(t, resp.Grid, models.DayMonday)
	injected := resp.Grid[models.DayMonday][1]
	assert.Equal(t, "sub-1", injected.ID)
	assert.Equal(t, []string{"fac-b"}, []string(injected.FacultyIDs))
	// Room carries over from the original assignment.
	require.NotNil(t, injected.RoomID)
	assert.Equal(t, "r-1", *injected.RoomID)
	// The substitute's own Tuesday class is untouched.
	assert.Equal(t, "a-2", resp.Grid[models.DayTuesday][2].ID)
}

func TestSubstitutionServiceResolve_OutsideWindowIsRawProjection(t *testing.T) {
	subs := &fakeSubstitutionRepo{subs: []models.Substitution{coverFixture()}}
	timetables := &fakeAssignmentReader{approved: approvedFixture()}
	svc := newSubstitutionService(subs, timetables)

	resp, err := svc.ResolveForFaculty(context.Background(), "fac-a",
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, resp.Suppressed)
	assert.Equal(t, "a-1", resp.Grid[models.DayMonday][1].ID)
}

func TestSubstitutionServiceResolve_DanglingReferenceWarns(t *testing.T) {
	dangling := coverFixture()
	dangling.OriginalAssignmentID = "gone"
	subs := &fakeSubstitutionRepo{subs: []models.Substitution{dangling}}
	timetables := &fakeAssignmentReader{approved: approvedFixture()}
	svc := newSubstitutionService(subs, timetables)

	resp, err := svc.ResolveForFaculty(context.Background(), "fac-b",
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "sub-1", resp.Warnings[0].SubstitutionID)
	// Nothing was injected; only the substitute's own class remains.
	assert.NotContains(t, resp.Grid, models.DayMonday)
}

func TestSubstitutionServiceCreate_CopiesCellFromOriginal(t *testing.T) {
	original := approvedFixture()[0].Assignments[0]
	subs := &fakeSubstitutionRepo{}
	timetables := &fakeAssignmentReader{assignment: &original}
	svc := newSubstitutionService(subs, timetables)

	sub, err := svc.Create(context.Background(), dto.CreateSubstitutionRequest{
		OriginalAssignmentID: "a-1",
		OriginalFacultyID:    "fac-a",
		SubstituteFacultyID:  "fac-b",
		SubstituteSubjectID:  "CS101",
		StartDate:            "2026-03-02",
		EndDate:              "2026-03-04",
	})
	require.NoError(t, err)
	assert.Equal(t, "batch-a", sub.BatchID)
	assert.Equal(t, models.DayMonday, sub.Day)
	assert.Equal(t, 1, sub.Slot)
	assert.NotNil(t, subs.created)
}

func TestSubstitutionServiceCreate_RejectsMissingOriginal(t *testing.T) {
	svc := newSubstitutionService(&fakeSubstitutionRepo{}, &fakeAssignmentReader{})

	_, err := svc.Create(context.Background(), dto.CreateSubstitutionRequest{
		OriginalAssignmentID: "gone",
		OriginalFacultyID:    "fac-a",
		SubstituteFacultyID:  "fac-b",
		SubstituteSubjectID:  "CS101",
		StartDate:            "2026-03-02",
		EndDate:              "2026-03-04",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubstitutionServiceCreate_RejectsInvertedWindow(t *testing.T) {
	original := approvedFixture()[0].Assignments[0]
	svc := newSubstitutionService(&fakeSubstitutionRepo{}, &fakeAssignmentReader{assignment: &original})

	_, err := svc.Create(context.Background(), dto.CreateSubstitutionRequest{
		OriginalAssignmentID: "a-1",
		OriginalFacultyID:    "fac-a",
		SubstituteFacultyID:  "fac-b",
		SubstituteSubjectID:  "CS101",
		StartDate:            "2026-03-04",
		EndDate:              "2026-03-02",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubstitutionServiceCreate_RejectsWrongOriginalFaculty(t *testing.T) {
	original := approvedFixture()[0].Assignments[0]
	svc := newSubstitutionService(&fakeSubstitutionRepo{}, &fakeAssignmentReader{assignment: &original})

	_, err := svc.Create(context.Background(), dto.CreateSubstitutionRequest{
		OriginalAssignmentID: "a-1",
		OriginalFacultyID:    "fac-z",
		SubstituteFacultyID:  "fac-b",
		SubstituteSubjectID:  "CS101",
		StartDate:            "2026-03-02",
		EndDate:              "2026-03-04",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubstitutionServiceExpire_NotFound(t *testing.T) {
	svc := newSubstitutionService(&fakeSubstitutionRepo{deleteErr: sql.ErrNoRows}, &fakeAssignmentReader{})

	err := svc.Expire(context.Background(), "gone")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
