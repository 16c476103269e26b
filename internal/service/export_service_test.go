package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadboard/timetable-api/internal/dto"
	"github.com/acadboard/timetable-api/internal/models"
	appErrors "github.com/acadboard/timetable-api/pkg/errors"
)

type fakeResolver struct {
	grid *dto.FacultyGridResponse
	err  error
}

func (f *fakeResolver) ResolveForFaculty(context.Context, string, time.Time) (*dto.FacultyGridResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.grid, nil
}

func resolvedGrid() *dto.FacultyGridResponse {
	return &dto.FacultyGridResponse{
		FacultyID: "fac-1",
		Grid: dto.WeeklyGrid{
			models.DayMonday: {
				1: {ID: "a-1", SubjectID: "CS101", BatchID: "batch-a", RoomID: room("r-1")},
			},
		},
		BatchIDs: []string{"batch-a"},
	}
}

func TestExportServiceFacultyGrid_CSV(t *testing.T) {
	svc := NewExportService(&fakeResolver{grid: resolvedGrid()}, 3, zap.NewNop())

	result, err := svc.FacultyGrid(context.Background(), "fac-1",
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "faculty_fac-1_2026-03-02.csv", result.Filename)

	content := string(result.Content)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	// Header plus one row per slot.
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Slot,"+models.DayMonday))
	assert.Contains(t, lines[2], "CS101 @r-1 (batch-a)")
}

func TestExportServiceFacultyGrid_PDF(t *testing.T) {
	svc := NewExportService(&fakeResolver{grid: resolvedGrid()}, 3, zap.NewNop())

	result, err := svc.FacultyGrid(context.Background(), "fac-1",
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Content, []byte("%PDF")))
}

func TestExportServiceFacultyGrid_RejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&fakeResolver{grid: resolvedGrid()}, 3, zap.NewNop())

	_, err := svc.FacultyGrid(context.Background(), "fac-1", time.Now(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
