package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/acadboard/timetable-api/internal/dto"
	"github.com/acadboard/timetable-api/internal/models"
	appErrors "github.com/acadboard/timetable-api/pkg/errors"
	"github.com/acadboard/timetable-api/pkg/export"
)

// Export formats supported by the faculty grid endpoint.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type facultyGridResolver interface {
	ResolveForFaculty(ctx context.Context, facultyID string, evalDate time.Time) (*dto.FacultyGridResponse, error)
}

// ExportService renders faculty grids into downloadable documents.
type ExportService struct {
	resolver    facultyGridResolver
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	slotsPerDay int
	logger      *zap.Logger
}

// NewExportService instantiates ExportService.
func NewExportService(resolver facultyGridResolver, slotsPerDay int, logger *zap.Logger) *ExportService {
	if slotsPerDay <= 0 {
		slotsPerDay = 8
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		resolver:    resolver,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		slotsPerDay: slotsPerDay,
		logger:      logger,
	}
}

// ExportResult carries the rendered document plus response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// FacultyGrid renders the faculty's effective grid for the date in the
// requested format.
func (s *ExportService) FacultyGrid(ctx context.Context, facultyID string, evalDate time.Time, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	grid, err := s.resolver.ResolveForFaculty(ctx, facultyID, evalDate)
	if err != nil {
		return nil, err
	}
	dataset := s.dataset(grid)

	date := evalDate.Format(dateLayout)
	switch format {
	case FormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("faculty_%s_%s.csv", facultyID, date),
		}, nil
	default:
		title := fmt.Sprintf("Faculty schedule %s (%s)", facultyID, date)
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("faculty_%s_%s.pdf", facultyID, date),
		}, nil
	}
}

// dataset flattens the weekly grid into slot rows with one column per
// working day.
func (s *ExportService) dataset(grid *dto.FacultyGridResponse) export.Dataset {
	headers := make([]string, 0, len(models.WorkingDays)+1)
	headers = append(headers, "Slot")
	headers = append(headers, models.WorkingDays...)

	rows := make([]map[string]string, 0, s.slotsPerDay)
	for slot := 0; slot < s.slotsPerDay; slot++ {
		row := map[string]string{"Slot": fmt.Sprintf("Slot %d", slot+1)}
		for _, day := range models.WorkingDays {
			if daily, ok := grid.Grid[day]; ok {
				if a, ok := daily[slot]; ok {
					row[day] = cellText(a)
				}
			}
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func cellText(a models.ClassAssignment) string {
	text := a.SubjectID
	if a.RoomID != nil && *a.RoomID != "" {
		text += " @" + *a.RoomID
	}
	if a.BatchID != "" {
		text += fmt.Sprintf(" (%s)", a.BatchID)
	}
	return text
}
