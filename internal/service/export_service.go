package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/dto"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/config"
	appErrors "github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/errors"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/export"
)

type reportAssembler interface {
	CompletionReport(ctx context.Context, spec models.QuerySpec) (*dto.CompletionReport, bool, error)
	ProgressReport(ctx context.Context, spec models.QuerySpec) (*dto.ProgressReport, bool, error)
	QuizReport(ctx context.Context, spec models.QuerySpec) (*dto.QuizReport, bool, error)
	EngagementReport(ctx context.Context, spec models.QuerySpec) (*dto.EngagementReport, bool, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered report download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders report rows as CSV or PDF downloads. Exports reuse
// the assembler with pagination widened to the configured row cap, so a
// download always matches what the paginated report shows for the same
// filters.
type ExportService struct {
	reports reportAssembler
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	cfg     config.ExportConfig
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(reports reportAssembler, cfg config.ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 10000
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		reports: reports,
		csv:     csv,
		pdf:     pdf,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Generate renders the report selected by spec into the requested format.
func (s *ExportService) Generate(ctx context.Context, spec models.QuerySpec, format models.ExportFormat) (*ExportResult, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report export is disabled")
	}
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	spec.Page = 1
	spec.PageSize = s.cfg.MaxRows

	dataset, title, err := s.buildDataset(ctx, spec)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportResult{
		Filename:    s.buildFilename(spec, format),
		ContentType: contentTypeFor(format),
		Payload:     payload,
	}, nil
}

func (s *ExportService) buildDataset(ctx context.Context, spec models.QuerySpec) (export.Dataset, string, error) {
	switch spec.Report {
	case models.ReportCompletion:
		report, _, err := s.reports.CompletionReport(ctx, spec)
		if err != nil {
			return export.Dataset{}, "", err
		}
		return completionDataset(report), "Completion Report", nil
	case models.ReportProgress:
		report, _, err := s.reports.ProgressReport(ctx, spec)
		if err != nil {
			return export.Dataset{}, "", err
		}
		return progressDataset(report), "Progress Report", nil
	case models.ReportQuiz:
		report, _, err := s.reports.QuizReport(ctx, spec)
		if err != nil {
			return export.Dataset{}, "", err
		}
		return quizDataset(report), "Quiz Performance Report", nil
	case models.ReportEngagement:
		report, _, err := s.reports.EngagementReport(ctx, spec)
		if err != nil {
			return export.Dataset{}, "", err
		}
		return engagementDataset(report), "Engagement Report", nil
	}
	return export.Dataset{}, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report type %q", spec.Report))
}

func (s *ExportService) buildFilename(spec models.QuerySpec, format models.ExportFormat) string {
	stamp := s.now().UTC().Format("20060102-150405")
	return fmt.Sprintf("%s-report-%s.%s", spec.Report, stamp, format)
}

func contentTypeFor(format models.ExportFormat) string {
	if format == models.ExportFormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

func completionDataset(report *dto.CompletionReport) export.Dataset {
	headers := []string{"Student", "Email", "Course", "Enrolled At", "Progress %", "Status", "Timeliness", "Completed At"}
	rows := make([]map[string]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		completedAt := ""
		if row.CompletedAt != nil {
			completedAt = row.CompletedAt.Format(time.RFC3339)
		}
		rows = append(rows, map[string]string{
			"Student":      row.Student.Username,
			"Email":        row.Student.Email,
			"Course":       row.CourseTitle,
			"Enrolled At":  row.EnrolledAt.Format(time.RFC3339),
			"Progress %":   strconv.Itoa(row.Percentage),
			"Status":       string(row.Status),
			"Timeliness":   string(row.Timeliness),
			"Completed At": completedAt,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func progressDataset(report *dto.ProgressReport) export.Dataset {
	headers := []string{"Student", "Course", "Progress %", "Chapters", "Current Section", "Last Accessed"}
	rows := make([]map[string]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		lastAccessed := ""
		if row.LastAccessedAt != nil {
			lastAccessed = row.LastAccessedAt.Format(time.RFC3339)
		}
		rows = append(rows, map[string]string{
			"Student":         row.Student.Username,
			"Course":          row.CourseTitle,
			"Progress %":      strconv.Itoa(row.Progress.Percentage),
			"Chapters":        fmt.Sprintf("%d/%d", row.Progress.CompletedChapters, row.Progress.TotalChapters),
			"Current Section": row.Progress.CurrentSectionTitle,
			"Last Accessed":   lastAccessed,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func quizDataset(report *dto.QuizReport) export.Dataset {
	headers := []string{"Student", "Quiz", "Score", "Total Points", "Percentage", "Completed At"}
	rows := make([]map[string]string, 0, len(report.RecentAttempts))
	for _, attempt := range report.RecentAttempts {
		rows = append(rows, map[string]string{
			"Student":      attempt.Student.Username,
			"Quiz":         attempt.QuizTitle,
			"Score":        strconv.FormatFloat(attempt.Score, 'f', 2, 64),
			"Total Points": strconv.FormatFloat(attempt.TotalPoints, 'f', 2, 64),
			"Percentage":   strconv.FormatFloat(attempt.Percentage, 'f', 1, 64),
			"Completed At": attempt.CompletedAt.Format(time.RFC3339),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func engagementDataset(report *dto.EngagementReport) export.Dataset {
	headers := []string{"Rank", "Student", "Courses", "Avg Completion Days"}
	rows := make([]map[string]string, 0, len(report.MostEngaged))
	for _, student := range report.MostEngaged {
		rows = append(rows, map[string]string{
			"Rank":                strconv.Itoa(student.Rank),
			"Student":             student.Student.Username,
			"Courses":             strconv.Itoa(student.CourseCount),
			"Avg Completion Days": strconv.FormatFloat(student.AvgCompletionDays, 'f', 1, 64),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
