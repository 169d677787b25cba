package service

import (
	"strings"
	"time"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/config"
	appErrors "github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/errors"
)

// Sort keys accepted per report type. Unknown keys fall back to the default
// (first entry) instead of failing, so stale bookmarked links keep working.
var reportSortKeys = map[models.ReportType][]string{
	models.ReportCompletion: {"enrolled_at", "percentage", "username", "course"},
	models.ReportProgress:   {"percentage", "username", "course", "last_accessed"},
	models.ReportQuiz:       {"completed_at", "score", "username"},
	models.ReportEngagement: {"rank", "username", "course_count"},
}

// NormalizeFilters validates raw caller filters into the immutable QuerySpec
// every derivation component consumes. A missing date range defaults to the
// report type's rolling window; an inverted range is rejected, never swapped.
func NormalizeFilters(raw models.ReportFilter, report models.ReportType, cfg config.AnalyticsConfig, now time.Time) (models.QuerySpec, error) {
	if !report.Valid() {
		return models.QuerySpec{}, appErrors.Clone(appErrors.ErrValidation, "unknown report type")
	}

	now = now.UTC()
	window := cfg.CompletionWindow
	if report == models.ReportQuiz || report == models.ReportEngagement {
		window = cfg.EngagementWindow
	}

	dateTo := now
	if raw.DateTo != nil {
		dateTo = raw.DateTo.UTC()
	}
	dateFrom := dateTo.Add(-window)
	if raw.DateFrom != nil {
		dateFrom = raw.DateFrom.UTC()
	}
	if dateFrom.After(dateTo) {
		return models.QuerySpec{}, appErrors.ErrInvalidRange
	}

	page := raw.Page
	if page < 1 {
		page = 1
	}
	pageSize := raw.PageSize
	if pageSize < 1 {
		pageSize = cfg.DefaultPageSize
	}
	if pageSize < 1 {
		pageSize = 20
	}
	maxSize := cfg.MaxPageSize
	if maxSize < 1 {
		maxSize = 100
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}

	return models.QuerySpec{
		Report:    report,
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		CourseID:  strings.TrimSpace(raw.CourseID),
		StudentID: strings.TrimSpace(raw.StudentID),
		QuizID:    strings.TrimSpace(raw.QuizID),
		Search:    strings.TrimSpace(raw.Search),
		SortKey:   normalizeSortKey(report, raw.SortKey),
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

func normalizeSortKey(report models.ReportType, key string) string {
	allowed := reportSortKeys[report]
	key = strings.ToLower(strings.TrimSpace(key))
	for _, candidate := range allowed {
		if key == candidate {
			return key
		}
	}
	return allowed[0]
}
