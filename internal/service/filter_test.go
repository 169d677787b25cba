package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/config"
	appErrors "github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/errors"
)

func analyticsTestConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		OnTimeWindow:     30 * 24 * time.Hour,
		InactivityWindow: 14 * 24 * time.Hour,
		RecentWindow:     7 * 24 * time.Hour,
		CompletionWindow: 90 * 24 * time.Hour,
		EngagementWindow: 30 * 24 * time.Hour,
		DefaultPageSize:  20,
		MaxPageSize:      100,
	}
}

func TestNormalizeFiltersDefaults(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cfg := analyticsTestConfig()

	spec, err := NormalizeFilters(models.ReportFilter{}, models.ReportCompletion, cfg, now)
	require.NoError(t, err)

	assert.Equal(t, now, spec.DateTo)
	assert.Equal(t, now.Add(-90*24*time.Hour), spec.DateFrom)
	assert.Equal(t, 1, spec.Page)
	assert.Equal(t, 20, spec.PageSize)
	assert.Equal(t, "enrolled_at", spec.SortKey)
}

func TestNormalizeFiltersQuizUsesShorterWindow(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	spec, err := NormalizeFilters(models.ReportFilter{}, models.ReportQuiz, analyticsTestConfig(), now)
	require.NoError(t, err)

	assert.Equal(t, now.Add(-30*24*time.Hour), spec.DateFrom)
	assert.Equal(t, "completed_at", spec.SortKey)
}

func TestNormalizeFiltersInvertedRange(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	from := now
	to := now.Add(-24 * time.Hour)

	_, err := NormalizeFilters(models.ReportFilter{DateFrom: &from, DateTo: &to}, models.ReportCompletion, analyticsTestConfig(), now)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErr.Code)
}

func TestNormalizeFiltersEqualBoundsAllowed(t *testing.T) {
	instant := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	spec, err := NormalizeFilters(models.ReportFilter{DateFrom: &instant, DateTo: &instant}, models.ReportCompletion, analyticsTestConfig(), instant)
	require.NoError(t, err)
	assert.Equal(t, spec.DateFrom, spec.DateTo)
}

func TestNormalizeFiltersClampsPageSize(t *testing.T) {
	now := time.Now().UTC()
	cfg := analyticsTestConfig()

	spec, err := NormalizeFilters(models.ReportFilter{PageSize: 5000}, models.ReportCompletion, cfg, now)
	require.NoError(t, err)
	assert.Equal(t, 100, spec.PageSize)

	spec, err = NormalizeFilters(models.ReportFilter{PageSize: -3, Page: -1}, models.ReportCompletion, cfg, now)
	require.NoError(t, err)
	assert.Equal(t, 20, spec.PageSize)
	assert.Equal(t, 1, spec.Page)
}

func TestNormalizeFiltersUnknownSortKeyFallsBack(t *testing.T) {
	now := time.Now().UTC()

	spec, err := NormalizeFilters(models.ReportFilter{SortKey: "nonsense"}, models.ReportEngagement, analyticsTestConfig(), now)
	require.NoError(t, err)
	assert.Equal(t, "rank", spec.SortKey)

	spec, err = NormalizeFilters(models.ReportFilter{SortKey: " Username "}, models.ReportEngagement, analyticsTestConfig(), now)
	require.NoError(t, err)
	assert.Equal(t, "username", spec.SortKey)
}

func TestNormalizeFiltersTrimsIdentifiers(t *testing.T) {
	now := time.Now().UTC()

	spec, err := NormalizeFilters(models.ReportFilter{CourseID: " c1 ", Search: "  maths "}, models.ReportCompletion, analyticsTestConfig(), now)
	require.NoError(t, err)
	assert.Equal(t, "c1", spec.CourseID)
	assert.Equal(t, "maths", spec.Search)
}

func TestNormalizeFiltersRejectsUnknownReport(t *testing.T) {
	_, err := NormalizeFilters(models.ReportFilter{}, models.ReportType("bogus"), analyticsTestConfig(), time.Now())
	require.Error(t, err)
}
