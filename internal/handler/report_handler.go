package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/middleware"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/service"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/config"
	appErrors "github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/errors"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/response"
)

// ReportHandler exposes the report endpoints.
type ReportHandler struct {
	reports *service.ReportService
	cfg     config.AnalyticsConfig
	now     func() time.Time
}

// NewReportHandler constructs the report handler.
func NewReportHandler(reports *service.ReportService, cfg config.AnalyticsConfig) *ReportHandler {
	return &ReportHandler{reports: reports, cfg: cfg, now: time.Now}
}

// Completion godoc
// @Summary Completion report
// @Description Cohort completion summary with classified per-enrollment rows
// @Tags Reports
// @Produce json
// @Param date_from query string false "Range start (RFC3339 or YYYY-MM-DD)"
// @Param date_to query string false "Range end (RFC3339 or YYYY-MM-DD)"
// @Param course_id query string false "Course filter"
// @Param student_id query string false "Student filter"
// @Param search query string false "Username, email or course title search"
// @Param sort query string false "Sort key"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reports/completion [get]
func (h *ReportHandler) Completion(c *gin.Context) {
	spec, err := h.querySpec(c, models.ReportCompletion)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	report, cacheHit, err := h.reports.CompletionReport(c.Request.Context(), spec)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, report, &report.Pagination, cacheHit, start)
}

// Progress godoc
// @Summary Progress report
// @Description Per-enrollment current position and chapter progress
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/progress [get]
func (h *ReportHandler) Progress(c *gin.Context) {
	spec, err := h.querySpec(c, models.ReportProgress)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	report, cacheHit, err := h.reports.ProgressReport(c.Request.Context(), spec)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, report, &report.Pagination, cacheHit, start)
}

// StudentCourseProgress godoc
// @Summary Single enrollment progress
// @Description Current section and chapter counts for one student in one course
// @Tags Reports
// @Produce json
// @Param student_id path string true "Student id"
// @Param course_id path string true "Course id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/progress/students/{student_id}/courses/{course_id} [get]
func (h *ReportHandler) StudentCourseProgress(c *gin.Context) {
	studentID := c.Param("student_id")
	courseID := c.Param("course_id")
	progress, err := h.reports.StudentCourseProgress(c.Request.Context(), studentID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil, middleware.ExtractMeta(c))
}

// Quiz godoc
// @Summary Quiz performance report
// @Description Attempt aggregates, top performers, per-quiz difficulty and recent attempts
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/quiz [get]
func (h *ReportHandler) Quiz(c *gin.Context) {
	spec, err := h.querySpec(c, models.ReportQuiz)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	report, cacheHit, err := h.reports.QuizReport(c.Request.Context(), spec)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, report, &report.Pagination, cacheHit, start)
}

// Engagement godoc
// @Summary Engagement report
// @Description Cohort engagement figures with most-engaged ranking
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/engagement [get]
func (h *ReportHandler) Engagement(c *gin.Context) {
	spec, err := h.querySpec(c, models.ReportEngagement)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	report, cacheHit, err := h.reports.EngagementReport(c.Request.Context(), spec)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, report, &report.Pagination, cacheHit, start)
}

func (h *ReportHandler) respond(c *gin.Context, data interface{}, pagination *models.PageInfo, cacheHit bool, start time.Time) {
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, data, pagination, meta)
}

func (h *ReportHandler) querySpec(c *gin.Context, report models.ReportType) (models.QuerySpec, error) {
	raw, err := parseReportFilter(c)
	if err != nil {
		return models.QuerySpec{}, err
	}
	return service.NormalizeFilters(raw, report, h.cfg, h.now())
}

func parseReportFilter(c *gin.Context) (models.ReportFilter, error) {
	var filter models.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		return models.ReportFilter{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report filters")
	}
	if raw := c.Query("date_from"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return models.ReportFilter{}, appErrors.Clone(appErrors.ErrValidation, "invalid date_from")
		}
		filter.DateFrom = &parsed
	}
	if raw := c.Query("date_to"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return models.ReportFilter{}, appErrors.Clone(appErrors.ErrValidation, "invalid date_to")
		}
		filter.DateTo = &parsed
	}
	return filter, nil
}

// parseDate accepts RFC3339 timestamps or bare dates. A bare date means the
// start of that day in UTC.
func parseDate(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}
