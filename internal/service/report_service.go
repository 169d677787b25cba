package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/dto"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/config"
	appErrors "github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/errors"
)

const topPerformerLimit = 10

// CohortRepository reads aggregated enrollment rows for a cohort.
type CohortRepository interface {
	CohortRows(ctx context.Context, spec models.QuerySpec) ([]models.CohortRow, error)
	CurrentSections(ctx context.Context, spec models.QuerySpec) ([]models.CurrentSection, error)
	SectionStates(ctx context.Context, studentID, courseID string) ([]models.SectionState, error)
	ChapterCounts(ctx context.Context, studentID, courseID string) (int, int, error)
	Snapshot(ctx context.Context, studentID, courseID string) (*models.CourseProgressSnapshot, error)
}

// QuizReadRepository reads quiz attempts and metadata.
type QuizReadRepository interface {
	AttemptRows(ctx context.Context, spec models.QuerySpec) ([]models.AttemptRow, error)
	Quizzes(ctx context.Context, spec models.QuerySpec) ([]models.Quiz, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// EngagementReadRepository reads activity aggregates.
type EngagementReadRepository interface {
	ActivityRows(ctx context.Context, spec models.QuerySpec) ([]models.StudentActivityRow, error)
	RecentEnrollmentCount(ctx context.Context, from, until time.Time, courseID string) (int, error)
}

// EntityChecker verifies scoping ids before a report is assembled.
type EntityChecker interface {
	CourseExists(ctx context.Context, id string) (bool, error)
	StudentExists(ctx context.Context, id string) (bool, error)
}

// ReportService assembles the four report types from the derivation
// components. It holds no mutable state between requests: every call is
// a pure read over the store for the spec it receives, so identical specs
// against unchanged data produce identical reports.
type ReportService struct {
	cohort     CohortRepository
	quizzes    QuizReadRepository
	engagement EngagementReadRepository
	entities   EntityChecker
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        config.AnalyticsConfig
	now        func() time.Time
}

// ReportServiceParams groups constructor dependencies.
type ReportServiceParams struct {
	Cohort     CohortRepository
	Quizzes    QuizReadRepository
	Engagement EngagementReadRepository
	Entities   EntityChecker
	Cache      *CacheService
	Metrics    *MetricsService
	Logger     *zap.Logger
	Config     config.AnalyticsConfig
}

// NewReportService constructs a ReportService.
func NewReportService(params ReportServiceParams) *ReportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := params.Config
	if cfg.OnTimeWindow <= 0 {
		cfg.OnTimeWindow = 30 * 24 * time.Hour
	}
	if cfg.InactivityWindow <= 0 {
		cfg.InactivityWindow = 14 * 24 * time.Hour
	}
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = 7 * 24 * time.Hour
	}
	return &ReportService{
		cohort:     params.Cohort,
		quizzes:    params.Quizzes,
		engagement: params.Engagement,
		entities:   params.Entities,
		cache:      params.Cache,
		metrics:    params.Metrics,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// CompletionReport classifies every enrollment in the cohort and folds the
// summary counters. The boolean indicates whether the payload came from
// cache.
func (s *ReportService) CompletionReport(ctx context.Context, spec models.QuerySpec) (*dto.CompletionReport, bool, error) {
	cacheKey := reportCacheKey(spec)
	var cached dto.CompletionReport
	if hit, err := s.cacheGet(ctx, cacheKey, &cached); err != nil {
		return nil, false, err
	} else if hit {
		return &cached, true, nil
	}

	rows, err := s.loadCohort(ctx, spec)
	if err != nil {
		return nil, false, err
	}

	tally := SummarizeCompletion(rows, s.cfg.OnTimeWindow)
	reportRows := make([]dto.CompletionRow, 0, len(rows))
	for _, row := range rows {
		status, timeliness := ClassifyCompletion(row, s.cfg.OnTimeWindow)
		entry := dto.CompletionRow{
			Student:     models.StudentRef{ID: row.StudentID, Username: row.Username, Email: row.Email},
			CourseID:    row.CourseID,
			CourseTitle: row.CourseTitle,
			EnrolledAt:  row.EnrolledAt,
			Percentage:  completionPercentage(row.CompletedChapters, row.TotalChapters),
			Status:      status,
			Timeliness:  timeliness,
		}
		if status == models.StatusCompleted {
			entry.CompletedAt = row.LastCompletedAt
		}
		reportRows = append(reportRows, entry)
	}
	sortCompletionRows(reportRows, spec.SortKey)

	pageRows, pageInfo := paginateSlice(reportRows, spec.Page, spec.PageSize)
	report := &dto.CompletionReport{
		Spec: spec,
		Summary: dto.CompletionSummary{
			TotalEnrollments: tally.Total,
			CompletedCount:   tally.Completed,
			InProgressCount:  tally.InProgress,
			NotStartedCount:  tally.NotStarted,
			OnTimeCount:      tally.OnTime,
			DelayedCount:     tally.Delayed,
			AverageProgress:  tally.AverageProgress,
		},
		Rows:       pageRows,
		Pagination: pageInfo,
	}
	s.cacheSet(ctx, cacheKey, report)
	return report, false, nil
}

// ProgressReport lists per-enrollment positions. A student filter scopes the
// whole report, so a missing student is a hard error rather than an empty
// cohort.
func (s *ReportService) ProgressReport(ctx context.Context, spec models.QuerySpec) (*dto.ProgressReport, bool, error) {
	if err := s.requireStudent(ctx, spec.StudentID); err != nil {
		return nil, false, err
	}

	cacheKey := reportCacheKey(spec)
	var cached dto.ProgressReport
	if hit, err := s.cacheGet(ctx, cacheKey, &cached); err != nil {
		return nil, false, err
	} else if hit {
		return &cached, true, nil
	}

	var (
		rows     []models.CohortRow
		currents []models.CurrentSection
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		rows, err = s.loadCohort(groupCtx, spec)
		return err
	})
	group.Go(func() error {
		start := time.Now()
		var err error
		currents, err = s.cohort.CurrentSections(groupCtx, spec)
		s.observeQuery("current_sections", start)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, false, err
	}

	currentByEnrollment := make(map[string]string, len(currents))
	for _, current := range currents {
		currentByEnrollment[current.StudentID+"|"+current.CourseID] = current.SectionTitle
	}

	reportRows := make([]dto.ProgressRow, 0, len(rows))
	for _, row := range rows {
		progress := models.CourseProgress{
			StudentID:         row.StudentID,
			CourseID:          row.CourseID,
			Percentage:        completionPercentage(row.CompletedChapters, row.TotalChapters),
			CompletedChapters: row.CompletedChapters,
			TotalChapters:     row.TotalChapters,
		}
		if title, ok := currentByEnrollment[row.StudentID+"|"+row.CourseID]; ok {
			progress.CurrentSectionTitle = title
		} else if row.TotalChapters > 0 && row.CompletedChapters >= row.TotalChapters {
			progress.AllSectionsDone = true
			progress.CurrentSectionTitle = allCompletedMarker(row.CompletedChapters, row.TotalChapters)
		}
		reportRows = append(reportRows, dto.ProgressRow{
			Student:        models.StudentRef{ID: row.StudentID, Username: row.Username, Email: row.Email},
			CourseID:       row.CourseID,
			CourseTitle:    row.CourseTitle,
			Progress:       progress,
			LastAccessedAt: row.LastAccessedAt,
		})
	}
	sortProgressRows(reportRows, spec.SortKey)

	pageRows, pageInfo := paginateSlice(reportRows, spec.Page, spec.PageSize)
	report := &dto.ProgressReport{Spec: spec, Rows: pageRows, Pagination: pageInfo}
	s.cacheSet(ctx, cacheKey, report)
	return report, false, nil
}

// StudentCourseProgress computes the single student-course position from the
// raw section records. The cached snapshot only supplies display metadata;
// the records are the source of truth.
func (s *ReportService) StudentCourseProgress(ctx context.Context, studentID, courseID string) (*dto.StudentProgressDetail, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course_id is required")
	}
	if exists, err := s.entities.CourseExists(ctx, courseID); err != nil {
		return nil, err
	} else if !exists {
		return nil, appErrors.Clone(appErrors.ErrUnknownEntity, "course not found")
	}

	start := time.Now()
	states, err := s.cohort.SectionStates(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	total, completed, err := s.cohort.ChapterCounts(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.cohort.Snapshot(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	s.observeQuery("student_course_progress", start)

	detail := &dto.StudentProgressDetail{
		Progress: ComputeProgress(studentID, courseID, states, total, completed),
	}
	if snapshot != nil {
		detail.LastAccessedAt = snapshot.LastAccessedAt
	}
	return detail, nil
}

// QuizReport aggregates attempts into overall stats, rankings, per-quiz
// difficulty and a paginated recent-attempt list. A quiz filter scopes the
// whole report and must reference an existing quiz.
func (s *ReportService) QuizReport(ctx context.Context, spec models.QuerySpec) (*dto.QuizReport, bool, error) {
	if spec.QuizID != "" {
		if exists, err := s.quizzes.Exists(ctx, spec.QuizID); err != nil {
			return nil, false, err
		} else if !exists {
			return nil, false, appErrors.Clone(appErrors.ErrUnknownEntity, "quiz not found")
		}
	}

	cacheKey := reportCacheKey(spec)
	var cached dto.QuizReport
	if hit, err := s.cacheGet(ctx, cacheKey, &cached); err != nil {
		return nil, false, err
	} else if hit {
		return &cached, true, nil
	}

	var (
		attempts []models.AttemptRow
		quizzes  []models.Quiz
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		start := time.Now()
		var err error
		attempts, err = s.quizzes.AttemptRows(groupCtx, spec)
		s.observeQuery("quiz_attempts", start)
		return err
	})
	group.Go(func() error {
		start := time.Now()
		var err error
		quizzes, err = s.quizzes.Quizzes(groupCtx, spec)
		s.observeQuery("quiz_list", start)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, false, err
	}

	recent := make([]dto.RecentAttempt, 0, len(attempts))
	for _, attempt := range attempts {
		recent = append(recent, dto.RecentAttempt{
			Student:     models.StudentRef{ID: attempt.StudentID, Username: attempt.Username},
			QuizID:      attempt.QuizID,
			QuizTitle:   attempt.QuizTitle,
			Score:       attempt.Score,
			TotalPoints: attempt.TotalPoints,
			Percentage:  attempt.Percentage(),
			CompletedAt: attempt.CompletedAt,
		})
	}
	sortRecentAttempts(recent, spec.SortKey)

	pageRows, pageInfo := paginateSlice(recent, spec.Page, spec.PageSize)
	report := &dto.QuizReport{
		Spec:           spec,
		Overall:        AggregateAttempts(attempts),
		TopPerformers:  RankTopPerformers(attempts, topPerformerLimit),
		QuizStats:      QuizDifficulty(quizzes, attempts),
		RecentAttempts: pageRows,
		Pagination:     pageInfo,
	}
	s.cacheSet(ctx, cacheKey, report)
	return report, false, nil
}

// EngagementReport derives cohort engagement figures and the most-engaged
// ranking.
func (s *ReportService) EngagementReport(ctx context.Context, spec models.QuerySpec) (*dto.EngagementReport, bool, error) {
	cacheKey := reportCacheKey(spec)
	var cached dto.EngagementReport
	if hit, err := s.cacheGet(ctx, cacheKey, &cached); err != nil {
		return nil, false, err
	} else if hit {
		return &cached, true, nil
	}

	var (
		activity    []models.StudentActivityRow
		cohortRows  []models.CohortRow
		recentCount int
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		start := time.Now()
		var err error
		activity, err = s.engagement.ActivityRows(groupCtx, spec)
		s.observeQuery("activity_rows", start)
		return err
	})
	group.Go(func() error {
		var err error
		cohortRows, err = s.loadCohort(groupCtx, spec)
		return err
	})
	group.Go(func() error {
		start := time.Now()
		var err error
		recentCount, err = s.engagement.RecentEnrollmentCount(groupCtx, spec.DateTo.Add(-s.cfg.RecentWindow), spec.DateTo, spec.CourseID)
		s.observeQuery("recent_enrollments", start)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, false, err
	}

	summary := ScoreEngagement(activity, spec, s.cfg.InactivityWindow)
	summary.AvgEnrollmentDays = AverageEnrollmentDays(cohortRows, s.now().UTC())
	summary.RecentEnrollments = recentCount

	ranked := RankEngaged(activity)
	sortEngagedStudents(ranked, spec.SortKey)
	pageRows, pageInfo := paginateSlice(ranked, spec.Page, spec.PageSize)
	report := &dto.EngagementReport{
		Spec:        spec,
		Summary:     summary,
		MostEngaged: pageRows,
		Pagination:  pageInfo,
	}
	s.cacheSet(ctx, cacheKey, report)
	return report, false, nil
}

func (s *ReportService) loadCohort(ctx context.Context, spec models.QuerySpec) ([]models.CohortRow, error) {
	start := time.Now()
	rows, err := s.cohort.CohortRows(ctx, spec)
	s.observeQuery("cohort_rows", start)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ReportService) requireStudent(ctx context.Context, studentID string) error {
	if studentID == "" {
		return nil
	}
	exists, err := s.entities.StudentExists(ctx, studentID)
	if err != nil {
		return err
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrUnknownEntity, "student not found")
	}
	return nil
}

func (s *ReportService) cacheGet(ctx context.Context, key string, dest interface{}) (bool, error) {
	if s.cache == nil {
		return false, nil
	}
	return s.cache.Get(ctx, key, dest)
}

func (s *ReportService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *ReportService) observeQuery(label string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
}

func reportCacheKey(spec models.QuerySpec) string {
	parts := []string{
		"report", string(spec.Report),
		spec.DateFrom.UTC().Format(time.RFC3339), spec.DateTo.UTC().Format(time.RFC3339),
		spec.CourseID, spec.StudentID, spec.QuizID, spec.Search, spec.SortKey,
		fmt.Sprintf("%d", spec.Page), fmt.Sprintf("%d", spec.PageSize),
	}
	var builder strings.Builder
	builder.Grow(len(parts) * 12)
	for i, part := range parts {
		if i > 0 {
			builder.WriteByte(':')
		}
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}

func sortCompletionRows(rows []dto.CompletionRow, key string) {
	sort.SliceStable(rows, func(i, j int) bool {
		switch key {
		case "percentage":
			if rows[i].Percentage != rows[j].Percentage {
				return rows[i].Percentage > rows[j].Percentage
			}
		case "username":
			if rows[i].Student.Username != rows[j].Student.Username {
				return rows[i].Student.Username < rows[j].Student.Username
			}
		case "course":
			if rows[i].CourseTitle != rows[j].CourseTitle {
				return rows[i].CourseTitle < rows[j].CourseTitle
			}
		default:
			if !rows[i].EnrolledAt.Equal(rows[j].EnrolledAt) {
				return rows[i].EnrolledAt.After(rows[j].EnrolledAt)
			}
		}
		if rows[i].Student.ID != rows[j].Student.ID {
			return rows[i].Student.ID < rows[j].Student.ID
		}
		return rows[i].CourseID < rows[j].CourseID
	})
}

func sortProgressRows(rows []dto.ProgressRow, key string) {
	sort.SliceStable(rows, func(i, j int) bool {
		switch key {
		case "username":
			if rows[i].Student.Username != rows[j].Student.Username {
				return rows[i].Student.Username < rows[j].Student.Username
			}
		case "course":
			if rows[i].CourseTitle != rows[j].CourseTitle {
				return rows[i].CourseTitle < rows[j].CourseTitle
			}
		case "last_accessed":
			left, right := rows[i].LastAccessedAt, rows[j].LastAccessedAt
			switch {
			case left == nil && right != nil:
				return false
			case left != nil && right == nil:
				return true
			case left != nil && right != nil && !left.Equal(*right):
				return left.After(*right)
			}
		default:
			if rows[i].Progress.Percentage != rows[j].Progress.Percentage {
				return rows[i].Progress.Percentage > rows[j].Progress.Percentage
			}
		}
		if rows[i].Student.ID != rows[j].Student.ID {
			return rows[i].Student.ID < rows[j].Student.ID
		}
		return rows[i].CourseID < rows[j].CourseID
	})
}

// sortEngagedStudents reorders the ranked list for display. Rank values stay
// as assigned by engagement order, so a username sort still shows each
// student's true rank.
func sortEngagedStudents(rows []dto.EngagedStudent, key string) {
	switch key {
	case "username":
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Student.Username != rows[j].Student.Username {
				return rows[i].Student.Username < rows[j].Student.Username
			}
			return rows[i].Student.ID < rows[j].Student.ID
		})
	case "course_count":
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].CourseCount != rows[j].CourseCount {
				return rows[i].CourseCount > rows[j].CourseCount
			}
			return rows[i].Student.ID < rows[j].Student.ID
		})
	}
}

func sortRecentAttempts(rows []dto.RecentAttempt, key string) {
	sort.SliceStable(rows, func(i, j int) bool {
		switch key {
		case "score":
			if rows[i].Percentage != rows[j].Percentage {
				return rows[i].Percentage > rows[j].Percentage
			}
		case "username":
			if rows[i].Student.Username != rows[j].Student.Username {
				return rows[i].Student.Username < rows[j].Student.Username
			}
		default:
			if !rows[i].CompletedAt.Equal(rows[j].CompletedAt) {
				return rows[i].CompletedAt.After(rows[j].CompletedAt)
			}
		}
		return rows[i].Student.ID < rows[j].Student.ID
	})
}
