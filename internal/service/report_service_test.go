package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
	appErrors "github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/errors"
)

type fakeCohortRepo struct {
	rows     []models.CohortRow
	currents []models.CurrentSection
	states   []models.SectionState
	total    int
	done     int
	snapshot *models.CourseProgressSnapshot
	err      error
}

func (f *fakeCohortRepo) CohortRows(context.Context, models.QuerySpec) ([]models.CohortRow, error) {
	return f.rows, f.err
}

func (f *fakeCohortRepo) CurrentSections(context.Context, models.QuerySpec) ([]models.CurrentSection, error) {
	return f.currents, f.err
}

func (f *fakeCohortRepo) SectionStates(context.Context, string, string) ([]models.SectionState, error) {
	return f.states, f.err
}

func (f *fakeCohortRepo) ChapterCounts(context.Context, string, string) (int, int, error) {
	return f.total, f.done, f.err
}

func (f *fakeCohortRepo) Snapshot(context.Context, string, string) (*models.CourseProgressSnapshot, error) {
	return f.snapshot, f.err
}

type fakeQuizRepo struct {
	attempts []models.AttemptRow
	quizzes  []models.Quiz
	exists   bool
	err      error
}

func (f *fakeQuizRepo) AttemptRows(context.Context, models.QuerySpec) ([]models.AttemptRow, error) {
	return f.attempts, f.err
}

func (f *fakeQuizRepo) Quizzes(context.Context, models.QuerySpec) ([]models.Quiz, error) {
	return f.quizzes, f.err
}

func (f *fakeQuizRepo) Exists(context.Context, string) (bool, error) {
	return f.exists, f.err
}

type fakeEngagementRepo struct {
	rows   []models.StudentActivityRow
	recent int
	err    error
}

func (f *fakeEngagementRepo) ActivityRows(context.Context, models.QuerySpec) ([]models.StudentActivityRow, error) {
	return f.rows, f.err
}

func (f *fakeEngagementRepo) RecentEnrollmentCount(context.Context, time.Time, time.Time, string) (int, error) {
	return f.recent, f.err
}

type fakeEntityChecker struct {
	courseExists  bool
	studentExists bool
	err           error
}

func (f *fakeEntityChecker) CourseExists(context.Context, string) (bool, error) {
	return f.courseExists, f.err
}

func (f *fakeEntityChecker) StudentExists(context.Context, string) (bool, error) {
	return f.studentExists, f.err
}

func newTestReportService(cohort *fakeCohortRepo, quizzes *fakeQuizRepo, engagement *fakeEngagementRepo, entities *fakeEntityChecker) *ReportService {
	if cohort == nil {
		cohort = &fakeCohortRepo{}
	}
	if quizzes == nil {
		quizzes = &fakeQuizRepo{}
	}
	if engagement == nil {
		engagement = &fakeEngagementRepo{}
	}
	if entities == nil {
		entities = &fakeEntityChecker{courseExists: true, studentExists: true}
	}
	return NewReportService(ReportServiceParams{
		Cohort:     cohort,
		Quizzes:    quizzes,
		Engagement: engagement,
		Entities:   entities,
		Config:     analyticsTestConfig(),
	})
}

func completionSpec(page, pageSize int) models.QuerySpec {
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return models.QuerySpec{
		Report:   models.ReportCompletion,
		DateFrom: to.Add(-90 * 24 * time.Hour),
		DateTo:   to,
		SortKey:  "enrolled_at",
		Page:     page,
		PageSize: pageSize,
	}
}

func TestCompletionReport(t *testing.T) {
	enrolled := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cohort := &fakeCohortRepo{rows: []models.CohortRow{
		{StudentID: "s1", Username: "alice", CourseID: "c1", CourseTitle: "Maths", EnrolledAt: enrolled, TotalChapters: 4, CompletedChapters: 4, LastCompletedAt: timePtr(enrolled.Add(10 * 24 * time.Hour))},
		{StudentID: "s2", Username: "bob", CourseID: "c1", CourseTitle: "Maths", EnrolledAt: enrolled.Add(time.Hour), TotalChapters: 4, CompletedChapters: 1},
	}}

	svc := newTestReportService(cohort, nil, nil, nil)
	report, cacheHit, err := svc.CompletionReport(context.Background(), completionSpec(1, 20))
	require.NoError(t, err)
	assert.False(t, cacheHit)

	assert.Equal(t, 2, report.Summary.TotalEnrollments)
	assert.Equal(t, 1, report.Summary.CompletedCount)
	assert.Equal(t, 1, report.Summary.InProgressCount)
	assert.Equal(t, 1, report.Summary.OnTimeCount)

	require.Len(t, report.Rows, 2)
	// enrolled_at sorts descending, so bob's later enrollment leads
	assert.Equal(t, "s2", report.Rows[0].Student.ID)
	assert.Equal(t, models.StatusInProgress, report.Rows[0].Status)
	assert.Nil(t, report.Rows[0].CompletedAt)
	assert.Equal(t, models.StatusCompleted, report.Rows[1].Status)
	assert.NotNil(t, report.Rows[1].CompletedAt)
}

func TestCompletionReportIdempotent(t *testing.T) {
	enrolled := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cohort := &fakeCohortRepo{rows: []models.CohortRow{
		{StudentID: "s1", EnrolledAt: enrolled, TotalChapters: 3, CompletedChapters: 1},
		{StudentID: "s2", EnrolledAt: enrolled, TotalChapters: 3, CompletedChapters: 1},
	}}

	svc := newTestReportService(cohort, nil, nil, nil)
	spec := completionSpec(1, 20)

	first, _, err := svc.CompletionReport(context.Background(), spec)
	require.NoError(t, err)
	second, _, err := svc.CompletionReport(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompletionReportPastEndPage(t *testing.T) {
	cohort := &fakeCohortRepo{rows: []models.CohortRow{
		{StudentID: "s1", EnrolledAt: time.Now().UTC(), TotalChapters: 2},
	}}

	svc := newTestReportService(cohort, nil, nil, nil)
	report, _, err := svc.CompletionReport(context.Background(), completionSpec(9, 20))
	require.NoError(t, err)

	assert.Empty(t, report.Rows)
	assert.False(t, report.Pagination.HasNext)
	assert.True(t, report.Pagination.HasPrev)
	assert.Equal(t, 1, report.Pagination.TotalRecords)
}

func TestProgressReportUnknownStudentIsHardError(t *testing.T) {
	svc := newTestReportService(nil, nil, nil, &fakeEntityChecker{studentExists: false, courseExists: true})

	spec := completionSpec(1, 20)
	spec.Report = models.ReportProgress
	spec.StudentID = "ghost"
	spec.SortKey = "percentage"

	_, _, err := svc.ProgressReport(context.Background(), spec)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownEntity.Code, appErrors.FromError(err).Code)
}

func TestProgressReportCurrentSections(t *testing.T) {
	enrolled := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cohort := &fakeCohortRepo{
		rows: []models.CohortRow{
			{StudentID: "s1", CourseID: "c1", EnrolledAt: enrolled, TotalChapters: 4, CompletedChapters: 2},
			{StudentID: "s2", CourseID: "c1", EnrolledAt: enrolled, TotalChapters: 4, CompletedChapters: 4},
		},
		currents: []models.CurrentSection{
			{StudentID: "s1", CourseID: "c1", SectionTitle: "Chapter Two"},
		},
	}

	svc := newTestReportService(cohort, nil, nil, nil)
	spec := completionSpec(1, 20)
	spec.Report = models.ReportProgress
	spec.SortKey = "percentage"

	report, _, err := svc.ProgressReport(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	// percentage descending puts the finished enrollment first
	assert.True(t, report.Rows[0].Progress.AllSectionsDone)
	assert.Equal(t, "All sections completed (4/4 chapters)", report.Rows[0].Progress.CurrentSectionTitle)
	assert.Equal(t, "Chapter Two", report.Rows[1].Progress.CurrentSectionTitle)
}

func TestStudentCourseProgress(t *testing.T) {
	cohort := &fakeCohortRepo{
		states: []models.SectionState{
			{SectionID: "sec1", Title: "Intro", Completed: true},
			{SectionID: "sec2", Title: "Basics", Completed: false},
		},
		total: 6,
		done:  3,
	}

	accessed := time.Date(2026, 7, 20, 9, 0, 0, 0, time.UTC)
	cohort.snapshot = &models.CourseProgressSnapshot{StudentID: "s1", CourseID: "c1", LastAccessedAt: &accessed}

	svc := newTestReportService(cohort, nil, nil, nil)
	detail, err := svc.StudentCourseProgress(context.Background(), "s1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Basics", detail.Progress.CurrentSectionTitle)
	assert.Equal(t, 50, detail.Progress.Percentage)
	require.NotNil(t, detail.LastAccessedAt)
	assert.Equal(t, accessed, *detail.LastAccessedAt)
}

func TestStudentCourseProgressUnknownCourse(t *testing.T) {
	svc := newTestReportService(nil, nil, nil, &fakeEntityChecker{studentExists: true, courseExists: false})

	_, err := svc.StudentCourseProgress(context.Background(), "s1", "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownEntity.Code, appErrors.FromError(err).Code)
}

func TestQuizReportUnknownQuizIsHardError(t *testing.T) {
	svc := newTestReportService(nil, &fakeQuizRepo{exists: false}, nil, nil)

	spec := completionSpec(1, 20)
	spec.Report = models.ReportQuiz
	spec.QuizID = "ghost"
	spec.SortKey = "completed_at"

	_, _, err := svc.QuizReport(context.Background(), spec)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownEntity.Code, appErrors.FromError(err).Code)
}

func TestQuizReport(t *testing.T) {
	quizzes := &fakeQuizRepo{
		attempts: []models.AttemptRow{
			attempt("s1", "q1", 8, 10),
			attempt("s2", "q1", 4, 10),
		},
		quizzes: []models.Quiz{{ID: "q1", Title: "Algebra"}},
		exists:  true,
	}

	svc := newTestReportService(nil, quizzes, nil, nil)
	spec := completionSpec(1, 20)
	spec.Report = models.ReportQuiz
	spec.SortKey = "completed_at"

	report, cacheHit, err := svc.QuizReport(context.Background(), spec)
	require.NoError(t, err)
	assert.False(t, cacheHit)

	assert.Equal(t, 2, report.Overall.TotalAttempts)
	assert.InDelta(t, 60.0, report.Overall.AverageScore, 0.001)
	require.Len(t, report.TopPerformers, 2)
	assert.Equal(t, "s1", report.TopPerformers[0].Student.ID)
	require.Len(t, report.QuizStats, 1)
	assert.Len(t, report.RecentAttempts, 2)
}

func TestEngagementReport(t *testing.T) {
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	active := to.Add(-24 * time.Hour)
	engagement := &fakeEngagementRepo{
		rows: []models.StudentActivityRow{
			{StudentID: "s1", Username: "alice", LoginCount: 10, CourseCount: 3, LastActivityAt: &active},
			{StudentID: "s2", Username: "bob", LoginCount: 2, CourseCount: 1, LastActivityAt: nil},
		},
		recent: 4,
	}
	cohort := &fakeCohortRepo{rows: []models.CohortRow{
		{StudentID: "s1", EnrolledAt: to.Add(-40 * 24 * time.Hour)},
	}}

	svc := newTestReportService(cohort, nil, engagement, nil)
	spec := models.QuerySpec{
		Report:   models.ReportEngagement,
		DateFrom: to.Add(-28 * 24 * time.Hour),
		DateTo:   to,
		SortKey:  "rank",
		Page:     1,
		PageSize: 20,
	}

	report, _, err := svc.EngagementReport(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.ActiveStudents)
	assert.Equal(t, 4, report.Summary.RecentEnrollments)
	assert.InDelta(t, 50.0, report.Summary.DropOffRatePercent, 0.001)
	assert.Positive(t, report.Summary.AvgEnrollmentDays)

	require.Len(t, report.MostEngaged, 2)
	assert.Equal(t, "s1", report.MostEngaged[0].Student.ID)
	assert.Equal(t, 1, report.MostEngaged[0].Rank)
}

func TestEngagementReportUsernameSortKeepsRanks(t *testing.T) {
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	engagement := &fakeEngagementRepo{
		rows: []models.StudentActivityRow{
			{StudentID: "s1", Username: "zoe", CourseCount: 5},
			{StudentID: "s2", Username: "amir", CourseCount: 1},
		},
	}

	svc := newTestReportService(nil, nil, engagement, nil)
	spec := models.QuerySpec{
		Report:   models.ReportEngagement,
		DateFrom: to.Add(-28 * 24 * time.Hour),
		DateTo:   to,
		SortKey:  "username",
		Page:     1,
		PageSize: 20,
	}

	report, _, err := svc.EngagementReport(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, report.MostEngaged, 2)

	assert.Equal(t, "amir", report.MostEngaged[0].Student.Username)
	assert.Equal(t, 2, report.MostEngaged[0].Rank)
	assert.Equal(t, "zoe", report.MostEngaged[1].Student.Username)
	assert.Equal(t, 1, report.MostEngaged[1].Rank)
}
