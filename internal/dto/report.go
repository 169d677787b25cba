package dto

import (
	"time"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
)

// CompletionSummary are the cohort-wide completion counters. OnTime and
// Delayed only count completed enrollments; the remainder are not
// applicable for timeliness.
type CompletionSummary struct {
	TotalEnrollments int     `json:"total_enrollments"`
	CompletedCount   int     `json:"completed_count"`
	InProgressCount  int     `json:"in_progress_count"`
	NotStartedCount  int     `json:"not_started_count"`
	OnTimeCount      int     `json:"on_time_count"`
	DelayedCount     int     `json:"delayed_count"`
	AverageProgress  float64 `json:"average_progress"`
}

// CompletionRow is one classified enrollment in the completion report.
type CompletionRow struct {
	Student     models.StudentRef       `json:"student"`
	CourseID    string                  `json:"course_id"`
	CourseTitle string                  `json:"course_title"`
	EnrolledAt  time.Time               `json:"enrolled_at"`
	Percentage  int                     `json:"percentage"`
	Status      models.CompletionStatus `json:"status"`
	Timeliness  models.Timeliness       `json:"timeliness"`
	CompletedAt *time.Time              `json:"completed_at,omitempty"`
}

// CompletionReport combines cohort summary and per-enrollment rows.
type CompletionReport struct {
	Spec       models.QuerySpec  `json:"spec"`
	Summary    CompletionSummary `json:"summary"`
	Rows       []CompletionRow   `json:"rows"`
	Pagination models.PageInfo   `json:"pagination"`
}

// ProgressRow is one student-course position in the progress report.
type ProgressRow struct {
	Student        models.StudentRef `json:"student"`
	CourseID       string            `json:"course_id"`
	CourseTitle    string            `json:"course_title"`
	Progress       models.CourseProgress `json:"progress"`
	LastAccessedAt *time.Time        `json:"last_accessed_at,omitempty"`
}

// ProgressReport lists per-enrollment positions for the cohort.
type ProgressReport struct {
	Spec       models.QuerySpec `json:"spec"`
	Rows       []ProgressRow    `json:"rows"`
	Pagination models.PageInfo  `json:"pagination"`
}

// StudentProgressDetail is the single-enrollment progress payload. The
// position comes from the section records; LastAccessedAt is display
// metadata read from the progress snapshot when one exists.
type StudentProgressDetail struct {
	Progress       models.CourseProgress `json:"progress"`
	LastAccessedAt *time.Time            `json:"last_accessed_at,omitempty"`
}

// QuizOverallStats are cohort-wide attempt aggregates.
type QuizOverallStats struct {
	TotalAttempts   int     `json:"total_attempts"`
	StudentsCounted int     `json:"students_counted"`
	AverageScore    float64 `json:"average_score"`
}

// TopPerformer ranks one student by mean attempt percentage.
type TopPerformer struct {
	Student      models.StudentRef `json:"student"`
	AverageScore float64           `json:"average_score"`
	AttemptCount int               `json:"attempt_count"`
	Rank         int               `json:"rank"`
}

// QuizStat is per-quiz difficulty; AverageScore is nil when the quiz has no
// attempts in range, which renders as "no data" rather than zero.
type QuizStat struct {
	QuizID       string   `json:"quiz_id"`
	QuizTitle    string   `json:"quiz_title"`
	AttemptCount int      `json:"attempt_count"`
	AverageScore *float64 `json:"average_score,omitempty"`
}

// RecentAttempt is one row-level attempt in the quiz report.
type RecentAttempt struct {
	Student     models.StudentRef `json:"student"`
	QuizID      string            `json:"quiz_id"`
	QuizTitle   string            `json:"quiz_title"`
	Score       float64           `json:"score"`
	TotalPoints float64           `json:"total_points"`
	Percentage  float64           `json:"percentage"`
	CompletedAt time.Time         `json:"completed_at"`
}

// QuizReport combines attempt aggregates, rankings and recent attempts.
type QuizReport struct {
	Spec           models.QuerySpec `json:"spec"`
	Overall        QuizOverallStats `json:"overall"`
	TopPerformers  []TopPerformer   `json:"top_performers"`
	QuizStats      []QuizStat       `json:"quiz_stats"`
	RecentAttempts []RecentAttempt  `json:"recent_attempts"`
	Pagination     models.PageInfo  `json:"pagination"`
}

// EngagementSummary are the cohort engagement figures. RecentEnrollments is
// a fixed trailing-week count relative to date_to, not filter driven.
type EngagementSummary struct {
	ActiveStudents        int     `json:"active_students"`
	LoginFrequencyPerWeek float64 `json:"login_frequency_per_week"`
	DropOffRatePercent    float64 `json:"drop_off_rate_percent"`
	AvgEnrollmentDays     float64 `json:"avg_enrollment_days"`
	RecentEnrollments     int     `json:"recent_enrollments"`
}

// EngagedStudent ranks one student in the most-engaged list.
type EngagedStudent struct {
	Student           models.StudentRef `json:"student"`
	CourseCount       int               `json:"course_count"`
	AvgCompletionDays float64           `json:"avg_completion_days"`
	Rank              int               `json:"rank"`
}

// EngagementReport combines cohort engagement metrics with the ranked list.
type EngagementReport struct {
	Spec        models.QuerySpec  `json:"spec"`
	Summary     EngagementSummary `json:"summary"`
	MostEngaged []EngagedStudent  `json:"most_engaged"`
	Pagination  models.PageInfo   `json:"pagination"`
}
