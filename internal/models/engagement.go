package models

import "time"

// LoginEvent is one authenticated session start, used for login frequency.
type LoginEvent struct {
	StudentID string    `db:"student_id" json:"student_id"`
	LoggedAt  time.Time `db:"logged_at" json:"logged_at"`
}

// StudentActivityRow aggregates the engagement inputs per active student in
// a cohort. The scorer turns these into rates and rankings.
type StudentActivityRow struct {
	StudentID      string     `db:"student_id" json:"student_id"`
	Username       string     `db:"username" json:"username"`
	LoginCount     int        `db:"login_count" json:"login_count"`
	CourseCount    int        `db:"course_count" json:"course_count"`
	CompletedCount int        `db:"completed_count" json:"completed_count"`
	LastActivityAt *time.Time `db:"last_activity_at" json:"last_activity_at,omitempty"`
	// TotalCompletionDays sums enrollment-to-completion durations over the
	// student's completed courses, in days. Divided by CompletedCount it
	// gives the tie-break key for the most-engaged ranking.
	TotalCompletionDays float64 `db:"total_completion_days" json:"total_completion_days"`
}
