package models

import "time"

// Enrollment records a student signing up for a course. One row per
// student-course pair; never deleted by this service.
type Enrollment struct {
	StudentID  string    `db:"student_id" json:"student_id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// CohortRow is the bulk aggregation row the store produces per enrollment in
// a cohort: counts are aggregated in SQL, every threshold decision happens in
// typed code afterwards.
type CohortRow struct {
	StudentID         string     `db:"student_id" json:"student_id"`
	Username          string     `db:"username" json:"username"`
	Email             string     `db:"email" json:"email"`
	CourseID          string     `db:"course_id" json:"course_id"`
	CourseTitle       string     `db:"course_title" json:"course_title"`
	EnrolledAt        time.Time  `db:"enrolled_at" json:"enrolled_at"`
	TotalChapters     int        `db:"total_chapters" json:"total_chapters"`
	CompletedChapters int        `db:"completed_chapters" json:"completed_chapters"`
	LastCompletedAt   *time.Time `db:"last_completed_at" json:"last_completed_at,omitempty"`
	LastAccessedAt    *time.Time `db:"last_accessed_at" json:"last_accessed_at,omitempty"`
}
