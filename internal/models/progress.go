package models

import "time"

// CompletionStatus buckets an enrollment by how far the student has moved
// through the course.
type CompletionStatus string

const (
	StatusNotStarted CompletionStatus = "NOT_STARTED"
	StatusInProgress CompletionStatus = "IN_PROGRESS"
	StatusCompleted  CompletionStatus = "COMPLETED"
)

// Timeliness classifies a completed enrollment against the on-time window.
// Enrollments that are not completed are NotApplicable and excluded from
// timeliness counts.
type Timeliness string

const (
	TimelinessOnTime        Timeliness = "ON_TIME"
	TimelinessDelayed       Timeliness = "DELAYED"
	TimelinessNotApplicable Timeliness = "NOT_APPLICABLE"
)

// SectionProgressRecord is the raw per-student per-section completion record.
// It is the single source of truth for progress; the completed flag is
// monotonic and never reverts.
type SectionProgressRecord struct {
	StudentID   string     `db:"student_id" json:"student_id"`
	SectionID   string     `db:"section_id" json:"section_id"`
	Completed   bool       `db:"completed" json:"completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// CourseProgressSnapshot is the cached rollup kept alongside the raw records.
// It may lag behind SectionProgressRecord and is treated as a rebuildable
// cache, never as authoritative.
type CourseProgressSnapshot struct {
	StudentID            string     `db:"student_id" json:"student_id"`
	CourseID             string     `db:"course_id" json:"course_id"`
	CompletionPercentage int        `db:"completion_percentage" json:"completion_percentage"`
	CompletionStatus     string     `db:"completion_status" json:"completion_status"`
	LastAccessedAt       *time.Time `db:"last_accessed_at" json:"last_accessed_at,omitempty"`
}

// CurrentSection pairs an enrollment with its first incomplete section.
type CurrentSection struct {
	StudentID    string `db:"student_id" json:"student_id"`
	CourseID     string `db:"course_id" json:"course_id"`
	SectionTitle string `db:"section_title" json:"section_title"`
}

// CourseProgress is the derived per-student per-course position.
type CourseProgress struct {
	StudentID           string `json:"student_id"`
	CourseID            string `json:"course_id"`
	Percentage          int    `json:"percentage"`
	CompletedChapters   int    `json:"completed_chapters"`
	TotalChapters       int    `json:"total_chapters"`
	CurrentSectionTitle string `json:"current_section_title"`
	AllSectionsDone     bool   `json:"all_sections_done"`
}
