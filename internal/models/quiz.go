package models

import "time"

// Quiz is the content unit quiz attempts reference.
type Quiz struct {
	ID       string `db:"id" json:"id"`
	CourseID string `db:"course_id" json:"course_id"`
	Title    string `db:"title" json:"title"`
}

// QuizAttempt is one recorded attempt. Multiple attempts per student per
// quiz are allowed; reports pick between latest, best and average modes.
type QuizAttempt struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	QuizID      string    `db:"quiz_id" json:"quiz_id"`
	Score       float64   `db:"score" json:"score"`
	TotalPoints float64   `db:"total_points" json:"total_points"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}

// AttemptRow enriches a quiz attempt with student and quiz context for
// row-level report output.
type AttemptRow struct {
	QuizAttempt
	Username  string `db:"username" json:"username"`
	QuizTitle string `db:"quiz_title" json:"quiz_title"`
}

// Percentage converts an attempt score into a percentage. Attempts recorded
// with zero total points carry the score as an already-scaled percentage, so
// the raw value is returned unchanged instead of dividing by zero.
func (a QuizAttempt) Percentage() float64 {
	if a.TotalPoints <= 0 {
		return a.Score
	}
	return a.Score / a.TotalPoints * 100
}
