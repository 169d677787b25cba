package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
)

// QuizRepository reads quiz attempts and quiz metadata for the aggregator.
type QuizRepository struct {
	db *sqlx.DB
}

// NewQuizRepository constructs the repository.
func NewQuizRepository(db *sqlx.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// AttemptRows returns every attempt in the spec's range, newest first,
// enriched with student and quiz context. Only active students count.
func (r *QuizRepository) AttemptRows(ctx context.Context, spec models.QuerySpec) ([]models.AttemptRow, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT qa.id, qa.student_id, qa.quiz_id, qa.score, qa.total_points, qa.completed_at,
        u.username, q.title AS quiz_title
        FROM quiz_attempts qa
        JOIN users u ON u.id = qa.student_id AND u.status = 'active'
        JOIN quizzes q ON q.id = qa.quiz_id
        WHERE qa.completed_at >= $1 AND qa.completed_at <= $2`)
	args := []interface{}{spec.DateFrom, spec.DateTo}

	if spec.QuizID != "" {
		args = append(args, spec.QuizID)
		builder.WriteString(fmt.Sprintf(" AND qa.quiz_id = $%d", len(args)))
	}
	if spec.CourseID != "" {
		args = append(args, spec.CourseID)
		builder.WriteString(fmt.Sprintf(" AND q.course_id = $%d", len(args)))
	}
	if spec.StudentID != "" {
		args = append(args, spec.StudentID)
		builder.WriteString(fmt.Sprintf(" AND qa.student_id = $%d", len(args)))
	}
	if spec.Search != "" {
		args = append(args, "%"+spec.Search+"%")
		builder.WriteString(fmt.Sprintf(" AND (u.username ILIKE $%d OR q.title ILIKE $%d)", len(args), len(args)))
	}
	builder.WriteString(" ORDER BY qa.completed_at DESC, qa.id")

	var rows []models.AttemptRow
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query quiz attempts: %w", err)
	}
	return rows, nil
}

// Quizzes lists the quizzes in scope so quizzes without attempts still show
// up as "no data" in difficulty stats.
func (r *QuizRepository) Quizzes(ctx context.Context, spec models.QuerySpec) ([]models.Quiz, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT id, course_id, title FROM quizzes WHERE 1=1`)
	var args []interface{}

	if spec.QuizID != "" {
		args = append(args, spec.QuizID)
		builder.WriteString(fmt.Sprintf(" AND id = $%d", len(args)))
	}
	if spec.CourseID != "" {
		args = append(args, spec.CourseID)
		builder.WriteString(fmt.Sprintf(" AND course_id = $%d", len(args)))
	}
	builder.WriteString(" ORDER BY title, id")

	var quizzes []models.Quiz
	if err := r.db.SelectContext(ctx, &quizzes, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query quizzes: %w", err)
	}
	return quizzes, nil
}

// Exists reports whether the quiz id references a stored quiz.
func (r *QuizRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM quizzes WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("check quiz exists: %w", err)
	}
	return exists, nil
}
