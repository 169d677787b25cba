package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
)

// EngagementRepository reads login, enrollment and activity aggregates for
// the engagement scorer.
type EngagementRepository struct {
	db *sqlx.DB
}

// NewEngagementRepository constructs the repository.
func NewEngagementRepository(db *sqlx.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// ActivityRows returns one aggregate row per active student in the cohort:
// logins within the spec's range, enrolled course count, completed course
// count with summed completion days, and the latest activity timestamp.
func (r *EngagementRepository) ActivityRows(ctx context.Context, spec models.QuerySpec) ([]models.StudentActivityRow, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT u.id AS student_id, u.username,
        (SELECT COUNT(*) FROM login_events le WHERE le.student_id = u.id AND le.logged_at >= $1 AND le.logged_at <= $2) AS login_count,
        COUNT(e.course_id) AS course_count,
        COALESCE(SUM(CASE WHEN cp.completion_status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_count,
        COALESCE(SUM(CASE WHEN cp.completion_status = 'completed'
            THEN EXTRACT(EPOCH FROM (COALESCE(cp.last_accessed_at, NOW()) - e.enrolled_at)) / 86400.0 ELSE 0 END), 0) AS total_completion_days,
        GREATEST(MAX(cp.last_accessed_at), MAX(u.last_login_at)) AS last_activity_at
        FROM users u
        JOIN enrollments e ON e.student_id = u.id
        LEFT JOIN course_progress cp ON cp.student_id = u.id AND cp.course_id = e.course_id
        WHERE u.status = 'active' AND u.role = 'STUDENT'
          AND e.enrolled_at >= $1 AND e.enrolled_at <= $2`)
	args := []interface{}{spec.DateFrom, spec.DateTo}

	if spec.CourseID != "" {
		args = append(args, spec.CourseID)
		builder.WriteString(fmt.Sprintf(" AND e.course_id = $%d", len(args)))
	}
	if spec.StudentID != "" {
		args = append(args, spec.StudentID)
		builder.WriteString(fmt.Sprintf(" AND u.id = $%d", len(args)))
	}
	if spec.Search != "" {
		args = append(args, "%"+spec.Search+"%")
		builder.WriteString(fmt.Sprintf(" AND (u.username ILIKE $%d OR u.email ILIKE $%d)", len(args), len(args)))
	}
	builder.WriteString(" GROUP BY u.id, u.username ORDER BY u.id")

	var rows []models.StudentActivityRow
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query activity rows: %w", err)
	}
	return rows, nil
}

// RecentEnrollmentCount counts enrollments inside the trailing window ending
// at 'until'. This figure is intentionally independent of the report's own
// date range.
func (r *EngagementRepository) RecentEnrollmentCount(ctx context.Context, from, until time.Time, courseID string) (int, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT COUNT(*) FROM enrollments e
        JOIN users u ON u.id = e.student_id AND u.status = 'active'
        WHERE e.enrolled_at >= $1 AND e.enrolled_at <= $2`)
	args := []interface{}{from, until}
	if courseID != "" {
		args = append(args, courseID)
		builder.WriteString(fmt.Sprintf(" AND e.course_id = $%d", len(args)))
	}

	var count int
	if err := r.db.GetContext(ctx, &count, builder.String(), args...); err != nil {
		return 0, fmt.Errorf("count recent enrollments: %w", err)
	}
	return count, nil
}
