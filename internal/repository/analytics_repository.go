package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
)

// AnalyticsRepository exposes the bulk read queries behind the report
// derivations. Counts and sums are aggregated in SQL; every threshold and
// classification decision happens in the service layer afterwards.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// CohortRows returns one aggregated row per enrollment in the cohort the
// spec selects. The scan is bounded by the spec's date range; only active
// students are included.
func (r *AnalyticsRepository) CohortRows(ctx context.Context, spec models.QuerySpec) ([]models.CohortRow, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT e.student_id, u.username, u.email, e.course_id, c.title AS course_title, e.enrolled_at,
        (SELECT COUNT(*) FROM chapters ch JOIN sections s ON s.id = ch.section_id WHERE s.course_id = e.course_id) AS total_chapters,
        (SELECT COUNT(*) FROM section_progress sp JOIN sections s ON s.id = sp.section_id JOIN chapters ch ON ch.section_id = s.id
            WHERE sp.student_id = e.student_id AND s.course_id = e.course_id AND sp.completed = TRUE) AS completed_chapters,
        (SELECT MAX(sp.completed_at) FROM section_progress sp JOIN sections s ON s.id = sp.section_id
            WHERE sp.student_id = e.student_id AND s.course_id = e.course_id AND sp.completed = TRUE) AS last_completed_at,
        cp.last_accessed_at
        FROM enrollments e
        JOIN users u ON u.id = e.student_id AND u.status = 'active'
        JOIN courses c ON c.id = e.course_id
        LEFT JOIN course_progress cp ON cp.student_id = e.student_id AND cp.course_id = e.course_id
        WHERE e.enrolled_at >= $1 AND e.enrolled_at <= $2`)
	args := []interface{}{spec.DateFrom, spec.DateTo}

	if spec.CourseID != "" {
		args = append(args, spec.CourseID)
		builder.WriteString(fmt.Sprintf(" AND e.course_id = $%d", len(args)))
	}
	if spec.StudentID != "" {
		args = append(args, spec.StudentID)
		builder.WriteString(fmt.Sprintf(" AND e.student_id = $%d", len(args)))
	}
	if spec.Search != "" {
		args = append(args, "%"+spec.Search+"%")
		builder.WriteString(fmt.Sprintf(" AND (u.username ILIKE $%d OR u.email ILIKE $%d OR c.title ILIKE $%d)", len(args), len(args), len(args)))
	}
	builder.WriteString(" ORDER BY e.enrolled_at DESC, e.student_id, e.course_id")

	var rows []models.CohortRow
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query cohort rows: %w", err)
	}
	return rows, nil
}

// SectionStates returns the course's sections in order with the student's
// completion flag, used to locate the current position pointer.
func (r *AnalyticsRepository) SectionStates(ctx context.Context, studentID, courseID string) ([]models.SectionState, error) {
	const query = `SELECT s.id AS section_id, s.title, s.position,
        COALESCE(sp.completed, FALSE) AS completed
        FROM sections s
        LEFT JOIN section_progress sp ON sp.section_id = s.id AND sp.student_id = $1
        WHERE s.course_id = $2
        ORDER BY s.position ASC`
	var states []models.SectionState
	if err := r.db.SelectContext(ctx, &states, query, studentID, courseID); err != nil {
		return nil, fmt.Errorf("query section states: %w", err)
	}
	return states, nil
}

// CurrentSections returns, per enrollment in the cohort, the title of the
// first section in course order without a completed record. Enrollments where
// every section is complete are absent from the result.
func (r *AnalyticsRepository) CurrentSections(ctx context.Context, spec models.QuerySpec) ([]models.CurrentSection, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT e.student_id, e.course_id, s.title AS section_title
        FROM enrollments e
        JOIN users u ON u.id = e.student_id AND u.status = 'active'
        JOIN LATERAL (
            SELECT s.title FROM sections s
            WHERE s.course_id = e.course_id
              AND NOT EXISTS (
                  SELECT 1 FROM section_progress sp
                  WHERE sp.section_id = s.id AND sp.student_id = e.student_id AND sp.completed = TRUE)
            ORDER BY s.position ASC LIMIT 1
        ) s ON TRUE
        WHERE e.enrolled_at >= $1 AND e.enrolled_at <= $2`)
	args := []interface{}{spec.DateFrom, spec.DateTo}

	if spec.CourseID != "" {
		args = append(args, spec.CourseID)
		builder.WriteString(fmt.Sprintf(" AND e.course_id = $%d", len(args)))
	}
	if spec.StudentID != "" {
		args = append(args, spec.StudentID)
		builder.WriteString(fmt.Sprintf(" AND e.student_id = $%d", len(args)))
	}

	var rows []models.CurrentSection
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query current sections: %w", err)
	}
	return rows, nil
}

// Snapshot returns the cached per-course rollup if present. The snapshot is
// derived data; callers fall back to recomputation from section_progress when
// it is absent or inconsistent.
func (r *AnalyticsRepository) Snapshot(ctx context.Context, studentID, courseID string) (*models.CourseProgressSnapshot, error) {
	const query = `SELECT student_id, course_id, completion_percentage, completion_status, last_accessed_at
        FROM course_progress WHERE student_id = $1 AND course_id = $2`
	var snapshot models.CourseProgressSnapshot
	if err := r.db.GetContext(ctx, &snapshot, query, studentID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query course progress snapshot: %w", err)
	}
	return &snapshot, nil
}

// ChapterCounts returns total and completed chapter counts for one
// student-course pair.
func (r *AnalyticsRepository) ChapterCounts(ctx context.Context, studentID, courseID string) (total int, completed int, err error) {
	const totalQuery = `SELECT COUNT(*) FROM chapters ch JOIN sections s ON s.id = ch.section_id WHERE s.course_id = $1`
	if err = r.db.GetContext(ctx, &total, totalQuery, courseID); err != nil {
		return 0, 0, fmt.Errorf("count chapters: %w", err)
	}
	const completedQuery = `SELECT COUNT(*) FROM section_progress sp
        JOIN sections s ON s.id = sp.section_id
        JOIN chapters ch ON ch.section_id = s.id
        WHERE sp.student_id = $1 AND s.course_id = $2 AND sp.completed = TRUE`
	if err = r.db.GetContext(ctx, &completed, completedQuery, studentID, courseID); err != nil {
		return 0, 0, fmt.Errorf("count completed chapters: %w", err)
	}
	return total, completed, nil
}
