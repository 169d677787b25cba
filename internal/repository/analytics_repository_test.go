package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
)

func cohortSpec() models.QuerySpec {
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return models.QuerySpec{
		Report:   models.ReportCompletion,
		DateFrom: to.Add(-90 * 24 * time.Hour),
		DateTo:   to,
	}
}

func TestCohortRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	spec := cohortSpec()
	enrolled := spec.DateTo.Add(-10 * 24 * time.Hour)
	rows := sqlmock.NewRows([]string{"student_id", "username", "email", "course_id", "course_title", "enrolled_at", "total_chapters", "completed_chapters", "last_completed_at", "last_accessed_at"}).
		AddRow("s1", "alice", "alice@example.com", "c1", "Maths", enrolled, 10, 4, nil, nil)
	mock.ExpectQuery("FROM enrollments e").
		WithArgs(spec.DateFrom, spec.DateTo).
		WillReturnRows(rows)

	result, err := repo.CohortRows(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "s1", result[0].StudentID)
	assert.Equal(t, 10, result[0].TotalChapters)
	assert.Nil(t, result[0].LastCompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCohortRowsAppliesFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	spec := cohortSpec()
	spec.CourseID = "c1"
	spec.Search = "ali"

	mock.ExpectQuery("FROM enrollments e").
		WithArgs(spec.DateFrom, spec.DateTo, "c1", "%ali%").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "username", "email", "course_id", "course_title", "enrolled_at", "total_chapters", "completed_chapters", "last_completed_at", "last_accessed_at"}))

	result, err := repo.CohortRows(context.Background(), spec)
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionStates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"section_id", "title", "position", "completed"}).
		AddRow("sec1", "Intro", 1, true).
		AddRow("sec2", "Basics", 2, false)
	mock.ExpectQuery("FROM sections s").
		WithArgs("s1", "c1").
		WillReturnRows(rows)

	states, err := repo.SectionStates(context.Background(), "s1", "c1")
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.True(t, states[0].Completed)
	assert.Equal(t, "Basics", states[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentSections(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	spec := cohortSpec()
	rows := sqlmock.NewRows([]string{"student_id", "course_id", "section_title"}).
		AddRow("s1", "c1", "Basics")
	mock.ExpectQuery("JOIN LATERAL").
		WithArgs(spec.DateFrom, spec.DateTo).
		WillReturnRows(rows)

	result, err := repo.CurrentSections(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Basics", result[0].SectionTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotAbsentReturnsNil(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery("FROM course_progress").
		WithArgs("s1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "course_id", "completion_percentage", "completion_status", "last_accessed_at"}))

	snapshot, err := repo.Snapshot(context.Background(), "s1", "c1")
	require.NoError(t, err)
	assert.Nil(t, snapshot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChapterCounts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery("FROM chapters ch").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("FROM section_progress sp").
		WithArgs("s1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	total, completed, err := repo.ChapterCounts(context.Background(), "s1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Equal(t, 5, completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
