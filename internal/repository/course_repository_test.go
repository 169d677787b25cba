package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewCourseRepository(db)
	exists, err := repo.Exists(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM courses WHERE id").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "published", "created_at"}).
			AddRow("c1", "Maths", true, created))

	repo := NewCourseRepository(db)
	course, err := repo.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Maths", course.Title)
	assert.True(t, course.Published)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseSections(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery("FROM sections WHERE course_id").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "title", "position"}).
			AddRow("s1", "c1", "Basics", 1).
			AddRow("s2", "c1", "Advanced", 2))

	repo := NewCourseRepository(db)
	sections, err := repo.Sections(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Basics", sections[0].Title)
	assert.Equal(t, 2, sections[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}
