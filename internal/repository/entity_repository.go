package repository

import (
	"context"
)

// EntityRepository answers existence checks for ids that scope reports.
type EntityRepository struct {
	courses *CourseRepository
	users   *UserRepository
}

// NewEntityRepository constructs an EntityRepository over the course and user
// repositories.
func NewEntityRepository(courses *CourseRepository, users *UserRepository) *EntityRepository {
	return &EntityRepository{courses: courses, users: users}
}

// CourseExists reports whether the course id references a course.
func (r *EntityRepository) CourseExists(ctx context.Context, id string) (bool, error) {
	return r.courses.Exists(ctx, id)
}

// StudentExists reports whether the id references an active student account.
func (r *EntityRepository) StudentExists(ctx context.Context, id string) (bool, error) {
	return r.users.StudentExists(ctx, id)
}
