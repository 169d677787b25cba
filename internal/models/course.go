package models

import "time"

// Course is the top level content unit. Sections and chapters hang off it
// in a fixed ordering; the total chapter count is the denominator for
// completion percentages.
type Course struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Published bool      `db:"published" json:"published"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Section is an ordered group of chapters within a course.
type Section struct {
	ID       string `db:"id" json:"id"`
	CourseID string `db:"course_id" json:"course_id"`
	Title    string `db:"title" json:"title"`
	Position int    `db:"position" json:"position"`
}

// Chapter is the smallest completable unit.
type Chapter struct {
	ID        string `db:"id" json:"id"`
	SectionID string `db:"section_id" json:"section_id"`
	Title     string `db:"title" json:"title"`
	Position  int    `db:"position" json:"position"`
}

// SectionState is a section in course order together with the student's
// completion flag, used to locate the current position pointer.
type SectionState struct {
	SectionID string `db:"section_id" json:"section_id"`
	Title     string `db:"title" json:"title"`
	Position  int    `db:"position" json:"position"`
	Completed bool   `db:"completed" json:"completed"`
}
