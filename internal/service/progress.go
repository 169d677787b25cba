package service

import (
	"fmt"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
)

// ComputeProgress derives a student's position in a course from the ordered
// section states and the chapter counts. The current section is the first
// one in course order without a completed record; when everything is done
// the pointer becomes a marker carrying the counts. Courses with no chapters
// report 0 percent and still point at the first section.
func ComputeProgress(studentID, courseID string, states []models.SectionState, totalChapters, completedChapters int) models.CourseProgress {
	progress := models.CourseProgress{
		StudentID:         studentID,
		CourseID:          courseID,
		Percentage:        completionPercentage(completedChapters, totalChapters),
		CompletedChapters: completedChapters,
		TotalChapters:     totalChapters,
	}

	for _, state := range states {
		if !state.Completed {
			progress.CurrentSectionTitle = state.Title
			return progress
		}
	}

	if len(states) == 0 {
		return progress
	}

	progress.AllSectionsDone = true
	progress.CurrentSectionTitle = allCompletedMarker(completedChapters, totalChapters)
	return progress
}

func allCompletedMarker(completed, total int) string {
	return fmt.Sprintf("All sections completed (%d/%d chapters)", completed, total)
}
