package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
)

func TestComputeProgressPointsAtFirstIncompleteSection(t *testing.T) {
	states := []models.SectionState{
		{SectionID: "sec1", Title: "Intro", Position: 1, Completed: true},
		{SectionID: "sec2", Title: "Basics", Position: 2, Completed: false},
		{SectionID: "sec3", Title: "Advanced", Position: 3, Completed: false},
	}

	progress := ComputeProgress("s1", "c1", states, 6, 2)

	assert.Equal(t, "Basics", progress.CurrentSectionTitle)
	assert.False(t, progress.AllSectionsDone)
	assert.Equal(t, 33, progress.Percentage)
}

func TestComputeProgressSkipsGapsInCompletion(t *testing.T) {
	// A section completed out of order does not move the pointer past an
	// earlier incomplete one.
	states := []models.SectionState{
		{SectionID: "sec1", Title: "Intro", Position: 1, Completed: false},
		{SectionID: "sec2", Title: "Basics", Position: 2, Completed: true},
	}

	progress := ComputeProgress("s1", "c1", states, 4, 2)
	assert.Equal(t, "Intro", progress.CurrentSectionTitle)
}

func TestComputeProgressAllSectionsDone(t *testing.T) {
	states := []models.SectionState{
		{SectionID: "sec1", Title: "Intro", Position: 1, Completed: true},
		{SectionID: "sec2", Title: "Basics", Position: 2, Completed: true},
	}

	progress := ComputeProgress("s1", "c1", states, 4, 4)

	assert.True(t, progress.AllSectionsDone)
	assert.Equal(t, "All sections completed (4/4 chapters)", progress.CurrentSectionTitle)
	assert.Equal(t, 100, progress.Percentage)
}

func TestComputeProgressNoSections(t *testing.T) {
	progress := ComputeProgress("s1", "c1", nil, 0, 0)

	assert.Empty(t, progress.CurrentSectionTitle)
	assert.False(t, progress.AllSectionsDone)
	assert.Equal(t, 0, progress.Percentage)
}

func TestComputeProgressZeroChapterCourse(t *testing.T) {
	states := []models.SectionState{
		{SectionID: "sec1", Title: "Empty Section", Position: 1, Completed: false},
	}

	progress := ComputeProgress("s1", "c1", states, 0, 0)

	assert.Equal(t, 0, progress.Percentage)
	assert.Equal(t, "Empty Section", progress.CurrentSectionTitle)
}
