package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
)

func attempt(studentID, quizID string, score, totalPoints float64) models.AttemptRow {
	return models.AttemptRow{
		QuizAttempt: models.QuizAttempt{
			StudentID:   studentID,
			QuizID:      quizID,
			Score:       score,
			TotalPoints: totalPoints,
			CompletedAt: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestAggregateAttempts(t *testing.T) {
	attempts := []models.AttemptRow{
		attempt("s1", "q1", 8, 10),
		attempt("s1", "q2", 6, 10),
		attempt("s2", "q1", 10, 10),
	}

	stats := AggregateAttempts(attempts)

	assert.Equal(t, 3, stats.TotalAttempts)
	assert.Equal(t, 2, stats.StudentsCounted)
	// (80 + 60 + 100) / 3
	assert.InDelta(t, 80.0, stats.AverageScore, 0.001)
}

func TestAggregateAttemptsZeroTotalPointsTakenAsPercentage(t *testing.T) {
	attempts := []models.AttemptRow{attempt("s1", "q1", 85, 0)}

	stats := AggregateAttempts(attempts)
	assert.InDelta(t, 85.0, stats.AverageScore, 0.001)
}

func TestAggregateAttemptsEmpty(t *testing.T) {
	stats := AggregateAttempts(nil)
	assert.Zero(t, stats.TotalAttempts)
	assert.Zero(t, stats.AverageScore)
}

func TestRankTopPerformers(t *testing.T) {
	attempts := []models.AttemptRow{
		attempt("s1", "q1", 9, 10),
		attempt("s1", "q2", 7, 10),
		attempt("s2", "q1", 8, 10),
		attempt("s3", "q1", 8, 10),
		attempt("s3", "q2", 8, 10),
	}

	performers := RankTopPerformers(attempts, 10)
	require.Len(t, performers, 3)

	// s1 and s3 tie at 80 percent; s3 wins on attempt count. s2 also
	// averages 80 with one attempt, so id breaks the s1/s2 tie.
	assert.Equal(t, "s3", performers[0].Student.ID)
	assert.Equal(t, "s1", performers[1].Student.ID)
	assert.Equal(t, "s2", performers[2].Student.ID)
	assert.Equal(t, 1, performers[0].Rank)
	assert.Equal(t, 3, performers[2].Rank)
}

func TestRankTopPerformersLimit(t *testing.T) {
	attempts := []models.AttemptRow{
		attempt("s1", "q1", 10, 10),
		attempt("s2", "q1", 9, 10),
		attempt("s3", "q1", 8, 10),
	}

	performers := RankTopPerformers(attempts, 2)
	require.Len(t, performers, 2)
	assert.Equal(t, "s1", performers[0].Student.ID)
}

func TestQuizDifficultyHardestFirstNoDataLast(t *testing.T) {
	quizzes := []models.Quiz{
		{ID: "q1", Title: "Algebra"},
		{ID: "q2", Title: "Geometry"},
		{ID: "q3", Title: "Unattempted"},
	}
	attempts := []models.AttemptRow{
		attempt("s1", "q1", 9, 10),
		attempt("s2", "q1", 7, 10),
		attempt("s1", "q2", 3, 10),
	}

	stats := QuizDifficulty(quizzes, attempts)
	require.Len(t, stats, 3)

	assert.Equal(t, "q2", stats[0].QuizID)
	require.NotNil(t, stats[0].AverageScore)
	assert.InDelta(t, 30.0, *stats[0].AverageScore, 0.001)

	assert.Equal(t, "q1", stats[1].QuizID)
	assert.InDelta(t, 80.0, *stats[1].AverageScore, 0.001)

	assert.Equal(t, "q3", stats[2].QuizID)
	assert.Nil(t, stats[2].AverageScore)
	assert.Zero(t, stats[2].AttemptCount)
}
