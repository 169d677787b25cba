package service

import (
	"sort"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/dto"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
)

// AggregateAttempts folds the attempts in range into the cohort-wide stats.
// Each attempt contributes its percentage; attempts stored with zero total
// points already carry a percentage and are taken as-is.
func AggregateAttempts(attempts []models.AttemptRow) dto.QuizOverallStats {
	stats := dto.QuizOverallStats{TotalAttempts: len(attempts)}
	if len(attempts) == 0 {
		return stats
	}
	students := make(map[string]struct{})
	var percentSum float64
	for _, attempt := range attempts {
		percentSum += attempt.Percentage()
		students[attempt.StudentID] = struct{}{}
	}
	stats.AverageScore = percentSum / float64(len(attempts))
	stats.StudentsCounted = len(students)
	return stats
}

// RankTopPerformers orders students by mean attempt percentage descending,
// breaking ties by attempt count descending, then student id ascending. The
// resolution is deterministic so repeated runs over the same attempts yield
// the same list.
func RankTopPerformers(attempts []models.AttemptRow, limit int) []dto.TopPerformer {
	type acc struct {
		student    models.StudentRef
		percentSum float64
		count      int
	}
	byStudent := make(map[string]*acc)
	for _, attempt := range attempts {
		entry, ok := byStudent[attempt.StudentID]
		if !ok {
			entry = &acc{student: models.StudentRef{ID: attempt.StudentID, Username: attempt.Username}}
			byStudent[attempt.StudentID] = entry
		}
		entry.percentSum += attempt.Percentage()
		entry.count++
	}

	performers := make([]dto.TopPerformer, 0, len(byStudent))
	for _, entry := range byStudent {
		performers = append(performers, dto.TopPerformer{
			Student:      entry.student,
			AverageScore: entry.percentSum / float64(entry.count),
			AttemptCount: entry.count,
		})
	}

	sort.Slice(performers, func(i, j int) bool {
		if performers[i].AverageScore != performers[j].AverageScore {
			return performers[i].AverageScore > performers[j].AverageScore
		}
		if performers[i].AttemptCount != performers[j].AttemptCount {
			return performers[i].AttemptCount > performers[j].AttemptCount
		}
		return performers[i].Student.ID < performers[j].Student.ID
	})

	if limit > 0 && len(performers) > limit {
		performers = performers[:limit]
	}
	for i := range performers {
		performers[i].Rank = i + 1
	}
	return performers
}

// QuizDifficulty computes the mean attempt percentage per quiz: a lower mean
// implies a harder quiz. Quizzes without attempts in range keep a nil
// average, which renders as "no data" instead of zero. The hardest quizzes
// sort first, no-data quizzes last.
func QuizDifficulty(quizzes []models.Quiz, attempts []models.AttemptRow) []dto.QuizStat {
	type acc struct {
		percentSum float64
		count      int
	}
	byQuiz := make(map[string]*acc, len(quizzes))
	for _, attempt := range attempts {
		entry, ok := byQuiz[attempt.QuizID]
		if !ok {
			entry = &acc{}
			byQuiz[attempt.QuizID] = entry
		}
		entry.percentSum += attempt.Percentage()
		entry.count++
	}

	stats := make([]dto.QuizStat, 0, len(quizzes))
	for _, quiz := range quizzes {
		stat := dto.QuizStat{QuizID: quiz.ID, QuizTitle: quiz.Title}
		if entry, ok := byQuiz[quiz.ID]; ok && entry.count > 0 {
			avg := entry.percentSum / float64(entry.count)
			stat.AverageScore = &avg
			stat.AttemptCount = entry.count
		}
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		left, right := stats[i].AverageScore, stats[j].AverageScore
		switch {
		case left == nil && right == nil:
			return stats[i].QuizID < stats[j].QuizID
		case left == nil:
			return false
		case right == nil:
			return true
		case *left != *right:
			return *left < *right
		}
		return stats[i].QuizID < stats[j].QuizID
	})
	return stats
}
