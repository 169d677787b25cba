package service

import (
	"sort"
	"time"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/dto"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
)

const hoursPerDay = 24

// ScoreEngagement turns per-student activity aggregates into cohort figures.
// Students with no logins in range still count, contributing zero to the
// login frequency. Drop-off compares each student's latest activity against
// the inactivity window ending at the spec's date_to.
func ScoreEngagement(rows []models.StudentActivityRow, spec models.QuerySpec, inactivityWindow time.Duration) dto.EngagementSummary {
	summary := dto.EngagementSummary{ActiveStudents: len(rows)}
	if len(rows) == 0 {
		return summary
	}

	weeks := spec.DateTo.Sub(spec.DateFrom).Hours() / (7 * hoursPerDay)
	if weeks < 1 {
		weeks = 1
	}
	inactiveCutoff := spec.DateTo.Add(-inactivityWindow)

	var loginFreqSum float64
	var droppedOff int
	for _, row := range rows {
		loginFreqSum += float64(row.LoginCount) / weeks
		if row.LastActivityAt == nil || row.LastActivityAt.Before(inactiveCutoff) {
			droppedOff++
		}
	}
	summary.LoginFrequencyPerWeek = loginFreqSum / float64(len(rows))
	summary.DropOffRatePercent = float64(droppedOff) / float64(len(rows)) * 100
	return summary
}

// AverageEnrollmentDays is the mean age of the cohort's enrollments in days,
// measured against the supplied clock.
func AverageEnrollmentDays(rows []models.CohortRow, now time.Time) float64 {
	if len(rows) == 0 {
		return 0
	}
	var daySum float64
	for _, row := range rows {
		daySum += now.Sub(row.EnrolledAt).Hours() / hoursPerDay
	}
	return daySum / float64(len(rows))
}

// RankEngaged orders students by enrolled-course count descending, breaking
// ties by ascending average completion days, then by student id. The order
// is total, so identical inputs always paginate identically.
func RankEngaged(rows []models.StudentActivityRow) []dto.EngagedStudent {
	ranked := make([]dto.EngagedStudent, 0, len(rows))
	for _, row := range rows {
		entry := dto.EngagedStudent{
			Student:     models.StudentRef{ID: row.StudentID, Username: row.Username},
			CourseCount: row.CourseCount,
		}
		if row.CompletedCount > 0 {
			entry.AvgCompletionDays = row.TotalCompletionDays / float64(row.CompletedCount)
		}
		ranked = append(ranked, entry)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CourseCount != ranked[j].CourseCount {
			return ranked[i].CourseCount > ranked[j].CourseCount
		}
		if ranked[i].AvgCompletionDays != ranked[j].AvgCompletionDays {
			return ranked[i].AvgCompletionDays < ranked[j].AvgCompletionDays
		}
		return ranked[i].Student.ID < ranked[j].Student.ID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
