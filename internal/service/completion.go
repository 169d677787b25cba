package service

import (
	"math"
	"time"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
)

// completionPercentage derives the integer display percentage. A course with
// no chapters has no defined ratio and reports 0.
func completionPercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// ClassifyCompletion buckets one aggregated enrollment row. An enrollment is
// completed only when the course has chapters and all of them are done;
// timeliness is measured from enrollment to the last completion record, with
// the window boundary itself counting as on time. Non-completed enrollments
// are NotApplicable and stay out of timeliness counts.
func ClassifyCompletion(row models.CohortRow, onTimeWindow time.Duration) (models.CompletionStatus, models.Timeliness) {
	status := models.StatusNotStarted
	switch {
	case row.TotalChapters > 0 && row.CompletedChapters >= row.TotalChapters:
		status = models.StatusCompleted
	case row.CompletedChapters > 0:
		status = models.StatusInProgress
	}

	if status != models.StatusCompleted || row.LastCompletedAt == nil {
		return status, models.TimelinessNotApplicable
	}
	if row.LastCompletedAt.Sub(row.EnrolledAt) > onTimeWindow {
		return status, models.TimelinessDelayed
	}
	return status, models.TimelinessOnTime
}

// CompletionTally holds the folded cohort counters.
type CompletionTally struct {
	Total           int
	Completed       int
	InProgress      int
	NotStarted      int
	OnTime          int
	Delayed         int
	AverageProgress float64
}

// SummarizeCompletion folds a cohort into the summary counters.
// AverageProgress is the mean of per-enrollment percentages over the full
// enrollment count: zero-chapter courses contribute 0 rather than being
// excluded, keeping the denominator auditable.
func SummarizeCompletion(rows []models.CohortRow, onTimeWindow time.Duration) CompletionTally {
	var summary CompletionTally
	var percentSum int
	for _, row := range rows {
		status, timeliness := ClassifyCompletion(row, onTimeWindow)
		percentSum += completionPercentage(row.CompletedChapters, row.TotalChapters)
		switch status {
		case models.StatusCompleted:
			summary.Completed++
		case models.StatusInProgress:
			summary.InProgress++
		default:
			summary.NotStarted++
		}
		switch timeliness {
		case models.TimelinessOnTime:
			summary.OnTime++
		case models.TimelinessDelayed:
			summary.Delayed++
		}
	}
	summary.Total = len(rows)
	if summary.Total > 0 {
		summary.AverageProgress = float64(percentSum) / float64(summary.Total)
	}
	return summary
}
