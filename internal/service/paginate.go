package service

import "github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"

// paginateSlice cuts one page out of an in-memory result set and derives the
// page metadata. Pages past the end return an empty (non-nil) slice rather
// than erroring, so stale page links after a cohort shrinks stay harmless.
func paginateSlice[T any](items []T, page, pageSize int) ([]T, models.PageInfo) {
	info := models.NewPageInfo(len(items), page, pageSize)
	start := (info.CurrentPage - 1) * info.PageSize
	if start >= len(items) {
		return []T{}, info
	}
	end := start + info.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end:end], info
}
