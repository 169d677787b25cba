package models

import "time"

// ReportType identifies one of the report surfaces the engine exposes.
type ReportType string

const (
	ReportCompletion ReportType = "completion"
	ReportProgress   ReportType = "progress"
	ReportQuiz       ReportType = "quiz"
	ReportEngagement ReportType = "engagement"
)

// Valid reports whether the type names a known report surface.
func (t ReportType) Valid() bool {
	switch t {
	case ReportCompletion, ReportProgress, ReportQuiz, ReportEngagement:
		return true
	}
	return false
}

// ExportFormat is a supported report download format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// Valid reports whether the format is supported.
func (f ExportFormat) Valid() bool {
	return f == ExportFormatCSV || f == ExportFormatPDF
}

// ReportFilter carries the raw, caller-supplied filter values before
// normalization. Zero values mean "not provided".
type ReportFilter struct {
	DateFrom  *time.Time `form:"-" json:"date_from,omitempty"`
	DateTo    *time.Time `form:"-" json:"date_to,omitempty"`
	CourseID  string     `form:"course_id" json:"course_id,omitempty"`
	StudentID string     `form:"student_id" json:"student_id,omitempty"`
	QuizID    string     `form:"quiz_id" json:"quiz_id,omitempty"`
	Search    string     `form:"search" json:"search,omitempty"`
	SortKey   string     `form:"sort" json:"sort,omitempty"`
	Page      int        `form:"page" json:"page,omitempty"`
	PageSize  int        `form:"page_size" json:"page_size,omitempty"`
}

// QuerySpec is the validated, normalized query every derivation component
// consumes for one report request. All metrics shown together in a report
// are computed over the cohort this spec selects; components receive it by
// value and never mutate it.
type QuerySpec struct {
	Report    ReportType `json:"report"`
	DateFrom  time.Time  `json:"date_from"`
	DateTo    time.Time  `json:"date_to"`
	CourseID  string     `json:"course_id,omitempty"`
	StudentID string     `json:"student_id,omitempty"`
	QuizID    string     `json:"quiz_id,omitempty"`
	Search    string     `json:"search,omitempty"`
	SortKey   string     `json:"sort_key"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
}

// Offset returns the row offset implied by page and page size.
func (s QuerySpec) Offset() int {
	return (s.Page - 1) * s.PageSize
}

// PageInfo is the pagination metadata attached to every paginated report
// section.
type PageInfo struct {
	CurrentPage  int  `json:"current_page"`
	PageSize     int  `json:"page_size"`
	TotalPages   int  `json:"total_pages"`
	TotalRecords int  `json:"total_records"`
	HasNext      bool `json:"has_next"`
	HasPrev      bool `json:"has_prev"`
}

// NewPageInfo derives page metadata from a total record count. TotalPages is
// never below 1, even for an empty result. Pages past the end stay valid:
// they carry no data, HasNext is false and HasPrev reflects that earlier
// pages exist, so stale page links degrade gracefully.
func NewPageInfo(totalRecords, page, pageSize int) PageInfo {
	if pageSize < 1 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}
	totalPages := (totalRecords + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return PageInfo{
		CurrentPage:  page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		TotalRecords: totalRecords,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}
}
