package domain

import "time"

// ViewMode selects the mutually-exclusive board view.
type ViewMode string

const (
	ViewAll       ViewMode = "all"       // No view-mode predicate
	ViewToday     ViewMode = "today"     // Due soon, overdue, or starred
	ViewCompleted ViewMode = "completed" // Completed within an explicit date range
)

// IsValid returns true if the view mode is a known value.
func (v ViewMode) IsValid() bool {
	switch v {
	case ViewAll, ViewToday, ViewCompleted:
		return true
	default:
		return false
	}
}

// FilterConfig is the active visibility-filter configuration. The resolver
// treats every inactive predicate as vacuously true.
// Fields are ordered to minimize memory padding.
type FilterConfig struct {
	CompletedCutoff *time.Time        // Drop completed tasks older than this (no effect in range mode)
	CompletedFrom   *time.Time        // Completed-view range start (inclusive)
	CompletedTo     *time.Time        // Completed-view range end (inclusive)
	Query           string            // Case-insensitive substring search
	TagIDs          []string          // Tag-membership predicate (any-of)
	PersonIDs       []string          // Person-membership predicate (any-of)
	StarredOnly     map[Quadrant]bool // Per-quadrant starred-only toggle
	View            ViewMode          // Mutually-exclusive view mode
	TodayWindowDays int               // "Due soon" horizon for the Today view
	ShowCompleted   bool              // Base completion visibility
}

// HasCompletedRange returns true if an explicit completed-date range is set.
func (c FilterConfig) HasCompletedRange() bool {
	return c.CompletedFrom != nil && c.CompletedTo != nil
}
