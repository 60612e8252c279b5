// Package todo implements the todo list: task records, list operations,
// persistence through a flat key-value store, and JSON import/export.
package todo

import (
	"fmt"
	"time"
)

// Priority of a task.
type Priority string

// Priorities in cycle order.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is assigned to new tasks.
const DefaultPriority = PriorityMedium

var priorityCycle = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority validates s as a priority.
func ParsePriority(s string) (Priority, error) {
	for _, p := range priorityCycle {
		if string(p) == s {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// Next returns the following priority, wrapping from high to low.
// Unknown priorities restart the cycle at low.
func (p Priority) Next() Priority {
	for i, q := range priorityCycle {
		if q == p {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}

	return PriorityLow
}

// Task is one todo record. The JSON field names are the persisted format.
type Task struct {
	ID        string    `json:"id"        yaml:"id"`
	Text      string    `json:"text"      yaml:"text"`
	Completed bool      `json:"completed" yaml:"completed"`
	Priority  Priority  `json:"priority"  yaml:"priority"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Filter selects tasks by completion state.
type Filter string

// Filters.
const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter validates s as a filter. Empty means all.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive, FilterCompleted:
		return Filter(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
}

func (f Filter) match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Stats summarizes a list.
type Stats struct {
	Total     int
	Active    int
	Completed int
	// CompletionRate is the completed share as a rounded percentage.
	CompletionRate int
}

// FormatAge describes how long ago created was, relative to now.
func FormatAge(created, now time.Time) string {
	diff := now.Sub(created)
	if diff < 0 {
		diff = -diff
	}

	day := 24 * time.Hour
	days := int((diff + day - 1) / day)

	switch {
	case days <= 1:
		return "Today"
	case days == 2:
		return "Yesterday"
	case days <= 7:
		return fmt.Sprintf("%d days ago", days-1)
	default:
		return created.Local().Format("Jan 2, 2006")
	}
}
