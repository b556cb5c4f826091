package models

// Task represents a single to-do entry.
//
// Text is opaque to the store. CreatedAt is kept as the ISO-8601 string it
// was written with so persisted values round-trip unchanged.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// Filter selects which tasks the list view shows
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Next returns the filter that follows f when cycling through them
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Match reports whether t is visible under f. Unknown filters show everything.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// ParseFilter maps a stored setting back to a Filter, defaulting to FilterAll
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterActive, FilterCompleted:
		return Filter(s)
	default:
		return FilterAll
	}
}

// Counts returns the number of pending and completed tasks
func Counts(tasks []Task) (pending, completed int) {
	for _, t := range tasks {
		if t.Completed {
			completed++
		} else {
			pending++
		}
	}
	return pending, completed
}
