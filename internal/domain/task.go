// Package domain contains core business entities and interfaces.
package domain

import "time"

// Task represents a single work item on the quadrant board.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	ParentID    *string    `json:"parentID,omitempty" yaml:"parentID,omitempty"` // Set for Subtask and RecurringInstance kinds
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Recurrence  string     `json:"recurrence,omitempty" yaml:"recurrence,omitempty"` // Templates only
	TagIDs      []string   `json:"tagIDs,omitempty" yaml:"tagIDs,omitempty"`
	PersonIDs   []string   `json:"personIDs,omitempty" yaml:"personIDs,omitempty"`
	Kind        Kind       `json:"kind" yaml:"kind"`
	Quadrant    Quadrant   `json:"quadrant" yaml:"quadrant"`
	Order       int        `json:"order" yaml:"order"`
	Completed   bool       `json:"completed" yaml:"completed"`
	Starred     bool       `json:"starred,omitempty" yaml:"starred,omitempty"`
	Paused      bool       `json:"paused,omitempty" yaml:"paused,omitempty"` // Templates only
}

// IsTopLevel returns true if the task has no parent and is ordered within
// its quadrant's sibling group.
func (t *Task) IsTopLevel() bool {
	return t.ParentID == nil
}

// HasTag returns true if the task carries the given tag id.
func (t *Task) HasTag(tagID string) bool {
	for _, id := range t.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// HasPerson returns true if the task references the given person id.
func (t *Task) HasPerson(personID string) bool {
	for _, id := range t.PersonIDs {
		if id == personID {
			return true
		}
	}
	return false
}

// IsOverdue returns true if the task is incomplete and its due date has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// DueWithin returns true if the task has a due date no later than now+window.
func (t *Task) DueWithin(now time.Time, window time.Duration) bool {
	return t.DueDate != nil && !t.DueDate.After(now.Add(window))
}

// Clone returns a deep copy of the task. Pointer and slice fields are
// duplicated so mutating the copy never aliases the original.
func (t *Task) Clone() *Task {
	c := *t
	if t.ParentID != nil {
		pid := *t.ParentID
		c.ParentID = &pid
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	if t.TagIDs != nil {
		c.TagIDs = append([]string(nil), t.TagIDs...)
	}
	if t.PersonIDs != nil {
		c.PersonIDs = append([]string(nil), t.PersonIDs...)
	}
	return &c
}
