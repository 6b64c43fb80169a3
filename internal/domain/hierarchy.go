package domain

import "time"

// Hierarchy predicates. These are pure functions over tasks; the mutation
// engine consults them before applying any structural change.

// CanParentChildren returns true if the task may hold subtasks.
func CanParentChildren(t *Task) bool {
	return t != nil && t.Kind.CanParentChildren()
}

// IsLeafOnly returns true if the task can never hold children of its own.
func IsLeafOnly(t *Task) bool {
	return t != nil && t.Kind.IsLeafOnly()
}

// WouldCreateCycle reports whether reparenting subtaskID under
// candidateParentID would violate the single-level nesting rule. Because
// nesting depth is capped at one level, a cycle can only arise from a task
// adopting itself; deeper cycles are already excluded by the leaf rule.
func WouldCreateCycle(candidateParentID, subtaskID string) bool {
	return candidateParentID == subtaskID
}

// AllChildrenCompleted returns true iff the parent has at least one child
// and every child is completed.
func AllChildrenCompleted(children []*Task) bool {
	if len(children) == 0 {
		return false
	}
	for _, c := range children {
		if !c.Completed {
			return false
		}
	}
	return true
}

// LatestChildCompletion returns the maximum CompletedAt among completed
// children, or nil if no child carries a completion timestamp.
func LatestChildCompletion(children []*Task) *time.Time {
	var latest *time.Time
	for _, c := range children {
		if c.CompletedAt == nil {
			continue
		}
		if latest == nil || c.CompletedAt.After(*latest) {
			at := *c.CompletedAt
			latest = &at
		}
	}
	return latest
}
