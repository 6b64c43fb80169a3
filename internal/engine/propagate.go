package engine

import "github.com/ryoseto/quadra/internal/domain"

// Completion propagation: a parent's completion is derived from its
// children. Propagation targets only the direct parent; nesting depth is
// capped at one level, so no recursion is possible.

// propagateLocked synchronizes the parent's completion with its children
// after a completion-affecting change to a child. Idempotent: repeated calls
// with unchanged children produce no further writes.
func (s *Store) propagateLocked(parentID string) {
	parent, ok := s.tasks[parentID]
	if !ok || !domain.CanParentChildren(parent) {
		return
	}
	childIDs := s.children[parentID]
	if len(childIDs) == 0 {
		// Manual mode: a childless parent keeps its current value.
		return
	}
	children := make([]*domain.Task, 0, len(childIDs))
	for _, id := range childIDs {
		children = append(children, s.tasks[id])
	}

	switch {
	case domain.AllChildrenCompleted(children) && !parent.Completed:
		parent.Completed = true
		parent.CompletedAt = domain.LatestChildCompletion(children)
		parent.UpdatedAt = s.clock.Now()
		s.appendAuditLocked(domain.AuditEntry{
			TaskID: parent.ID,
			Action: domain.AuditAutoCompleted,
		})
	case !domain.AllChildrenCompleted(children) && parent.Completed:
		parent.Completed = false
		parent.CompletedAt = nil
		parent.UpdatedAt = s.clock.Now()
		s.appendAuditLocked(domain.AuditEntry{
			TaskID: parent.ID,
			Action: domain.AuditAutoUncompleted,
		})
	}
}
