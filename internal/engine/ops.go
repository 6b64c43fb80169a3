package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/ryoseto/quadra/internal/domain"
)

// AddTaskInput contains the parameters for creating a top-level task.
// Fields are ordered to minimize memory padding.
type AddTaskInput struct {
	DueDate     *time.Time      // Due date (optional)
	Title       string          // Title (required)
	Description string          // Description (optional)
	Recurrence  string          // Recurrence rule (templates only)
	TagIDs      []string        // Tag references (optional)
	PersonIDs   []string        // Person references (optional)
	Kind        domain.Kind     // Standard or RecurringTemplate; empty means Standard
	Quadrant    domain.Quadrant // Target quadrant (required)
	Starred     bool            // Initial star state
}

// AddSubtaskInput contains the parameters for creating a subtask.
type AddSubtaskInput struct {
	DueDate     *time.Time
	Title       string
	Description string
	TagIDs      []string
	PersonIDs   []string
}

// TaskPatch describes a partial update. Nil fields are left unchanged.
// Fields are ordered to minimize memory padding.
type TaskPatch struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	Starred      *bool
	Completed    *bool // Rejected with ErrHasChildren on tasks with children
	Recurrence   *string
	AddTags      []string
	RemoveTags   []string
	AddPeople    []string
	RemovePeople []string
	ClearDueDate bool
}

func (p TaskPatch) empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Starred == nil && p.Completed == nil && p.Recurrence == nil &&
		len(p.AddTags) == 0 && len(p.RemoveTags) == 0 &&
		len(p.AddPeople) == 0 && len(p.RemovePeople) == 0 && !p.ClearDueDate
}

// AddTask inserts a Standard or RecurringTemplate task at the end of its
// quadrant's top-level order.
func (s *Store) AddTask(in AddTaskInput) (*domain.Task, error) {
	if in.Title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if !in.Quadrant.IsValid() {
		return nil, domain.ErrInvalidQuadrant
	}
	kind := in.Kind
	if kind == "" {
		kind = domain.KindStandard
	}
	if kind != domain.KindStandard && kind != domain.KindRecurringTemplate {
		return nil, domain.ErrInvalidKind
	}

	s.mu.Lock()
	now := s.clock.Now()
	t := &domain.Task{
		ID:          s.newIDLocked("t"),
		Kind:        kind,
		Quadrant:    in.Quadrant,
		Title:       in.Title,
		Description: in.Description,
		Recurrence:  in.Recurrence,
		DueDate:     in.DueDate,
		TagIDs:      append([]string(nil), in.TagIDs...),
		PersonIDs:   append([]string(nil), in.PersonIDs...),
		Starred:     in.Starred,
		Order:       len(s.top[in.Quadrant]),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t
	s.top[in.Quadrant] = append(s.top[in.Quadrant], t.ID)
	s.appendAuditLocked(domain.AuditEntry{TaskID: t.ID, Action: domain.AuditTaskCreated})
	out := t.Clone()
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return out, nil
}

// AddSubtask inserts a Subtask at the end of the parent's children. The
// subtask inherits the parent's quadrant; the propagator re-derives the
// parent's completion afterward.
func (s *Store) AddSubtask(parentID string, in AddSubtaskInput) (*domain.Task, error) {
	if in.Title == "" {
		return nil, domain.ErrEmptyTitle
	}

	s.mu.Lock()
	parent, ok := s.tasks[parentID]
	if !ok || !domain.CanParentChildren(parent) {
		s.mu.Unlock()
		return nil, domain.ErrInvalidParent
	}
	now := s.clock.Now()
	t := &domain.Task{
		ID:          s.newIDLocked("t"),
		Kind:        domain.KindSubtask,
		Quadrant:    parent.Quadrant,
		ParentID:    &parent.ID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		TagIDs:      append([]string(nil), in.TagIDs...),
		PersonIDs:   append([]string(nil), in.PersonIDs...),
		Order:       len(s.children[parentID]),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t
	s.children[parentID] = append(s.children[parentID], t.ID)
	s.appendAuditLocked(domain.AuditEntry{TaskID: t.ID, Action: domain.AuditTaskCreated})
	s.propagateLocked(parentID)
	out := t.Clone()
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return out, nil
}

// AddInstance creates a RecurringInstance under a template, copying the
// template's quadrant, labels, and people. Used by the recurrence scheduler.
func (s *Store) AddInstance(templateID string, dueDate *time.Time) (*domain.Task, error) {
	s.mu.Lock()
	tpl, ok := s.tasks[templateID]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	if tpl.Kind != domain.KindRecurringTemplate {
		s.mu.Unlock()
		return nil, domain.ErrNotTemplate
	}
	now := s.clock.Now()
	t := &domain.Task{
		ID:          s.newIDLocked("t"),
		Kind:        domain.KindRecurringInstance,
		Quadrant:    tpl.Quadrant,
		ParentID:    &tpl.ID,
		Title:       tpl.Title,
		Description: tpl.Description,
		DueDate:     dueDate,
		TagIDs:      append([]string(nil), tpl.TagIDs...),
		PersonIDs:   append([]string(nil), tpl.PersonIDs...),
		Order:       len(s.children[templateID]),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t
	s.children[templateID] = append(s.children[templateID], t.ID)
	s.appendAuditLocked(domain.AuditEntry{TaskID: t.ID, Action: domain.AuditTaskCreated})
	out := t.Clone()
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return out, nil
}

// UpdateTask merges the patch into the task and bumps UpdatedAt. Completion
// changes on a task with children are rejected; completion changes on a
// subtask re-run the propagator on its parent.
func (s *Store) UpdateTask(id string, patch TaskPatch) (*domain.Task, error) {
	if patch.Title != nil && *patch.Title == "" {
		return nil, domain.ErrEmptyTitle
	}

	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	if patch.empty() {
		out := t.Clone()
		s.mu.Unlock()
		return out, nil
	}
	if patch.Completed != nil && t.Kind == domain.KindRecurringTemplate {
		s.mu.Unlock()
		return nil, domain.ErrInvalidKind
	}
	if patch.Completed != nil && len(s.children[id]) > 0 {
		s.mu.Unlock()
		s.logger.Warn(id, "engine", "completion of a parent is derived from its children")
		return nil, domain.ErrHasChildren
	}

	now := s.clock.Now()
	completionChanged := false

	if patch.Title != nil && *patch.Title != t.Title {
		s.auditFieldLocked(t.ID, "title", t.Title, *patch.Title)
		t.Title = *patch.Title
	}
	if patch.Description != nil && *patch.Description != t.Description {
		s.auditFieldLocked(t.ID, "description", t.Description, *patch.Description)
		t.Description = *patch.Description
	}
	if patch.Recurrence != nil && *patch.Recurrence != t.Recurrence {
		s.auditFieldLocked(t.ID, "recurrence", t.Recurrence, *patch.Recurrence)
		t.Recurrence = *patch.Recurrence
	}
	if patch.ClearDueDate && t.DueDate != nil {
		s.auditFieldLocked(t.ID, "dueDate", t.DueDate.Format(time.RFC3339), "")
		t.DueDate = nil
	} else if patch.DueDate != nil {
		from := ""
		if t.DueDate != nil {
			from = t.DueDate.Format(time.RFC3339)
		}
		s.auditFieldLocked(t.ID, "dueDate", from, patch.DueDate.Format(time.RFC3339))
		due := *patch.DueDate
		t.DueDate = &due
	}
	if patch.Starred != nil && *patch.Starred != t.Starred {
		s.auditFieldLocked(t.ID, "starred", fmt.Sprintf("%t", t.Starred), fmt.Sprintf("%t", *patch.Starred))
		t.Starred = *patch.Starred
	}
	if len(patch.AddTags) > 0 || len(patch.RemoveTags) > 0 {
		next := updateRefs(t.TagIDs, patch.AddTags, patch.RemoveTags)
		s.auditFieldLocked(t.ID, "tags", strings.Join(t.TagIDs, ","), strings.Join(next, ","))
		t.TagIDs = next
	}
	if len(patch.AddPeople) > 0 || len(patch.RemovePeople) > 0 {
		next := updateRefs(t.PersonIDs, patch.AddPeople, patch.RemovePeople)
		s.auditFieldLocked(t.ID, "people", strings.Join(t.PersonIDs, ","), strings.Join(next, ","))
		t.PersonIDs = next
	}
	if patch.Completed != nil && *patch.Completed != t.Completed {
		completionChanged = true
		t.Completed = *patch.Completed
		if t.Completed {
			at := now
			t.CompletedAt = &at
			s.appendAuditLocked(domain.AuditEntry{TaskID: t.ID, Action: domain.AuditTaskCompleted})
		} else {
			t.CompletedAt = nil
			s.appendAuditLocked(domain.AuditEntry{TaskID: t.ID, Action: domain.AuditTaskUncompleted})
		}
	}
	t.UpdatedAt = now

	if completionChanged && t.ParentID != nil {
		s.propagateLocked(*t.ParentID)
	}
	out := t.Clone()
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return out, nil
}

// ToggleComplete flips the task's completion and stamps or clears
// CompletedAt. Tasks with children are rejected: their completion is
// propagator-controlled only.
func (s *Store) ToggleComplete(id string) (*domain.Task, error) {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	if t.Kind == domain.KindRecurringTemplate {
		s.mu.Unlock()
		return nil, domain.ErrInvalidKind
	}
	if len(s.children[id]) > 0 {
		s.mu.Unlock()
		s.logger.Warn(id, "engine", "completion of a parent is derived from its children")
		return nil, domain.ErrHasChildren
	}

	now := s.clock.Now()
	t.Completed = !t.Completed
	if t.Completed {
		at := now
		t.CompletedAt = &at
		s.appendAuditLocked(domain.AuditEntry{TaskID: t.ID, Action: domain.AuditTaskCompleted})
	} else {
		t.CompletedAt = nil
		s.appendAuditLocked(domain.AuditEntry{TaskID: t.ID, Action: domain.AuditTaskUncompleted})
	}
	t.UpdatedAt = now

	if t.ParentID != nil {
		s.propagateLocked(*t.ParentID)
	}
	out := t.Clone()
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return out, nil
}

// ToggleStar flips the task's starred flag. Read and write happen in one
// locked section so the toggle is atomic.
func (s *Store) ToggleStar(id string) (*domain.Task, error) {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	starred := !t.Starred
	s.auditFieldLocked(t.ID, "starred", fmt.Sprintf("%t", t.Starred), fmt.Sprintf("%t", starred))
	t.Starred = starred
	t.UpdatedAt = s.clock.Now()
	out := t.Clone()
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return out, nil
}

// SetPaused pauses or resumes instance generation for a template.
func (s *Store) SetPaused(templateID string, paused bool) error {
	s.mu.Lock()
	t, ok := s.tasks[templateID]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	if t.Kind != domain.KindRecurringTemplate {
		s.mu.Unlock()
		return domain.ErrNotTemplate
	}
	if t.Paused == paused {
		s.mu.Unlock()
		return nil
	}
	s.auditFieldLocked(t.ID, "paused", fmt.Sprintf("%t", t.Paused), fmt.Sprintf("%t", paused))
	t.Paused = paused
	t.UpdatedAt = s.clock.Now()
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return nil
}

// DeleteTask removes the task and, cascading, all of its descendants. If
// the task was a subtask, the old parent's completion is re-derived.
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	oldParent := ""
	if t.ParentID != nil {
		oldParent = *t.ParentID
	}

	for _, victim := range s.subtreeLocked(id) {
		s.removeTaskLocked(victim)
	}
	if oldParent != "" {
		s.children[oldParent] = removeFromGroup(s.children[oldParent], id)
		s.renumberLocked(s.children[oldParent])
		s.propagateLocked(oldParent)
	} else {
		s.top[t.Quadrant] = removeFromGroup(s.top[t.Quadrant], id)
		s.renumberLocked(s.top[t.Quadrant])
	}
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return nil
}

// subtreeLocked returns the task and all of its descendants, children last.
func (s *Store) subtreeLocked(id string) []string {
	out := []string{id}
	for _, cid := range s.children[id] {
		out = append(out, s.subtreeLocked(cid)...)
	}
	return out
}

// removeTaskLocked deletes one task record and its audit deletion marker.
// Group membership of the root victim is handled by the caller.
func (s *Store) removeTaskLocked(id string) {
	delete(s.tasks, id)
	delete(s.children, id)
	s.appendAuditLocked(domain.AuditEntry{TaskID: id, Action: domain.AuditTaskDeleted})
	if s.audit != nil {
		if err := s.audit.SetTaskDeleted(id, true); err != nil {
			s.logger.Warn(id, "audit", fmt.Sprintf("mark deleted failed: %v", err))
		}
	}
}

// MoveTask reassigns a top-level task's quadrant and position. Children are
// not restructured, but their quadrant follows the parent's so the
// inheritance invariant keeps holding.
func (s *Store) MoveTask(id string, quadrant domain.Quadrant, order int) error {
	return s.move(id, quadrant, order)
}

// MoveTaskWithSubtasks moves a top-level task and carries all children into
// the new quadrant. Children's parent link is unchanged; only their
// quadrant follows.
func (s *Store) MoveTaskWithSubtasks(id string, quadrant domain.Quadrant, order int) error {
	return s.move(id, quadrant, order)
}

func (s *Store) move(id string, quadrant domain.Quadrant, order int) error {
	if !quadrant.IsValid() {
		return domain.ErrInvalidQuadrant
	}

	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	if !t.IsTopLevel() {
		s.mu.Unlock()
		return domain.ErrNotTopLevel
	}

	from := t.Quadrant
	s.top[from] = removeFromGroup(s.top[from], id)
	s.renumberLocked(s.top[from])
	s.top[quadrant] = insertIntoGroup(s.top[quadrant], id, order)
	s.renumberLocked(s.top[quadrant])
	t.Quadrant = quadrant
	t.UpdatedAt = s.clock.Now()
	for _, cid := range s.children[id] {
		s.tasks[cid].Quadrant = quadrant
	}
	if from != quadrant {
		s.appendAuditLocked(domain.AuditEntry{
			TaskID: id,
			Action: domain.AuditTaskMoved,
			Field:  "quadrant",
			From:   fmt.Sprintf("%d", from),
			To:     fmt.Sprintf("%d", quadrant),
		})
	}
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return nil
}

// ReorderSubtasks rewrites the order of a parent's children to match the
// given sequence. Every current child must appear exactly once.
func (s *Store) ReorderSubtasks(parentID string, orderedIDs []string) error {
	s.mu.Lock()
	if _, ok := s.tasks[parentID]; !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	current := s.children[parentID]
	if len(orderedIDs) != len(current) {
		s.mu.Unlock()
		return fmt.Errorf("%w: sequence does not match current children", domain.ErrNotSubtask)
	}
	seen := make(map[string]bool, len(current))
	for _, id := range current {
		seen[id] = true
	}
	for _, id := range orderedIDs {
		if !seen[id] {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s is not a child of %s", domain.ErrNotSubtask, id, parentID)
		}
		delete(seen, id)
	}
	s.children[parentID] = append([]string(nil), orderedIDs...)
	s.renumberLocked(s.children[parentID])
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return nil
}

// MoveSubtaskToParent reassigns a subtask to a new parent, inheriting the
// new parent's quadrant and appending at the end of its children. The
// propagator re-derives both the old and the new parent's completion.
func (s *Store) MoveSubtaskToParent(subtaskID, newParentID string) error {
	s.mu.Lock()
	t, ok := s.tasks[subtaskID]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	if t.Kind != domain.KindSubtask || t.ParentID == nil {
		s.mu.Unlock()
		return domain.ErrNotSubtask
	}
	if len(s.children[subtaskID]) > 0 {
		s.mu.Unlock()
		return domain.ErrHasOwnChildren
	}
	if domain.WouldCreateCycle(newParentID, subtaskID) {
		s.mu.Unlock()
		return domain.ErrCycle
	}
	newParent, ok := s.tasks[newParentID]
	if !ok || !domain.CanParentChildren(newParent) {
		s.mu.Unlock()
		return domain.ErrInvalidParent
	}

	oldParentID := *t.ParentID
	if oldParentID == newParentID {
		s.mu.Unlock()
		return nil
	}
	s.children[oldParentID] = removeFromGroup(s.children[oldParentID], subtaskID)
	s.renumberLocked(s.children[oldParentID])
	t.ParentID = &newParent.ID
	t.Quadrant = newParent.Quadrant
	t.Order = len(s.children[newParentID])
	t.UpdatedAt = s.clock.Now()
	s.children[newParentID] = append(s.children[newParentID], subtaskID)
	s.appendAuditLocked(domain.AuditEntry{
		TaskID: subtaskID,
		Action: domain.AuditSubtaskReparent,
		Field:  "parent",
		From:   oldParentID,
		To:     newParentID,
	})
	s.propagateLocked(oldParentID)
	s.propagateLocked(newParentID)
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return nil
}

// DetachSubtask converts a subtask into a standalone Standard task at the
// end of its quadrant's top-level order. The old parent's completion is
// re-derived; with no children left it stays at whatever value it held.
func (s *Store) DetachSubtask(subtaskID string) error {
	s.mu.Lock()
	t, ok := s.tasks[subtaskID]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	if t.Kind != domain.KindSubtask || t.ParentID == nil {
		s.mu.Unlock()
		return domain.ErrNotSubtask
	}
	if len(s.children[subtaskID]) > 0 {
		s.mu.Unlock()
		return domain.ErrHasOwnChildren
	}

	oldParentID := *t.ParentID
	s.children[oldParentID] = removeFromGroup(s.children[oldParentID], subtaskID)
	s.renumberLocked(s.children[oldParentID])
	t.Kind = domain.KindStandard
	t.ParentID = nil
	t.Order = len(s.top[t.Quadrant])
	t.UpdatedAt = s.clock.Now()
	s.top[t.Quadrant] = append(s.top[t.Quadrant], subtaskID)
	s.appendAuditLocked(domain.AuditEntry{
		TaskID: subtaskID,
		Action: domain.AuditSubtaskDetached,
		Field:  "parent",
		From:   oldParentID,
	})
	s.propagateLocked(oldParentID)
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return nil
}

// auditFieldLocked records a field-level change.
func (s *Store) auditFieldLocked(taskID, field, from, to string) {
	s.appendAuditLocked(domain.AuditEntry{
		TaskID: taskID,
		Action: domain.AuditTaskUpdated,
		Field:  field,
		From:   from,
		To:     to,
	})
}

// updateRefs adds and removes ids from a reference set, preserving the
// order of surviving entries and appending new ones.
func updateRefs(current, add, remove []string) []string {
	removeSet := make(map[string]bool, len(remove))
	for _, id := range remove {
		removeSet[id] = true
	}
	var out []string
	seen := make(map[string]bool)
	for _, id := range current {
		if !removeSet[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for _, id := range add {
		if !removeSet[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}
