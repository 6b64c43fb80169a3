package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryoseto/quadra/internal/domain"
	"github.com/ryoseto/quadra/internal/testutil"
)

func newTestStore(t *testing.T) (*Store, *testutil.MockAuditLog, *testutil.MockClock) {
	t.Helper()
	clock := &testutil.MockClock{NowTime: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	audit := &testutil.MockAuditLog{}
	return New(clock, audit, nil), audit, clock
}

func addTask(t *testing.T, s *Store, title string, q domain.Quadrant) *domain.Task {
	t.Helper()
	task, err := s.AddTask(AddTaskInput{Title: title, Quadrant: q})
	require.NoError(t, err)
	return task
}

func addSubtask(t *testing.T, s *Store, parentID, title string) *domain.Task {
	t.Helper()
	task, err := s.AddSubtask(parentID, AddSubtaskInput{Title: title})
	require.NoError(t, err)
	return task
}

func TestAddTask_Validation(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		input   AddTaskInput
	}{
		{domain.ErrEmptyTitle, "empty title", AddTaskInput{Quadrant: domain.QuadrantUrgentImportant}},
		{domain.ErrInvalidQuadrant, "invalid quadrant", AddTaskInput{Title: "x", Quadrant: 7}},
		{domain.ErrInvalidKind, "subtask kind", AddTaskInput{Title: "x", Quadrant: 1, Kind: domain.KindSubtask}},
		{domain.ErrInvalidKind, "instance kind", AddTaskInput{Title: "x", Quadrant: 1, Kind: domain.KindRecurringInstance}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestStore(t)
			_, err := s.AddTask(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAddTask_AppendsToQuadrantOrder(t *testing.T) {
	s, audit, _ := newTestStore(t)

	a := addTask(t, s, "a", domain.QuadrantUrgentImportant)
	b := addTask(t, s, "b", domain.QuadrantUrgentImportant)
	c := addTask(t, s, "c", domain.QuadrantNotUrgentImportant)

	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, b.Order)
	assert.Equal(t, 0, c.Order)

	entries, err := audit.EntriesForTask(a.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditTaskCreated, entries[0].Action)
}

func TestAddSubtask_InheritsQuadrant(t *testing.T) {
	s, _, _ := newTestStore(t)
	parent := addTask(t, s, "parent", domain.QuadrantNotUrgentImportant)

	sub := addSubtask(t, s, parent.ID, "child")

	assert.Equal(t, domain.KindSubtask, sub.Kind)
	assert.Equal(t, parent.Quadrant, sub.Quadrant)
	require.NotNil(t, sub.ParentID)
	assert.Equal(t, parent.ID, *sub.ParentID)
}

func TestAddSubtask_InvalidParents(t *testing.T) {
	s, _, _ := newTestStore(t)
	parent := addTask(t, s, "parent", domain.QuadrantUrgentImportant)
	sub := addSubtask(t, s, parent.ID, "child")
	tpl, err := s.AddTask(AddTaskInput{Title: "tpl", Quadrant: 1, Kind: domain.KindRecurringTemplate, Recurrence: "daily"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		parentID string
	}{
		{"missing parent", "t-999"},
		{"subtask parent", sub.ID},
		{"template parent", tpl.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddSubtask(tt.parentID, AddSubtaskInput{Title: "x"})
			assert.ErrorIs(t, err, domain.ErrInvalidParent)
		})
	}
}

func TestCompletionPropagation_UpToParent(t *testing.T) {
	s, audit, clock := newTestStore(t)
	parent := addTask(t, s, "report", domain.QuadrantUrgentImportant)
	s1 := addSubtask(t, s, parent.ID, "s1")
	s2 := addSubtask(t, s, parent.ID, "s2")

	// Completing one child leaves the parent open.
	_, err := s.ToggleComplete(s1.ID)
	require.NoError(t, err)
	got, err := s.Task(parent.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	// Completing the last child auto-completes the parent with the
	// latest child completion time.
	clock.Advance(time.Hour)
	_, err = s.ToggleComplete(s2.ID)
	require.NoError(t, err)
	got, err = s.Task(parent.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(clock.NowTime))

	entries, err := audit.EntriesForTask(parent.ID)
	require.NoError(t, err)
	var actions []domain.AuditAction
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, domain.AuditAutoCompleted)

	// Uncompleting a child auto-uncompletes the parent.
	_, err = s.ToggleComplete(s1.ID)
	require.NoError(t, err)
	got, err = s.Task(parent.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)
}

func TestToggleComplete_ParentRejected(t *testing.T) {
	s, _, _ := newTestStore(t)
	parent := addTask(t, s, "parent", domain.QuadrantUrgentImportant)
	addSubtask(t, s, parent.ID, "child")

	_, err := s.ToggleComplete(parent.ID)
	assert.ErrorIs(t, err, domain.ErrHasChildren)

	// Rejection is a full no-op.
	got, err := s.Task(parent.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestToggleComplete_TemplateRejected(t *testing.T) {
	s, _, _ := newTestStore(t)
	tpl, err := s.AddTask(AddTaskInput{Title: "tpl", Quadrant: 1, Kind: domain.KindRecurringTemplate, Recurrence: "daily"})
	require.NoError(t, err)

	_, err = s.ToggleComplete(tpl.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestToggleComplete_LastChildRemovalKeepsParentValue(t *testing.T) {
	s, _, _ := newTestStore(t)
	parent := addTask(t, s, "parent", domain.QuadrantUrgentImportant)
	sub := addSubtask(t, s, parent.ID, "child")

	_, err := s.ToggleComplete(sub.ID)
	require.NoError(t, err)
	got, err := s.Task(parent.ID)
	require.NoError(t, err)
	require.True(t, got.Completed)

	// Deleting the last child does not retroactively force a value; the
	// parent becomes user-controlled again.
	require.NoError(t, s.DeleteTask(sub.ID))
	got, err = s.Task(parent.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	_, err = s.ToggleComplete(parent.ID)
	require.NoError(t, err)
	got, err = s.Task(parent.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestUpdateTask_FieldAudit(t *testing.T) {
	s, audit, _ := newTestStore(t)
	task := addTask(t, s, "old", domain.QuadrantUrgentImportant)

	title := "new"
	_, err := s.UpdateTask(task.ID, TaskPatch{Title: &title})
	require.NoError(t, err)

	entries, err := audit.EntriesForTask(task.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditTaskUpdated, entries[1].Action)
	assert.Equal(t, "title", entries[1].Field)
	assert.Equal(t, "old", entries[1].From)
	assert.Equal(t, "new", entries[1].To)
}

func TestToggleStar_FlipsAndAudits(t *testing.T) {
	s, audit, clock := newTestStore(t)
	task := addTask(t, s, "x", domain.QuadrantUrgentImportant)
	clock.Advance(time.Minute)

	got, err := s.ToggleStar(task.ID)
	require.NoError(t, err)
	assert.True(t, got.Starred)
	assert.Equal(t, clock.NowTime, got.UpdatedAt)

	got, err = s.ToggleStar(task.ID)
	require.NoError(t, err)
	assert.False(t, got.Starred)

	entries, err := audit.EntriesForTask(task.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "starred", entries[1].Field)
	assert.Equal(t, "false", entries[1].From)
	assert.Equal(t, "true", entries[1].To)
	assert.Equal(t, "true", entries[2].From)
	assert.Equal(t, "false", entries[2].To)

	_, err = s.ToggleStar("t-999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateTask_Errors(t *testing.T) {
	s, _, _ := newTestStore(t)
	parent := addTask(t, s, "parent", domain.QuadrantUrgentImportant)
	addSubtask(t, s, parent.ID, "child")

	title := ""
	_, err := s.UpdateTask(parent.ID, TaskPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = s.UpdateTask("t-999", TaskPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	done := true
	_, err = s.UpdateTask(parent.ID, TaskPatch{Completed: &done})
	assert.ErrorIs(t, err, domain.ErrHasChildren)
}

func TestUpdateTask_TagRefs(t *testing.T) {
	s, _, _ := newTestStore(t)
	task := addTask(t, s, "x", domain.QuadrantUrgentImportant)

	got, err := s.UpdateTask(task.ID, TaskPatch{AddTags: []string{"g-1", "g-2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"g-1", "g-2"}, got.TagIDs)

	got, err = s.UpdateTask(task.ID, TaskPatch{AddTags: []string{"g-3"}, RemoveTags: []string{"g-1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"g-2", "g-3"}, got.TagIDs)
}

func TestDeleteTask_CascadesAndPropagates(t *testing.T) {
	s, audit, _ := newTestStore(t)
	parent := addTask(t, s, "parent", domain.QuadrantUrgentImportant)
	s1 := addSubtask(t, s, parent.ID, "s1")
	s2 := addSubtask(t, s, parent.ID, "s2")

	_, err := s.ToggleComplete(s1.ID)
	require.NoError(t, err)

	// Deleting the incomplete child leaves only completed children, so
	// the parent auto-completes.
	require.NoError(t, s.DeleteTask(s2.ID))
	got, err := s.Task(parent.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	// Deleting the parent cascades.
	require.NoError(t, s.DeleteTask(parent.ID))
	_, err = s.Task(s1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entries, err := audit.EntriesForTask(s1.ID)
	require.NoError(t, err)
	deleted := false
	for _, e := range entries {
		if e.Action == domain.AuditTaskDeleted {
			deleted = true
		}
		assert.True(t, e.TaskDeleted)
	}
	assert.True(t, deleted)
}

func TestMoveTask_ChildrenFollowQuadrant(t *testing.T) {
	s, audit, _ := newTestStore(t)
	parent := addTask(t, s, "parent", domain.QuadrantUrgentImportant)
	sub := addSubtask(t, s, parent.ID, "child")
	other := addTask(t, s, "other", domain.QuadrantUrgentImportant)

	require.NoError(t, s.MoveTaskWithSubtasks(parent.ID, domain.QuadrantNotUrgentNotImportant, 0))

	got, err := s.Task(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuadrantNotUrgentNotImportant, got.Quadrant)

	// The source quadrant re-numbers contiguously.
	got, err = s.Task(other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Order)

	entries, err := audit.EntriesForTask(parent.ID)
	require.NoError(t, err)
	last := entries[len(entries)-1]
	assert.Equal(t, domain.AuditTaskMoved, last.Action)
	assert.Equal(t, "1", last.From)
	assert.Equal(t, "4", last.To)
}

func TestMoveTask_Errors(t *testing.T) {
	s, _, _ := newTestStore(t)
	parent := addTask(t, s, "parent", domain.QuadrantUrgentImportant)
	sub := addSubtask(t, s, parent.ID, "child")

	assert.ErrorIs(t, s.MoveTask(sub.ID, domain.QuadrantNotUrgentImportant, 0), domain.ErrNotTopLevel)
	assert.ErrorIs(t, s.MoveTask(parent.ID, 9, 0), domain.ErrInvalidQuadrant)
	assert.ErrorIs(t, s.MoveTask("t-999", domain.QuadrantNotUrgentImportant, 0), domain.ErrNotFound)
}

func TestReorderSubtasks(t *testing.T) {
	s, _, _ := newTestStore(t)
	parent := addTask(t, s, "parent", domain.QuadrantUrgentImportant)
	s1 := addSubtask(t, s, parent.ID, "s1")
	s2 := addSubtask(t, s, parent.ID, "s2")
	s3 := addSubtask(t, s, parent.ID, "s3")

	require.NoError(t, s.ReorderSubtasks(parent.ID, []string{s3.ID, s1.ID, s2.ID}))

	children := s.Children(parent.ID)
	require.Len(t, children, 3)
	assert.Equal(t, s3.ID, children[0].ID)
	assert.Equal(t, 0, children[0].Order)
	assert.Equal(t, s1.ID, children[1].ID)
	assert.Equal(t, s2.ID, children[2].ID)

	// Partial or foreign sequences are rejected.
	assert.Error(t, s.ReorderSubtasks(parent.ID, []string{s1.ID, s2.ID}))
	assert.Error(t, s.ReorderSubtasks(parent.ID, []string{s1.ID, s2.ID, "t-999"}))
}

func TestMoveSubtaskToParent(t *testing.T) {
	s, audit, _ := newTestStore(t)
	p1 := addTask(t, s, "p1", domain.QuadrantUrgentImportant)
	p2 := addTask(t, s, "p2", domain.QuadrantNotUrgentImportant)
	sub := addSubtask(t, s, p1.ID, "child")
	other := addSubtask(t, s, p2.ID, "existing")

	// Completing the remaining child of p2 first: after adoption the new
	// child is incomplete, so p2 must revert to open.
	_, err := s.ToggleComplete(other.ID)
	require.NoError(t, err)
	got, err := s.Task(p2.ID)
	require.NoError(t, err)
	require.True(t, got.Completed)

	require.NoError(t, s.MoveSubtaskToParent(sub.ID, p2.ID))

	got, err = s.Task(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, p2.ID, *got.ParentID)
	assert.Equal(t, domain.QuadrantNotUrgentImportant, got.Quadrant)
	assert.Equal(t, 1, got.Order)

	got, err = s.Task(p2.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	entries, err := audit.EntriesForTask(sub.ID)
	require.NoError(t, err)
	last := entries[len(entries)-1]
	assert.Equal(t, domain.AuditSubtaskReparent, last.Action)
	assert.Equal(t, p1.ID, last.From)
	assert.Equal(t, p2.ID, last.To)
}

func TestMoveSubtaskToParent_Errors(t *testing.T) {
	s, _, _ := newTestStore(t)
	p1 := addTask(t, s, "p1", domain.QuadrantUrgentImportant)
	sub := addSubtask(t, s, p1.ID, "child")

	assert.ErrorIs(t, s.MoveSubtaskToParent(p1.ID, p1.ID), domain.ErrNotSubtask)
	assert.ErrorIs(t, s.MoveSubtaskToParent(sub.ID, sub.ID), domain.ErrCycle)
	assert.ErrorIs(t, s.MoveSubtaskToParent(sub.ID, "t-999"), domain.ErrInvalidParent)
}

func TestDetachSubtask(t *testing.T) {
	s, _, _ := newTestStore(t)
	parent := addTask(t, s, "parent", domain.QuadrantUrgentImportant)
	sub := addSubtask(t, s, parent.ID, "child")
	addTask(t, s, "other", domain.QuadrantUrgentImportant)

	require.NoError(t, s.DetachSubtask(sub.ID))

	got, err := s.Task(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindStandard, got.Kind)
	assert.Nil(t, got.ParentID)
	// Appended at the end of the quadrant's top-level order.
	assert.Equal(t, 2, got.Order)

	assert.Empty(t, s.Children(parent.ID))
}

func TestAddInstance_CopiesTemplate(t *testing.T) {
	s, _, _ := newTestStore(t)
	tpl, err := s.AddTask(AddTaskInput{
		Title:      "standup",
		Quadrant:   domain.QuadrantNotUrgentImportant,
		Kind:       domain.KindRecurringTemplate,
		Recurrence: "weekdays",
		TagIDs:     []string{"g-1"},
	})
	require.NoError(t, err)

	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	inst, err := s.AddInstance(tpl.ID, &due)
	require.NoError(t, err)

	assert.Equal(t, domain.KindRecurringInstance, inst.Kind)
	assert.Equal(t, tpl.Quadrant, inst.Quadrant)
	assert.Equal(t, tpl.Title, inst.Title)
	assert.Equal(t, []string{"g-1"}, inst.TagIDs)
	require.NotNil(t, inst.ParentID)
	assert.Equal(t, tpl.ID, *inst.ParentID)

	// Instances never appear in the top-level order.
	assert.ErrorIs(t, s.MoveTask(inst.ID, domain.QuadrantUrgentImportant, 0), domain.ErrNotTopLevel)

	// Instances may hold subtasks; completing them completes the
	// instance without touching the template.
	sub := addSubtask(t, s, inst.ID, "note")
	_, err = s.ToggleComplete(sub.ID)
	require.NoError(t, err)

	got, err := s.Task(inst.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	got, err = s.Task(tpl.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestAddInstance_Errors(t *testing.T) {
	s, _, _ := newTestStore(t)
	task := addTask(t, s, "x", domain.QuadrantUrgentImportant)

	_, err := s.AddInstance(task.ID, nil)
	assert.ErrorIs(t, err, domain.ErrNotTemplate)
	_, err = s.AddInstance("t-999", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetPaused(t *testing.T) {
	s, _, _ := newTestStore(t)
	tpl, err := s.AddTask(AddTaskInput{Title: "tpl", Quadrant: 1, Kind: domain.KindRecurringTemplate, Recurrence: "daily"})
	require.NoError(t, err)
	task := addTask(t, s, "x", domain.QuadrantUrgentImportant)

	require.NoError(t, s.SetPaused(tpl.ID, true))
	got, err := s.Task(tpl.ID)
	require.NoError(t, err)
	assert.True(t, got.Paused)

	assert.ErrorIs(t, s.SetPaused(task.ID, true), domain.ErrNotTemplate)
	assert.ErrorIs(t, s.SetPaused("t-999", true), domain.ErrNotFound)
}

func TestPropagation_Idempotent(t *testing.T) {
	s, audit, _ := newTestStore(t)
	parent := addTask(t, s, "parent", domain.QuadrantUrgentImportant)
	sub := addSubtask(t, s, parent.ID, "child")

	_, err := s.ToggleComplete(sub.ID)
	require.NoError(t, err)

	before := len(audit.Entries())
	// Touching an unrelated field re-runs nothing on the parent.
	desc := "note"
	_, err = s.UpdateTask(sub.ID, TaskPatch{Description: &desc})
	require.NoError(t, err)

	got, err := s.Task(parent.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	auto := 0
	for _, e := range audit.Entries()[before:] {
		if e.Action == domain.AuditAutoCompleted {
			auto++
		}
	}
	assert.Zero(t, auto)
}
