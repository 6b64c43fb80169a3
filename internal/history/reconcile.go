package history

import (
	"fmt"
	"time"

	"github.com/ryoseto/quadra/internal/domain"
)

// reconcile brings the audit log back in line after an undo rewound the
// live state from old to restored:
//
//   - tasks the undo removed lose their entire log history;
//   - tasks the undo resurrected are un-marked as deleted and their stray
//     task_deleted entries are dropped;
//   - tasks present in both states lose the entries recording exactly the
//     field-level changes being unwound;
//   - entries written as a side effect of the replacement itself are
//     retracted by correlation id.
//
// before bounds every purge to entries that existed when the undo ran, so
// a mutation logged for the same task after the undo survives even when
// this job executes later.
func (h *Engine) reconcile(old, restored domain.Snapshot, correlationID string, before int) {
	oldByID := make(map[string]*domain.Task, len(old.Tasks))
	for _, t := range old.Tasks {
		oldByID[t.ID] = t
	}
	restoredByID := make(map[string]*domain.Task, len(restored.Tasks))
	for _, t := range restored.Tasks {
		restoredByID[t.ID] = t
	}

	for id := range oldByID {
		if _, ok := restoredByID[id]; !ok {
			h.logErr(id, h.audit.PurgeTask(id, before))
		}
	}
	for id := range restoredByID {
		if _, ok := oldByID[id]; !ok {
			h.logErr(id, h.audit.RetractDeletion(id, before))
		}
	}
	for id, was := range oldByID {
		now, ok := restoredByID[id]
		if !ok {
			continue
		}
		h.reconcileFields(id, was, now, before)
	}

	h.logErr("", h.audit.PurgeCorrelation(correlationID))
}

// reconcileFields purges the log entries for each field the undo rewound.
func (h *Engine) reconcileFields(id string, was, now *domain.Task, before int) {
	if was.Title != now.Title {
		h.logErr(id, h.audit.PurgeField(id, "title", before))
	}
	if was.Description != now.Description {
		h.logErr(id, h.audit.PurgeField(id, "description", before))
	}
	if was.Recurrence != now.Recurrence {
		h.logErr(id, h.audit.PurgeField(id, "recurrence", before))
	}
	if was.Starred != now.Starred {
		h.logErr(id, h.audit.PurgeField(id, "starred", before))
	}
	if was.Paused != now.Paused {
		h.logErr(id, h.audit.PurgeField(id, "paused", before))
	}
	if !timesEqual(was.DueDate, now.DueDate) {
		h.logErr(id, h.audit.PurgeField(id, "dueDate", before))
	}
	if !refsEqual(was.TagIDs, now.TagIDs) {
		h.logErr(id, h.audit.PurgeField(id, "tags", before))
	}
	if !refsEqual(was.PersonIDs, now.PersonIDs) {
		h.logErr(id, h.audit.PurgeField(id, "people", before))
	}
	if was.Quadrant != now.Quadrant {
		h.logErr(id, h.audit.PurgeAction(id, domain.AuditTaskMoved, before))
	}
	if !parentsEqual(was.ParentID, now.ParentID) || was.Kind != now.Kind {
		h.logErr(id, h.audit.PurgeAction(id, domain.AuditSubtaskReparent, before))
		h.logErr(id, h.audit.PurgeAction(id, domain.AuditSubtaskDetached, before))
	}
	if was.Completed != now.Completed {
		h.logErr(id, h.audit.PurgeAction(id, domain.AuditTaskCompleted, before))
		h.logErr(id, h.audit.PurgeAction(id, domain.AuditTaskUncompleted, before))
		h.logErr(id, h.audit.PurgeAction(id, domain.AuditAutoCompleted, before))
		h.logErr(id, h.audit.PurgeAction(id, domain.AuditAutoUncompleted, before))
	}
}

func (h *Engine) logErr(taskID string, err error) {
	if err != nil {
		h.logger.Warn(taskID, "reconcile", fmt.Sprintf("audit log operation failed: %v", err))
	}
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func parentsEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func refsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
