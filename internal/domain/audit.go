package domain

import "time"

// AuditAction classifies an audit log entry.
type AuditAction string

const (
	AuditTaskCreated      AuditAction = "task_created"
	AuditTaskUpdated      AuditAction = "task_updated"
	AuditTaskCompleted    AuditAction = "task_completed"
	AuditTaskUncompleted  AuditAction = "task_uncompleted"
	AuditAutoCompleted    AuditAction = "auto_completed"
	AuditAutoUncompleted  AuditAction = "auto_uncompleted"
	AuditTaskDeleted      AuditAction = "task_deleted"
	AuditTaskMoved        AuditAction = "task_moved"
	AuditSubtaskReparent  AuditAction = "subtask_reparented"
	AuditSubtaskDetached  AuditAction = "subtask_detached"
)

// AuditEntry is one record in the append-only audit log.
// Fields are ordered to minimize memory padding.
type AuditEntry struct {
	At            time.Time   `json:"at" yaml:"at"`
	ID            string      `json:"id" yaml:"id"`
	TaskID        string      `json:"taskID" yaml:"taskID"`
	Action        AuditAction `json:"action" yaml:"action"`
	Field         string      `json:"field,omitempty" yaml:"field,omitempty"`
	From          string      `json:"from,omitempty" yaml:"from,omitempty"`
	To            string      `json:"to,omitempty" yaml:"to,omitempty"`
	CorrelationID string      `json:"correlationID,omitempty" yaml:"correlationID,omitempty"`
	Seq           int         `json:"seq" yaml:"seq"`
	TaskDeleted   bool        `json:"taskDeleted,omitempty" yaml:"taskDeleted,omitempty"`
}

// AuditLog is the append-only event store the undo engine reconciles
// against. Appends assign each entry a monotonically increasing sequence
// number; the purge operations take an exclusive upper bound on that
// sequence, so a purge bound at time T can never touch entries appended
// after T no matter when it executes. Each operation is atomic.
type AuditLog interface {
	// Append adds an entry to the log, assigning its id and sequence.
	Append(e AuditEntry) error

	// NextSeq returns the sequence number the next appended entry will
	// receive.
	NextSeq() int

	// EntriesForTask returns all entries recorded for the task, oldest first.
	EntriesForTask(taskID string) ([]AuditEntry, error)

	// PurgeTask removes the task's entries with sequence below before.
	PurgeTask(taskID string, before int) error

	// PurgeAction removes the task's entries of one action type with
	// sequence below before.
	PurgeAction(taskID string, action AuditAction, before int) error

	// PurgeField removes the task's task_updated entries for one field
	// with sequence below before.
	PurgeField(taskID, field string, before int) error

	// PurgeCorrelation removes every entry tagged with the correlation id.
	PurgeCorrelation(correlationID string) error

	// SetTaskDeleted marks or unmarks all of the task's entries as
	// belonging to a deleted task.
	SetTaskDeleted(taskID string, deleted bool) error

	// RetractDeletion undoes a recorded deletion in one atomic step: the
	// task's task_deleted entries with sequence below before are dropped,
	// and its entries are unmarked as deleted unless a task_deleted entry
	// at or above before shows the task was deleted again afterwards.
	RetractDeletion(taskID string, before int) error
}
