// Package auditlog provides the append-only audit log implementation: an
// in-memory index flushed to a YAML file after every change.
package auditlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ryoseto/quadra/internal/domain"
	"gopkg.in/yaml.v3"
)

// logFile is the YAML file structure.
type logFile struct {
	Entries []domain.AuditEntry `yaml:"entries"`
	NextID  int                 `yaml:"nextID"`
}

// Log implements domain.AuditLog. A single mutex serializes every
// operation, so purges and appends for the same task cannot interleave.
// Fields are ordered to minimize memory padding.
type Log struct {
	entries []domain.AuditEntry
	path    string // Empty means in-memory only
	mu      sync.Mutex
	nextID  int
}

// NewMemory creates an in-memory log with no file backing.
func NewMemory() *Log {
	return &Log{nextID: 1}
}

// Open creates a file-backed log, loading existing entries if the file
// exists.
func Open(path string) (*Log, error) {
	l := &Log{path: path, nextID: 1}
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	var file logFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse audit log: %w", err)
	}
	l.entries = file.Entries
	if file.NextID > 0 {
		l.nextID = file.NextID
	}
	return l, nil
}

// Append adds an entry to the log, assigning its id and sequence.
func (l *Log) Append(e domain.AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.ID = fmt.Sprintf("e-%d", l.nextID)
	e.Seq = l.nextID
	l.nextID++
	l.entries = append(l.entries, e)
	return l.flushLocked()
}

// NextSeq returns the sequence number the next appended entry will receive.
func (l *Log) NextSeq() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nextID
}

// EntriesForTask returns all entries recorded for the task, oldest first.
func (l *Log) EntriesForTask(taskID string) ([]domain.AuditEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.AuditEntry
	for _, e := range l.entries {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Entries returns a copy of the full log, oldest first.
func (l *Log) Entries() []domain.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.AuditEntry(nil), l.entries...)
}

// PurgeTask removes the task's entries with sequence below before.
func (l *Log) PurgeTask(taskID string, before int) error {
	return l.purge(func(e domain.AuditEntry) bool {
		return e.TaskID == taskID && e.Seq < before
	})
}

// PurgeAction removes the task's entries of one action type with sequence
// below before.
func (l *Log) PurgeAction(taskID string, action domain.AuditAction, before int) error {
	return l.purge(func(e domain.AuditEntry) bool {
		return e.TaskID == taskID && e.Action == action && e.Seq < before
	})
}

// PurgeField removes the task's task_updated entries for one field with
// sequence below before.
func (l *Log) PurgeField(taskID, field string, before int) error {
	return l.purge(func(e domain.AuditEntry) bool {
		return e.TaskID == taskID && e.Action == domain.AuditTaskUpdated && e.Field == field && e.Seq < before
	})
}

// PurgeCorrelation removes every entry tagged with the correlation id.
func (l *Log) PurgeCorrelation(correlationID string) error {
	if correlationID == "" {
		return nil
	}
	return l.purge(func(e domain.AuditEntry) bool {
		return e.CorrelationID == correlationID
	})
}

// SetTaskDeleted marks or unmarks all of the task's entries as belonging
// to a deleted task.
func (l *Log) SetTaskDeleted(taskID string, deleted bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		if l.entries[i].TaskID == taskID {
			l.entries[i].TaskDeleted = deleted
		}
	}
	return l.flushLocked()
}

// RetractDeletion undoes a recorded deletion in one atomic step. Dropping
// the stale task_deleted entries and unmarking the survivors happen under
// one lock acquisition, so a concurrent re-deletion of the task cannot
// observe a half-retracted log: if it already appended its own
// task_deleted entry (at or above before), the unmark is skipped.
func (l *Log) RetractDeletion(taskID string, before int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.entries[:0]
	deletedAgain := false
	for _, e := range l.entries {
		if e.TaskID == taskID && e.Action == domain.AuditTaskDeleted {
			if e.Seq < before {
				continue
			}
			deletedAgain = true
		}
		kept = append(kept, e)
	}
	l.entries = kept
	if !deletedAgain {
		for i := range l.entries {
			if l.entries[i].TaskID == taskID {
				l.entries[i].TaskDeleted = false
			}
		}
	}
	return l.flushLocked()
}

func (l *Log) purge(drop func(domain.AuditEntry) bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.entries[:0]
	for _, e := range l.entries {
		if !drop(e) {
			kept = append(kept, e)
		}
	}
	l.entries = kept
	return l.flushLocked()
}

// flushLocked writes the log file via a temp file and rename.
func (l *Log) flushLocked() error {
	if l.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	content, err := yaml.Marshal(logFile{Entries: l.entries, NextID: l.nextID})
	if err != nil {
		return fmt.Errorf("marshal audit log: %w", err)
	}
	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Ensure Log implements AuditLog.
var _ domain.AuditLog = (*Log)(nil)
