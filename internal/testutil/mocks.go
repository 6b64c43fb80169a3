// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"strconv"
	"sync"
	"time"

	"github.com/ryoseto/quadra/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// MockPersistence is a test double for domain.Persistence.
// Fields are ordered to minimize memory padding.
type MockPersistence struct {
	Saved   []domain.Snapshot
	Loaded  domain.Snapshot
	SaveErr error
	LoadErr error
	mu      sync.Mutex
}

// SaveAll records the snapshot.
func (m *MockPersistence) SaveAll(snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, snap.Clone())
	return nil
}

// LoadAll returns the configured snapshot.
func (m *MockPersistence) LoadAll() (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return domain.Snapshot{}, m.LoadErr
	}
	return m.Loaded.Clone(), nil
}

// SaveCount returns how many snapshots were saved.
func (m *MockPersistence) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Saved)
}

// LastSaved returns the most recently saved snapshot.
func (m *MockPersistence) LastSaved() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Saved) == 0 {
		return domain.Snapshot{}
	}
	return m.Saved[len(m.Saved)-1].Clone()
}

// MockAuditLog is an in-memory test double for domain.AuditLog.
type MockAuditLog struct {
	mu        sync.Mutex
	entries   []domain.AuditEntry
	AppendErr error
	nextID    int
}

// Append adds an entry to the log, assigning its id and sequence.
func (m *MockAuditLog) Append(e domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.nextID++
	if e.ID == "" {
		e.ID = "e-" + strconv.Itoa(m.nextID)
	}
	e.Seq = m.nextID
	m.entries = append(m.entries, e)
	return nil
}

// NextSeq returns the sequence number the next appended entry will receive.
func (m *MockAuditLog) NextSeq() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextID + 1
}

// EntriesForTask returns all entries recorded for the task, oldest first.
func (m *MockAuditLog) EntriesForTask(taskID string) ([]domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AuditEntry
	for _, e := range m.entries {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Entries returns every entry in the log, oldest first.
func (m *MockAuditLog) Entries() []domain.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// PurgeTask removes the task's entries with sequence below before.
func (m *MockAuditLog) PurgeTask(taskID string, before int) error {
	return m.purge(func(e domain.AuditEntry) bool {
		return e.TaskID == taskID && e.Seq < before
	})
}

// PurgeAction removes the task's entries of one action type with sequence
// below before.
func (m *MockAuditLog) PurgeAction(taskID string, action domain.AuditAction, before int) error {
	return m.purge(func(e domain.AuditEntry) bool {
		return e.TaskID == taskID && e.Action == action && e.Seq < before
	})
}

// PurgeField removes the task's task_updated entries for one field with
// sequence below before.
func (m *MockAuditLog) PurgeField(taskID, field string, before int) error {
	return m.purge(func(e domain.AuditEntry) bool {
		return e.TaskID == taskID && e.Action == domain.AuditTaskUpdated && e.Field == field && e.Seq < before
	})
}

// PurgeCorrelation removes every entry tagged with the correlation id.
func (m *MockAuditLog) PurgeCorrelation(correlationID string) error {
	if correlationID == "" {
		return nil
	}
	return m.purge(func(e domain.AuditEntry) bool { return e.CorrelationID == correlationID })
}

// SetTaskDeleted marks or unmarks all of the task's entries.
func (m *MockAuditLog) SetTaskDeleted(taskID string, deleted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].TaskID == taskID {
			m.entries[i].TaskDeleted = deleted
		}
	}
	return nil
}

// RetractDeletion drops the task's task_deleted entries with sequence
// below before, and unmarks its entries unless a later task_deleted entry
// remains.
func (m *MockAuditLog) RetractDeletion(taskID string, before int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	deletedAgain := false
	for _, e := range m.entries {
		if e.TaskID == taskID && e.Action == domain.AuditTaskDeleted {
			if e.Seq < before {
				continue
			}
			deletedAgain = true
		}
		kept = append(kept, e)
	}
	m.entries = kept
	if !deletedAgain {
		for i := range m.entries {
			if m.entries[i].TaskID == taskID {
				m.entries[i].TaskDeleted = false
			}
		}
	}
	return nil
}

func (m *MockAuditLog) purge(drop func(domain.AuditEntry) bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	for _, e := range m.entries {
		if !drop(e) {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}
