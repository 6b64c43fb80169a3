package domain

import "time"

// Snapshot is a full copy of the board state captured for persistence and
// for undo/redo.
type Snapshot struct {
	Tasks  []*Task   `json:"tasks" yaml:"tasks"`
	Tags   []*Tag    `json:"tags" yaml:"tags"`
	People []*Person `json:"people" yaml:"people"`
	NextID int       `json:"nextID" yaml:"nextID"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{NextID: s.NextID}
	if s.Tasks != nil {
		c.Tasks = make([]*Task, len(s.Tasks))
		for i, t := range s.Tasks {
			c.Tasks[i] = t.Clone()
		}
	}
	if s.Tags != nil {
		c.Tags = make([]*Tag, len(s.Tags))
		for i, t := range s.Tags {
			tag := *t
			c.Tags[i] = &tag
		}
	}
	if s.People != nil {
		c.People = make([]*Person, len(s.People))
		for i, p := range s.People {
			person := *p
			c.People[i] = &person
		}
	}
	return c
}

// TaskByID returns the task with the given id, or nil.
func (s Snapshot) TaskByID(id string) *Task {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Persistence is the opaque asynchronous sink the engine pushes snapshots
// to. Writes are best-effort; in-memory state stays the source of truth.
type Persistence interface {
	// SaveAll persists the full snapshot, replacing any previous one.
	SaveAll(snap Snapshot) error

	// LoadAll restores the last persisted snapshot. Returns a zero
	// snapshot if nothing has been persisted yet.
	LoadAll() (Snapshot, error)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Logger is the diagnostic logging port used across the engine.
type Logger interface {
	Debug(taskID, category, msg string)
	Info(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// NopLogger discards all log output.
type NopLogger struct{}

// Debug discards the message.
func (NopLogger) Debug(string, string, string) {}

// Info discards the message.
func (NopLogger) Info(string, string, string) {}

// Warn discards the message.
func (NopLogger) Warn(string, string, string) {}

// Error discards the message.
func (NopLogger) Error(string, string, string) {}
