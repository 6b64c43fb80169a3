// Package engine implements the mutation engine: the single writer of task
// state. Every structural operation passes through the Store, which
// re-validates hierarchy invariants and triggers completion propagation
// before the change becomes observable.
package engine

import (
	"fmt"
	"sync"

	"github.com/ryoseto/quadra/internal/domain"
)

// Origin identifies what caused a state change.
type Origin string

const (
	// OriginUser marks a genuine user-driven mutation.
	OriginUser Origin = "user"
	// OriginReplace marks a wholesale state replacement (undo/redo).
	OriginReplace Origin = "replace"
	// OriginLoad marks the initial load from the persistence sink.
	OriginLoad Origin = "load"
)

// Change describes a completed state change and is delivered to listeners.
// The correlation id tags audit entries written as a side effect of a
// replacement so they can be retracted later.
type Change struct {
	Origin        Origin
	CorrelationID string
}

// Listener receives change notifications after a mutation commits.
type Listener func(Change)

// Store owns the live task, tag, and person collections. All mutations are
// synchronous and atomic from the caller's perspective: a rejected operation
// leaves no observable trace.
// Fields are ordered to minimize memory padding.
type Store struct {
	tasks     map[string]*domain.Task
	children  map[string][]string            // ordered child ids per parent id
	top       map[domain.Quadrant][]string   // ordered top-level ids per quadrant
	tags      map[string]*domain.Tag
	people    map[string]*domain.Person
	audit     domain.AuditLog
	clock     domain.Clock
	logger    domain.Logger
	tagOrder  []string
	personIDs []string
	listeners []Listener
	corr      string // active correlation id, set during ReplaceState
	mu        sync.Mutex
	nextID    int
}

// New creates an empty Store.
func New(clock domain.Clock, audit domain.AuditLog, logger domain.Logger) *Store {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Store{
		tasks:    make(map[string]*domain.Task),
		children: make(map[string][]string),
		top:      make(map[domain.Quadrant][]string),
		tags:     make(map[string]*domain.Tag),
		people:   make(map[string]*domain.Person),
		audit:    audit,
		clock:    clock,
		logger:   logger,
		nextID:   1,
	}
}

// Subscribe registers a listener notified after every committed mutation.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// notify delivers a change to all listeners outside the store lock.
func (s *Store) notify(c Change) {
	s.mu.Lock()
	ls := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()
	for _, l := range ls {
		l(c)
	}
}

// newIDLocked assigns a fresh identifier with the given entity prefix.
func (s *Store) newIDLocked(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, s.nextID)
	s.nextID++
	return id
}

// Load replaces the store contents from a persisted snapshot. Called
// exactly once at startup.
func (s *Store) Load(snap domain.Snapshot) {
	s.mu.Lock()
	s.rebuildLocked(snap)
	s.mu.Unlock()
	s.notify(Change{Origin: OriginLoad})
}

// ReplaceState swaps the live state for the given snapshot. Used by the
// undo engine; the correlation id tags any audit entries written while the
// replacement is in flight.
func (s *Store) ReplaceState(snap domain.Snapshot, correlationID string) {
	s.mu.Lock()
	s.corr = correlationID
	s.rebuildLocked(snap)
	s.corr = ""
	s.mu.Unlock()
	s.notify(Change{Origin: OriginReplace, CorrelationID: correlationID})
}

// rebuildLocked re-indexes the store from a snapshot.
func (s *Store) rebuildLocked(snap domain.Snapshot) {
	snap = snap.Clone()
	s.tasks = make(map[string]*domain.Task, len(snap.Tasks))
	s.children = make(map[string][]string)
	s.top = make(map[domain.Quadrant][]string)
	s.tags = make(map[string]*domain.Tag, len(snap.Tags))
	s.people = make(map[string]*domain.Person, len(snap.People))
	s.tagOrder = s.tagOrder[:0]
	s.personIDs = s.personIDs[:0]

	for _, t := range snap.Tasks {
		s.tasks[t.ID] = t
	}
	// Rebuild sibling groups in Order, preserving snapshot order for ties.
	for _, t := range snap.Tasks {
		if t.ParentID != nil {
			s.children[*t.ParentID] = append(s.children[*t.ParentID], t.ID)
		} else {
			s.top[t.Quadrant] = append(s.top[t.Quadrant], t.ID)
		}
	}
	for pid := range s.children {
		s.sortGroupLocked(s.children[pid])
		s.renumberLocked(s.children[pid])
	}
	for q := range s.top {
		s.sortGroupLocked(s.top[q])
		s.renumberLocked(s.top[q])
	}

	for _, tag := range snap.Tags {
		s.tags[tag.ID] = tag
		s.tagOrder = append(s.tagOrder, tag.ID)
	}
	for _, p := range snap.People {
		s.people[p.ID] = p
		s.personIDs = append(s.personIDs, p.ID)
	}
	if snap.NextID > 0 {
		s.nextID = snap.NextID
	} else if s.nextID == 0 {
		s.nextID = 1
	}
}

// Snapshot returns a deep copy of the full state in canonical order:
// quadrant by quadrant, each top-level task followed by its descendants.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{NextID: s.nextID}
	for _, id := range s.orderedIDsLocked() {
		snap.Tasks = append(snap.Tasks, s.tasks[id].Clone())
	}
	for _, id := range s.tagOrder {
		tag := *s.tags[id]
		snap.Tags = append(snap.Tags, &tag)
	}
	for _, id := range s.personIDs {
		p := *s.people[id]
		snap.People = append(snap.People, &p)
	}
	return snap
}

// orderedIDsLocked returns every task id in canonical order.
func (s *Store) orderedIDsLocked() []string {
	ids := make([]string, 0, len(s.tasks))
	var walk func(id string)
	walk = func(id string) {
		ids = append(ids, id)
		for _, cid := range s.children[id] {
			walk(cid)
		}
	}
	for _, q := range domain.AllQuadrants() {
		for _, id := range s.top[q] {
			walk(id)
		}
	}
	return ids
}

// Tasks returns a deep copy of all tasks in canonical order.
func (s *Store) Tasks() []*domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Task
	for _, id := range s.orderedIDsLocked() {
		out = append(out, s.tasks[id].Clone())
	}
	return out
}

// Task returns a copy of one task, or ErrNotFound.
func (s *Store) Task(id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t.Clone(), nil
}

// Children returns copies of the direct children of a task, in order.
func (s *Store) Children(parentID string) []*domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Task
	for _, id := range s.children[parentID] {
		out = append(out, s.tasks[id].Clone())
	}
	return out
}

// Tags returns a copy of all tags in creation order.
func (s *Store) Tags() []*domain.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Tag
	for _, id := range s.tagOrder {
		tag := *s.tags[id]
		out = append(out, &tag)
	}
	return out
}

// People returns a copy of all people in creation order.
func (s *Store) People() []*domain.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Person
	for _, id := range s.personIDs {
		p := *s.people[id]
		out = append(out, &p)
	}
	return out
}

// appendAuditLocked writes an audit entry tagged with the active
// correlation id. Audit failures never roll back the mutation.
func (s *Store) appendAuditLocked(e domain.AuditEntry) {
	if s.audit == nil {
		return
	}
	e.At = s.clock.Now()
	e.CorrelationID = s.corr
	if err := s.audit.Append(e); err != nil {
		s.logger.Warn(e.TaskID, "audit", fmt.Sprintf("append failed: %v", err))
	}
}
