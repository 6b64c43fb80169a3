package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/ryoseto/quadra/internal/domain"
)

// Syncer pushes snapshots into the persistence sink after every mutation.
// Writes are debounced and coalesced: a new write supersedes a pending one
// rather than queuing, and failures never block or roll back mutations.
// Fields are ordered to minimize memory padding.
type Syncer struct {
	store    *Store
	sink     domain.Persistence
	logger   domain.Logger
	timer    *time.Timer
	debounce time.Duration
	mu       sync.Mutex
}

// NewSyncer creates a Syncer and subscribes it to the store.
func NewSyncer(store *Store, sink domain.Persistence, debounce time.Duration, logger domain.Logger) *Syncer {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	s := &Syncer{
		store:    store,
		sink:     sink,
		debounce: debounce,
		logger:   logger,
	}
	store.Subscribe(s.onChange)
	return s
}

// onChange schedules a coalesced save. The initial load is already
// persisted, skipping it avoids a redundant write at startup.
func (s *Syncer) onChange(c Change) {
	if c.Origin == OriginLoad {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.flush)
}

// flush writes the current snapshot to the sink.
func (s *Syncer) flush() {
	s.mu.Lock()
	s.timer = nil
	s.mu.Unlock()
	if err := s.sink.SaveAll(s.store.Snapshot()); err != nil {
		s.logger.Error("", "persist", fmt.Sprintf("save failed: %v", err))
	}
}

// Flush forces any pending write to run now. Used on shutdown.
func (s *Syncer) Flush() {
	s.mu.Lock()
	pending := s.timer != nil
	if pending {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	if pending {
		if err := s.sink.SaveAll(s.store.Snapshot()); err != nil {
			s.logger.Error("", "persist", fmt.Sprintf("save failed: %v", err))
		}
	}
}
