// Package history implements the snapshot-based undo/redo engine and its
// reconciliation against the external audit log.
package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/ryoseto/quadra/internal/domain"
	"github.com/ryoseto/quadra/internal/engine"
)

// recorderState tracks the debounced snapshot recorder.
type recorderState int

const (
	recorderIdle    recorderState = iota // No burst in progress
	recorderPending                      // Burst open, timer armed
)

// Engine maintains two bounded snapshot stacks. A burst of rapid edits is
// coalesced into a single undo step; state replacements performed by undo
// and redo are never recorded as new steps.
// Fields are ordered to minimize memory padding.
type Engine struct {
	store     *engine.Store
	audit     domain.AuditLog
	clock     domain.Clock
	logger    domain.Logger
	timer     *time.Timer
	jobs      chan func()
	done      chan struct{}
	past      []domain.Snapshot
	future    []domain.Snapshot
	tracked   domain.Snapshot // State at the last quiescent point
	debounce  time.Duration
	mu        sync.Mutex
	closeOnce sync.Once
	state     recorderState
	capacity  int
}

// New creates a history engine, subscribes it to the store, and starts the
// reconciliation worker. Reconciliation jobs run FIFO on one goroutine so
// log operations for the same task id stay serialized.
func New(store *engine.Store, audit domain.AuditLog, clock domain.Clock, capacity int, debounce time.Duration, logger domain.Logger) *Engine {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	h := &Engine{
		store:    store,
		audit:    audit,
		clock:    clock,
		logger:   logger,
		capacity: capacity,
		debounce: debounce,
		jobs:     make(chan func(), 16),
		done:     make(chan struct{}),
	}
	h.tracked = store.Snapshot()
	go func() {
		defer close(h.done)
		for job := range h.jobs {
			job()
		}
	}()
	store.Subscribe(h.onChange)
	return h
}

// Close stops the reconciliation worker and blocks until every pending
// job has run, so the audit log is fully reconciled when Close returns.
func (h *Engine) Close() {
	h.closeOnce.Do(func() {
		close(h.jobs)
	})
	<-h.done
}

// onChange drives the recorder state machine. Only user mutations are
// recordable; loads seed the baseline and replacements are suppressed.
func (h *Engine) onChange(c engine.Change) {
	switch c.Origin {
	case engine.OriginLoad:
		h.mu.Lock()
		h.tracked = h.store.Snapshot()
		h.mu.Unlock()
		return
	case engine.OriginReplace:
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == recorderIdle {
		// Leading edge: the pre-burst state becomes the undo step and any
		// redo history is invalidated.
		h.pushPastLocked(h.tracked)
		h.future = nil
		h.state = recorderPending
		h.timer = time.AfterFunc(h.debounce, h.flush)
		return
	}
	h.timer.Reset(h.debounce)
}

// flush closes the burst: the live state becomes the new baseline.
func (h *Engine) flush() {
	h.mu.Lock()
	h.tracked = h.store.Snapshot()
	h.state = recorderIdle
	h.timer = nil
	h.mu.Unlock()
}

// settleLocked cancels a pending burst so undo/redo sees a stable baseline.
func (h *Engine) settleLocked() {
	if h.state == recorderPending {
		h.timer.Stop()
		h.timer = nil
		h.state = recorderIdle
	}
}

func (h *Engine) pushPastLocked(snap domain.Snapshot) {
	if h.capacity > 0 && len(h.past) >= h.capacity {
		h.past = append(h.past[:0], h.past[1:]...)
	}
	h.past = append(h.past, snap)
}

func (h *Engine) pushFutureLocked(snap domain.Snapshot) {
	if h.capacity > 0 && len(h.future) >= h.capacity {
		h.future = append(h.future[:0], h.future[1:]...)
	}
	h.future = append(h.future, snap)
}

// CanUndo returns true if a past snapshot is available.
func (h *Engine) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.past) > 0
}

// CanRedo returns true if a future snapshot is available.
func (h *Engine) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.future) > 0
}

// Undo rewinds the live state to the most recent past snapshot and
// schedules reconciliation of the audit log against the rewind. The log's
// sequence number is captured before the rewind so the reconciliation can
// only touch entries that already existed: mutations logged after the
// undo are out of its reach even while it is still in flight.
func (h *Engine) Undo() error {
	h.mu.Lock()
	h.settleLocked()
	if len(h.past) == 0 {
		h.mu.Unlock()
		return domain.ErrNothingToUndo
	}
	current := h.store.Snapshot()
	restored := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.pushFutureLocked(current)
	corr := fmt.Sprintf("undo-%d", h.clock.Now().UnixNano())
	before := h.audit.NextSeq()
	h.mu.Unlock()

	h.store.ReplaceState(restored, corr)

	h.mu.Lock()
	h.tracked = restored.Clone()
	h.mu.Unlock()

	h.jobs <- func() { h.reconcile(current, restored, corr, before) }
	return nil
}

// Redo restores the most recent future snapshot. The restored state was
// once live and already logged, so no reconciliation is needed.
func (h *Engine) Redo() error {
	h.mu.Lock()
	h.settleLocked()
	if len(h.future) == 0 {
		h.mu.Unlock()
		return domain.ErrNothingToRedo
	}
	current := h.store.Snapshot()
	restored := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.pushPastLocked(current)
	h.mu.Unlock()

	h.store.ReplaceState(restored, "")

	h.mu.Lock()
	h.tracked = restored.Clone()
	h.mu.Unlock()
	return nil
}
