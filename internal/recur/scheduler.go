package recur

import (
	"fmt"
	"time"

	"github.com/ryoseto/quadra/internal/domain"
	"github.com/ryoseto/quadra/internal/engine"
)

// Scheduler inspects recurring templates and creates due instances through
// the mutation engine. Backfill is capped to the most recent fire date:
// missed occurrences are not replayed.
type Scheduler struct {
	store  *engine.Store
	clock  domain.Clock
	logger domain.Logger
}

// NewScheduler creates a Scheduler.
func NewScheduler(store *engine.Store, clock domain.Clock, logger domain.Logger) *Scheduler {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Scheduler{store: store, clock: clock, logger: logger}
}

// GenerateDue creates one instance per unpaused template whose rule has
// fired and which has no instance for that fire date yet. Returns the
// number of instances created. Templates with unparseable rules are skipped
// with a warning rather than failing the whole pass.
func (s *Scheduler) GenerateDue() (int, error) {
	now := s.clock.Now()
	created := 0
	for _, t := range s.store.Tasks() {
		if t.Kind != domain.KindRecurringTemplate || t.Paused || t.Recurrence == "" {
			continue
		}
		rule, err := Parse(t.Recurrence)
		if err != nil {
			s.logger.Warn(t.ID, "recur", fmt.Sprintf("skipping template: %v", err))
			continue
		}
		fire, ok := rule.LastFire(now, t.CreatedAt)
		if !ok || s.hasInstanceFor(t.ID, fire) {
			continue
		}
		due := fire
		if _, err := s.store.AddInstance(t.ID, &due); err != nil {
			return created, fmt.Errorf("generate instance for %s: %w", t.ID, err)
		}
		created++
	}
	return created, nil
}

// hasInstanceFor returns true if the template already has an instance whose
// due date falls on the given fire date.
func (s *Scheduler) hasInstanceFor(templateID string, fire time.Time) bool {
	for _, c := range s.store.Children(templateID) {
		if c.Kind != domain.KindRecurringInstance || c.DueDate == nil {
			continue
		}
		if midnight(*c.DueDate).Equal(fire) {
			return true
		}
	}
	return false
}
