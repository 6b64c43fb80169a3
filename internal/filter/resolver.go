// Package filter implements the visibility-filter resolver: a pure,
// multi-phase function deciding which tasks are shown under combined
// search, tag, person, date, and star criteria.
package filter

import (
	"strings"
	"time"

	"github.com/ryoseto/quadra/internal/domain"
)

// Resolve computes the visible subset of tasks for the given filter
// configuration. It is a pure function of its inputs: no mutation, stable
// original relative order, memoizable by structural equality.
//
// Phases: base completion filter, direct-match evaluation, downward
// inclusion (children of matching parents), upward inclusion (parents of
// matching children), one re-expansion pass, and template exclusion.
func Resolve(tasks []*domain.Task, tags []*domain.Tag, people []*domain.Person, cfg domain.FilterConfig, now time.Time) []*domain.Task {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	tagNames := make(map[string]string, len(tags))
	for _, tag := range tags {
		tagNames[tag.ID] = tag.Name
	}
	personNames := make(map[string]string, len(people))
	for _, p := range people {
		personNames[p.ID] = p.Name
	}

	// Phase 1: base completion filter.
	candidate := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			if !cfg.ShowCompleted {
				continue
			}
			if cfg.CompletedCutoff != nil && !cfg.HasCompletedRange() &&
				t.CompletedAt != nil && t.CompletedAt.Before(*cfg.CompletedCutoff) {
				continue
			}
		}
		candidate[t.ID] = true
	}

	// Phase 2: direct-match evaluation. All active predicates must pass.
	direct := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if !candidate[t.ID] {
			continue
		}
		if matchesView(t, cfg, now) &&
			matchesQuery(t, cfg.Query, tagNames, personNames) &&
			matchesTags(t, cfg.TagIDs) &&
			matchesPeople(t, cfg.PersonIDs) &&
			matchesStarred(t, cfg.StarredOnly) {
			direct[t.ID] = true
		}
	}

	included := make(map[string]bool, len(direct))
	for id := range direct {
		included[id] = true
	}

	rangeMode := cfg.View == domain.ViewCompleted && cfg.HasCompletedRange()

	// Phase 3: downward inclusion. In a completed-date-range view a child
	// is not inherited across the date boundary.
	for _, t := range tasks {
		if t.Kind != domain.KindSubtask || !candidate[t.ID] || t.ParentID == nil {
			continue
		}
		if !direct[*t.ParentID] {
			continue
		}
		if rangeMode && !completedWithin(t, cfg.CompletedFrom, cfg.CompletedTo) {
			continue
		}
		included[t.ID] = true
	}

	// Phase 4: upward inclusion. A matching child never appears orphaned.
	for _, t := range tasks {
		if t.Kind != domain.KindSubtask || !direct[t.ID] || t.ParentID == nil {
			continue
		}
		if parent := byID[*t.ParentID]; parent != nil && candidate[parent.ID] {
			included[parent.ID] = true
		}
	}

	// Phase 5: re-expansion. Parents pulled in via phase 4 bring along all
	// of their children, except under Completed mode or an active range.
	if cfg.View != domain.ViewCompleted && !cfg.HasCompletedRange() {
		for _, t := range tasks {
			if t.Kind != domain.KindSubtask || !candidate[t.ID] || t.ParentID == nil {
				continue
			}
			if included[*t.ParentID] {
				included[t.ID] = true
			}
		}
	}

	// Phase 6: templates are never shown as actionable cards.
	var out []*domain.Task
	for _, t := range tasks {
		if t.Kind == domain.KindRecurringTemplate {
			continue
		}
		if included[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// matchesView evaluates the mutually-exclusive view-mode predicate.
func matchesView(t *domain.Task, cfg domain.FilterConfig, now time.Time) bool {
	switch cfg.View {
	case domain.ViewToday:
		window := time.Duration(cfg.TodayWindowDays) * 24 * time.Hour
		return t.DueWithin(now, window) || t.IsOverdue(now) || t.Starred
	case domain.ViewCompleted:
		if !t.Completed {
			return false
		}
		if cfg.HasCompletedRange() {
			return completedWithin(t, cfg.CompletedFrom, cfg.CompletedTo)
		}
		return true
	default:
		return true
	}
}

// matchesQuery performs a case-insensitive substring match against title,
// description, and resolved tag and person names.
func matchesQuery(t *domain.Task, query string, tagNames, personNames map[string]string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, id := range t.TagIDs {
		if strings.Contains(strings.ToLower(tagNames[id]), q) {
			return true
		}
	}
	for _, id := range t.PersonIDs {
		if strings.Contains(strings.ToLower(personNames[id]), q) {
			return true
		}
	}
	return false
}

func matchesTags(t *domain.Task, tagIDs []string) bool {
	if len(tagIDs) == 0 {
		return true
	}
	for _, id := range tagIDs {
		if t.HasTag(id) {
			return true
		}
	}
	return false
}

func matchesPeople(t *domain.Task, personIDs []string) bool {
	if len(personIDs) == 0 {
		return true
	}
	for _, id := range personIDs {
		if t.HasPerson(id) {
			return true
		}
	}
	return false
}

func matchesStarred(t *domain.Task, starredOnly map[domain.Quadrant]bool) bool {
	if !starredOnly[t.Quadrant] {
		return true
	}
	return t.Starred
}

// completedWithin returns true if the task completed inside [from, to].
func completedWithin(t *domain.Task, from, to *time.Time) bool {
	if !t.Completed || t.CompletedAt == nil || from == nil || to == nil {
		return false
	}
	return !t.CompletedAt.Before(*from) && !t.CompletedAt.After(*to)
}
