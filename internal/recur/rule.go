// Package recur generates RecurringInstance tasks from templates according
// to each template's recurrence rule and pause flag.
package recur

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ryoseto/quadra/internal/domain"
)

// RuleKind classifies a recurrence rule.
type RuleKind string

const (
	RuleDaily    RuleKind = "daily"    // Fires every day
	RuleWeekdays RuleKind = "weekdays" // Fires Monday through Friday
	RuleWeekly   RuleKind = "weekly"   // Fires on one weekday
	RuleMonthly  RuleKind = "monthly"  // Fires on one day of the month (1..28)
	RuleInterval RuleKind = "interval" // Fires every N days from an anchor
)

// Rule is a parsed recurrence rule.
// Fields are ordered to minimize memory padding.
type Rule struct {
	Kind         RuleKind
	Weekday      time.Weekday // RuleWeekly only
	MonthDay     int          // RuleMonthly only
	IntervalDays int          // RuleInterval only
}

var weekdays = map[string]time.Weekday{
	"mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
	"sun": time.Sunday,
}

// Parse parses a rule string: "daily", "weekdays", "weekly:<mon..sun>",
// "monthly:<1..28>", or "every:<N>d".
func Parse(s string) (Rule, error) {
	switch {
	case s == "daily":
		return Rule{Kind: RuleDaily}, nil
	case s == "weekdays":
		return Rule{Kind: RuleWeekdays}, nil
	case strings.HasPrefix(s, "weekly:"):
		day, ok := weekdays[strings.TrimPrefix(s, "weekly:")]
		if !ok {
			return Rule{}, fmt.Errorf("%w: %q", domain.ErrInvalidRule, s)
		}
		return Rule{Kind: RuleWeekly, Weekday: day}, nil
	case strings.HasPrefix(s, "monthly:"):
		day, err := strconv.Atoi(strings.TrimPrefix(s, "monthly:"))
		if err != nil || day < 1 || day > 28 {
			return Rule{}, fmt.Errorf("%w: %q", domain.ErrInvalidRule, s)
		}
		return Rule{Kind: RuleMonthly, MonthDay: day}, nil
	case strings.HasPrefix(s, "every:") && strings.HasSuffix(s, "d"):
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(s, "every:"), "d"))
		if err != nil || n < 1 {
			return Rule{}, fmt.Errorf("%w: %q", domain.ErrInvalidRule, s)
		}
		return Rule{Kind: RuleInterval, IntervalDays: n}, nil
	default:
		return Rule{}, fmt.Errorf("%w: %q", domain.ErrInvalidRule, s)
	}
}

// LastFire returns the most recent fire date at or before now, normalized
// to midnight. The anchor is the template's creation date and only matters
// for interval rules. ok is false if the rule has not fired yet.
func (r Rule) LastFire(now, anchor time.Time) (time.Time, bool) {
	today := midnight(now)
	switch r.Kind {
	case RuleDaily:
		return today, true
	case RuleWeekdays:
		d := today
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, -1)
		}
		return d, true
	case RuleWeekly:
		offset := (int(today.Weekday()) - int(r.Weekday) + 7) % 7
		return today.AddDate(0, 0, -offset), true
	case RuleMonthly:
		d := time.Date(today.Year(), today.Month(), r.MonthDay, 0, 0, 0, 0, today.Location())
		if d.After(today) {
			d = d.AddDate(0, -1, 0)
		}
		return d, true
	case RuleInterval:
		start := midnight(anchor)
		if start.After(today) {
			return time.Time{}, false
		}
		days := daysBetween(start, today)
		return start.AddDate(0, 0, days-days%r.IntervalDays), true
	default:
		return time.Time{}, false
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b. The dates are re-anchored
// in UTC so DST transitions cannot shorten a day to 23 hours and skew the
// count.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}
