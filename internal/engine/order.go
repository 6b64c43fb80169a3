package engine

import "sort"

// Sibling-order maintenance. Order values stay unique and contiguous
// (0..n-1) within a sibling group: same parent for children, same quadrant
// for top-level tasks.

// sortGroupLocked stably sorts a sibling group by stored Order.
func (s *Store) sortGroupLocked(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return s.tasks[ids[i]].Order < s.tasks[ids[j]].Order
	})
}

// renumberLocked rewrites Order 0..n-1 along the group slice.
func (s *Store) renumberLocked(ids []string) {
	for i, id := range ids {
		s.tasks[id].Order = i
	}
}

// removeFromGroup returns the group with one id removed.
func removeFromGroup(group []string, id string) []string {
	out := group[:0]
	for _, g := range group {
		if g != id {
			out = append(out, g)
		}
	}
	return out
}

// insertIntoGroup returns the group with id inserted at the clamped position.
func insertIntoGroup(group []string, id string, pos int) []string {
	if pos < 0 {
		pos = 0
	}
	if pos > len(group) {
		pos = len(group)
	}
	group = append(group, "")
	copy(group[pos+1:], group[pos:])
	group[pos] = id
	return group
}
