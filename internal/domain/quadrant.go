package domain

// Quadrant is one of the four priority categories of the board.
type Quadrant int

const (
	QuadrantUrgentImportant       Quadrant = 1 // Do first
	QuadrantNotUrgentImportant    Quadrant = 2 // Schedule
	QuadrantUrgentNotImportant    Quadrant = 3 // Delegate
	QuadrantNotUrgentNotImportant Quadrant = 4 // Eliminate
)

// AllQuadrants returns the four quadrants in board order.
func AllQuadrants() []Quadrant {
	return []Quadrant{
		QuadrantUrgentImportant,
		QuadrantNotUrgentImportant,
		QuadrantUrgentNotImportant,
		QuadrantNotUrgentNotImportant,
	}
}

// IsValid returns true if q is one of the four board quadrants.
func (q Quadrant) IsValid() bool {
	return q >= QuadrantUrgentImportant && q <= QuadrantNotUrgentNotImportant
}

// Display returns a human-readable label for the quadrant.
func (q Quadrant) Display() string {
	switch q {
	case QuadrantUrgentImportant:
		return "Urgent & Important"
	case QuadrantNotUrgentImportant:
		return "Not Urgent & Important"
	case QuadrantUrgentNotImportant:
		return "Urgent & Not Important"
	case QuadrantNotUrgentNotImportant:
		return "Not Urgent & Not Important"
	default:
		return "Unknown"
	}
}
