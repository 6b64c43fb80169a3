package domain

// Kind classifies a task and determines which relationships are legal.
type Kind string

const (
	KindStandard          Kind = "standard"           // Top-level task, may parent subtasks
	KindSubtask           Kind = "subtask"            // Child of a standard task or instance, always a leaf
	KindRecurringTemplate Kind = "recurring_template" // Pattern for generated instances, never actionable
	KindRecurringInstance Kind = "recurring_instance" // Generated from a template, may parent subtasks
)

// AllKinds returns all valid kind values.
func AllKinds() []Kind {
	return []Kind{
		KindStandard,
		KindSubtask,
		KindRecurringTemplate,
		KindRecurringInstance,
	}
}

// IsValid returns true if the kind is a known value.
func (k Kind) IsValid() bool {
	switch k {
	case KindStandard, KindSubtask, KindRecurringTemplate, KindRecurringInstance:
		return true
	default:
		return false
	}
}

// CanParentChildren returns true if tasks of this kind may hold subtasks.
// Templates parent their generated instances through a separate relation and
// are deliberately excluded: completion must never propagate into them.
func (k Kind) CanParentChildren() bool {
	return k == KindStandard || k == KindRecurringInstance
}

// IsLeafOnly returns true if tasks of this kind can never hold children.
func (k Kind) IsLeafOnly() bool {
	return k == KindSubtask
}

// Display returns a human-readable representation of the kind.
func (k Kind) Display() string {
	switch k {
	case KindStandard:
		return "Task"
	case KindSubtask:
		return "Subtask"
	case KindRecurringTemplate:
		return "Template"
	case KindRecurringInstance:
		return "Recurring"
	default:
		return string(k)
	}
}
