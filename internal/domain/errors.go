package domain

import "errors"

// Domain errors.
var (
	ErrNotFound        = errors.New("task not found")
	ErrInvalidParent   = errors.New("parent task missing or cannot hold children")
	ErrCycle           = errors.New("reparenting would violate nesting depth")
	ErrHasOwnChildren  = errors.New("subtask has children of its own")
	ErrHasChildren     = errors.New("completion of a task with children is derived from them")
	ErrInvalidQuadrant = errors.New("invalid quadrant")
	ErrInvalidKind     = errors.New("invalid task kind")
	ErrNotTopLevel     = errors.New("task is not top-level")
	ErrNotSubtask      = errors.New("task is not a subtask")
	ErrNotTemplate     = errors.New("task is not a recurring template")
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrTagNotFound     = errors.New("tag not found")
	ErrPersonNotFound  = errors.New("person not found")
	ErrInvalidRule     = errors.New("invalid recurrence rule")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrNothingToRedo   = errors.New("nothing to redo")
)
