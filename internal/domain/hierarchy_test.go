package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_CanParentChildren(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindStandard, true},
		{KindRecurringInstance, true},
		{KindSubtask, false},
		{KindRecurringTemplate, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.CanParentChildren())
			assert.Equal(t, tt.want, CanParentChildren(&Task{Kind: tt.kind}))
		})
	}
}

func TestCanParentChildren_Nil(t *testing.T) {
	assert.False(t, CanParentChildren(nil))
}

func TestWouldCreateCycle(t *testing.T) {
	assert.True(t, WouldCreateCycle("t-1", "t-1"))
	assert.False(t, WouldCreateCycle("t-1", "t-2"))
}

func TestAllChildrenCompleted(t *testing.T) {
	tests := []struct {
		name     string
		children []*Task
		want     bool
	}{
		{"no children", nil, false},
		{"all completed", []*Task{{Completed: true}, {Completed: true}}, true},
		{"one incomplete", []*Task{{Completed: true}, {Completed: false}}, false},
		{"single completed", []*Task{{Completed: true}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllChildrenCompleted(tt.children))
		})
	}
}

func TestLatestChildCompletion(t *testing.T) {
	early := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	late := time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)

	got := LatestChildCompletion([]*Task{
		{Completed: true, CompletedAt: &early},
		{Completed: true, CompletedAt: &late},
	})
	require.NotNil(t, got)
	assert.True(t, got.Equal(late))

	assert.Nil(t, LatestChildCompletion([]*Task{{}, {}}))
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		due       *time.Time
		name      string
		completed bool
		want      bool
	}{
		{&past, "past due incomplete", false, true},
		{&past, "past due completed", true, false},
		{&future, "future due", false, false},
		{nil, "no due date", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{DueDate: tt.due, Completed: tt.completed}
			assert.Equal(t, tt.want, task.IsOverdue(now))
		})
	}
}

func TestTask_Clone(t *testing.T) {
	due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	parent := "t-1"
	orig := &Task{
		ID:       "t-2",
		ParentID: &parent,
		DueDate:  &due,
		TagIDs:   []string{"g-1"},
	}

	c := orig.Clone()
	*c.ParentID = "t-9"
	c.TagIDs[0] = "g-9"
	*c.DueDate = due.AddDate(0, 0, 1)

	assert.Equal(t, "t-1", *orig.ParentID)
	assert.Equal(t, "g-1", orig.TagIDs[0])
	assert.True(t, orig.DueDate.Equal(due))
}
