package model

import (
	"slices"
	"time"
)

type TaskID string

// Task is one actionable item. JSON field names match the export format
// of the mobile app this engine replaced, so old snapshots round-trip.
type Task struct {
	ID       TaskID     `json:"id"`
	Title    string     `json:"title"`
	Notes    string     `json:"notes,omitempty"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
	Tags     []string   `json:"tags,omitempty"`
	Points   int        `json:"points,omitempty"`
	XPReward *int       `json:"xpReward,omitempty"`

	Completed bool `json:"completed"`

	// CompletedAt records the most recent pending->completed transition.
	// It is never cleared when a task is toggled back to pending, so it
	// may be stale on a pending task; Completed alone is authoritative.
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	// NotificationID is the opaque handle of the outstanding reminder.
	// Non-nil only while a reminder is actually scheduled: never for a
	// completed task, never for a task without a due date.
	NotificationID *string `json:"notificationId,omitempty"`
}

func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}
