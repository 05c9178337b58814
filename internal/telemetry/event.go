package telemetry

import "time"

type EventType string

const (
	EventTaskCreated       EventType = "task_created"
	EventTaskUpdated       EventType = "task_updated"
	EventTaskCompleted     EventType = "task_completed"
	EventTaskRemoved       EventType = "task_removed"
	EventReminderScheduled EventType = "reminder_scheduled"
	EventReminderCancelled EventType = "reminder_cancelled"
	EventLevelUp           EventType = "level_up"
	EventBadgeAwarded      EventType = "badge_awarded"
	EventImportMerged      EventType = "import_merged"
	EventImportReplaced    EventType = "import_replaced"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}

// Recorder is the write side used by the engine. Recording is
// best-effort observability; callers ignore its error on hot paths.
type Recorder interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
}
