package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period             string            `json:"period"`
	EventCounts        map[EventType]int `json:"event_counts"`
	TasksCreated       int               `json:"tasks_created"`
	TaskCompletions    int               `json:"task_completions"`
	RemindersScheduled int               `json:"reminders_scheduled"`
	RemindersCancelled int               `json:"reminders_cancelled"`
	LevelUps           int               `json:"level_ups"`
	BadgesByID         map[string]int    `json:"badges_by_id"`
	Imports            int               `json:"imports"`
}

// CalculateStats computes usage stats from events
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:      since.Format("2006-01-02"),
		EventCounts: make(map[EventType]int),
		BadgesByID:  make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventTaskCreated:
			stats.TasksCreated++
		case EventTaskCompleted:
			stats.TaskCompletions++
		case EventReminderScheduled:
			stats.RemindersScheduled++
		case EventReminderCancelled:
			stats.RemindersCancelled++
		case EventLevelUp:
			stats.LevelUps++
		case EventBadgeAwarded:
			if id, ok := metadata["badge_id"].(string); ok {
				stats.BadgesByID[id]++
			}
		case EventImportMerged, EventImportReplaced:
			stats.Imports++
		}
	}

	return stats, nil
}
