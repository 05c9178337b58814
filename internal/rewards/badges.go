package rewards

import (
	"time"

	"questlog/internal/model"
)

const (
	BadgeFirstTask  = "first-task"
	Badge7DayStreak = "7-day-streak"
)

type badgeDef struct {
	ID          string
	Title       string
	Description string
	Earned      func(p *model.UserProfile) bool
}

// badgeCatalog is the canonical list of badges. Keep IDs stable because
// clients store them.
func badgeCatalog() []badgeDef {
	return []badgeDef{
		{
			ID:          BadgeFirstTask,
			Title:       "First task",
			Description: "Completed your first task",
			Earned:      func(*model.UserProfile) bool { return true },
		},
		{
			ID:          Badge7DayStreak,
			Title:       "7 days straight",
			Description: "Completed tasks on 7 consecutive days",
			Earned:      func(p *model.UserProfile) bool { return p.Streak >= 7 },
		},
	}
}

// evaluateBadges awards any newly earned badges, appending them to the
// profile. Held badges are never re-awarded or removed.
func evaluateBadges(p *model.UserProfile, now time.Time) []model.Badge {
	var awarded []model.Badge
	for _, def := range badgeCatalog() {
		if p.HasBadge(def.ID) || !def.Earned(p) {
			continue
		}
		b := model.Badge{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			AwardedAt:   now,
		}
		p.Badges = append(p.Badges, b)
		awarded = append(awarded, b)
	}
	return awarded
}
