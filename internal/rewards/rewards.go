// Package rewards turns completion events into profile state. Everything
// here is pure: the task store owns persistence and invocation.
package rewards

import (
	"math"
	"time"

	"questlog/internal/model"
)

const (
	defaultBasePoints = 10
	importantTag      = "important"
	importantBonus    = 5
	streakBonusCap    = 7
	streakCap         = 365
	coinsPerPoints    = 5
)

// Summary reports what a single completion earned, so the caller can
// surface points/level-up feedback without an event bus.
type Summary struct {
	Points    int           `json:"points"`
	XPGain    int           `json:"xp"`
	LeveledUp bool          `json:"leveledUp"`
	Level     int           `json:"level"`
	Coins     int           `json:"coins"`
	NewBadges []model.Badge `json:"newBadges,omitempty"`
}

// RequiredXPForLevel is the XP threshold to reach level l from l-1.
func RequiredXPForLevel(l int) int {
	return int(math.Round(100 * math.Pow(1.4, float64(l-1))))
}

// ApplyCompletion applies one pending->completed transition to the
// profile and returns the updated profile plus a reward summary.
// It is idempotent per calendar day with respect to the streak: a second
// completion on the same day earns points but never re-counts the day.
func ApplyCompletion(t model.Task, p model.UserProfile, now time.Time) (model.UserProfile, Summary) {
	basePoints := defaultBasePoints
	if t.XPReward != nil {
		basePoints = *t.XPReward
	}

	tagBonus := 0
	if t.HasTag(importantTag) {
		tagBonus = importantBonus
	}

	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	newStreak := 1
	switch p.LastCompletionDate {
	case yesterday:
		newStreak = p.Streak + 1
		if newStreak > streakCap {
			newStreak = streakCap
		}
	case today:
		// Already counted today; no increment, no reset.
		newStreak = p.Streak
	}

	streakBonus := min(newStreak, streakBonusCap) * 2
	points := basePoints + tagBonus + streakBonus
	xpGain := points // 1:1 in the current design

	p.Points += points
	p.Coins += points / coinsPerPoints
	p.XP += xpGain

	leveledUp := false
	for p.XP >= RequiredXPForLevel(p.Level+1) {
		p.XP -= RequiredXPForLevel(p.Level + 1)
		p.Level++
		leveledUp = true
	}

	p.Streak = newStreak
	p.LastCompletionDate = today

	newBadges := evaluateBadges(&p, now)

	return p, Summary{
		Points:    points,
		XPGain:    xpGain,
		LeveledUp: leveledUp,
		Level:     p.Level,
		Coins:     p.Coins,
		NewBadges: newBadges,
	}
}
