package model

import "time"

// Badge is immutable once awarded. IDs are stable catalog keys; clients
// may store them, so they must never change.
type Badge struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AwardedAt   time.Time `json:"awardedAt"`
}

// UserProfile is the singleton gamification record, one per installation.
type UserProfile struct {
	ID     string `json:"id"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
	Coins  int    `json:"coins"`
	Streak int    `json:"streak"`
	Points int    `json:"points"`

	Badges []Badge `json:"badges"`

	// LastCompletionDate is the calendar day ("2006-01-02") of the most
	// recent reward-bearing completion. Empty means no completion yet.
	LastCompletionDate string `json:"lastCompletionDate,omitempty"`
}

func (p *UserProfile) HasBadge(id string) bool {
	for _, b := range p.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}
