package rewards

import (
	"testing"
	"time"

	"questlog/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func freshProfile() model.UserProfile {
	return model.UserProfile{ID: "local", Level: 1, Badges: []model.Badge{}}
}

func TestRequiredXPForLevel_StrictlyIncreasing(t *testing.T) {
	if RequiredXPForLevel(2) != 140 {
		t.Fatalf("expected level-2 threshold 140, got %d", RequiredXPForLevel(2))
	}
	for l := 2; l <= 50; l++ {
		if RequiredXPForLevel(l) <= RequiredXPForLevel(l-1) {
			t.Fatalf("threshold not increasing at level %d", l)
		}
	}
}

func TestApplyCompletion_FirstCompletion(t *testing.T) {
	now := day("2026-03-10 09:00")
	p, sum := ApplyCompletion(model.Task{ID: "a", Title: "x"}, freshProfile(), now)

	// base 10, no tag bonus, streak 1 => bonus 2
	if sum.Points != 12 || sum.XPGain != 12 {
		t.Fatalf("unexpected reward: %+v", sum)
	}
	if p.Streak != 1 || p.LastCompletionDate != "2026-03-10" {
		t.Fatalf("unexpected streak state: %+v", p)
	}
	if p.Coins != 12/5 {
		t.Fatalf("expected %d coins, got %d", 12/5, p.Coins)
	}
	if len(sum.NewBadges) != 1 || sum.NewBadges[0].ID != BadgeFirstTask {
		t.Fatalf("expected first-task badge, got %+v", sum.NewBadges)
	}
}

func TestApplyCompletion_ImportantTagBonus(t *testing.T) {
	now := day("2026-03-10 09:00")
	task := model.Task{ID: "a", Title: "x", Tags: []string{"home", "important"}}
	_, sum := ApplyCompletion(task, freshProfile(), now)

	if sum.Points != 10+5+2 {
		t.Fatalf("expected 17 points with important tag, got %d", sum.Points)
	}
}

func TestApplyCompletion_XPRewardOverride(t *testing.T) {
	now := day("2026-03-10 09:00")
	xp := 30
	_, sum := ApplyCompletion(model.Task{ID: "a", XPReward: &xp}, freshProfile(), now)

	if sum.Points != 30+2 {
		t.Fatalf("expected 32 points, got %d", sum.Points)
	}
}

func TestApplyCompletion_LevelUpNormalizesXP(t *testing.T) {
	now := day("2026-03-10 09:00")
	p := freshProfile()
	p.XP = 130

	p, sum := ApplyCompletion(model.Task{ID: "a"}, p, now)

	// 130 + 12 = 142 >= RequiredXPForLevel(2) = 140
	if !sum.LeveledUp || p.Level != 2 {
		t.Fatalf("expected level up to 2, got level %d (%+v)", p.Level, sum)
	}
	if p.XP != 2 {
		t.Fatalf("expected xp normalized to 2, got %d", p.XP)
	}
}

func TestApplyCompletion_XPInvariantHolds(t *testing.T) {
	p := freshProfile()
	now := day("2026-03-10 09:00")
	xp := 500
	task := model.Task{ID: "a", XPReward: &xp}

	for i := 0; i < 40; i++ {
		p, _ = ApplyCompletion(task, p, now)
		now = now.AddDate(0, 0, 1)
		if p.XP >= RequiredXPForLevel(p.Level+1) {
			t.Fatalf("xp %d not normalized below next threshold %d at level %d",
				p.XP, RequiredXPForLevel(p.Level+1), p.Level)
		}
	}
}

func TestApplyCompletion_StreakLaws(t *testing.T) {
	p := freshProfile()

	// Day D
	p, _ = ApplyCompletion(model.Task{ID: "a"}, p, day("2026-03-10 09:00"))
	if p.Streak != 1 {
		t.Fatalf("expected streak 1, got %d", p.Streak)
	}

	// Same day again: unchanged
	p, _ = ApplyCompletion(model.Task{ID: "b"}, p, day("2026-03-10 21:00"))
	if p.Streak != 1 {
		t.Fatalf("expected same-day streak unchanged, got %d", p.Streak)
	}

	// Day D+1: increments
	p, _ = ApplyCompletion(model.Task{ID: "c"}, p, day("2026-03-11 08:00"))
	if p.Streak != 2 {
		t.Fatalf("expected streak 2, got %d", p.Streak)
	}

	// Gap of two days: resets
	p, _ = ApplyCompletion(model.Task{ID: "d"}, p, day("2026-03-14 08:00"))
	if p.Streak != 1 {
		t.Fatalf("expected streak reset to 1, got %d", p.Streak)
	}
}

func TestApplyCompletion_StreakCap(t *testing.T) {
	p := freshProfile()
	p.Streak = 365
	p.LastCompletionDate = "2026-03-09"

	p, _ = ApplyCompletion(model.Task{ID: "a"}, p, day("2026-03-10 09:00"))
	if p.Streak != 365 {
		t.Fatalf("expected streak capped at 365, got %d", p.Streak)
	}
}

func TestApplyCompletion_StreakBonusCapsAtSeven(t *testing.T) {
	p := freshProfile()
	p.Streak = 20
	p.LastCompletionDate = "2026-03-09"

	_, sum := ApplyCompletion(model.Task{ID: "a"}, p, day("2026-03-10 09:00"))
	if sum.Points != 10+7*2 {
		t.Fatalf("expected streak bonus capped at 14, got points %d", sum.Points)
	}
}

func TestBadges_AwardedExactlyOnce(t *testing.T) {
	p := freshProfile()
	now := day("2026-03-10 09:00")

	streakDays := 0
	for i := 0; i < 10; i++ {
		var sum Summary
		p, sum = ApplyCompletion(model.Task{ID: "a"}, p, now)
		streakDays++

		for _, b := range sum.NewBadges {
			switch b.ID {
			case BadgeFirstTask:
				if i != 0 {
					t.Fatalf("first-task re-awarded on completion %d", i)
				}
			case Badge7DayStreak:
				if streakDays != 7 {
					t.Fatalf("7-day-streak awarded at streak %d", streakDays)
				}
			}
		}
		now = now.AddDate(0, 0, 1)
	}

	if !p.HasBadge(BadgeFirstTask) || !p.HasBadge(Badge7DayStreak) {
		t.Fatalf("expected both badges held, got %+v", p.Badges)
	}
	if len(p.Badges) != 2 {
		t.Fatalf("expected exactly 2 badges, got %d", len(p.Badges))
	}
}
