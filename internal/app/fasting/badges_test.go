package fasting

import (
	"testing"

	"github.com/fastinglab/fasting-be/internal/models"
)

func badgeByID(t *testing.T, out []BadgeStatus, id string) BadgeStatus {
	t.Helper()
	for _, b := range out {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("badge %s not in evaluation output", id)
	return BadgeStatus{}
}

func TestFatBurningBadgeThreshold(t *testing.T) {
	locked := badgeByID(t, EvaluateBadges(models.BadgeStats{LongestHours: 17.9}), "badge_fat_burning")
	if locked.Unlocked {
		t.Errorf("17.9h must not unlock an 18h badge")
	}
	if locked.Remaining == "" {
		t.Errorf("locked badge must carry remaining text")
	}

	unlocked := badgeByID(t, EvaluateBadges(models.BadgeStats{LongestHours: 18.0}), "badge_fat_burning")
	if !unlocked.Unlocked {
		t.Errorf("18.0h should unlock the badge")
	}
	if unlocked.Remaining != "" {
		t.Errorf("unlocked badge must have empty remaining text, got %q", unlocked.Remaining)
	}
}

func TestEvaluateBadgesEmptyStatsAllLocked(t *testing.T) {
	out := EvaluateBadges(models.BadgeStats{})
	if len(out) != len(models.Badges) {
		t.Fatalf("evaluated %d badges, table has %d", len(out), len(models.Badges))
	}
	for _, b := range out {
		if b.Unlocked {
			t.Errorf("badge %s unlocked on empty stats", b.ID)
		}
		if b.Remaining == "" {
			t.Errorf("locked badge %s missing remaining text", b.ID)
		}
	}
}

func TestBadgeRules(t *testing.T) {
	tests := []struct {
		id    string
		stats models.BadgeStats
		want  bool
	}{
		{"badge_first_fast", models.BadgeStats{CompletedCount: 1}, true},
		{"badge_first_fast", models.BadgeStats{}, false},
		{"badge_hundred_hours", models.BadgeStats{TotalHours: 100}, true},
		{"badge_hundred_hours", models.BadgeStats{TotalHours: 99.9}, false},
		{"badge_week_streak", models.BadgeStats{StreakDays: 7}, true},
		{"badge_week_streak", models.BadgeStats{StreakDays: 6}, false},
		{"badge_thirty_days", models.BadgeStats{FastingDays: 30}, true},
		{"badge_deep_fifty", models.BadgeStats{DeepHours: 50}, true},
		{"badge_money_saver", models.BadgeStats{MoneySaved: 500}, true},
		{"badge_ai_explorer", models.BadgeStats{AIUsageCount: 10}, true},
		{"badge_ai_explorer", models.BadgeStats{AIUsageCount: 9}, false},
	}
	for _, tt := range tests {
		got := badgeByID(t, EvaluateBadges(tt.stats), tt.id)
		if got.Unlocked != tt.want {
			t.Errorf("%s with %+v: unlocked = %v, want %v", tt.id, tt.stats, got.Unlocked, tt.want)
		}
	}
}
