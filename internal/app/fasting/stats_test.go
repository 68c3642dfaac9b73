package fasting

import (
	"testing"
	"time"

	"github.com/fastinglab/fasting-be/internal/models"
)

// completedOn 造一条在 day 当天 20:00 UTC 结束、时长 hours 小时的完成会话
func completedOn(day time.Time, hours float64, target float64) models.FastingSession {
	end := time.Date(day.Year(), day.Month(), day.Day(), 20, 0, 0, 0, time.UTC).UnixMilli()
	start := end - int64(hours*3600*1000)
	return models.FastingSession{
		ID:          day.Format("2006-01-02"),
		VisitorID:   vid,
		Status:      models.StatusCompleted,
		StartAt:     start,
		EndAt:       &end,
		TargetHours: target,
		Timezone:    "UTC",
	}
}

func TestComputeStatsTotals(t *testing.T) {
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	history := []models.FastingSession{
		completedOn(day, 17, 16),
		completedOn(day.AddDate(0, 0, 1), 18, 16),
		completedOn(day.AddDate(0, 0, 2), 12, 16), // below target, not completed
	}
	now := time.Date(2026, 8, 4, 12, 0, 0, 0, time.UTC)

	stats := ComputeStats(StatsInput{
		History:      history,
		Now:          now,
		MealCost:     25,
		AIUsageCount: 3,
	})

	if stats.TotalHours != 17+18+12 {
		t.Errorf("total = %v, want 47", stats.TotalHours)
	}
	// only the hours past 16 count as deep: 1 + 2 + 0
	if stats.DeepHours != 3 {
		t.Errorf("deep = %v, want 3", stats.DeepHours)
	}
	if stats.LongestHours != 18 {
		t.Errorf("longest = %v, want 18", stats.LongestHours)
	}
	if stats.CompletedCount != 2 {
		t.Errorf("completed = %d, want 2", stats.CompletedCount)
	}
	if stats.MoneySaved != 50 {
		t.Errorf("money = %v, want 50", stats.MoneySaved)
	}
	if stats.AIUsageCount != 3 {
		t.Errorf("ai usage = %d, want 3", stats.AIUsageCount)
	}
}

func TestComputeStatsActiveSession(t *testing.T) {
	now := time.Date(2026, 8, 4, 12, 0, 0, 0, time.UTC)
	active := &models.FastingSession{
		ID:          "active",
		VisitorID:   vid,
		Status:      models.StatusFasting,
		StartAt:     now.Add(-19 * time.Hour).UnixMilli(),
		TargetHours: 24,
		Timezone:    "UTC",
	}

	stats := ComputeStats(StatsInput{Active: active, Now: now})

	// still fasting: live hours count toward the total
	if stats.TotalHours != 19 {
		t.Errorf("total = %v, want 19", stats.TotalHours)
	}
	if stats.DeepHours != 3 {
		t.Errorf("deep = %v, want 3", stats.DeepHours)
	}
	if stats.LongestHours != 19 {
		t.Errorf("longest = %v, want 19", stats.LongestHours)
	}
	// active session never counts as a completed entry
	if stats.CompletedCount != 0 {
		t.Errorf("completed = %d, want 0", stats.CompletedCount)
	}
}

func TestComputeStatsWeightDelta(t *testing.T) {
	stats := ComputeStats(StatsInput{Now: time.Now(), InitialWeight: 82.5, CurrentWeight: 78})
	if stats.WeightDelta != 4.5 {
		t.Errorf("delta = %v, want 4.5", stats.WeightDelta)
	}
	// either weight missing: delta is 0
	stats = ComputeStats(StatsInput{Now: time.Now(), InitialWeight: 82.5})
	if stats.WeightDelta != 0 {
		t.Errorf("delta = %v, want 0 when current weight missing", stats.WeightDelta)
	}
}

func TestStreakConsecutiveDays(t *testing.T) {
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	var history []models.FastingSession
	for i := 0; i < 7; i++ {
		history = append(history, completedOn(day.AddDate(0, 0, i), 16.5, 16))
	}
	now := time.Date(2026, 8, 8, 12, 0, 0, 0, time.UTC)

	stats := ComputeStats(StatsInput{History: history, Now: now})
	if stats.StreakDays != 7 {
		t.Errorf("streak = %d, want 7", stats.StreakDays)
	}
	if stats.FastingDays != 7 {
		t.Errorf("fasting days = %d, want 7", stats.FastingDays)
	}

	// an 8th session two days after the 7th starts a fresh run of 1, not 8
	history = append(history, completedOn(day.AddDate(0, 0, 8), 16.5, 16))
	stats = ComputeStats(StatsInput{History: history, Now: now.AddDate(0, 0, 2)})
	if stats.StreakDays != 1 {
		t.Errorf("streak after gap = %d, want 1", stats.StreakDays)
	}
	if stats.FastingDays != 8 {
		t.Errorf("fasting days = %d, want 8", stats.FastingDays)
	}
}

func TestStreakIgnoresIncompleteAndOpenSessions(t *testing.T) {
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	history := []models.FastingSession{
		completedOn(day, 16.5, 16),
		completedOn(day.AddDate(0, 0, 1), 2, 16), // too short, not completed
	}
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)

	stats := ComputeStats(StatsInput{History: history, Now: now})
	if stats.StreakDays != 1 {
		t.Errorf("streak = %d, want 1 (incomplete day does not extend it)", stats.StreakDays)
	}
	if stats.FastingDays != 1 {
		t.Errorf("fasting days = %d, want 1", stats.FastingDays)
	}
}

func TestDistinctDaysDeduplicated(t *testing.T) {
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	a := completedOn(day, 16.5, 16)
	b := completedOn(day, 17, 16)
	b.ID = "second-same-day"
	now := time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC)

	stats := ComputeStats(StatsInput{History: []models.FastingSession{a, b}, Now: now})
	if stats.FastingDays != 1 {
		t.Errorf("two completions on one day: fasting days = %d, want 1", stats.FastingDays)
	}
	if stats.CompletedCount != 2 {
		t.Errorf("completed = %d, want 2", stats.CompletedCount)
	}
}
