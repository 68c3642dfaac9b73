package fasting

import (
	"time"

	"github.com/fastinglab/fasting-be/internal/models"
)

// StatsInput 统计的全部输入；ComputeStats 是确定性折叠，不做任何 IO
type StatsInput struct {
	History       []models.FastingSession
	Active        *models.FastingSession
	Now           time.Time
	MealCost      float64
	InitialWeight float64
	CurrentWeight float64
	AIUsageCount  int
}

// ComputeStats 把历史会话（加上活跃会话）折叠成徽章用的聚合统计
// 时长一律从时间戳现算，不信任落库的派生列
func ComputeStats(in StatsInput) models.BadgeStats {
	var stats models.BadgeStats

	var longest float64
	for _, s := range in.History {
		minutes, completed := DeriveDuration(s.StartAt, s.EndAt, in.Now, s.TargetHours)
		hours := float64(minutes) / 60
		stats.TotalHours += hours
		if hours > DeepThresholdHours {
			stats.DeepHours += hours - DeepThresholdHours
		}
		if hours > longest {
			longest = hours
		}
		if completed {
			stats.CompletedCount++
		}
	}

	if in.Active != nil {
		minutes, completed := DeriveDuration(in.Active.StartAt, in.Active.EndAt, in.Now, in.Active.TargetHours)
		hours := float64(minutes) / 60
		// 活跃会话还没断完时把实时时长计入累计；到点之后等收口再算，避免重复
		if !completed {
			stats.TotalHours += hours
		}
		if hours > DeepThresholdHours {
			stats.DeepHours += hours - DeepThresholdHours
		}
		if hours > longest {
			longest = hours
		}
	}
	stats.LongestHours = longest

	days := completedDays(in.History, in.Now)
	stats.FastingDays = len(days)
	stats.StreakDays = streakLength(days)

	stats.MoneySaved = float64(stats.CompletedCount) * in.MealCost
	if in.InitialWeight > 0 && in.CurrentWeight > 0 {
		stats.WeightDelta = in.InitialWeight - in.CurrentWeight
	}
	stats.AIUsageCount = in.AIUsageCount
	return stats
}

// completedDays 收集有完成记录的自然日（按会话记录的时区折算，解析失败退回本地时区）
// 返回的时间统一是 UTC 零点，方便按天步进
func completedDays(history []models.FastingSession, now time.Time) map[time.Time]bool {
	days := map[time.Time]bool{}
	for _, s := range history {
		if s.EndAt == nil {
			continue
		}
		_, completed := DeriveDuration(s.StartAt, s.EndAt, now, s.TargetHours)
		if !completed {
			continue
		}
		loc := time.Local
		if s.Timezone != "" {
			if l, err := time.LoadLocation(s.Timezone); err == nil {
				loc = l
			}
		}
		end := time.UnixMilli(*s.EndAt).In(loc)
		y, m, d := end.Date()
		days[time.Date(y, m, d, 0, 0, 0, 0, time.UTC)] = true
	}
	return days
}

// streakLength 从最近的完成日往回数连续天数，断一天就停
func streakLength(days map[time.Time]bool) int {
	if len(days) == 0 {
		return 0
	}
	var latest time.Time
	for d := range days {
		if d.After(latest) {
			latest = d
		}
	}
	streak := 0
	for cur := latest; days[cur]; cur = cur.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
