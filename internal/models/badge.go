package models

import "fmt"

// BadgeStats 按需重算的聚合统计，不落库
type BadgeStats struct {
	TotalHours     float64 `json:"total_hours"`
	DeepHours      float64 `json:"deep_hours"` // 超过 16 小时的部分
	LongestHours   float64 `json:"longest_hours"`
	CompletedCount int     `json:"completed_count"`
	FastingDays    int     `json:"fasting_days"` // 有完成记录的自然日数
	MoneySaved     float64 `json:"money_saved"`
	WeightDelta    float64 `json:"weight_delta"`
	StreakDays     int     `json:"streak_days"`
	AIUsageCount   int     `json:"ai_usage_count"`
}

// 徽章规则：Unlock 判断解锁，Remaining 生成「还差多少」文案（解锁后为空串）
type BadgeDefinition struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	Subtitle  string                    `json:"subtitle"`
	Unlock    func(s BadgeStats) bool   `json:"-"`
	Remaining func(s BadgeStats) string `json:"-"`
}

// 固定的徽章表；求值顺序无关，每条规则只读同一份 stats 快照
var Badges = []BadgeDefinition{
	{
		ID:       "badge_first_fast",
		Name:     "初次断食",
		Subtitle: "完成第一次断食",
		Unlock:   func(s BadgeStats) bool { return s.CompletedCount >= 1 },
		Remaining: func(s BadgeStats) string {
			return "完成 1 次断食即可解锁"
		},
	},
	{
		ID:       "badge_hundred_hours",
		Name:     "百小时俱乐部",
		Subtitle: "累计断食 100 小时",
		Unlock:   func(s BadgeStats) bool { return s.TotalHours >= 100 },
		Remaining: func(s BadgeStats) string {
			return fmt.Sprintf("还差 %.1f 小时", 100-s.TotalHours)
		},
	},
	{
		ID:       "badge_fat_burning",
		Name:     "燃脂达人",
		Subtitle: "单次断食达到 18 小时",
		Unlock:   func(s BadgeStats) bool { return s.LongestHours >= 18 },
		Remaining: func(s BadgeStats) string {
			return fmt.Sprintf("还差 %.1f 小时", 18-s.LongestHours)
		},
	},
	{
		ID:       "badge_week_streak",
		Name:     "七日坚持",
		Subtitle: "连续 7 天都有完成的断食",
		Unlock:   func(s BadgeStats) bool { return s.StreakDays >= 7 },
		Remaining: func(s BadgeStats) string {
			return fmt.Sprintf("还差 %d 天", 7-s.StreakDays)
		},
	},
	{
		ID:       "badge_thirty_days",
		Name:     "三十天足迹",
		Subtitle: "累计 30 个断食日",
		Unlock:   func(s BadgeStats) bool { return s.FastingDays >= 30 },
		Remaining: func(s BadgeStats) string {
			return fmt.Sprintf("还差 %d 天", 30-s.FastingDays)
		},
	},
	{
		ID:       "badge_deep_fifty",
		Name:     "深水区",
		Subtitle: "16 小时之外的深度时长累计 50 小时",
		Unlock:   func(s BadgeStats) bool { return s.DeepHours >= 50 },
		Remaining: func(s BadgeStats) string {
			return fmt.Sprintf("还差 %.1f 小时", 50-s.DeepHours)
		},
	},
	{
		ID:       "badge_money_saver",
		Name:     "省钱小能手",
		Subtitle: "靠断食省下 500 元",
		Unlock:   func(s BadgeStats) bool { return s.MoneySaved >= 500 },
		Remaining: func(s BadgeStats) string {
			return fmt.Sprintf("还差 %.0f 元", 500-s.MoneySaved)
		},
	},
	{
		ID:       "badge_ai_explorer",
		Name:     "AI 美食家",
		Subtitle: "使用 AI 识餐 10 次",
		Unlock:   func(s BadgeStats) bool { return s.AIUsageCount >= 10 },
		Remaining: func(s BadgeStats) string {
			return fmt.Sprintf("还差 %d 次", 10-s.AIUsageCount)
		},
	},
}
