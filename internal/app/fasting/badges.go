package fasting

import "github.com/fastinglab/fasting-be/internal/models"

// BadgeStatus 一个徽章的求值结果；未解锁时 Remaining 带「还差多少」文案
type BadgeStatus struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subtitle  string `json:"subtitle"`
	Unlocked  bool   `json:"unlocked"`
	Remaining string `json:"remaining,omitempty"`
}

// EvaluateBadges 对着同一份 stats 快照逐条过固定规则表
// 引擎无状态，每次从零重算；想要「解锁过就永久亮着」的成就语义，
// 由调用方持久化出现过 unlocked=true 的 id 集合并做并集
func EvaluateBadges(stats models.BadgeStats) []BadgeStatus {
	out := make([]BadgeStatus, 0, len(models.Badges))
	for _, b := range models.Badges {
		st := BadgeStatus{
			ID:       b.ID,
			Name:     b.Name,
			Subtitle: b.Subtitle,
			Unlocked: b.Unlock(stats),
		}
		if !st.Unlocked {
			st.Remaining = b.Remaining(stats)
		}
		out = append(out, st)
	}
	return out
}
