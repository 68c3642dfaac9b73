package fasting

import "github.com/fastinglab/fasting-be/internal/models"

// ResolveStage 把已断食小时数映射到当前阶段
// 区间左闭右开：4.0 小时属于 stage2 而不是 stage1
// 负数或 NaN 之类的坏输入一律归到第一阶段，末项无上界兜底，函数永不失败
func ResolveStage(elapsedHours float64) models.FastingStage {
	if !(elapsedHours >= 0) {
		return models.Stages[0]
	}
	for _, st := range models.Stages {
		if st.RangeEndHours == 0 {
			// 末项：无上界，兜住一切
			return st
		}
		if elapsedHours >= st.RangeStartHours && elapsedHours < st.RangeEndHours {
			return st
		}
	}
	return models.Stages[len(models.Stages)-1]
}

// NextStage 返回表里紧跟给定阶段的下一项；末项或未知 id 返回 nil
func NextStage(stageID string) *models.FastingStage {
	for i, st := range models.Stages {
		if st.ID == stageID {
			if i+1 < len(models.Stages) {
				next := models.Stages[i+1]
				return &next
			}
			return nil
		}
	}
	return nil
}
