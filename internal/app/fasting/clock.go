package fasting

import "time"

// Clock 注入的时钟源，测试里用假时钟
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// NewRealClock 返回走系统时间的时钟
func NewRealClock() Clock { return realClock{} }

// Timing 一次重算的结果；Anomaly 表示观测到 now < startAt（时钟回拨或脏数据）
type Timing struct {
	ElapsedSeconds   int64
	RemainingSeconds int64
	Anomaly          bool
}

// ComputeTiming 由 startAt（毫秒时间戳）和当前时间算出已断食/剩余秒数
// 纯函数：同样的输入永远给同样的输出，从不改会话本身
// now < startAt 时把 elapsed 冻结为 0 并置 Anomaly，不返回负数也不报错，
// 因为 tick 在前端每秒跑一次，坏数据不能把界面打崩
func ComputeTiming(startAtMs int64, now time.Time, targetHours float64) Timing {
	nowMs := now.UnixMilli()
	if nowMs < startAtMs {
		return Timing{
			ElapsedSeconds:   0,
			RemainingSeconds: int64(targetHours * 3600),
			Anomaly:          true,
		}
	}
	elapsed := (nowMs - startAtMs) / 1000
	remaining := int64(targetHours*3600) - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return Timing{ElapsedSeconds: elapsed, RemainingSeconds: remaining}
}

// DeriveDuration 算派生字段：分钟数向下取整，completed 按目标时长判断
// effectiveEnd 取 endAt，没有就取 now
func DeriveDuration(startAtMs int64, endAtMs *int64, now time.Time, targetHours float64) (minutes int, completed bool) {
	end := now.UnixMilli()
	if endAtMs != nil {
		end = *endAtMs
	}
	if end < startAtMs {
		end = startAtMs
	}
	minutes = int((end - startAtMs) / 60000)
	completed = float64(minutes) >= targetHours*60
	return minutes, completed
}

// CrossedThreshold 边沿触发：只在两次采样之间跨过阈值时为 true
// 规则是 prev < threshold <= next，已经越过之后不会再触发，
// 加载时已在阈值之外也不会补触发（只认活着的跨越）
func CrossedThreshold(prevElapsedSec, nextElapsedSec, thresholdSec int64) bool {
	return prevElapsedSec < thresholdSec && thresholdSec <= nextElapsedSec
}
