package fasting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fastinglab/fasting-be/internal/models"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoActiveSession   = errors.New("no active session")
	ErrEditWindowExpired = errors.New("edit window expired")
)

const (
	// startAt 只允许在开始后 30 分钟内修改，且前后偏移不超过 ±60 分钟
	EditGraceWindow = 30 * time.Minute
	MaxStartAdjust  = 60 * time.Minute

	// 补录上限 72 小时
	MaxBackfillSpan = 72 * time.Hour

	// 不足 30 分钟建议取消不留记录；由调用方判断，Cancel 本身不拦
	MinRecordDuration = 30 * time.Minute

	// 16 小时之外算深度时长；12 小时整点触发一次「进入燃脂」通知
	DeepThresholdHours  = 16.0
	FatBurningNotifySec = int64(12 * 3600)
)

// Store 持久化协作方。ReadActiveSession 没有活跃会话时返回 (nil, nil)
// ReplaceActiveSession 传 nil 只清活跃指针，会话行还在（End 之前先 InsertHistory）；
// 要连会话一起丢掉必须用 DiscardActiveSession，取消就是靠它不留痕迹
type Store interface {
	ReadActiveSession(ctx context.Context, visitorID string) (*models.FastingSession, error)
	ReadHistory(ctx context.Context, visitorID string) ([]models.FastingSession, error)
	InsertHistory(ctx context.Context, s *models.FastingSession) error
	ReplaceActiveSession(ctx context.Context, visitorID string, s *models.FastingSession) error
	DiscardActiveSession(ctx context.Context, visitorID string) error
}

// Lifecycle 断食会话状态机：活跃位上至多一个会话，所有变更走这里的具名操作
// 每个操作要么整体生效要么原样失败，内部不重试
type Lifecycle struct {
	store Store
	clock Clock
}

func NewLifecycle(store Store, clock Clock) *Lifecycle {
	if clock == nil {
		clock = NewRealClock()
	}
	return &Lifecycle{store: store, clock: clock}
}

// View 每次 tick 交给前端的视图模型
type View struct {
	SessionID         string               `json:"session_id"`
	Status            string               `json:"status"`
	StartAt           int64                `json:"start_at"`
	TargetHours       float64              `json:"target_hours"`
	ElapsedSeconds    int64                `json:"elapsed_seconds"`
	RemainingSeconds  int64                `json:"remaining_seconds"`
	DurationMinutes   int                  `json:"duration_minutes"`
	Completed         bool                 `json:"completed"`
	CurrentStage      models.FastingStage  `json:"current_stage"`
	NextStage         *models.FastingStage `json:"next_stage,omitempty"`
	ProgressPercent   float64              `json:"progress_percent"`
	ClockAnomaly      bool                 `json:"clock_anomaly,omitempty"`
	EnteredFatBurning bool                 `json:"entered_fat_burning,omitempty"`
}

// Start 开始一次断食
// 如果活跃位上还挂着旧会话，先把它强制收口进历史（兜底路径，正常流程应该先 End）
// 先关后开是两步独立写入，重复收口一个已结束的会话是幂等的
func (l *Lifecycle) Start(ctx context.Context, visitorID string, targetHours float64, startAtMs *int64, source, timezone string) (*models.FastingSession, error) {
	if targetHours <= 0 {
		return nil, fmt.Errorf("%w: target hours must be positive", ErrInvalidInput)
	}
	now := l.clock.Now()

	prev, err := l.store.ReadActiveSession(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		if err := l.forceComplete(ctx, prev, now); err != nil {
			return nil, err
		}
	}

	if source == "" {
		source = models.SourceManualStart
	}
	start := now.UnixMilli()
	if startAtMs != nil {
		start = *startAtMs
	}
	sess := &models.FastingSession{
		ID:          uuid.NewString(),
		VisitorID:   visitorID,
		Status:      models.StatusFasting,
		StartAt:     start,
		TargetHours: targetHours,
		Source:      source,
		Timezone:    timezone,
	}
	if err := l.store.ReplaceActiveSession(ctx, visitorID, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// forceComplete 把遗留的活跃会话盖上 endAt 收进历史
func (l *Lifecycle) forceComplete(ctx context.Context, s *models.FastingSession, now time.Time) error {
	end := now.UnixMilli()
	if end < s.StartAt {
		end = s.StartAt
	}
	s.EndAt = &end
	s.DurationMinutes, s.Completed = DeriveDuration(s.StartAt, s.EndAt, now, s.TargetHours)
	s.Status = models.StatusCompleted
	if err := l.store.InsertHistory(ctx, s); err != nil {
		return err
	}
	return l.store.ReplaceActiveSession(ctx, s.VisitorID, nil)
}

// End 结束当前断食：盖 endAt、重算派生字段、移入历史、清空活跃位
// 连续两次 End 第二次报 ErrNoActiveSession，不做静默吞掉
func (l *Lifecycle) End(ctx context.Context, visitorID string) (*models.FastingSession, error) {
	sess, err := l.store.ReadActiveSession(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}
	now := l.clock.Now()
	end := now.UnixMilli()
	if end < sess.StartAt {
		end = sess.StartAt
	}
	sess.EndAt = &end
	sess.DurationMinutes, sess.Completed = DeriveDuration(sess.StartAt, sess.EndAt, now, sess.TargetHours)
	sess.Status = models.StatusCompleted
	if err := l.store.InsertHistory(ctx, sess); err != nil {
		return nil, err
	}
	if err := l.store.ReplaceActiveSession(ctx, visitorID, nil); err != nil {
		return nil, err
	}
	return sess, nil
}

// Cancel 丢弃当前会话，不进历史
// 「不足 30 分钟不值得记」的判断在调用方，这里只负责丢
func (l *Lifecycle) Cancel(ctx context.Context, visitorID string) error {
	sess, err := l.store.ReadActiveSession(ctx, visitorID)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrNoActiveSession
	}
	return l.store.DiscardActiveSession(ctx, visitorID)
}

// AdjustStartTime 修正开始时间
// 只在开始后 30 分钟内允许；不能改到未来，也不能偏离原值超过 ±60 分钟
func (l *Lifecycle) AdjustStartTime(ctx context.Context, visitorID string, newStartAtMs int64) (*models.FastingSession, error) {
	sess, err := l.store.ReadActiveSession(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}
	now := l.clock.Now()
	if now.UnixMilli()-sess.StartAt > EditGraceWindow.Milliseconds() {
		return nil, ErrEditWindowExpired
	}
	if newStartAtMs > now.UnixMilli() {
		return nil, fmt.Errorf("%w: start time in the future", ErrInvalidInput)
	}
	delta := newStartAtMs - sess.StartAt
	if delta < 0 {
		delta = -delta
	}
	if delta > MaxStartAdjust.Milliseconds() {
		return nil, fmt.Errorf("%w: adjustment exceeds 60 minutes", ErrInvalidInput)
	}
	sess.StartAt = newStartAtMs
	sess.Source = models.SourceManualEdit
	if err := l.store.ReplaceActiveSession(ctx, visitorID, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// ChangeTargetHours 改计划时长，活跃期间随时可改
// 立刻按新目标重算 completed：缩短目标可能让会话当场变成已完成，但 endAt 不动
func (l *Lifecycle) ChangeTargetHours(ctx context.Context, visitorID string, newTargetHours float64) (*models.FastingSession, error) {
	if newTargetHours <= 0 {
		return nil, fmt.Errorf("%w: target hours must be positive", ErrInvalidInput)
	}
	sess, err := l.store.ReadActiveSession(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}
	now := l.clock.Now()
	sess.TargetHours = newTargetHours
	sess.DurationMinutes, sess.Completed = DeriveDuration(sess.StartAt, nil, now, newTargetHours)
	if sess.Completed {
		sess.Status = models.StatusCompleted
	} else if sess.Status == models.StatusCompleted {
		// 目标调长了，之前自动判定的完成要撤回（endAt 还没盖，会话仍活跃）
		sess.Status = models.StatusFasting
	}
	if err := l.store.ReplaceActiveSession(ctx, visitorID, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// SetPhase 切换活跃会话的展示用子状态（fasting/eating/paused）
// 子状态只影响 UI，不改变状态机结构；已自动判定完成的会话不让改回去
func (l *Lifecycle) SetPhase(ctx context.Context, visitorID, phase string) (*models.FastingSession, error) {
	switch phase {
	case models.StatusFasting, models.StatusEating, models.StatusPaused:
	default:
		return nil, fmt.Errorf("%w: unknown phase %q", ErrInvalidInput, phase)
	}
	sess, err := l.store.ReadActiveSession(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}
	if sess.Status == models.StatusCompleted {
		return nil, fmt.Errorf("%w: session already completed", ErrInvalidInput)
	}
	sess.Status = phase
	if err := l.store.ReplaceActiveSession(ctx, visitorID, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Backfill 补录一段没有实时跟踪的断食，直接写历史，不碰活跃位
// 派生字段在插入时算一次，之后不再改
func (l *Lifecycle) Backfill(ctx context.Context, visitorID string, startAtMs, endAtMs int64, targetHours float64) (*models.FastingSession, error) {
	if targetHours <= 0 {
		return nil, fmt.Errorf("%w: target hours must be positive", ErrInvalidInput)
	}
	now := l.clock.Now()
	if endAtMs <= startAtMs {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}
	if endAtMs > now.UnixMilli() {
		return nil, fmt.Errorf("%w: end time in the future", ErrInvalidInput)
	}
	if endAtMs-startAtMs > MaxBackfillSpan.Milliseconds() {
		return nil, fmt.Errorf("%w: span exceeds 72 hours", ErrInvalidInput)
	}
	sess := &models.FastingSession{
		ID:          uuid.NewString(),
		VisitorID:   visitorID,
		Status:      models.StatusCompleted,
		StartAt:     startAtMs,
		EndAt:       &endAtMs,
		TargetHours: targetHours,
		Source:      models.SourceBackfill,
	}
	sess.DurationMinutes, sess.Completed = DeriveDuration(startAtMs, &endAtMs, now, targetHours)
	if err := l.store.InsertHistory(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Tick 周期性重算：纯派生，只有 completed 首次翻真时才写库
// 自动判定完成只改 status，endAt 等用户显式 End 才盖——
// 「到点了」和「真的结束了」是两个可区分的状态
// prevElapsedSec 是上一次 tick 的已断食秒数，用来做 12 小时的边沿触发；
// 传负数表示没有上一次采样（比如冷启动加载），此时不触发
func (l *Lifecycle) Tick(ctx context.Context, visitorID string, prevElapsedSec int64) (*View, error) {
	sess, err := l.store.ReadActiveSession(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}
	return l.tickSession(ctx, sess, prevElapsedSec, "")
}

// Resume 应用回到前台时的恢复重算，效果同 Tick
// 如果离开期间会话悄悄到点了，补上的完成翻转标记为 auto_recover 来源
func (l *Lifecycle) Resume(ctx context.Context, visitorID string) (*View, error) {
	sess, err := l.store.ReadActiveSession(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}
	return l.tickSession(ctx, sess, -1, models.SourceAutoRecover)
}

func (l *Lifecycle) tickSession(ctx context.Context, sess *models.FastingSession, prevElapsedSec int64, flipSource string) (*View, error) {
	now := l.clock.Now()
	timing := ComputeTiming(sess.StartAt, now, sess.TargetHours)
	minutes, completed := DeriveDuration(sess.StartAt, nil, now, sess.TargetHours)

	elapsedHours := float64(timing.ElapsedSeconds) / 3600
	stage := ResolveStage(elapsedHours)
	progress := elapsedHours / sess.TargetHours * 100
	if progress > 100 {
		progress = 100
	}

	view := &View{
		SessionID:        sess.ID,
		Status:           sess.Status,
		StartAt:          sess.StartAt,
		TargetHours:      sess.TargetHours,
		ElapsedSeconds:   timing.ElapsedSeconds,
		RemainingSeconds: timing.RemainingSeconds,
		DurationMinutes:  minutes,
		Completed:        completed,
		CurrentStage:     stage,
		NextStage:        NextStage(stage.ID),
		ProgressPercent:  progress,
		ClockAnomaly:     timing.Anomaly,
	}
	if prevElapsedSec >= 0 {
		view.EnteredFatBurning = CrossedThreshold(prevElapsedSec, timing.ElapsedSeconds, FatBurningNotifySec)
	}

	// 到点自动翻完成：只在首次翻转时落一笔，endAt 保持为空
	if completed && sess.Status != models.StatusCompleted {
		sess.Status = models.StatusCompleted
		sess.Completed = true
		sess.DurationMinutes = minutes
		if flipSource != "" {
			sess.Source = flipSource
		}
		if err := l.store.ReplaceActiveSession(ctx, sess.VisitorID, sess); err != nil {
			return nil, err
		}
		view.Status = sess.Status
	}
	return view, nil
}
