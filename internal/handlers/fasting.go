package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fastinglab/fasting-be/internal/app/fasting"
	"github.com/fastinglab/fasting-be/internal/config"
	"github.com/fastinglab/fasting-be/internal/models"
	"github.com/fastinglab/fasting-be/internal/pkg/apperr"
	"github.com/fastinglab/fasting-be/internal/pkg/middleware"
)

type Fasting struct {
	DB   *gorm.DB
	Life *fasting.Lifecycle
	Cfg  *config.Config
}

func NewFasting(db *gorm.DB, cfg *config.Config) *Fasting {
	return &Fasting{
		DB:   db,
		Life: fasting.NewLifecycle(fasting.NewGormStore(db), fasting.NewRealClock()),
		Cfg:  cfg,
	}
}

// POST /api/v1/fasting/start
type startReq struct {
	TargetHours float64 `json:"target_hours"`
	StartAt     *int64  `json:"start_at"` // 毫秒时间戳，不传就是现在
	Timezone    string  `json:"timezone"`
}

func (f *Fasting) Start(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	var req startReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": "参数格式错误"})
		return
	}
	sess, err := f.Life.Start(c.Request.Context(), vid, req.TargetHours, req.StartAt, models.SourceManualStart, req.Timezone)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	c.JSON(200, gin.H{
		"session_id":   sess.ID,
		"status":       sess.Status,
		"start_at":     sess.StartAt,
		"target_hours": sess.TargetHours,
	})
}

// End POST /api/v1/fasting/end
func (f *Fasting) End(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	sess, err := f.Life.End(c.Request.Context(), vid)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	c.JSON(200, gin.H{
		"session_id":       sess.ID,
		"status":           sess.Status,
		"end_at":           sess.EndAt,
		"duration_minutes": sess.DurationMinutes,
		"completed":        sess.Completed,
	})
}

// Cancel POST /api/v1/fasting/cancel
// 会话丢弃不进历史；「不足 30 分钟建议取消」由前端提示，这里照单全收
func (f *Fasting) Cancel(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	if err := f.Life.Cancel(c.Request.Context(), vid); err != nil {
		apperr.Fail(c, err)
		return
	}
	c.JSON(200, gin.H{"status": "canceled"})
}

// AdjustStart POST /api/v1/fasting/adjust-start
type adjustReq struct {
	StartAt int64 `json:"start_at"`
}

func (f *Fasting) AdjustStart(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	var req adjustReq
	if err := c.ShouldBindJSON(&req); err != nil || req.StartAt <= 0 {
		c.JSON(400, gin.H{"message": "invalid start_at"})
		return
	}
	sess, err := f.Life.AdjustStartTime(c.Request.Context(), vid, req.StartAt)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	c.JSON(200, gin.H{"session_id": sess.ID, "start_at": sess.StartAt, "source": sess.Source})
}

// Target POST /api/v1/fasting/target
type targetReq struct {
	TargetHours float64 `json:"target_hours"`
}

func (f *Fasting) Target(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	var req targetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": "参数格式错误"})
		return
	}
	sess, err := f.Life.ChangeTargetHours(c.Request.Context(), vid, req.TargetHours)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	c.JSON(200, gin.H{
		"session_id":   sess.ID,
		"target_hours": sess.TargetHours,
		"status":       sess.Status,
		"completed":    sess.Completed,
	})
}

// Phase POST /api/v1/fasting/phase
type phaseReq struct {
	Phase string `json:"phase"` // fasting|eating|paused
}

func (f *Fasting) Phase(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	var req phaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": "参数格式错误"})
		return
	}
	sess, err := f.Life.SetPhase(c.Request.Context(), vid, req.Phase)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	c.JSON(200, gin.H{"session_id": sess.ID, "status": sess.Status})
}

// Backfill POST /api/v1/fasting/backfill
type backfillReq struct {
	StartAt     int64   `json:"start_at"`
	EndAt       int64   `json:"end_at"`
	TargetHours float64 `json:"target_hours"`
}

func (f *Fasting) Backfill(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	var req backfillReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": "参数格式错误"})
		return
	}
	sess, err := f.Life.Backfill(c.Request.Context(), vid, req.StartAt, req.EndAt, req.TargetHours)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	c.JSON(200, gin.H{
		"session_id":       sess.ID,
		"duration_minutes": sess.DurationMinutes,
		"completed":        sess.Completed,
		"source":           sess.Source,
	})
}

// Current GET /api/v1/fasting/current?prev_elapsed=N
// 每次轮询等于一次 tick；没有活跃会话回 200 null，跟着前端轮询不该报错
func (f *Fasting) Current(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	prev := int64(-1)
	if s := c.Query("prev_elapsed"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
			prev = n
		}
	}
	view, err := f.Life.Tick(c.Request.Context(), vid, prev)
	if err != nil {
		if errors.Is(err, fasting.ErrNoActiveSession) {
			c.JSON(200, nil)
			return
		}
		apperr.Fail(c, err)
		return
	}
	c.JSON(200, view)
}

// Resume POST /api/v1/fasting/resume
// 应用回前台时调一次，离开期间到点的会话在这里补完成翻转
func (f *Fasting) Resume(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	view, err := f.Life.Resume(c.Request.Context(), vid)
	if err != nil {
		if errors.Is(err, fasting.ErrNoActiveSession) {
			c.JSON(200, nil)
			return
		}
		apperr.Fail(c, err)
		return
	}
	c.JSON(200, view)
}

// History GET /api/v1/fasting/history
func (f *Fasting) History(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	store := fasting.NewGormStore(f.DB)
	history, err := store.ReadHistory(c.Request.Context(), vid)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	// 展示口径：派生字段按时间戳重算后再吐出去
	now := time.Now()
	for i := range history {
		history[i].DurationMinutes, history[i].Completed = fasting.DeriveDuration(
			history[i].StartAt, history[i].EndAt, now, history[i].TargetHours)
	}
	c.JSON(200, history)
}

// Stages GET /api/v1/stages 静态阶段表，前端画时间轴用
func (f *Fasting) Stages(c *gin.Context) {
	c.JSON(200, models.Stages)
}

// Stats GET /api/v1/stats
func (f *Fasting) Stats(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	stats, err := f.computeStats(c, vid)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	c.JSON(200, stats)
}

// Badges GET /api/v1/badges
// 每次现算解锁状态；想要「解锁过就不灭」的成就语义由前端存已解锁 id 并集
func (f *Fasting) Badges(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	stats, err := f.computeStats(c, vid)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	c.JSON(200, gin.H{
		"stats":  stats,
		"badges": fasting.EvaluateBadges(stats),
	})
}

func (f *Fasting) computeStats(c *gin.Context, vid string) (models.BadgeStats, error) {
	ctx := c.Request.Context()
	store := fasting.NewGormStore(f.DB)
	history, err := store.ReadHistory(ctx, vid)
	if err != nil {
		return models.BadgeStats{}, err
	}
	active, err := store.ReadActiveSession(ctx, vid)
	if err != nil {
		return models.BadgeStats{}, err
	}

	var settings models.UserSettings
	mealCost := f.Cfg.DefaultMealCost
	if err := f.DB.WithContext(ctx).Where("visitor_id = ?", vid).Take(&settings).Error; err == nil {
		if settings.MealCost > 0 {
			mealCost = settings.MealCost
		}
	}

	// AI 使用次数只认饮食记录上的内联分析结果，单一事实来源，不会重复计数
	var aiCount int64
	if err := f.DB.WithContext(ctx).Model(&models.MealRecord{}).
		Where("visitor_id = ? AND analysis IS NOT NULL", vid).Count(&aiCount).Error; err != nil {
		return models.BadgeStats{}, err
	}

	return fasting.ComputeStats(fasting.StatsInput{
		History:       history,
		Active:        active,
		Now:           time.Now(),
		MealCost:      mealCost,
		InitialWeight: settings.InitialWeight,
		CurrentWeight: settings.CurrentWeight,
		AIUsageCount:  int(aiCount),
	}), nil
}
