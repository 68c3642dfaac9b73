package models

import (
	"time"

	"gorm.io/gorm"
)

// 会话状态
const (
	StatusIdle      = "idle" // 占位：无会话
	StatusFasting   = "fasting"
	StatusEating    = "eating"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
)

// 会话来源（用于审计和前端角标）
const (
	SourceManualStart = "manual_start"
	SourceManualEdit  = "manual_edit"
	SourceBackfill    = "backfill"
	SourceAutoRecover = "auto_recover"
)

// 一次断食会话
// StartAt/EndAt 用毫秒时间戳存储；DurationMinutes/Completed 是派生字段，
// 只在终态（结束/补录）时落库，读取时一律按 (StartAt, EndAt ?? now, TargetHours) 重算
type FastingSession struct {
	ID              string         `json:"id" gorm:"primaryKey;type:uuid"`
	VisitorID       string         `json:"visitor_id" gorm:"type:uuid;index"`
	Status          string         `json:"status"` // fasting、eating、paused、completed
	StartAt         int64          `json:"start_at"`
	EndAt           *int64         `json:"end_at"`
	TargetHours     float64        `json:"target_hours"`
	DurationMinutes int            `json:"duration_minutes"`
	Completed       bool           `json:"completed"`
	Source          string         `json:"source"`
	Timezone        string         `json:"timezone"` // IANA 时区，仅用于展示
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// 活跃会话指针：每个游客至多一行，只由 lifecycle 的操作维护
// 用显式引用替代「扫描未完成状态」的查法，让单活跃会话成为结构性约束
type ActiveRef struct {
	VisitorID string    `json:"visitor_id" gorm:"primaryKey;type:uuid"`
	SessionID string    `json:"session_id" gorm:"type:uuid"`
	UpdatedAt time.Time `json:"updated_at"`
}

// 一条饮食记录；Analysis 内联存 AI 识别结果 JSON（非空即算用过一次 AI 分析）
type MealRecord struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	VisitorID string         `json:"visitor_id" gorm:"type:uuid;index"`
	Name      string         `json:"name"`
	Calories  int            `json:"calories"`
	Protein   float64        `json:"protein_g"`
	Carbs     float64        `json:"carbs_g"`
	Fat       float64        `json:"fat_g"`
	Tags      string         `json:"tags"` // 逗号分隔
	Analysis  *string        `json:"analysis,omitempty" gorm:"type:jsonb"`
	EatenAt   int64          `json:"eaten_at"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// 游客设置：餐费用于「省钱」统计，体重用于徽章里的减重差值
type UserSettings struct {
	VisitorID     string    `json:"visitor_id" gorm:"primaryKey;type:uuid"`
	MealCost      float64   `json:"meal_cost" gorm:"default:20"`
	InitialWeight float64   `json:"initial_weight"`
	CurrentWeight float64   `json:"current_weight"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// 体重打卡记录
type WeightSample struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	VisitorID  string    `json:"visitor_id" gorm:"type:uuid;index"`
	WeightKg   float64   `json:"weight_kg"`
	RecordedAt int64     `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
}
