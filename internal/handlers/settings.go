package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fastinglab/fasting-be/internal/config"
	"github.com/fastinglab/fasting-be/internal/models"
	"github.com/fastinglab/fasting-be/internal/pkg/middleware"
)

type Settings struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSettings(db *gorm.DB, cfg *config.Config) *Settings {
	return &Settings{DB: db, Cfg: cfg}
}

// Get GET /api/v1/settings 没有记录就回默认值
func (s *Settings) Get(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	var settings models.UserSettings
	if err := s.DB.Where("visitor_id = ?", vid).Take(&settings).Error; err != nil {
		settings = models.UserSettings{VisitorID: vid, MealCost: s.Cfg.DefaultMealCost}
	}
	c.JSON(200, settings)
}

// Update PUT /api/v1/settings
type settingsReq struct {
	MealCost      *float64 `json:"meal_cost"`
	InitialWeight *float64 `json:"initial_weight"`
	CurrentWeight *float64 `json:"current_weight"`
}

func (s *Settings) Update(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	var req settingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": "invalid body"})
		return
	}
	var settings models.UserSettings
	if err := s.DB.Where("visitor_id = ?", vid).Take(&settings).Error; err != nil {
		settings = models.UserSettings{VisitorID: vid, MealCost: s.Cfg.DefaultMealCost}
	}
	if req.MealCost != nil && *req.MealCost >= 0 {
		settings.MealCost = *req.MealCost
	}
	if req.InitialWeight != nil && *req.InitialWeight > 0 {
		settings.InitialWeight = *req.InitialWeight
	}
	if req.CurrentWeight != nil && *req.CurrentWeight > 0 {
		settings.CurrentWeight = *req.CurrentWeight
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "visitor_id"}},
		UpdateAll: true,
	}).Create(&settings).Error; err != nil {
		c.JSON(500, gin.H{"message": err.Error()})
		return
	}
	c.JSON(200, settings)
}

// RecordWeight POST /api/v1/weight 体重打卡，同时刷新设置里的当前体重
type weightReq struct {
	WeightKg   float64 `json:"weight_kg"`
	RecordedAt int64   `json:"recorded_at"`
}

func (s *Settings) RecordWeight(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	var req weightReq
	if err := c.ShouldBindJSON(&req); err != nil || req.WeightKg <= 0 {
		c.JSON(400, gin.H{"message": "invalid weight"})
		return
	}
	if req.RecordedAt == 0 {
		req.RecordedAt = time.Now().UnixMilli()
	}
	sample := models.WeightSample{
		VisitorID:  vid,
		WeightKg:   req.WeightKg,
		RecordedAt: req.RecordedAt,
	}
	if err := s.DB.Create(&sample).Error; err != nil {
		c.JSON(500, gin.H{"message": err.Error()})
		return
	}

	var settings models.UserSettings
	if err := s.DB.Where("visitor_id = ?", vid).Take(&settings).Error; err != nil {
		settings = models.UserSettings{VisitorID: vid, MealCost: s.Cfg.DefaultMealCost}
	}
	settings.CurrentWeight = req.WeightKg
	if settings.InitialWeight == 0 {
		// 第一次打卡顺便当作初始体重
		settings.InitialWeight = req.WeightKg
	}
	_ = s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "visitor_id"}},
		UpdateAll: true,
	}).Create(&settings).Error

	c.JSON(200, gin.H{"sample": sample, "settings": settings})
}
