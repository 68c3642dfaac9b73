package handlers

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fastinglab/fasting-be/internal/app/analysis"
	"github.com/fastinglab/fasting-be/internal/models"
	"github.com/fastinglab/fasting-be/internal/pkg/apperr"
	"github.com/fastinglab/fasting-be/internal/pkg/middleware"
)

type Meals struct {
	DB *gorm.DB
	AI *analysis.Client
}

func NewMeals(db *gorm.DB, ai *analysis.Client) *Meals {
	return &Meals{DB: db, AI: ai}
}

// List GET /api/v1/meals?limit=50
func (m *Meals) List(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	limit := 50
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	var meals []models.MealRecord
	m.DB.Where("visitor_id = ?", vid).Order("eaten_at DESC").Limit(limit).Find(&meals)
	c.JSON(200, meals)
}

// Create POST /api/v1/meals 手动记一餐
type mealReq struct {
	Name     string   `json:"name"`
	Calories int      `json:"calories"`
	Protein  float64  `json:"protein_g"`
	Carbs    float64  `json:"carbs_g"`
	Fat      float64  `json:"fat_g"`
	Tags     []string `json:"tags"`
	EatenAt  int64    `json:"eaten_at"`
}

func (m *Meals) Create(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	var req mealReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(400, gin.H{"message": "invalid meal"})
		return
	}
	if req.EatenAt == 0 {
		req.EatenAt = time.Now().UnixMilli()
	}
	meal := models.MealRecord{
		VisitorID: vid,
		Name:      req.Name,
		Calories:  req.Calories,
		Protein:   req.Protein,
		Carbs:     req.Carbs,
		Fat:       req.Fat,
		Tags:      strings.Join(req.Tags, ","),
		EatenAt:   req.EatenAt,
	}
	if err := m.DB.Create(&meal).Error; err != nil {
		c.JSON(500, gin.H{"message": err.Error()})
		return
	}
	c.JSON(200, meal)
}

// Delete DELETE /api/v1/meals/:id
func (m *Meals) Delete(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(400, gin.H{"message": "invalid id"})
		return
	}
	m.DB.Where("visitor_id = ? AND id = ?", vid, id).Delete(&models.MealRecord{})
	c.JSON(200, gin.H{"ok": true})
}

// Analyze POST /api/v1/meals/analyze
// 图片发给上游识别，成功才落饮食记录，分析结果内联存在记录上
type analyzeReq struct {
	Image   string `json:"image"` // URL 或 base64
	Prompt  string `json:"prompt"`
	EatenAt int64  `json:"eaten_at"`
}

func (m *Meals) Analyze(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		c.JSON(401, gin.H{"message": "无访客"})
		return
	}
	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(400, gin.H{"message": "invalid image"})
		return
	}
	prompt := req.Prompt
	if prompt == "" {
		prompt = "识别这张餐食图片，返回食物名称、热量和三大营养素"
	}
	result, err := m.AI.Analyze(c.Request.Context(), req.Image, prompt)
	if err != nil {
		apperr.Fail(c, err)
		return
	}

	raw, _ := json.Marshal(result)
	payload := string(raw)
	if req.EatenAt == 0 {
		req.EatenAt = time.Now().UnixMilli()
	}
	meal := models.MealRecord{
		VisitorID: vid,
		Name:      result.FoodName,
		Calories:  result.Calories,
		Protein:   result.Protein,
		Carbs:     result.Carbs,
		Fat:       result.Fat,
		Tags:      strings.Join(result.Tags, ","),
		Analysis:  &payload,
		EatenAt:   req.EatenAt,
	}
	if err := m.DB.Create(&meal).Error; err != nil {
		c.JSON(500, gin.H{"message": err.Error()})
		return
	}
	c.JSON(200, gin.H{"meal": meal, "analysis": result})
}
