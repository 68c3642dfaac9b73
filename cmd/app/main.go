package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/fastinglab/fasting-be/internal/app/analysis"
	"github.com/fastinglab/fasting-be/internal/config"
	"github.com/fastinglab/fasting-be/internal/database"
	"github.com/fastinglab/fasting-be/internal/handlers"
	"github.com/fastinglab/fasting-be/internal/pkg/logger"
	"github.com/fastinglab/fasting-be/internal/pkg/middleware"
	"github.com/fastinglab/fasting-be/pkg/fastlib/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(cfg.Env)
	defer func() { _ = log.Sync() }()

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化数据库并跑迁移（AutoMigrate 自动建表建索引）
	db, err := database.InitGorm(cfg)
	if err != nil {
		log.Fatal("db init error", "error", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())         // panic 兜底回 500
	r.Use(middleware.RequestID()) // 请求 ID，串日志用
	r.Use(util.Cors())            // CORS 跨域
	r.Use(middleware.Visitor())   // 游客 ID 分配/识别

	// 健康检查（负载均衡和监控探活）
	r.GET("/api/v1/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "ts": time.Now().Unix()})
	})

	// 游客登录
	r.POST("/guest-login", handlers.GuestLogin(cfg))
	r.GET("/me", handlers.Me())

	// 断食会话生命周期
	f := handlers.NewFasting(db, cfg)
	r.POST("/api/v1/fasting/start", f.Start)              // 开始断食
	r.POST("/api/v1/fasting/end", f.End)                  // 结束断食
	r.POST("/api/v1/fasting/cancel", f.Cancel)            // 取消（不留记录）
	r.POST("/api/v1/fasting/adjust-start", f.AdjustStart) // 修正开始时间
	r.POST("/api/v1/fasting/target", f.Target)            // 改目标时长
	r.POST("/api/v1/fasting/phase", f.Phase)              // 切换展示子状态
	r.POST("/api/v1/fasting/backfill", f.Backfill)        // 补录历史断食
	r.POST("/api/v1/fasting/resume", f.Resume)            // 回前台恢复重算
	r.GET("/api/v1/fasting/current", f.Current)           // 当前会话（tick）
	r.GET("/api/v1/fasting/history", f.History)           // 历史会话

	// 阶段表 / 统计 / 徽章
	r.GET("/api/v1/stages", f.Stages)
	r.GET("/api/v1/stats", f.Stats)
	r.GET("/api/v1/badges", f.Badges)

	// 饮食记录 + AI 识餐（识餐按游客限流：每秒 5 次突发 10 次）
	ai := analysis.NewClient(cfg.AIBaseURL, cfg.AIAPIKey)
	m := handlers.NewMeals(db, ai)
	r.GET("/api/v1/meals", m.List)
	r.POST("/api/v1/meals", m.Create)
	r.DELETE("/api/v1/meals/:id", m.Delete)
	r.POST("/api/v1/meals/analyze", middleware.RateLimit(rate.Limit(5), 10), m.Analyze)

	// 设置与体重（写接口要带 token）
	st := handlers.NewSettings(db, cfg)
	r.GET("/api/v1/settings", st.Get)
	r.PUT("/api/v1/settings", middleware.JWTAuth(cfg.JWTSecret), st.Update)
	r.POST("/api/v1/weight", middleware.JWTAuth(cfg.JWTSecret), st.RecordWeight)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		log.Info("starting server", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
