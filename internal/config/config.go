package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string // 运行环境：dev 或 prod
	Addr      string // 服务绑定地址，例如 :3001
	JWTSecret string // JWT 签名密钥（游客身份验证）
	// Postgres 数据库配置
	PGUser string
	PGPass string
	PGDB   string
	PGHost string
	PGPort string
	// AI 识餐上游
	AIBaseURL string
	AIAPIKey  string
	// 业务默认值
	DefaultMealCost float64 // 每餐费用，省钱统计用
}

// Load 从 .env 文件和环境变量读取配置
// 优先级：环境变量 > .env 文件 > 默认值
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		Env:             get("ENV", "dev"),
		Addr:            get("ADDR", ":3001"),
		JWTSecret:       get("JWT_SECRET", "dev-guest-secret"),
		PGUser:          get("PGUSER", "app"),
		PGPass:          get("PGPASSWORD", "app"),
		PGDB:            get("PGDATABASE", "appdb"),
		PGHost:          get("PGHOST", "localhost"),
		PGPort:          get("PGPORT", "5432"),
		AIBaseURL:       get("AI_BASE_URL", ""),
		AIAPIKey:        get("AI_API_KEY", ""),
		DefaultMealCost: getFloat("MEAL_COST", 20),
	}
	return c, nil
}

func (c *Config) DSN() string {
	// sslmode=disable 仅开发环境用（生产应改为 require）
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Shanghai",
		c.PGHost, c.PGUser, c.PGPass, c.PGDB, c.PGPort,
	)
}

// get 从环境变量获取值，为空则返回默认值
func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
