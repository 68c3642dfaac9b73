package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit 按游客限流：每秒 r 次，突发 b 次
// AI 识餐这种贵接口挂这个，普通接口不用
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := map[string]*rate.Limiter{}

	get := func(k string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := limiters[k]; ok {
			return l
		}
		l := rate.NewLimiter(r, b)
		limiters[k] = l
		return l
	}

	return func(c *gin.Context) {
		k, ok := VisitorID(c)
		if !ok {
			k = c.ClientIP()
		}
		if !get(k).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "请求频繁，稍后重试"})
			c.Abort()
			return
		}
		c.Next()
	}
}
