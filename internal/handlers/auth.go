package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fastinglab/fasting-be/internal/config"
	"github.com/fastinglab/fasting-be/internal/pkg/middleware"
	"github.com/fastinglab/fasting-be/pkg/fastlib/util"
)

// IssueVisitorID 生成游客 cookie 用的 uuid
func IssueVisitorID() string { return uuid.NewString() }

// GuestLogin POST /guest-login
// 返回 token 给前端存 localStorage；cookie 已有 fcid 就复用
func GuestLogin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		vid, _ := c.Cookie(middleware.VisitorCookie)
		if vid == "" {
			vid = IssueVisitorID()
			// SameSite=Lax + HttpOnly；上了 HTTPS 再把 secure 改 true
			c.SetCookie(middleware.VisitorCookie, vid, 3600*24*365, "/", "", false, true)
		}
		token, err := util.GenerateToken(cfg.JWTSecret, vid, true)
		if err != nil {
			c.JSON(500, gin.H{"code": 500, "message": "token error"})
			return
		}
		c.JSON(200, gin.H{"token": token, "visitor_id": vid})
	}
}

// Me GET /me 校验身份用，只回 visitorId
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		vid, ok := middleware.VisitorID(c)
		if !ok {
			c.JSON(401, gin.H{"code": 401, "message": "unauthorized"})
			return
		}
		c.JSON(200, gin.H{"visitorId": vid})
	}
}
