package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const VisitorCookie = "fcid"

// Visitor 为每个游客分配唯一 ID（存 cookie，有效期一年）
// HttpOnly 防 JS 读取；开发环境 Secure=false，上线 HTTPS 后改 true
func Visitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		vid, err := c.Cookie(VisitorCookie)
		if err != nil || vid == "" {
			vid = uuid.NewString()
			c.SetCookie(VisitorCookie, vid, 3600*24*365, "/", "", false, true)
		}
		c.Set("visitor_id", vid)
		c.Next()
	}
}

// VisitorID 从上下文里取游客 ID
func VisitorID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("visitor_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	vid, err := c.Cookie(VisitorCookie)
	return vid, err == nil && vid != ""
}
