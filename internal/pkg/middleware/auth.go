package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fastinglab/fasting-be/pkg/fastlib/util"
)

// JWTAuth JWT 鉴权，设置类写接口用
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少Token或格式错误"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := util.ParseToken(secret, tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token无效或过期"})
			c.Abort()
			return
		}

		c.Set("visitor_id", claims.VisitorID)
		c.Set("is_guest", claims.IsGuest)
		c.Next()
	}
}
