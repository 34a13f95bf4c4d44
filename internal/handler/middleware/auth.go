package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"Loopee-App/internal/infrastructure/database"
)

// SupabaseAuth Supabase AuthのBearerトークンを検証するミドルウェア
// 検証に成功した場合はgin.Contextに "user_id" を設定する。
func SupabaseAuth(client *database.SupabaseClient, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		if !strings.HasPrefix(authorization, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Bearer token is required",
			})
			return
		}

		token := strings.TrimPrefix(authorization, "Bearer ")

		user, err := client.GetClient().Auth.WithToken(token).GetUser()
		if err != nil {
			logger.Debugf("トークン検証に失敗しました: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set("user_id", user.ID.String())
		c.Next()
	}
}
