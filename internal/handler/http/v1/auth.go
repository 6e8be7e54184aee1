package v1

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/crisis_response_system/internal/config"
	"github.com/sirupsen/logrus"
)

// AdminKeyMiddleware - middleware, защищающий административные операции.
// Незаданный ADMIN_KEY полностью запрещает сброс состояния.
func AdminKeyMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminKey == "" {
			log.Error("Admin key is not configured, reset is disabled")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "admin key is not configured"})
			return
		}

		provided := c.GetHeader("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.AdminKey)) != 1 {
			log.Warn("Invalid admin key provided")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid admin key"})
			return
		}

		c.Next()
	}
}
