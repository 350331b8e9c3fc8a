package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// APIKey rejects requests whose Authorization header is not "Bearer <key>".
// An empty key rejects every request.
func APIKey(logger *slog.Logger, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, bearerPrefix)

		if key == "" || !found || subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
			logger.Warn("Rejected unauthorized request",
				"path", c.Request.URL.Path,
				"correlation_id", GetCorrelationID(c),
				"has_authorization", header != "",
			)
			response := gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Unauthorized",
				},
			}
			if correlationID := GetCorrelationID(c); correlationID != "" {
				response["correlation_id"] = correlationID
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response)
			return
		}

		c.Next()
	}
}
