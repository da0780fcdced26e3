package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "isave/internal/errors"
	"isave/internal/logger"
)

// PipelineAuthMiddleware guards machine-to-machine endpoints such as the
// autosave trigger. The X-API-Key header must match apiKey; an empty apiKey
// disables the endpoints entirely.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWith(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			logger.Get().Warnw("rejected pipeline request", "path", c.Request.URL.Path, "client_ip", c.ClientIP())
			abortWith(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}

func abortWith(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode,
		gin.H{"error": gin.H{"code": appErr.Code, "message": appErr.Message}})
}
