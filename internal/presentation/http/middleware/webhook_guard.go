package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kiramedia/checkout-api/internal/config"
)

// WebhookGuard protects the notification ingress: it caps the request body
// size and, when an origin allowlist is configured, rejects callers that
// present a disallowed Origin header. The signature check inside the service
// remains the real gate; this keeps junk traffic cheap to refuse.
func WebhookGuard(cfg config.WebhookConfig) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		if cfg.MaxBodyBytes > 0 && c.Request.ContentLength > cfg.MaxBodyBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"message": "Request body too large",
			})
			return
		}
		if cfg.MaxBodyBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxBodyBytes)
		}

		if len(allowed) > 0 {
			if origin := c.GetHeader("Origin"); origin != "" && !allowed[origin] {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"message": "Origin not allowed",
				})
				return
			}
		}

		c.Next()
	}
}
