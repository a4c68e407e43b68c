package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS allows any origin in development; in production only the listed
// origins are echoed back.
func CORS(origenes ...string) gin.HandlerFunc {
	permitidos := make(map[string]bool, len(origenes))
	for _, o := range origenes {
		if o != "" {
			permitidos[o] = true
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case len(permitidos) == 0:
			c.Header("Access-Control-Allow-Origin", "*")
		case permitidos[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
