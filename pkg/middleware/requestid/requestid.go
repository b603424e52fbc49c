// Package requestid tags every request with a correlation ID that is echoed
// back to the client and picked up by the request logger.
package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the request ID on both the request and the response.
const Header = "X-Request-ID"

const ctxKey = "request_id"

// Middleware reuses the client-supplied X-Request-ID when present and mints
// a fresh UUID otherwise.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKey, id)
		c.Header(Header, id)
		c.Next()
	}
}

// Value returns the ID assigned to the current request, or an empty string
// outside the middleware.
func Value(c *gin.Context) string {
	v, _ := c.Get(ctxKey)
	id, _ := v.(string)
	return id
}
