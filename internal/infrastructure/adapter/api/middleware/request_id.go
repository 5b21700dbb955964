package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	logctx "github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/logger"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

// RequestID assigns every request an id, reusing a well-formed incoming one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logctx.ContextWithRequestID(c.Request.Context(), id))

		c.Next()
	}
}
