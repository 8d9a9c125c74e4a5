package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	corelogger "github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/logger"
)

// RequestIDHeader carries the correlation ID of a request
const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID, generating one when absent,
// and stores it on the request context for logging
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}

		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(corelogger.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}
