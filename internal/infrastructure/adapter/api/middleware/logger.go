package middleware

import (
	"errors"

	domainerr "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	corelogger "github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/logger"
	"github.com/gin-gonic/gin"
)

type logFielder interface {
	LogFields() map[string]any
}

// Logger middleware logs incoming requests and their responses
func Logger(logger coreport.Logger, timeProvider coreport.TimeProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := timeProvider.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		statusCode := c.Writer.Status()
		fields := map[string]any{
			"method":      method,
			"path":        path,
			"route":       c.FullPath(),
			"status":      statusCode,
			"latency_ms":  timeProvider.Since(start).Std().Milliseconds(),
			"ip":          c.ClientIP(),
			"request_id":  corelogger.RequestIDFromContext(c.Request.Context()),
			"status_text": statusText(statusCode),
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			fields["error"] = err.Error()
			var detailed logFielder
			if errors.As(err, &detailed) {
				for k, v := range detailed.LogFields() {
					fields[k] = v
				}
			}
		}

		switch {
		case statusCode >= 500:
			logger.Error("Request failed", fields)
		case len(c.Errors) > 0 && domainerr.IsConflictError(c.Errors.Last().Err):
			// contention is normal traffic for a seat map
			logger.Info("Request rejected by seat state", fields)
		case statusCode >= 400:
			logger.Warn("Request rejected", fields)
		default:
			logger.Info("Request processed", fields)
		}
	}
}

// statusText returns the text for the HTTP status code
func statusText(code int) string {
	switch {
	case code >= 100 && code < 200:
		return "Informational"
	case code >= 200 && code < 300:
		return "Success"
	case code >= 300 && code < 400:
		return "Redirect"
	case code >= 400 && code < 500:
		return "Client Error"
	default:
		return "Server Error"
	}
}
