package middleware

import (
	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	"github.com/gin-gonic/gin"
)

// HTTPObserver receives one observation per served request
type HTTPObserver interface {
	ObserveHTTPRequest(route, method string, code int, seconds float64)
}

// Metrics reports every request to observer, labelled by route template
func Metrics(observer HTTPObserver, timeProvider coreport.TimeProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := timeProvider.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveHTTPRequest(route, c.Request.Method, c.Writer.Status(), timeProvider.Since(start).Std().Seconds())
	}
}
