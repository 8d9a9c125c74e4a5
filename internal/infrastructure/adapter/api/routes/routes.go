package routes

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API. metricsHandler may be nil.
func SetupRoutes(
	router *gin.Engine,
	seatHandler *handler.SeatHandler,
	healthHandler *handler.HealthHandler,
	metricsPath string,
	metricsHandler http.Handler,
) {
	router.GET("/health", healthHandler.Health)
	if metricsHandler != nil {
		router.GET(metricsPath, gin.WrapH(metricsHandler))
	}

	seats := router.Group("/concerts/:concertId/seats")
	{
		seats.POST("", seatHandler.ProvisionSeats)
		seats.GET("", seatHandler.ListSeats)
		seats.GET("/:seatId", seatHandler.GetSeat)

		seats.POST("/:seatId/hold", seatHandler.Hold)
		seats.POST("/:seatId/purchase", seatHandler.Purchase)
		seats.POST("/:seatId/release", seatHandler.Release)
		seats.POST("/:seatId/cancel", seatHandler.Cancel)
		seats.POST("/:seatId/reopen", seatHandler.Reopen)

		// administrative override
		seats.POST("/:seatId/status", seatHandler.Override)
	}
}

// SetupMiddlewares configures global middlewares for the API. observer may be nil.
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, timeProvider coreport.TimeProvider, observer middleware.HTTPObserver) {
	// recovery sits inside logging and metrics so panics are still observed as 500s
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger, timeProvider))
	if observer != nil {
		router.Use(middleware.Metrics(observer, timeProvider))
	}
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS())
}
