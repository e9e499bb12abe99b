package router

import (
	"github.com/TourHive/booking-flow-backend/config"
	"github.com/TourHive/booking-flow-backend/handlers"
	"github.com/TourHive/booking-flow-backend/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config         *config.Config
	BookingHandler *handlers.BookingHandler
	HealthHandler  *handlers.HealthHandler
	Logger         *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Versioned API Group (v1)
	v1 := r.Group("/v1")
	{
		bookingRoutes := v1.Group("/booking")
		{
			sessionRoutes := bookingRoutes.Group("/sessions")
			{
				sessionRoutes.POST("", deps.BookingHandler.CreateSession)
				sessionRoutes.GET("/:id", deps.BookingHandler.GetSession)
				sessionRoutes.DELETE("/:id", deps.BookingHandler.DeleteSession)

				sessionRoutes.PUT("/:id/buyer", deps.BookingHandler.UpdateBuyer)
				sessionRoutes.PUT("/:id/custom/:cusType", deps.BookingHandler.UpdateCustom)
				sessionRoutes.PUT("/:id/traffic/:trafficType", deps.BookingHandler.UpdateTraffic)

				sessionRoutes.GET("/:id/validation", deps.BookingHandler.GetValidation)
				sessionRoutes.GET("/:id/validation/:sectionID", deps.BookingHandler.GetSectionValidation)

				sessionRoutes.POST("/:id/submit", deps.BookingHandler.Submit)
			}
		}
	}

	return r
}
