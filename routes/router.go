package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tunik/tunik-api/config"
	"github.com/tunik/tunik-api/controllers"
	"github.com/tunik/tunik-api/middleware"
)

// SetupRouter builds the engine with middleware and every /api/v1 route
func SetupRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CorsOrigins)))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", controllers.HealthCheck)
		v1.GET("/database/status", controllers.DatabaseStatus)

		orders := v1.Group("/orders")
		{
			orders.GET("", controllers.ListOrders)
			orders.POST("", controllers.CreateOrder)
			orders.GET("/:id", controllers.GetOrder)
			orders.PUT("/:id", controllers.UpdateOrder)
			orders.DELETE("/:id", controllers.DeleteOrder)
		}

		quotes := v1.Group("/quotes")
		{
			quotes.GET("", controllers.ListQuotes)
			quotes.POST("", controllers.CreateQuote)
			quotes.GET("/:id", controllers.GetQuote)
			quotes.PUT("/:id", controllers.UpdateQuote)
			quotes.DELETE("/:id", controllers.DeleteQuote)
			quotes.GET("/:id/total", controllers.GetQuoteTotal)
			quotes.GET("/:id/details", controllers.ListQuoteDetails)
			quotes.POST("/:id/details", controllers.AddQuoteDetail)
			quotes.PUT("/:id/details/:serviceId", controllers.UpdateQuoteDetail)
			quotes.DELETE("/:id/details/:serviceId", controllers.DeleteQuoteDetail)
		}

		appointments := v1.Group("/appointments")
		{
			appointments.GET("", controllers.ListAppointments)
			appointments.POST("", controllers.CreateAppointment)
			appointments.GET("/:id", controllers.GetAppointment)
			appointments.PUT("/:id", controllers.UpdateAppointment)
			appointments.DELETE("/:id", controllers.DeleteAppointment)
			appointments.GET("/:id/total", controllers.GetAppointmentTotal)
			appointments.GET("/:id/details", controllers.ListAppointmentDetails)
			appointments.POST("/:id/details", controllers.AddAppointmentDetail)
			appointments.PUT("/:id/details/:serviceId", controllers.UpdateAppointmentDetail)
			appointments.DELETE("/:id/details/:serviceId", controllers.DeleteAppointmentDetail)
		}
	}

	return router
}

// corsConfig allows every origin when the list is empty or contains "*".
// Credentials are only allowed for an explicit origin list.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
