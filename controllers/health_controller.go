package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tunik/tunik-api/config"
)

// HealthCheck handles the health check endpoint
func HealthCheck(c *gin.Context) {
	respondMessage(c, http.StatusOK, "Repair shop API is running")
}

// DatabaseStatus checks database connectivity and returns table information
func DatabaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ok":    false,
			"msg":   "Database is not configured",
			"error": "DATABASE_ERROR",
		})
		return
	}

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		log.Error().Err(err).Msg("Database ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ok":    false,
			"msg":   "Database connection failed",
			"error": "DATABASE_CONNECTION_ERROR",
		})
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		log.Error().Err(err).Msg("Listing tables failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"ok":    false,
			"msg":   "Failed to query tables",
			"error": "DATABASE_QUERY_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"msg":  "Database connected",
		"data": gin.H{"tables": tables},
	})
}
