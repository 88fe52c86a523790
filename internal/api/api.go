// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/api/handlers"
	"github.com/andresuchdata/marginsight/backend-go/internal/api/middleware"
	"github.com/andresuchdata/marginsight/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(analytics *service.AnalyticsService, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if analytics != nil {
		handler := handlers.NewAnalyticsHandler(analytics)
		analyticsGroup := apiGroup.Group("/analytics")
		{
			analyticsGroup.GET("/summary", handler.GetSummary)
			analyticsGroup.GET("/reconciled_sales", handler.GetReconciledSales)
			analyticsGroup.GET("/inventory", handler.GetInventory)
			analyticsGroup.GET("/backorders", handler.GetBackorders)
			analyticsGroup.GET("/customers", handler.GetCustomers)
			analyticsGroup.GET("/opportunities", handler.GetOpportunities)
			analyticsGroup.GET("/promotions", handler.GetPromotions)
			analyticsGroup.GET("/shipments", handler.GetShipmentGroups)
			analyticsGroup.POST("/refresh", handler.TriggerRefresh)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
