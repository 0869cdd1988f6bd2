package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	config "github.com/madisonpark/carzo-sub002/configs"
	"github.com/madisonpark/carzo-sub002/pkg/handlers"
	"github.com/madisonpark/carzo-sub002/pkg/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg := config.LoadConfig()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Services
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	monitoringService := services.NewMonitoringService(registry)
	inventoryService := services.NewInventoryService(cfg.InventoryDBURL, cfg.InventoryDBServiceKey, cfg.InventoryHTTPTimeout)
	diversityService := services.NewDealerDiversityService()
	plannerService := services.NewCampaignPlannerService()
	exportService := services.NewCampaignExportService()
	sitemapService := services.NewSitemapService(cfg.SiteBaseURL, inventoryService)

	// Handlers
	listingsHandler := handlers.NewListingsHandler(inventoryService, diversityService)
	campaignHandler := handlers.NewCampaignHandler(inventoryService, plannerService, exportService, cfg)
	seoHandler := handlers.NewSEOHandler(sitemapService)
	adminHandler := handlers.NewAdminHandler(cfg)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// Middleware
	r.Use(monitoringService.LoggingMiddleware())
	r.Use(cors.Default())

	authMiddleware := func(apiKey string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if apiKey == "" {
				c.Next()
				return
			}
			providedKey := c.GetHeader("X-API-KEY")
			if providedKey != apiKey {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Next()
		}
	}

	// Health and observability
	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// SEO artifacts
	r.GET("/sitemap.xml", seoHandler.Sitemap)
	r.GET("/robots.txt", seoHandler.Robots)

	v1 := r.Group("/api/v1")
	{
		// Public listing API
		listings := v1.Group("/listings")
		listings.Use(handlers.MaintenanceMiddleware())
		{
			listings.GET("", listingsHandler.Search)
			listings.GET("/:id", listingsHandler.Detail)
			listings.GET("/:id/similar", listingsHandler.Similar)
		}

		// Admin dashboard API
		admin := v1.Group("/admin")
		admin.Use(authMiddleware(cfg.APIKey))
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)

			campaigns := admin.Group("/campaigns")
			{
				campaigns.GET("/recommendations", campaignHandler.Recommendations)
				campaigns.GET("/allocations", campaignHandler.Allocations)
				campaigns.GET("/export", campaignHandler.ExportCSV)
				campaigns.GET("/export.xlsx", campaignHandler.ExportXLSX)
			}
		}

		// Monitoring API
		monitoring := v1.Group("/monitoring")
		monitoring.Use(authMiddleware(cfg.APIKey))
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}
	}

	log.Printf("Starting Carzo Inventory API on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
