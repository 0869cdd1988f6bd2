package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/madisonpark/carzo-sub002/pkg/models"
)

// ListingSource is the slice of the inventory client the listing endpoints
// need. Satisfied by services.InventoryService.
type ListingSource interface {
	SearchListings(ctx context.Context, params models.SearchParams) ([]models.Listing, error)
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	SimilarListings(ctx context.Context, id string, limit int) ([]models.Listing, error)
}

// RegionSource supplies region aggregates for campaign planning.
type RegionSource interface {
	RegionInventory(ctx context.Context) ([]models.RawRegionRow, error)
}

// HealthCheck handles GET /health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Carzo Inventory API",
	})
}

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func queryFloat(c *gin.Context, key string, def float64) float64 {
	if v := c.Query(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func queryBool(c *gin.Context, key string, def bool) bool {
	if v := c.Query(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
