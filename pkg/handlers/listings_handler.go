package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/madisonpark/carzo-sub002/pkg/models"
	"github.com/madisonpark/carzo-sub002/pkg/services"
)

const (
	defaultSearchLimit  = 24
	maxSearchLimit      = 100
	defaultSimilarLimit = 8
)

// ListingsHandler serves the public search/detail/similar endpoints. Every
// multi-result response is passed through the dealer diversifier so one
// high-volume dealer cannot dominate a page.
type ListingsHandler struct {
	inventory ListingSource
	diversity *services.DealerDiversityService
}

// NewListingsHandler creates a new ListingsHandler.
func NewListingsHandler(inventory ListingSource, diversity *services.DealerDiversityService) *ListingsHandler {
	return &ListingsHandler{inventory: inventory, diversity: diversity}
}

// Search handles GET /api/v1/listings
func (h *ListingsHandler) Search(c *gin.Context) {
	limit := queryInt(c, "limit", defaultSearchLimit)
	if limit < 0 {
		respondError(c, http.StatusBadRequest, errors.New("limit must not be negative"))
		return
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	params := models.SearchParams{
		Make:      c.Query("make"),
		BodyStyle: c.Query("body_style"),
		State:     c.Query("state"),
		Latitude:  queryFloat(c, "lat", 0),
		Longitude: queryFloat(c, "lng", 0),
		RadiusMi:  queryFloat(c, "radius", 0),
		// over-fetch so the diversifier has room to interleave dealers
		Limit: limit * 3,
	}

	listings, err := h.inventory.SearchListings(c.Request.Context(), params)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}

	diversified, err := h.diversity.Diversify(listings, limit)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"data":            diversified,
		"count":           len(diversified),
		"diversity_score": h.diversity.DiversityScore(diversified),
	})
}

// Detail handles GET /api/v1/listings/:id
func (h *ListingsHandler) Detail(c *gin.Context) {
	id := c.Param("id")
	listing, err := h.inventory.GetListing(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	if listing == nil {
		respondError(c, http.StatusNotFound, errors.New("listing not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listing,
	})
}

// Similar handles GET /api/v1/listings/:id/similar
func (h *ListingsHandler) Similar(c *gin.Context) {
	id := c.Param("id")
	limit := queryInt(c, "limit", defaultSimilarLimit)
	if limit < 0 {
		respondError(c, http.StatusBadRequest, errors.New("limit must not be negative"))
		return
	}

	current, err := h.inventory.GetListing(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	if current == nil {
		respondError(c, http.StatusNotFound, errors.New("listing not found"))
		return
	}

	candidates, err := h.inventory.SimilarListings(c.Request.Context(), id, limit*3)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}

	similar, err := h.diversity.PrioritizeDifferent(*current, candidates, limit)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    similar,
		"count":   len(similar),
	})
}
