package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/madisonpark/carzo-sub002/pkg/services"
)

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	sitemap *services.SitemapService
}

// NewSEOHandler creates a new SEOHandler.
func NewSEOHandler(sitemap *services.SitemapService) *SEOHandler {
	return &SEOHandler{sitemap: sitemap}
}

// Sitemap handles GET /sitemap.xml
func (h *SEOHandler) Sitemap(c *gin.Context) {
	body, err := h.sitemap.GenerateSitemap(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// Robots handles GET /robots.txt
func (h *SEOHandler) Robots(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(h.sitemap.GenerateRobots()))
}
