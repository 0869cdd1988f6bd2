package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	config "github.com/madisonpark/carzo-sub002/configs"
	"github.com/madisonpark/carzo-sub002/pkg/models"
	"github.com/madisonpark/carzo-sub002/pkg/services"
)

type stubInventory struct {
	listings []models.Listing
	regions  []models.RawRegionRow
	err      error
}

func (s *stubInventory) SearchListings(ctx context.Context, params models.SearchParams) ([]models.Listing, error) {
	return s.listings, s.err
}

func (s *stubInventory) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.listings {
		if s.listings[i].ID == id {
			return &s.listings[i], nil
		}
	}
	return nil, nil
}

func (s *stubInventory) SimilarListings(ctx context.Context, id string, limit int) ([]models.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Listing
	for _, l := range s.listings {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *stubInventory) RegionInventory(ctx context.Context) ([]models.RawRegionRow, error) {
	return s.regions, s.err
}

func intPtr(n int) *int { return &n }

func testConfig() *config.Config {
	return &config.Config{
		DefaultMonthlyBudget: 7500,
		DefaultCPC:           0.50,
		DefaultConversion:    0.35,
		SiteBaseURL:          "https://www.carzo.com",
	}
}

func listingsRouter(inv *stubInventory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewListingsHandler(inv, services.NewDealerDiversityService())
	router.GET("/api/v1/listings", h.Search)
	router.GET("/api/v1/listings/:id", h.Detail)
	router.GET("/api/v1/listings/:id/similar", h.Similar)
	return router
}

func campaignRouter(inv *stubInventory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewCampaignHandler(inv, services.NewCampaignPlannerService(), services.NewCampaignExportService(), testConfig())
	router.GET("/api/v1/admin/campaigns/recommendations", h.Recommendations)
	router.GET("/api/v1/admin/campaigns/allocations", h.Allocations)
	router.GET("/api/v1/admin/campaigns/export", h.ExportCSV)
	return router
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", HealthCheck)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestSearchDiversifiesResults(t *testing.T) {
	inv := &stubInventory{listings: []models.Listing{
		{ID: "A-1", DealerID: "A"},
		{ID: "A-2", DealerID: "A"},
		{ID: "B-1", DealerID: "B"},
		{ID: "C-1", DealerID: "C"},
	}}
	router := listingsRouter(inv)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/listings?limit=10", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success        bool             `json:"success"`
		Data           []models.Listing `json:"data"`
		Count          int              `json:"count"`
		DiversityScore float64          `json:"diversity_score"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, 75.0, resp.DiversityScore)

	var got []string
	for _, l := range resp.Data {
		got = append(got, l.ID)
	}
	assert.Equal(t, []string{"A-1", "B-1", "C-1", "A-2"}, got)
}

func TestSearchRejectsNegativeLimit(t *testing.T) {
	router := listingsRouter(&stubInventory{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/listings?limit=-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchUpstreamError(t *testing.T) {
	router := listingsRouter(&stubInventory{err: errors.New("store down")})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/listings", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestDetailNotFound(t *testing.T) {
	router := listingsRouter(&stubInventory{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/listings/nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSimilarDeprioritizesSameDealer(t *testing.T) {
	inv := &stubInventory{listings: []models.Listing{
		{ID: "cur", DealerID: "A"},
		{ID: "A-2", DealerID: "A"},
		{ID: "B-1", DealerID: "B"},
		{ID: "C-1", DealerID: "C"},
	}}
	router := listingsRouter(inv)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/listings/cur/similar?limit=3", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Listing `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	var got []string
	for _, l := range resp.Data {
		got = append(got, l.ID)
	}
	assert.Equal(t, []string{"B-1", "C-1", "A-2"}, got)
}

func TestRecommendationsReportsSkippedRegions(t *testing.T) {
	inv := &stubInventory{regions: []models.RawRegionRow{
		{RegionLabel: "Dallas, TX", ListingCount: intPtr(600), SellerCount: intPtr(20)},
		{RegionLabel: "Broken Metro", SellerCount: intPtr(9)},
	}}
	router := campaignRouter(inv)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/admin/campaigns/recommendations", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                            `json:"success"`
		Data    []models.CampaignRecommendation `json:"data"`
		Skipped []models.SkippedRegion          `json:"skipped_regions"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, models.TierOne, resp.Data[0].Tier)
	assert.Len(t, resp.Skipped, 1)
	assert.Equal(t, "missing listing_count", resp.Skipped[0].Reason)
}

func TestAllocationsIncludeSummary(t *testing.T) {
	inv := &stubInventory{regions: []models.RawRegionRow{
		{RegionLabel: "Dallas, TX", ListingCount: intPtr(600), SellerCount: intPtr(20)},
	}}
	router := campaignRouter(inv)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/admin/campaigns/allocations", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data    []models.BudgetAllocation `json:"data"`
		Summary models.AllocationSummary  `json:"summary"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.Summary.Campaigns)
	assert.Equal(t, resp.Data[0].ExpectedMonthlySpend, resp.Summary.MonthlySpend)
}

func TestExportCSVDownload(t *testing.T) {
	inv := &stubInventory{regions: []models.RawRegionRow{
		{RegionLabel: "Dallas, TX", ListingCount: intPtr(600), SellerCount: intPtr(20)},
	}}
	router := campaignRouter(inv)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/admin/campaigns/export?platform=google", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), `"mi"`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/admin/campaigns/export?platform=yahoo", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	apiKey := "admin-secret"
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("X-API-KEY") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}

	admin := router.Group("/api/v1/admin", authMiddleware)
	admin.GET("/health-status", NewAdminHandler(testConfig()).GetHealthStatus)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/admin/health-status", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/admin/health-status", nil)
	req.Header.Set("X-API-KEY", apiKey)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaintenanceMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MaintenanceMiddleware())
	router.GET("/api/v1/listings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	isMaintenanceMode.Store(true)
	defer isMaintenanceMode.Store(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/listings", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	isMaintenanceMode.Store(false)
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/listings", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
