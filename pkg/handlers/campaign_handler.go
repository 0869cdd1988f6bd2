package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	config "github.com/madisonpark/carzo-sub002/configs"
	"github.com/madisonpark/carzo-sub002/pkg/models"
	"github.com/madisonpark/carzo-sub002/pkg/services"
)

// CampaignHandler serves the admin campaign-planning endpoints: tiered
// recommendations, budget projections, and the ad-platform export downloads.
type CampaignHandler struct {
	regions RegionSource
	planner *services.CampaignPlannerService
	export  *services.CampaignExportService
	cfg     *config.Config
}

// NewCampaignHandler creates a new CampaignHandler.
func NewCampaignHandler(regions RegionSource, planner *services.CampaignPlannerService, export *services.CampaignExportService, cfg *config.Config) *CampaignHandler {
	return &CampaignHandler{regions: regions, planner: planner, export: export, cfg: cfg}
}

// plannerConfigFromQuery builds one run's PlannerConfig from query params,
// falling back to the deployment defaults.
func (h *CampaignHandler) plannerConfigFromQuery(c *gin.Context) services.PlannerConfig {
	pcfg := services.PlannerConfig{
		RequireDiversityThreshold: queryBool(c, "require_diversity", false),
		TotalMonthlyBudget:        queryFloat(c, "budget", h.cfg.DefaultMonthlyBudget),
		CPC:                       queryFloat(c, "cpc", h.cfg.DefaultCPC),
		ConversionRate:            queryFloat(c, "conversion_rate", h.cfg.DefaultConversion),
	}
	switch c.DefaultQuery("weight", "sellers") {
	case "diversity":
		pcfg.Weight = services.WeightByDiversityScore
	default:
		pcfg.Weight = services.WeightBySellerCount
	}
	return pcfg
}

func (h *CampaignHandler) plan(c *gin.Context) ([]models.CampaignRecommendation, []models.SkippedRegion, services.PlannerConfig, error) {
	pcfg := h.plannerConfigFromQuery(c)
	raw, err := h.regions.RegionInventory(c.Request.Context())
	if err != nil {
		return nil, nil, pcfg, err
	}
	rows, skipped := h.planner.ParseRegionRows(raw)
	return h.planner.BuildRecommendations(rows, pcfg), skipped, pcfg, nil
}

// Recommendations handles GET /api/v1/admin/campaigns/recommendations
func (h *CampaignHandler) Recommendations(c *gin.Context) {
	recs, skipped, _, err := h.plan(c)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"data":            recs,
		"count":           len(recs),
		"skipped_regions": skipped,
	})
}

// Allocations handles GET /api/v1/admin/campaigns/allocations
func (h *CampaignHandler) Allocations(c *gin.Context) {
	recs, skipped, pcfg, err := h.plan(c)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	allocs, summary := h.planner.CalculateBudgetAllocation(recs, pcfg)
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"data":            allocs,
		"summary":         summary,
		"skipped_regions": skipped,
	})
}

// ExportCSV handles GET /api/v1/admin/campaigns/export
//
// platform=google|microsoft emits a location-targeting file; anything else is
// rejected. Without a platform param the raw recommendation table is emitted.
func (h *CampaignHandler) ExportCSV(c *gin.Context) {
	recs, _, _, err := h.plan(c)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}

	platform := c.Query("platform")
	var csv, filename string
	if platform == "" {
		csv = h.export.ExportRecommendationsCSV(recs)
		filename = "campaign-recommendations.csv"
	} else {
		locations := targetingLocations(recs)
		destination := h.cfg.SiteBaseURL + "/search"
		csv, err = h.export.ExportTargetingCSV(services.ExportPlatform(platform), locations, destination)
		if err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}
		filename = fmt.Sprintf("%s-targeting-%s.csv", platform, time.Now().Format("2006-01-02"))
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// ExportXLSX handles GET /api/v1/admin/campaigns/export.xlsx
func (h *CampaignHandler) ExportXLSX(c *gin.Context) {
	recs, _, pcfg, err := h.plan(c)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	allocs, summary := h.planner.CalculateBudgetAllocation(recs, pcfg)
	if len(allocs) == 0 {
		respondError(c, http.StatusNotFound, errors.New("no launchable campaigns to export"))
		return
	}

	workbook, planID, err := h.export.ExportBudgetPlanXLSX(allocs, summary)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("X-Plan-ID", planID)
	c.Header("Content-Disposition", `attachment; filename="campaign-budget-plan.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

// targetingLocations derives one targeting circle per launchable region.
// Region centroids live in the inventory store; until the RPC exposes them
// the export centers on the region label with a default radius.
func targetingLocations(recs []models.CampaignRecommendation) []models.TargetingLocation {
	locations := make([]models.TargetingLocation, 0, len(recs))
	for _, rec := range recs {
		if rec.Tier == models.TierAvoid {
			continue
		}
		locations = append(locations, models.TargetingLocation{
			Name:     rec.RegionName,
			RadiusMi: 30,
		})
	}
	return locations
}
