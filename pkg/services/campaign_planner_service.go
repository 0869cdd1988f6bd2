package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/madisonpark/carzo-sub002/pkg/models"
)

// Default planning assumptions. CPC and conversion reflect observed paid-search
// performance; RevenuePerClick is the platform's billable-click rate.
const (
	DefaultMonthlyBudget  = 7500.0
	DefaultCPC            = 0.50
	DefaultConversionRate = 0.35
	RevenuePerClick       = 0.80
)

// Diversity floors applied on top of the count thresholds when the planner is
// configured to require them and the store computed the signal.
const (
	tier1DiversityFloor = 0.80
	tier2DiversityFloor = 0.70
)

// WeightFunc scores a region for the proportional budget split.
type WeightFunc func(row models.RegionInventoryRow) float64

// WeightBySellerCount weights regions by how many distinct dealers they carry.
func WeightBySellerCount(row models.RegionInventoryRow) float64 {
	return float64(row.SellerCount)
}

// WeightByDiversityScore weights regions by the store's diversity signal,
// falling back to the seller count when the signal is absent.
func WeightByDiversityScore(row models.RegionInventoryRow) float64 {
	if row.DiversityScore != nil {
		return *row.DiversityScore
	}
	return float64(row.SellerCount)
}

// PlannerConfig controls one planning run.
type PlannerConfig struct {
	// RequireDiversityThreshold gates tier1/tier2 on the diversity signal
	// when the store provides it. The admin route and the export path
	// historically disagreed on this; both behaviors live behind this flag.
	RequireDiversityThreshold bool
	TotalMonthlyBudget        float64
	CPC                       float64
	ConversionRate            float64
	Weight                    WeightFunc
}

// DefaultPlannerConfig returns the assumptions used when a caller passes none.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		RequireDiversityThreshold: false,
		TotalMonthlyBudget:        DefaultMonthlyBudget,
		CPC:                       DefaultCPC,
		ConversionRate:            DefaultConversionRate,
		Weight:                    WeightBySellerCount,
	}
}

func (c PlannerConfig) withDefaults() PlannerConfig {
	if c.TotalMonthlyBudget <= 0 {
		c.TotalMonthlyBudget = DefaultMonthlyBudget
	}
	if c.CPC <= 0 {
		c.CPC = DefaultCPC
	}
	if c.ConversionRate <= 0 {
		c.ConversionRate = DefaultConversionRate
	}
	if c.Weight == nil {
		c.Weight = WeightBySellerCount
	}
	return c
}

// CampaignPlannerService classifies region inventory into launch tiers and
// splits the ad budget across them. Pure in-memory math over pre-fetched rows.
type CampaignPlannerService struct{}

// NewCampaignPlannerService creates a new CampaignPlannerService.
func NewCampaignPlannerService() *CampaignPlannerService {
	return &CampaignPlannerService{}
}

// ParseRegionRows validates loosely-typed rows from the RPC layer into
// explicit structs. Rows missing required numeric fields are excluded and
// reported, never silently coerced to zero.
func (s *CampaignPlannerService) ParseRegionRows(raw []models.RawRegionRow) ([]models.RegionInventoryRow, []models.SkippedRegion) {
	rows := make([]models.RegionInventoryRow, 0, len(raw))
	var skipped []models.SkippedRegion
	for _, r := range raw {
		if r.RegionLabel == "" {
			skipped = append(skipped, models.SkippedRegion{RegionLabel: "(unnamed)", Reason: "missing region_label"})
			continue
		}
		if r.ListingCount == nil {
			skipped = append(skipped, models.SkippedRegion{RegionLabel: r.RegionLabel, Reason: "missing listing_count"})
			continue
		}
		if r.SellerCount == nil {
			skipped = append(skipped, models.SkippedRegion{RegionLabel: r.RegionLabel, Reason: "missing seller_count"})
			continue
		}
		if *r.ListingCount < 0 || *r.SellerCount < 0 {
			skipped = append(skipped, models.SkippedRegion{RegionLabel: r.RegionLabel, Reason: "negative count"})
			continue
		}
		row := models.RegionInventoryRow{
			RegionLabel:    r.RegionLabel,
			ListingCount:   *r.ListingCount,
			SellerCount:    *r.SellerCount,
			DiversityScore: r.DiversityScore,
			TopCategories:  r.TopCategories,
		}
		if r.AvgPrice != nil {
			row.AvgPrice = *r.AvgPrice
		}
		rows = append(rows, row)
	}
	return rows, skipped
}

// ClassifyTier assigns exactly one tier, evaluated in strict priority order.
func (s *CampaignPlannerService) ClassifyTier(row models.RegionInventoryRow, cfg PlannerConfig) models.Tier {
	diversityOK := func(floor float64) bool {
		if !cfg.RequireDiversityThreshold || row.DiversityScore == nil {
			return true
		}
		return *row.DiversityScore >= floor
	}
	switch {
	case row.ListingCount >= 500 && row.SellerCount >= 15 && diversityOK(tier1DiversityFloor):
		return models.TierOne
	case row.ListingCount >= 200 && row.SellerCount >= 8 && diversityOK(tier2DiversityFloor):
		return models.TierTwo
	case row.ListingCount >= 100 && row.SellerCount >= 5:
		return models.TierThree
	default:
		return models.TierAvoid
	}
}

// BuildRecommendations classifies every region and splits the monthly budget
// proportionally by listing_count * weight. All regions, "avoid" included,
// contribute to the weighting denominator. A zero total score yields an empty
// list rather than a division by zero.
func (s *CampaignPlannerService) BuildRecommendations(rows []models.RegionInventoryRow, cfg PlannerConfig) []models.CampaignRecommendation {
	cfg = cfg.withDefaults()

	var totalScore float64
	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = float64(row.ListingCount) * cfg.Weight(row)
		totalScore += scores[i]
	}
	if totalScore == 0 {
		return []models.CampaignRecommendation{}
	}

	recs := make([]models.CampaignRecommendation, 0, len(rows))
	for i, row := range rows {
		tier := s.ClassifyTier(row, cfg)
		daily := math.Round(cfg.TotalMonthlyBudget * (scores[i] / totalScore) / 30)
		recs = append(recs, models.CampaignRecommendation{
			RegionID:       regionID(row.RegionLabel),
			RegionName:     row.RegionLabel,
			Tier:           tier,
			Category:       topCategory(row),
			ListingCount:   row.ListingCount,
			SellerCount:    row.SellerCount,
			DiversityScore: effectiveDiversity(row),
			DailyBudget:    daily,
			Trend:          "stable",
			Reason:         tierReason(tier, row),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Tier.Rank() != recs[j].Tier.Rank() {
			return recs[i].Tier.Rank() < recs[j].Tier.Rank()
		}
		return recs[i].ListingCount > recs[j].ListingCount
	})
	return recs
}

// CalculateBudgetAllocation projects clicks, revenue and profit for every
// non-avoid recommendation, plus a summary aggregated from the totals.
func (s *CampaignPlannerService) CalculateBudgetAllocation(recs []models.CampaignRecommendation, cfg PlannerConfig) ([]models.BudgetAllocation, models.AllocationSummary) {
	cfg = cfg.withDefaults()

	allocs := make([]models.BudgetAllocation, 0, len(recs))
	var totalSpend, totalRevenue float64
	for _, rec := range recs {
		if rec.Tier == models.TierAvoid {
			continue
		}
		monthly := rec.DailyBudget * 30
		dailyClicks := rec.DailyBudget / cfg.CPC
		dealerClicks := dailyClicks * cfg.ConversionRate
		dailyRevenue := dealerClicks * RevenuePerClick
		monthlyRevenue := dailyRevenue * 30
		profit := monthlyRevenue - monthly

		roi := 0
		if monthly > 0 {
			roi = int(math.Round(profit / monthly * 100))
		}

		allocs = append(allocs, models.BudgetAllocation{
			RegionID:              rec.RegionID,
			RegionName:            rec.RegionName,
			Tier:                  rec.Tier,
			DailyBudget:           round2(rec.DailyBudget),
			MonthlyBudget:         round2(monthly),
			ExpectedDailyClicks:   round2(dailyClicks),
			ExpectedDealerClicks:  round2(dealerClicks),
			ExpectedDailyRevenue:  round2(dailyRevenue),
			ExpectedMonthlySpend:  round2(monthly),
			ExpectedMonthlyRev:    round2(monthlyRevenue),
			ExpectedMonthlyProfit: round2(profit),
			ROIPct:                roi,
		})
		totalSpend += monthly
		totalRevenue += monthlyRevenue
	}

	summary := models.AllocationSummary{
		Campaigns:      len(allocs),
		MonthlySpend:   round2(totalSpend),
		MonthlyRevenue: round2(totalRevenue),
		MonthlyProfit:  round2(totalRevenue - totalSpend),
	}
	if totalSpend > 0 {
		summary.OverallROIPct = int(math.Round((totalRevenue - totalSpend) / totalSpend * 100))
	}
	return allocs, summary
}

func effectiveDiversity(row models.RegionInventoryRow) float64 {
	if row.DiversityScore != nil {
		return *row.DiversityScore
	}
	if row.ListingCount == 0 {
		return 0
	}
	return float64(row.SellerCount) / float64(row.ListingCount)
}

func topCategory(row models.RegionInventoryRow) string {
	if len(row.TopCategories) > 0 {
		return row.TopCategories[0]
	}
	return "used cars"
}

func tierReason(tier models.Tier, row models.RegionInventoryRow) string {
	switch tier {
	case models.TierOne:
		return fmt.Sprintf("strong market: %d listings across %d dealers", row.ListingCount, row.SellerCount)
	case models.TierTwo:
		return fmt.Sprintf("solid market: %d listings across %d dealers", row.ListingCount, row.SellerCount)
	case models.TierThree:
		return fmt.Sprintf("emerging market: %d listings across %d dealers", row.ListingCount, row.SellerCount)
	default:
		return fmt.Sprintf("insufficient inventory: %d listings, %d dealers", row.ListingCount, row.SellerCount)
	}
}

func regionID(label string) string {
	id := make([]rune, 0, len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			id = append(id, r)
		case r >= 'A' && r <= 'Z':
			id = append(id, r+('a'-'A'))
		case r == ' ' || r == ',' || r == '-' || r == '/':
			if len(id) > 0 && id[len(id)-1] != '-' {
				id = append(id, '-')
			}
		}
	}
	for len(id) > 0 && id[len(id)-1] == '-' {
		id = id[:len(id)-1]
	}
	return string(id)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
