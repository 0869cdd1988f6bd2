package models

// Tier is the launch-priority class assigned to a region.
type Tier string

const (
	TierOne   Tier = "tier1"
	TierTwo   Tier = "tier2"
	TierThree Tier = "tier3"
	TierAvoid Tier = "avoid"
)

// Rank orders tiers for sorting: tier1 < tier2 < tier3 < avoid.
func (t Tier) Rank() int {
	switch t {
	case TierOne:
		return 0
	case TierTwo:
		return 1
	case TierThree:
		return 2
	default:
		return 3
	}
}

// CampaignRecommendation is one region's planning verdict. Built fresh on
// every planning run and serialized straight to JSON or CSV; never persisted.
type CampaignRecommendation struct {
	RegionID       string  `json:"region_id"`
	RegionName     string  `json:"region_name"`
	Tier           Tier    `json:"tier"`
	Category       string  `json:"category"`
	ListingCount   int     `json:"listing_count"`
	SellerCount    int     `json:"seller_count"`
	DiversityScore float64 `json:"diversity_score"`
	DailyBudget    float64 `json:"daily_budget"`
	Trend          string  `json:"trend"`
	Reason         string  `json:"reason"`
}

// BudgetAllocation projects spend and return for one non-avoid campaign.
type BudgetAllocation struct {
	RegionID              string  `json:"region_id"`
	RegionName            string  `json:"region_name"`
	Tier                  Tier    `json:"tier"`
	DailyBudget           float64 `json:"daily_budget"`
	MonthlyBudget         float64 `json:"monthly_budget"`
	ExpectedDailyClicks   float64 `json:"expected_daily_clicks"`
	ExpectedDealerClicks  float64 `json:"expected_dealer_clicks"`
	ExpectedDailyRevenue  float64 `json:"expected_daily_revenue"`
	ExpectedMonthlySpend  float64 `json:"expected_monthly_spend"`
	ExpectedMonthlyRev    float64 `json:"expected_monthly_revenue"`
	ExpectedMonthlyProfit float64 `json:"expected_monthly_profit"`
	ROIPct                int     `json:"roi_pct"`
}

// AllocationSummary aggregates monthly totals across all allocations. The
// overall ROI comes from the summed totals, not an average of per-campaign
// ROIs, so small-budget outliers cannot skew it.
type AllocationSummary struct {
	Campaigns      int     `json:"campaigns"`
	MonthlySpend   float64 `json:"monthly_spend"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
	MonthlyProfit  float64 `json:"monthly_profit"`
	OverallROIPct  int     `json:"overall_roi_pct"`
}

// TargetingLocation is one row of an ad-platform location-targeting export.
type TargetingLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusMi  float64 `json:"radius_mi"`
}
