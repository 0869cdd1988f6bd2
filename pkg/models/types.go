package models

import "time"

// Listing is a single vehicle-for-sale record as served by the inventory store.
type Listing struct {
	ID         string    `json:"id"`
	VIN        string    `json:"vin"`
	DealerID   string    `json:"dealer_id"`
	DealerName string    `json:"dealer_name,omitempty"`
	Make       string    `json:"make"`
	Model      string    `json:"model"`
	Year       int       `json:"year"`
	Price      float64   `json:"price"`
	Mileage    int       `json:"mileage"`
	BodyStyle  string    `json:"body_style"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Latitude   float64   `json:"latitude,omitempty"`
	Longitude  float64   `json:"longitude,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	Slug       string    `json:"slug,omitempty"`
	Active     bool      `json:"active"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// SearchParams are the supported listing-search filters. All fields are
// optional; zero values mean "no filter".
type SearchParams struct {
	Make      string  `json:"make,omitempty"`
	BodyStyle string  `json:"body_style,omitempty"`
	State     string  `json:"state,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	RadiusMi  float64 `json:"radius_mi,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

// RawFeedVehicle holds one unprocessed record from the third-party inventory
// feed, before normalization. String-typed on purpose: feeds are messy.
type RawFeedVehicle struct {
	VIN        string `json:"vin"`
	DealerID   string `json:"dealer_id"`
	DealerName string `json:"dealer_name"`
	Make       string `json:"make"`
	Model      string `json:"model"`
	Year       string `json:"year"`
	Price      string `json:"price"`
	Mileage    string `json:"mileage"`
	BodyStyle  string `json:"body_style"`
	City       string `json:"city"`
	State      string `json:"state"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
	ImageURL   string `json:"image_url"`
}

// FeedSyncReport summarizes one feed-ingestion run.
type FeedSyncReport struct {
	FetchedAt      time.Time `json:"fetched_at"`
	TotalRecords   int       `json:"total_records"`
	Upserted       int       `json:"upserted"`
	Dropped        int       `json:"dropped"`
	Duplicates     int       `json:"duplicates"`
	MarkedInactive int       `json:"marked_inactive"`
	Duration       string    `json:"duration"`
}

// RawRegionRow is the loosely-typed region aggregate exactly as the inventory
// store's RPC layer returns it. Pointer fields distinguish "absent" from zero;
// parsing into RegionInventoryRow happens at the planner boundary.
type RawRegionRow struct {
	RegionLabel    string   `json:"region_label"`
	ListingCount   *int     `json:"listing_count"`
	SellerCount    *int     `json:"seller_count"`
	DiversityScore *float64 `json:"diversity_score,omitempty"`
	AvgPrice       *float64 `json:"avg_price,omitempty"`
	TopCategories  []string `json:"top_categories,omitempty"`
}

// RegionInventoryRow is the validated aggregate the campaign planner works on.
type RegionInventoryRow struct {
	RegionLabel    string
	ListingCount   int
	SellerCount    int
	DiversityScore *float64 // nil when the store did not compute the signal
	AvgPrice       float64
	TopCategories  []string
}

// SkippedRegion reports a region row that failed boundary validation and was
// excluded from a planning run.
type SkippedRegion struct {
	RegionLabel string `json:"region_label"`
	Reason      string `json:"reason"`
}
