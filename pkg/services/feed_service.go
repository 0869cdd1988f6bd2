package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/madisonpark/carzo-sub002/pkg/models"
	"github.com/madisonpark/carzo-sub002/pkg/storage"
)

// FeedService syncs vehicle inventory from the third-party dealer feed into
// the listings table. One Sync call is one complete ingestion run.
type FeedService struct {
	feedURL string
	client  *http.Client
	writer  storage.VehicleWriter
}

// NewFeedService creates a FeedService for the given feed endpoint.
func NewFeedService(feedURL string, timeout time.Duration, writer storage.VehicleWriter) *FeedService {
	return &FeedService{
		feedURL: feedURL,
		client:  &http.Client{Timeout: timeout},
		writer:  writer,
	}
}

// Sync fetches the feed, normalizes every record, upserts the survivors and
// deactivates listings that fell out of the feed.
func (s *FeedService) Sync(ctx context.Context) (*models.FeedSyncReport, error) {
	start := time.Now()

	raw, err := s.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("feed: fetch: %w", err)
	}

	clean, dropped, dupes := s.Normalize(raw)

	upserted, err := s.writer.Upsert(clean)
	if err != nil {
		return nil, fmt.Errorf("feed: upsert: %w", err)
	}

	vins := make([]string, 0, len(clean))
	for _, l := range clean {
		vins = append(vins, l.VIN)
	}
	inactive, err := s.writer.MarkInactiveExcept(vins)
	if err != nil {
		return nil, fmt.Errorf("feed: mark inactive: %w", err)
	}

	report := &models.FeedSyncReport{
		FetchedAt:      start,
		TotalRecords:   len(raw),
		Upserted:       upserted,
		Dropped:        dropped,
		Duplicates:     dupes,
		MarkedInactive: inactive,
		Duration:       time.Since(start).Round(time.Millisecond).String(),
	}
	log.Printf("[feed] sync complete: %d fetched, %d upserted, %d dropped, %d dupes, %d deactivated in %s",
		report.TotalRecords, report.Upserted, report.Dropped, report.Duplicates,
		report.MarkedInactive, report.Duration)
	return report, nil
}

func (s *FeedService) fetch(ctx context.Context) ([]models.RawFeedVehicle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed returned %d: %s", resp.StatusCode, snippet)
	}
	var raw []models.RawFeedVehicle
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return raw, nil
}

// Normalize converts raw feed records into validated listings. Records with
// an empty VIN or dealer ID are dropped; VINs are deduplicated first-wins.
// Returns the clean set plus drop and duplicate counts.
func (s *FeedService) Normalize(raw []models.RawFeedVehicle) ([]models.Listing, int, int) {
	seen := make(map[string]struct{}, len(raw))
	clean := make([]models.Listing, 0, len(raw))
	dropped, dupes := 0, 0

	for _, r := range raw {
		vin := strings.ToUpper(strings.TrimSpace(r.VIN))
		dealerID := strings.TrimSpace(r.DealerID)
		if vin == "" || dealerID == "" {
			dropped++
			continue
		}
		if _, dup := seen[vin]; dup {
			dupes++
			continue
		}
		seen[vin] = struct{}{}

		clean = append(clean, models.Listing{
			VIN:        vin,
			DealerID:   dealerID,
			DealerName: strings.TrimSpace(r.DealerName),
			Make:       strings.TrimSpace(r.Make),
			Model:      strings.TrimSpace(r.Model),
			Year:       parseIntField(r.Year),
			Price:      parseMoneyField(r.Price),
			Mileage:    parseIntField(r.Mileage),
			BodyStyle:  strings.ToLower(strings.TrimSpace(r.BodyStyle)),
			City:       strings.TrimSpace(r.City),
			State:      strings.ToUpper(strings.TrimSpace(r.State)),
			Latitude:   parseFloatField(r.Latitude),
			Longitude:  parseFloatField(r.Longitude),
			ImageURL:   strings.TrimSpace(r.ImageURL),
			Active:     true,
		})
	}
	return clean, dropped, dupes
}

func parseIntField(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseMoneyField(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func parseFloatField(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
