package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/madisonpark/carzo-sub002/pkg/models"
)

// InventoryService is the client for the managed Postgres backend's RPC
// layer. The database owns all aggregation queries; this client only POSTs
// to named RPC functions and decodes the JSON they return.
type InventoryService struct {
	baseURL    string
	serviceKey string
	client     *http.Client
	maxRetries int
}

// NewInventoryService creates a client for the given RPC endpoint.
func NewInventoryService(baseURL, serviceKey string, timeout time.Duration) *InventoryService {
	return &InventoryService{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: timeout},
		maxRetries: 3,
	}
}

// SearchListings fetches listings matching the given filters. Callers are
// expected to run the result through the dealer diversifier before serving.
func (s *InventoryService) SearchListings(ctx context.Context, params models.SearchParams) ([]models.Listing, error) {
	var listings []models.Listing
	if err := s.rpc(ctx, "search_listings", params, &listings); err != nil {
		return nil, fmt.Errorf("inventory: search listings: %w", err)
	}
	return listings, nil
}

// GetListing fetches a single listing by ID.
func (s *InventoryService) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	var listings []models.Listing
	payload := map[string]string{"listing_id": id}
	if err := s.rpc(ctx, "get_listing", payload, &listings); err != nil {
		return nil, fmt.Errorf("inventory: get listing %s: %w", id, err)
	}
	if len(listings) == 0 {
		return nil, nil
	}
	return &listings[0], nil
}

// SimilarListings fetches candidates for the "similar vehicles" module on a
// detail page. Raw candidates; dealer deprioritization happens in the caller.
func (s *InventoryService) SimilarListings(ctx context.Context, id string, limit int) ([]models.Listing, error) {
	var listings []models.Listing
	payload := map[string]any{"listing_id": id, "match_limit": limit}
	if err := s.rpc(ctx, "similar_listings", payload, &listings); err != nil {
		return nil, fmt.Errorf("inventory: similar listings for %s: %w", id, err)
	}
	return listings, nil
}

// RegionInventory fetches the per-region aggregate snapshot for campaign
// planning. Rows come back loosely typed; the planner validates them.
func (s *InventoryService) RegionInventory(ctx context.Context) ([]models.RawRegionRow, error) {
	var rows []models.RawRegionRow
	if err := s.rpc(ctx, "region_inventory", struct{}{}, &rows); err != nil {
		return nil, fmt.Errorf("inventory: region inventory: %w", err)
	}
	return rows, nil
}

// ActiveListingPage fetches one page of active listings for sitemap builds.
func (s *InventoryService) ActiveListingPage(ctx context.Context, offset, limit int) ([]models.Listing, error) {
	var listings []models.Listing
	payload := map[string]int{"page_offset": offset, "page_limit": limit}
	if err := s.rpc(ctx, "active_listings", payload, &listings); err != nil {
		return nil, fmt.Errorf("inventory: active listing page: %w", err)
	}
	return listings, nil
}

// ActiveListingSlugs pages through active inventory and returns the URL slug
// for every listing. Feeds the sitemap build.
func (s *InventoryService) ActiveListingSlugs(ctx context.Context) ([]string, error) {
	const pageSize = 1000
	var slugs []string
	for offset := 0; ; offset += pageSize {
		page, err := s.ActiveListingPage(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}
		for _, l := range page {
			if l.Slug != "" {
				slugs = append(slugs, l.Slug)
			} else {
				slugs = append(slugs, l.ID)
			}
		}
		if len(page) < pageSize {
			return slugs, nil
		}
	}
}

// rpc POSTs to /rest/v1/rpc/<fn> with up to maxRetries attempts and
// exponential backoff with jitter between them.
func (s *InventoryService) rpc(ctx context.Context, fn string, payload any, dst any) error {
	if s.baseURL == "" {
		return errors.New("inventory store URL not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	url := fmt.Sprintf("%s/rest/v1/rpc/%s", s.baseURL, fn)

	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			sleep := time.Duration((1<<attempt)*100)*time.Millisecond +
				time.Duration(rand.Intn(150))*time.Millisecond
			select {
			case <-time.After(sleep):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("apikey", s.serviceKey)
		req.Header.Set("Authorization", "Bearer "+s.serviceKey)

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			err = json.NewDecoder(resp.Body).Decode(dst)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		}
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		lastErr = fmt.Errorf("rpc %s returned %d: %s", fn, resp.StatusCode, snippet)
		// 4xx will not get better on retry
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return lastErr
		}
	}
	return lastErr
}
