package services

import (
	"fmt"
	"log"

	"github.com/madisonpark/carzo-sub002/pkg/models"
)

// maxDiversifyRounds bounds the round-robin sweep loop. Every sweep over
// non-empty dealer queues drains at least one listing, so hitting this cap
// means the grouping is broken; it is an assertion, not a truncation policy.
const maxDiversifyRounds = 100

// DealerDiversityService interleaves search results so consecutive listings
// favor distinct dealers. All methods are pure and safe for concurrent use.
type DealerDiversityService struct{}

// NewDealerDiversityService creates a new DealerDiversityService.
func NewDealerDiversityService() *DealerDiversityService {
	return &DealerDiversityService{}
}

// Diversify reorders listings round-robin by dealer, up to limit results.
// Dealers are emitted in first-appearance order and each dealer's listings
// keep their original relative order. The output length is always
// min(limit, len(listings)).
func (s *DealerDiversityService) Diversify(listings []models.Listing, limit int) ([]models.Listing, error) {
	if limit < 0 {
		return nil, fmt.Errorf("diversify: negative limit %d", limit)
	}
	if limit == 0 || len(listings) == 0 {
		return []models.Listing{}, nil
	}

	queues := make(map[string][]models.Listing)
	var dealerOrder []string
	for _, l := range listings {
		if _, seen := queues[l.DealerID]; !seen {
			dealerOrder = append(dealerOrder, l.DealerID)
		}
		queues[l.DealerID] = append(queues[l.DealerID], l)
	}

	result := make([]models.Listing, 0, min(limit, len(listings)))
	for round := 0; ; round++ {
		if round >= maxDiversifyRounds {
			log.Printf("WARN [diversity] round cap reached with %d/%d results, possible dealer grouping bug", len(result), limit)
			break
		}
		progressed := false
		for _, dealerID := range dealerOrder {
			q := queues[dealerID]
			if len(q) == 0 {
				continue
			}
			result = append(result, q[0])
			queues[dealerID] = q[1:]
			progressed = true
			if len(result) >= limit {
				return result, nil
			}
		}
		if !progressed {
			break
		}
	}
	return result, nil
}

// DiversityScore returns the share of distinct dealers in the result set as a
// percentage in [0,100]. An empty set scores 0.
func (s *DealerDiversityService) DiversityScore(listings []models.Listing) float64 {
	if len(listings) == 0 {
		return 0
	}
	dealers := make(map[string]struct{}, len(listings))
	for _, l := range listings {
		dealers[l.DealerID] = struct{}{}
	}
	return float64(len(dealers)) / float64(len(listings)) * 100
}

// PrioritizeDifferent reorders candidates so listings from dealers other than
// the current listing's dealer come first, then diversifies the whole set.
// Used by "similar vehicles" on detail pages to avoid flooding the visitor
// with more cars from the dealer they are already looking at.
func (s *DealerDiversityService) PrioritizeDifferent(current models.Listing, candidates []models.Listing, limit int) ([]models.Listing, error) {
	different := make([]models.Listing, 0, len(candidates))
	same := make([]models.Listing, 0)
	for _, c := range candidates {
		if c.DealerID == current.DealerID {
			same = append(same, c)
		} else {
			different = append(different, c)
		}
	}
	return s.Diversify(append(different, same...), limit)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
