package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"waylit/internal/models/request_models"
	"waylit/pkg/utils"
)

// CandidatePOI is a provider-sourced point of interest. Candidates are
// ephemeral: they exist to feed the planning prompt and are never persisted.
type CandidatePOI struct {
	ProviderID  string
	Name        string
	Address     string
	Description string
	Location    string
	Rating      string
	Price       string
}

type POIBundle struct {
	Hotels      []CandidatePOI
	Restaurants []CandidatePOI
	Attractions []CandidatePOI
}

type POIServiceInterface interface {
	SearchDestinationPOIs(ctx context.Context, destination string, cond request_models.SearchConditions) (*POIBundle, error)
}

type PoiService struct {
	searchClient utils.PoiSearchClientInterface
}

func NewPOIService(searchClient utils.PoiSearchClientInterface) POIServiceInterface {
	return &PoiService{searchClient: searchClient}
}

const (
	poiPageSize    = 20
	maxTagSearches = 3
)

// SearchDestinationPOIs runs the three category searches concurrently. Each
// goroutine writes its own bundle field; a failed category logs and yields an
// empty list rather than failing the aggregate, so downstream composition can
// decide how to react.
func (p *PoiService) SearchDestinationPOIs(ctx context.Context, destination string, cond request_models.SearchConditions) (*POIBundle, error) {
	bundle := &POIBundle{}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		bundle.Hotels = p.searchHotels(ctx, destination, cond)
	}()
	go func() {
		defer wg.Done()
		bundle.Restaurants = p.searchTagged(ctx, destination, cond.FoodPreferences, utils.PoiCategoryRestaurant)
	}()
	go func() {
		defer wg.Done()
		bundle.Attractions = p.searchTagged(ctx, destination, cond.ActivityPreferences, utils.PoiCategoryAttraction)
	}()
	wg.Wait()

	return bundle, nil
}

func (p *PoiService) searchHotels(ctx context.Context, destination string, cond request_models.SearchConditions) []CandidatePOI {
	keyword := strings.TrimSpace(hotelBudgetBand(cond.BudgetLevel) + " " + hotelTypeFilter(cond.HotelStyle))

	pois, err := p.searchClient.SearchPOIs(ctx, destination, keyword, utils.PoiCategoryHotel, 1, poiPageSize)
	if err != nil {
		log.Printf("hotel search failed for %s: %v", destination, err)
		return nil
	}
	return toCandidates(pois)
}

// searchTagged issues one search per preference tag (cap 3), merges and
// de-duplicates by name, then falls back to a single untagged search when the
// tagged searches produced nothing.
func (p *PoiService) searchTagged(ctx context.Context, destination string, tags []string, category string) []CandidatePOI {
	if len(tags) > maxTagSearches {
		tags = tags[:maxTagSearches]
	}

	var merged []CandidatePOI
	seen := make(map[string]bool)
	for _, tag := range tags {
		pois, err := p.searchClient.SearchPOIs(ctx, destination, tag, category, 1, poiPageSize)
		if err != nil {
			log.Printf("tagged search %q failed for %s: %v", tag, destination, err)
			continue
		}
		for _, c := range toCandidates(pois) {
			key := strings.ToLower(c.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, c)
		}
	}

	if len(merged) == 0 {
		pois, err := p.searchClient.SearchPOIs(ctx, destination, "", category, 1, poiPageSize)
		if err != nil {
			log.Printf("fallback search failed for %s: %v", destination, err)
			return nil
		}
		merged = toCandidates(pois)
	}

	return merged
}

// hotelBudgetBand translates the coarse budget tag into a provider price band
// keyword.
func hotelBudgetBand(level string) string {
	switch strings.ToLower(level) {
	case "budget", "low":
		return "economy"
	case "luxury", "high":
		return "luxury"
	case "mid", "medium":
		return "comfort"
	default:
		return ""
	}
}

// hotelTypeFilter translates the style tag into a provider type keyword.
func hotelTypeFilter(style string) string {
	switch strings.ToLower(style) {
	case "hostel":
		return "hostel"
	case "resort":
		return "resort"
	case "homestay":
		return "homestay"
	case "boutique":
		return "boutique hotel"
	default:
		return "hotel"
	}
}

func toCandidates(pois []utils.PoiSummary) []CandidatePOI {
	out := make([]CandidatePOI, 0, len(pois))
	for _, p := range pois {
		desc := p.Category
		if p.OpeningHours != "" {
			desc += " (hours: " + p.OpeningHours + ")"
		}
		out = append(out, CandidatePOI{
			ProviderID:  p.ProviderID,
			Name:        p.Name,
			Address:     p.Address,
			Description: desc,
			Location:    p.Location,
			Rating:      p.Rating,
			Price:       p.Price,
		})
	}
	return out
}
