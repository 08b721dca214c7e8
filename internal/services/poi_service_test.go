package services

import (
	"context"
	"errors"
	"testing"

	"waylit/internal/models/request_models"
	"waylit/pkg/utils"
)

func poiNamed(names ...string) []utils.PoiSummary {
	out := make([]utils.PoiSummary, 0, len(names))
	for _, n := range names {
		out = append(out, utils.PoiSummary{ProviderID: "id-" + n, Name: n, Address: n + " street"})
	}
	return out
}

func TestSearchDestinationPOIsMergesAndDedupes(t *testing.T) {
	client := &fakePoiSearchClient{
		results: map[string][]utils.PoiSummary{
			searchKey("hotel", utils.PoiCategoryHotel):          poiNamed("Hilltop Hotel"),
			searchKey("pho", utils.PoiCategoryRestaurant):       poiNamed("Pho 24", "Shared Diner"),
			searchKey("seafood", utils.PoiCategoryRestaurant):   poiNamed("shared diner", "Crab House"),
			searchKey("hiking", utils.PoiCategoryAttraction):    poiNamed("Marble Mountain"),
			searchKey("museums", utils.PoiCategoryAttraction):   poiNamed("Cham Museum"),
		},
	}
	svc := NewPOIService(client)

	bundle, err := svc.SearchDestinationPOIs(context.Background(), "Da Nang", request_models.SearchConditions{
		FoodPreferences:     []string{"pho", "seafood"},
		ActivityPreferences: []string{"hiking", "museums"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(bundle.Hotels) != 1 {
		t.Errorf("hotels = %d, want 1", len(bundle.Hotels))
	}
	// "Shared Diner" and "shared diner" collapse to one entry.
	if len(bundle.Restaurants) != 3 {
		t.Errorf("restaurants = %d, want 3 after dedupe", len(bundle.Restaurants))
	}
	if len(bundle.Attractions) != 2 {
		t.Errorf("attractions = %d, want 2", len(bundle.Attractions))
	}
}

func TestSearchDestinationPOIsRestaurantFallback(t *testing.T) {
	client := &fakePoiSearchClient{
		results: map[string][]utils.PoiSummary{
			searchKey("", utils.PoiCategoryRestaurant):       poiNamed("Any Kitchen"),
			searchKey("hotel", utils.PoiCategoryHotel):       poiNamed("Hotel One"),
			searchKey("", utils.PoiCategoryAttraction):       poiNamed("Old Quarter"),
		},
	}
	svc := NewPOIService(client)

	bundle, err := svc.SearchDestinationPOIs(context.Background(), "Hue", request_models.SearchConditions{
		FoodPreferences: []string{"ramen", "tapas", "bbq"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(bundle.Restaurants) != 1 || bundle.Restaurants[0].Name != "Any Kitchen" {
		t.Fatalf("fallback results not used: %+v", bundle.Restaurants)
	}

	calls := client.callsFor(utils.PoiCategoryRestaurant)
	untagged := 0
	for _, c := range calls {
		if c.keyword == "" {
			untagged++
		}
	}
	if len(calls) != 4 || untagged != 1 {
		t.Errorf("restaurant calls = %d with %d untagged, want 4 with exactly 1 untagged", len(calls), untagged)
	}
}

func TestSearchDestinationPOIsCapsTagFanout(t *testing.T) {
	client := &fakePoiSearchClient{
		results: map[string][]utils.PoiSummary{
			searchKey("a", utils.PoiCategoryAttraction): poiNamed("A"),
			searchKey("b", utils.PoiCategoryAttraction): poiNamed("B"),
			searchKey("c", utils.PoiCategoryAttraction): poiNamed("C"),
		},
	}
	svc := NewPOIService(client)

	_, err := svc.SearchDestinationPOIs(context.Background(), "Hanoi", request_models.SearchConditions{
		ActivityPreferences: []string{"a", "b", "c", "d", "e"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if calls := client.callsFor(utils.PoiCategoryAttraction); len(calls) != 3 {
		t.Errorf("attraction searches = %d, want 3", len(calls))
	}
}

func TestSearchDestinationPOIsToleratesCategoryFailure(t *testing.T) {
	client := &fakePoiSearchClient{
		results: map[string][]utils.PoiSummary{
			searchKey("", utils.PoiCategoryRestaurant): poiNamed("Bistro"),
			searchKey("", utils.PoiCategoryAttraction): poiNamed("Citadel"),
		},
		errs: map[string]error{
			searchKey("hotel", utils.PoiCategoryHotel): errors.New("provider down"),
		},
	}
	svc := NewPOIService(client)

	bundle, err := svc.SearchDestinationPOIs(context.Background(), "Hoi An", request_models.SearchConditions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(bundle.Hotels) != 0 {
		t.Errorf("failed hotel search must yield empty list, got %d", len(bundle.Hotels))
	}
	if len(bundle.Restaurants) != 1 || len(bundle.Attractions) != 1 {
		t.Errorf("other categories should survive: %d restaurants, %d attractions", len(bundle.Restaurants), len(bundle.Attractions))
	}
}

func TestHotelKeywordTranslation(t *testing.T) {
	tests := []struct {
		budget string
		style  string
		want   string
	}{
		{"luxury", "resort", "luxury resort"},
		{"budget", "hostel", "economy hostel"},
		{"mid", "", "comfort hotel"},
		{"", "", "hotel"},
		{"high", "boutique", "luxury boutique hotel"},
	}
	for _, tt := range tests {
		client := &fakePoiSearchClient{}
		svc := NewPOIService(client)
		_, err := svc.SearchDestinationPOIs(context.Background(), "Hue", request_models.SearchConditions{
			BudgetLevel: tt.budget,
			HotelStyle:  tt.style,
		})
		if err != nil {
			t.Fatal(err)
		}
		calls := client.callsFor(utils.PoiCategoryHotel)
		if len(calls) != 1 || calls[0].keyword != tt.want {
			t.Errorf("budget %q style %q: keyword %q, want %q", tt.budget, tt.style, calls[0].keyword, tt.want)
		}
	}
}
