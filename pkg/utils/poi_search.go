package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Category codes of the POI search provider.
const (
	PoiCategoryHotel      = "100000"
	PoiCategoryRestaurant = "050000"
	PoiCategoryAttraction = "110000"
)

// PoiSummary is one provider hit. Location is a "lon,lat" pair as returned by
// the provider; it is forwarded to the planner verbatim.
type PoiSummary struct {
	ProviderID   string
	Name         string
	Address      string
	Location     string
	Rating       string
	Price        string
	Category     string
	OpeningHours string
}

type PoiSearchClientInterface interface {
	SearchPOIs(ctx context.Context, city, keyword, categoryCode string, page, pageSize int) ([]PoiSummary, error)
}

type HTTPPoiSearchClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewPoiSearchClient(baseURL, apiKey string) PoiSearchClientInterface {
	return &HTTPPoiSearchClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type poiSearchResponse struct {
	Status string `json:"status"`
	Info   string `json:"info"`
	Pois   []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Address  string `json:"address"`
		Location string `json:"location"`
		Type     string `json:"type"`
		Opentime string `json:"opentime"`
		BizExt   struct {
			Rating string `json:"rating"`
			Cost   string `json:"cost"`
		} `json:"biz_ext"`
	} `json:"pois"`
}

func (c *HTTPPoiSearchClient) SearchPOIs(ctx context.Context, city, keyword, categoryCode string, page, pageSize int) ([]PoiSummary, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("city", city)
	q.Set("citylimit", "true")
	if keyword != "" {
		q.Set("keywords", keyword)
	}
	if categoryCode != "" {
		q.Set("types", categoryCode)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("offset", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poi search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poi search returned status %d", resp.StatusCode)
	}

	var body poiSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("poi search response decode failed: %w", err)
	}
	if body.Status != "1" {
		return nil, fmt.Errorf("poi search rejected: %s", body.Info)
	}

	out := make([]PoiSummary, 0, len(body.Pois))
	for _, p := range body.Pois {
		out = append(out, PoiSummary{
			ProviderID:   p.ID,
			Name:         p.Name,
			Address:      p.Address,
			Location:     p.Location,
			Rating:       p.BizExt.Rating,
			Price:        p.BizExt.Cost,
			Category:     p.Type,
			OpeningHours: p.Opentime,
		})
	}
	return out, nil
}
