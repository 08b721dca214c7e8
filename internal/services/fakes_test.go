package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	dbm "waylit/internal/models/db_models"
	"waylit/internal/models/request_models"
	"waylit/pkg/utils"
)

// fakeChatClient replays scripted responses and records every call.
type fakeChatClient struct {
	responses []string
	errs      []error
	calls     [][]utils.ChatMessage
}

func (f *fakeChatClient) Chat(_ context.Context, messages []utils.ChatMessage, _ float32) (string, error) {
	n := len(f.calls)
	f.calls = append(f.calls, messages)
	if n < len(f.errs) && f.errs[n] != nil {
		return "", f.errs[n]
	}
	if n < len(f.responses) {
		return f.responses[n], nil
	}
	return "", errors.New("no scripted response left")
}

type poiCall struct {
	city     string
	keyword  string
	category string
}

// fakePoiSearchClient returns canned results keyed by category and keyword,
// recording calls. Thread safe since the aggregator fans out.
type fakePoiSearchClient struct {
	mu      sync.Mutex
	results map[string][]utils.PoiSummary
	errs    map[string]error
	calls   []poiCall
}

func searchKey(keyword, category string) string {
	return category + "|" + keyword
}

func (f *fakePoiSearchClient) SearchPOIs(_ context.Context, city, keyword, categoryCode string, _, _ int) ([]utils.PoiSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, poiCall{city: city, keyword: keyword, category: categoryCode})
	key := searchKey(keyword, categoryCode)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return f.results[key], nil
}

func (f *fakePoiSearchClient) callsFor(category string) []poiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []poiCall
	for _, c := range f.calls {
		if c.category == category {
			out = append(out, c)
		}
	}
	return out
}

// fakePOIService hands back a fixed bundle.
type fakePOIService struct {
	bundle *POIBundle
	err    error
}

func (f *fakePOIService) SearchDestinationPOIs(context.Context, string, request_models.SearchConditions) (*POIBundle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bundle, nil
}

// fakeItineraryRepo is an in-memory ItineraryRepository.
type fakeItineraryRepo struct {
	itinerary *dbm.Itinerary
	nodes     []dbm.TravelNode

	replacedForTrip bool
	replacedNodes   bool
	updatedHeader   bool
	failReplace     error
}

func (f *fakeItineraryRepo) GetByTripId(_ context.Context, tripID uuid.UUID) (*dbm.Itinerary, error) {
	if f.itinerary == nil || f.itinerary.TripID != tripID {
		return nil, nil
	}
	return f.itinerary, nil
}

func (f *fakeItineraryRepo) GetNodes(_ context.Context, itineraryID uuid.UUID) ([]dbm.TravelNode, error) {
	if f.itinerary == nil || f.itinerary.ID != itineraryID {
		return nil, nil
	}
	return f.nodes, nil
}

func (f *fakeItineraryRepo) Update(_ context.Context, itinerary *dbm.Itinerary) error {
	f.updatedHeader = true
	f.itinerary = itinerary
	return nil
}

func (f *fakeItineraryRepo) ReplaceForTrip(_ context.Context, itinerary *dbm.Itinerary, nodes []dbm.TravelNode) error {
	if f.failReplace != nil {
		return f.failReplace
	}
	f.replacedForTrip = true
	f.itinerary = itinerary
	f.nodes = nodes
	return nil
}

func (f *fakeItineraryRepo) ReplaceNodes(_ context.Context, itinerary *dbm.Itinerary, nodes []dbm.TravelNode) error {
	if f.failReplace != nil {
		return f.failReplace
	}
	f.replacedNodes = true
	f.itinerary = itinerary
	f.nodes = nodes
	return nil
}

// fakeNodeRepo is an in-memory NodeRepository.
type fakeNodeRepo struct {
	nodes map[uuid.UUID]*dbm.TravelNode

	savedOriginal    *dbm.TravelNode
	savedReplacement *dbm.TravelNode
}

func newFakeNodeRepo(nodes ...*dbm.TravelNode) *fakeNodeRepo {
	m := make(map[uuid.UUID]*dbm.TravelNode)
	for _, n := range nodes {
		m[n.ID] = n
	}
	return &fakeNodeRepo{nodes: m}
}

func (f *fakeNodeRepo) GetById(_ context.Context, nodeID uuid.UUID) (*dbm.TravelNode, error) {
	n, ok := f.nodes[nodeID]
	if !ok {
		return nil, nil
	}
	copied := *n
	return &copied, nil
}

func (f *fakeNodeRepo) Update(_ context.Context, node *dbm.TravelNode) error {
	f.nodes[node.ID] = node
	return nil
}

func (f *fakeNodeRepo) SaveChange(_ context.Context, original, replacement *dbm.TravelNode) error {
	f.nodes[original.ID] = original
	f.nodes[replacement.ID] = replacement
	f.savedOriginal = original
	f.savedReplacement = replacement
	return nil
}
