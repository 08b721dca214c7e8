package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	dbm "waylit/internal/models/db_models"
	"waylit/internal/models/request_models"
	"waylit/internal/models/response_models"
	"waylit/internal/repositories"
	mem "waylit/pkg/memcache"
	"waylit/pkg/utils"
)

type ItineraryServiceInterface interface {
	GenerateItinerary(ctx context.Context, req request_models.GenerateItineraryRequest) (*response_models.ItineraryResponse, error)
	GetItineraryByTripId(ctx context.Context, tripID string) (*response_models.ItineraryResponse, error)
}

type ItineraryService struct {
	repo       repositories.ItineraryRepository
	poiService POIServiceInterface
	chatClient utils.ChatClientInterface
	tripLocks  *mem.TripLocks
}

func NewItineraryService(
	repo repositories.ItineraryRepository,
	poiService POIServiceInterface,
	chatClient utils.ChatClientInterface,
	tripLocks *mem.TripLocks,
) ItineraryServiceInterface {
	return &ItineraryService{
		repo:       repo,
		poiService: poiService,
		chatClient: chatClient,
		tripLocks:  tripLocks,
	}
}

const (
	maxPromptHotels      = 5
	maxPromptRestaurants = 15
	maxPromptAttractions = 15

	// Below this many attraction candidates a grounded plan is not worth
	// attempting; go straight to the model's own knowledge.
	minGroundedAttractions = 2

	planTemperature = 0.7
)

func (s *ItineraryService) GenerateItinerary(ctx context.Context, req request_models.GenerateItineraryRequest) (*response_models.ItineraryResponse, error) {
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	unlock := s.tripLocks.Lock(req.TripID)
	defer unlock()

	cond := req.Conditions
	cond.TripDays = req.Days

	bundle, err := s.poiService.SearchDestinationPOIs(ctx, req.Destination, cond)
	if err != nil {
		log.Printf("poi aggregation failed for %s: %v", req.Destination, err)
		bundle = &POIBundle{}
	}

	var nodes []dbm.TravelNode
	if len(bundle.Attractions) < minGroundedAttractions {
		log.Printf("only %d attraction candidates for %s, generating ungrounded plan", len(bundle.Attractions), req.Destination)
		nodes, err = s.generatePlan(ctx, req, cond, nil)
	} else {
		nodes, err = s.generatePlan(ctx, req, cond, bundle)
		if err != nil || len(nodes) == 0 {
			log.Printf("grounded plan failed for trip %s (%v), retrying without provider listings", req.TripID, err)
			nodes, err = s.generatePlan(ctx, req, cond, nil)
		}
	}
	if err != nil {
		// The model answering with unusable text is worth distinguishing
		// from the model being unreachable.
		if errors.Is(err, utils.ErrUnexpectedBehaviorOfAI) {
			return nil, utils.ErrUnexpectedBehaviorOfAI
		}
		return nil, utils.ErrGenerationFailed
	}
	if len(nodes) == 0 {
		log.Printf("model produced an empty plan for trip %s", req.TripID)
		return nil, utils.ErrGenerationFailed
	}

	itinerary := &dbm.Itinerary{
		TripID:      tripID,
		Destination: req.Destination,
		TotalDays:   req.Days,
		StartDate:   cond.StartDate,
	}
	itinerary.ID = uuid.New()
	for i := range nodes {
		nodes[i].ItineraryID = itinerary.ID
	}

	if err := s.repo.ReplaceForTrip(ctx, itinerary, nodes); err != nil {
		log.Printf("failed to persist itinerary for trip %s: %v", req.TripID, err)
		return nil, utils.ErrDatabaseError
	}

	return renderItineraryResponse(itinerary, nodes), nil
}

func (s *ItineraryService) GetItineraryByTripId(ctx context.Context, tripID string) (*response_models.ItineraryResponse, error) {
	id, err := uuid.Parse(tripID)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	itinerary, err := s.repo.GetByTripId(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if itinerary == nil {
		return nil, utils.ErrItineraryNotFound
	}

	nodes, err := s.repo.GetNodes(ctx, itinerary.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return renderItineraryResponse(itinerary, nodes), nil
}

// generatePlan asks the model for a full plan and normalizes the result. A nil
// bundle produces an ungrounded plan from the model's own knowledge.
func (s *ItineraryService) generatePlan(ctx context.Context, req request_models.GenerateItineraryRequest, cond request_models.SearchConditions, bundle *POIBundle) ([]dbm.TravelNode, error) {
	prompt := buildPlanPrompt(req.Destination, req.Days, cond, bundle)

	raw, err := s.chatClient.Chat(ctx, []utils.ChatMessage{
		{Role: utils.RoleSystem, Content: planSystemPrompt},
		{Role: utils.RoleUser, Content: prompt},
	}, planTemperature)
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	repaired, err := utils.RecoverArray(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedBehaviorOfAI, err)
	}

	var drafts []GeneratedNodeDraft
	if err := json.Unmarshal([]byte(repaired), &drafts); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedBehaviorOfAI, err)
	}

	return buildNodesFromDrafts(drafts, req.Days, poiIndex(bundle)), nil
}

// poiIndex keys every candidate by exact name for verification backfill.
func poiIndex(bundle *POIBundle) map[string]CandidatePOI {
	if bundle == nil {
		return nil
	}
	index := make(map[string]CandidatePOI)
	for _, group := range [][]CandidatePOI{bundle.Hotels, bundle.Restaurants, bundle.Attractions} {
		for _, c := range group {
			index[c.Name] = c
		}
	}
	return index
}

const planSystemPrompt = `You are a travel planner. You answer with a single JSON array of itinerary nodes and nothing else: no markdown fences, no commentary. Each node object has the fields: name, type (one of "attraction", "restaurant", "hotel", "transport"), address, description, activity, timeSlot (one of "morning", "noon", "afternoon", "evening", "night", "arrival", "departure"), durationMinutes (integer), time ("HH:MM"), day (integer, starting at 1), order (number, position within the day), price, ticketInfo, tips, transportMode, transportDuration, transportNote, isStartingPoint (boolean), areaName.`

func buildPlanPrompt(destination string, days int, cond request_models.SearchConditions, bundle *POIBundle) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan a %d-day trip to %s.\n", days, destination)
	if cond.StartDate != nil {
		fmt.Fprintf(&b, "The trip starts on %s.\n", utils.FormatDate(cond.StartDate))
	}

	writeTagLine(&b, "Landscape preferences", cond.GeoPreferences)
	writeTagLine(&b, "Climate preferences", cond.ClimatePreferences)
	writeTagLine(&b, "Food preferences", cond.FoodPreferences)
	writeTagLine(&b, "Activity preferences", cond.ActivityPreferences)
	if cond.BudgetLevel != "" {
		fmt.Fprintf(&b, "Budget level: %s.\n", cond.BudgetLevel)
	}
	if cond.HotelStyle != "" {
		fmt.Fprintf(&b, "Preferred hotel style: %s.\n", cond.HotelStyle)
	}

	if g := arrivalGuidance(cond.ArrivalTime); g != "" {
		b.WriteString(g + "\n")
	}
	if g := departureGuidance(cond.DepartureTime); g != "" {
		b.WriteString(g + "\n")
	}

	b.WriteString("Every day must have at least one restaurant stop, and the trip needs exactly one hotel used as the nightly base unless the traveler moves areas.\n")
	b.WriteString("Keep each day's stops geographically close to each other, and end every day except the last at the hotel.\n")
	b.WriteString("Every node after the first must carry transportMode, transportDuration and transportNote from the previous stop.\n")
	b.WriteString("Fill in price and ticketInfo where entry is paid, and set isStartingPoint with areaName for large sites that need a chosen entrance.\n")
	fmt.Fprintf(&b, "Spread nodes over days 1 through %d. Keep each day's order values distinct.\n", days)

	if bundle != nil {
		b.WriteString("\nUse the following verified places wherever they fit, with their names copied exactly:\n")
		writePOISection(&b, "Hotels", bundle.Hotels, maxPromptHotels)
		writePOISection(&b, "Restaurants", bundle.Restaurants, maxPromptRestaurants)
		writePOISection(&b, "Attractions", bundle.Attractions, maxPromptAttractions)
		b.WriteString("You may add places not on the lists when the lists have gaps.\n")
	}

	b.WriteString("\nAnswer with the JSON array only.")
	return b.String()
}

func writeTagLine(b *strings.Builder, label string, tags []string) {
	if len(tags) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s.\n", label, strings.Join(tags, ", "))
}

func writePOISection(b *strings.Builder, label string, pois []CandidatePOI, limit int) {
	if len(pois) == 0 {
		return
	}
	if len(pois) > limit {
		pois = pois[:limit]
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, p := range pois {
		fmt.Fprintf(b, "- %s | %s", p.Name, p.Address)
		if p.Location != "" {
			fmt.Fprintf(b, " | at %s", p.Location)
		}
		if p.Description != "" {
			fmt.Fprintf(b, " | %s", p.Description)
		}
		if p.Rating != "" {
			fmt.Fprintf(b, " | rating %s", p.Rating)
		}
		if p.Price != "" {
			fmt.Fprintf(b, " | avg price %s", p.Price)
		}
		b.WriteString("\n")
	}
}

// arrivalGuidance shapes the first day around the arrival clock. Later
// arrivals leave less of day 1 usable. Day 1's first node is always tagged
// with the "arrival" slot.
func arrivalGuidance(arrival string) string {
	minutes, ok := utils.ParseClock(arrival)
	if !ok {
		return ""
	}
	var pacing string
	switch {
	case minutes >= 21*60:
		pacing = "day 1 is check-in only, no sightseeing"
	case minutes >= 18*60:
		pacing = "day 1 allows dinner near the hotel at most"
	case minutes >= 14*60:
		pacing = "plan only an evening outing on day 1"
	case minutes >= 10*60:
		pacing = "day 1 starts from the afternoon"
	default:
		pacing = "day 1 can be a full day"
	}
	return fmt.Sprintf(`The traveler lands at %s: %s. Give day 1's first node the timeSlot "arrival".`, arrival, pacing)
}

// departureGuidance is the mirror for the last day.
func departureGuidance(departure string) string {
	minutes, ok := utils.ParseClock(departure)
	if !ok {
		return ""
	}
	var pacing string
	switch {
	case minutes < 9*60:
		pacing = "the last day is checkout and transfer only"
	case minutes < 12*60:
		pacing = "plan only breakfast near the hotel on the last day"
	case minutes < 16*60:
		pacing = "the last day ends by midday"
	case minutes < 21*60:
		pacing = "the last day ends by late afternoon"
	default:
		pacing = "the last day can be a full day"
	}
	return fmt.Sprintf(`The traveler departs at %s: %s. Give the last day's final node the timeSlot "departure".`, departure, pacing)
}
