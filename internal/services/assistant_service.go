package services

import (
	"context"
	"encoding/json"
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

type AssistantServiceInterface interface {
	UpdateWithPreference(ctx context.Context, req request_models.UpdateItineraryRequest) (*response_models.ItineraryChatResponse, error)
}

type AssistantService struct {
	repo       repositories.ItineraryRepository
	chatClient utils.ChatClientInterface
	tripLocks  *mem.TripLocks
}

func NewAssistantService(
	repo repositories.ItineraryRepository,
	chatClient utils.ChatClientInterface,
	tripLocks *mem.TripLocks,
) AssistantServiceInterface {
	return &AssistantService{
		repo:       repo,
		chatClient: chatClient,
		tripLocks:  tripLocks,
	}
}

const (
	maxHistoryTurns = 10
	chatTemperature = 0.6
)

// assistantTurn is the model's full answer: a conversational reply, an
// optional durable preference, and either null (chat only) or the complete
// replacement node list.
type assistantTurn struct {
	Reply        string               `json:"reply"`
	Preference   string               `json:"preference"`
	UpdatedNodes []GeneratedNodeDraft `json:"updatedNodes"`
}

// UpdateWithPreference runs one conversational turn against the trip's
// itinerary. Model and parse failures never surface as errors: the traveler
// gets an apology reply and the itinerary stays as it was.
func (s *AssistantService) UpdateWithPreference(ctx context.Context, req request_models.UpdateItineraryRequest) (*response_models.ItineraryChatResponse, error) {
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	unlock := s.tripLocks.Lock(req.TripID)
	defer unlock()

	itinerary, err := s.repo.GetByTripId(ctx, tripID)
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

	turn, err := s.askModel(ctx, itinerary, nodes, req)
	if err != nil {
		log.Printf("assistant turn failed for trip %s: %v", req.TripID, err)
		return &response_models.ItineraryChatResponse{
			Itinerary: renderItineraryResponse(itinerary, nodes),
			Reply:     apologyFor(err),
		}, nil
	}

	if len(turn.UpdatedNodes) == 0 {
		// Chat-only turn: the node rows must not be touched, only the
		// itinerary header when a preference was extracted.
		if pref := strings.TrimSpace(turn.Preference); pref != "" {
			itinerary.AppendPreference(pref)
			if err := s.repo.Update(ctx, itinerary); err != nil {
				log.Printf("failed to persist preference for trip %s: %v", req.TripID, err)
			}
		}
		return &response_models.ItineraryChatResponse{
			Itinerary: renderItineraryResponse(itinerary, nodes),
			Reply:     turn.Reply,
		}, nil
	}

	// A rebuilt set starts clean: fresh ids, nothing verified, nothing lit.
	rebuilt := buildNodesFromDrafts(turn.UpdatedNodes, itinerary.TotalDays, nil)
	if len(rebuilt) == 0 {
		return &response_models.ItineraryChatResponse{
			Itinerary: renderItineraryResponse(itinerary, nodes),
			Reply:     turn.Reply,
		}, nil
	}
	for i := range rebuilt {
		rebuilt[i].ItineraryID = itinerary.ID
	}

	if pref := strings.TrimSpace(turn.Preference); pref != "" {
		itinerary.AppendPreference(pref)
	}

	if err := s.repo.ReplaceNodes(ctx, itinerary, rebuilt); err != nil {
		log.Printf("failed to persist rebuilt itinerary for trip %s: %v", req.TripID, err)
		return nil, utils.ErrDatabaseError
	}

	return &response_models.ItineraryChatResponse{
		Itinerary: renderItineraryResponse(itinerary, rebuilt),
		Reply:     turn.Reply,
	}, nil
}

func (s *AssistantService) askModel(ctx context.Context, itinerary *dbm.Itinerary, nodes []dbm.TravelNode, req request_models.UpdateItineraryRequest) (*assistantTurn, error) {
	messages := []utils.ChatMessage{
		{Role: utils.RoleSystem, Content: buildAssistantSystemPrompt(itinerary, nodes)},
	}

	history := req.History
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	for _, turn := range history {
		role := utils.RoleUser
		if strings.EqualFold(turn.Role, utils.RoleAssistant) {
			role = utils.RoleAssistant
		}
		messages = append(messages, utils.ChatMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, utils.ChatMessage{Role: utils.RoleUser, Content: req.Message})

	raw, err := s.chatClient.Chat(ctx, messages, chatTemperature)
	if err != nil {
		return nil, fmt.Errorf("assistant chat failed: %w", err)
	}

	repaired, err := utils.RecoverObjectWithArrayField(raw, "updatedNodes", "reply")
	if err != nil {
		return nil, fmt.Errorf("assistant response unusable: %w", err)
	}

	var turn assistantTurn
	if err := json.Unmarshal([]byte(repaired), &turn); err != nil {
		return nil, fmt.Errorf("assistant decode failed: %w", err)
	}
	if strings.TrimSpace(turn.Reply) == "" {
		turn.Reply = "Done! Take a look at your updated itinerary."
	}
	return &turn, nil
}

func buildAssistantSystemPrompt(itinerary *dbm.Itinerary, nodes []dbm.TravelNode) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a travel assistant managing a %d-day trip to %s.\n", itinerary.TotalDays, itinerary.Destination)
	if prefs := itinerary.PreferenceList(); len(prefs) > 0 {
		fmt.Fprintf(&b, "Standing traveler preferences: %s.\n", strings.Join(prefs, "; "))
	}

	b.WriteString("Current itinerary:\n")
	for i := range nodes {
		n := &nodes[i]
		fmt.Fprintf(&b, "- day %d, order %g, %s [%s] at %s (%d min, %s)\n",
			n.DayIndex, n.SortOrder, n.Name, n.NodeType, n.ScheduledTime, n.DurationMinutes, n.TimeSlot)
	}

	b.WriteString(`
Answer with a single JSON object and nothing else, shaped as:
{"reply": "...", "preference": "...", "updatedNodes": [...]}
- reply: a short conversational answer to the traveler.
- preference: a durable preference worth remembering, or "" when there is none.
- updatedNodes: null when the message needs no itinerary change; otherwise the COMPLETE replacement node list, every node included, changed or not.
Each node object has the fields: name, type ("attraction", "restaurant", "hotel", "transport"), address, description, activity, timeSlot ("morning", "noon", "afternoon", "evening", "night", "arrival", "departure"), durationMinutes, time ("HH:MM"), day, order, price, ticketInfo, tips, transportMode, transportDuration, transportNote, isStartingPoint, areaName.
Keep day and order values for nodes the traveler did not ask to move.`)

	return b.String()
}

// apologyFor picks the reply for a failed turn by failure class. The traveler
// never sees a raw error.
func apologyFor(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "deadline") || strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		return "Sorry, that took longer than expected. Please try again in a moment."
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429") || strings.Contains(msg, "quota"):
		return "I'm handling a lot of requests right now. Give me a minute and try again."
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(msg, "api key") || strings.Contains(msg, "auth"):
		return "I can't reach the planning service right now. Please try again later."
	case strings.Contains(msg, "connection") || strings.Contains(msg, "network") || strings.Contains(msg, "dial"):
		return "I lost my connection for a moment there. Please send that again."
	case strings.Contains(msg, "unusable") || strings.Contains(msg, "decode"):
		return "I got a bit confused by that one. Could you rephrase your request?"
	default:
		return "Something went wrong on my end. Your itinerary is unchanged, please try again."
	}
}
