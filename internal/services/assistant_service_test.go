package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	dbm "waylit/internal/models/db_models"
	"waylit/internal/models/request_models"
	mem "waylit/pkg/memcache"
	"waylit/pkg/utils"
)

func seededTrip() (*fakeItineraryRepo, uuid.UUID) {
	tripID := uuid.New()
	itinerary := &dbm.Itinerary{TripID: tripID, Destination: "Da Nang", TotalDays: 2}
	itinerary.ID = uuid.New()

	nodes := []dbm.TravelNode{
		{ItineraryID: itinerary.ID, Name: "Dragon Bridge", NodeType: dbm.NodeTypeAttraction, DayIndex: 1, SortOrder: 1, Status: dbm.NodeStatusNormal, Verified: true},
		{ItineraryID: itinerary.ID, Name: "Pho 24", NodeType: dbm.NodeTypeRestaurant, DayIndex: 1, SortOrder: 2, Status: dbm.NodeStatusNormal},
	}
	nodes[0].ID = uuid.New()
	nodes[1].ID = uuid.New()

	return &fakeItineraryRepo{itinerary: itinerary, nodes: nodes}, tripID
}

func chatReq(tripID uuid.UUID, message string) request_models.UpdateItineraryRequest {
	return request_models.UpdateItineraryRequest{TripID: tripID.String(), Message: message}
}

func TestUpdateWithPreferenceChatOnly(t *testing.T) {
	repo, tripID := seededTrip()
	before := make([]dbm.TravelNode, len(repo.nodes))
	copy(before, repo.nodes)

	chat := &fakeChatClient{responses: []string{
		`{"reply":"The bridge breathes fire on weekend nights at 9pm.","preference":"","updatedNodes":null}`,
	}}
	svc := NewAssistantService(repo, chat, mem.NewTripLocks())

	resp, err := svc.UpdateWithPreference(context.Background(), chatReq(tripID, "When does the dragon breathe fire?"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Reply, "fire") {
		t.Errorf("reply = %q", resp.Reply)
	}
	if repo.replacedNodes || repo.updatedHeader {
		t.Error("pure chat must not write anything")
	}
	for i, n := range repo.nodes {
		if n.ID != before[i].ID {
			t.Error("node identities must be untouched")
		}
	}
}

func TestUpdateWithPreferenceRecordsPreference(t *testing.T) {
	repo, tripID := seededTrip()
	chat := &fakeChatClient{responses: []string{
		`{"reply":"Noted, no seafood from here on.","preference":"no seafood","updatedNodes":null}`,
	}}
	svc := NewAssistantService(repo, chat, mem.NewTripLocks())

	if _, err := svc.UpdateWithPreference(context.Background(), chatReq(tripID, "I'm allergic to seafood")); err != nil {
		t.Fatal(err)
	}

	prefs := repo.itinerary.PreferenceList()
	if len(prefs) != 1 || prefs[0] != "no seafood" {
		t.Errorf("preference log = %v", prefs)
	}
	if !repo.updatedHeader {
		t.Error("preference must be persisted on the itinerary row")
	}
	// Re-inserting the unchanged node rows would collide with their still
	// soft-deleted primary keys; a chat-only turn must leave them alone.
	if repo.replacedNodes || repo.replacedForTrip {
		t.Error("chat-only turn must not rewrite node rows")
	}
}

func TestUpdateWithPreferenceRebuildsNodes(t *testing.T) {
	repo, tripID := seededTrip()
	originalIDs := map[uuid.UUID]bool{repo.nodes[0].ID: true, repo.nodes[1].ID: true}

	chat := &fakeChatClient{responses: []string{
		`{"reply":"Swapped your dinner spot.","preference":"prefers vegetarian","updatedNodes":[
			{"name":"Dragon Bridge","type":"attraction","day":1,"order":1,"time":"19:00","durationMinutes":45},
			{"name":"Green Garden","type":"restaurant","day":1,"order":2,"time":"12:30","durationMinutes":90}
		]}`,
	}}
	svc := NewAssistantService(repo, chat, mem.NewTripLocks())

	resp, err := svc.UpdateWithPreference(context.Background(), chatReq(tripID, "Replace Pho 24 with something vegetarian"))
	if err != nil {
		t.Fatal(err)
	}

	if !repo.replacedNodes {
		t.Fatal("rebuilt nodes were not persisted")
	}
	if len(repo.nodes) != 2 {
		t.Fatalf("got %d nodes", len(repo.nodes))
	}
	for _, n := range repo.nodes {
		if originalIDs[n.ID] {
			t.Error("rebuilt nodes must carry fresh ids")
		}
		if n.Verified || n.IsLit {
			t.Errorf("rebuilt node %s must start unverified and unlit", n.Name)
		}
		if n.ItineraryID != repo.itinerary.ID {
			t.Error("rebuilt node not attached to itinerary")
		}
	}
	if repo.nodes[1].DurationMinutes != 90 {
		t.Errorf("duration = %d, want 90", repo.nodes[1].DurationMinutes)
	}
	if prefs := repo.itinerary.PreferenceList(); len(prefs) != 1 || prefs[0] != "prefers vegetarian" {
		t.Errorf("preference log = %v", prefs)
	}
	if resp.Reply != "Swapped your dinner spot." {
		t.Errorf("reply = %q", resp.Reply)
	}
}

func TestUpdateWithPreferenceApologizesOnModelFailure(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		phrase string
	}{
		{"timeout", errors.New("context deadline exceeded"), "longer than expected"},
		{"rate limit", errors.New("429 rate limit reached"), "a lot of requests"},
		{"auth", errors.New("invalid api key"), "planning service"},
		{"network", errors.New("dial tcp: connection refused"), "connection"},
		{"generic", errors.New("boom"), "unchanged"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, tripID := seededTrip()
			chat := &fakeChatClient{errs: []error{tt.err}}
			svc := NewAssistantService(repo, chat, mem.NewTripLocks())

			resp, err := svc.UpdateWithPreference(context.Background(), chatReq(tripID, "hello"))
			if err != nil {
				t.Fatalf("model failure must not surface: %v", err)
			}
			if !strings.Contains(resp.Reply, tt.phrase) {
				t.Errorf("reply %q missing %q", resp.Reply, tt.phrase)
			}
			if repo.replacedNodes || repo.replacedForTrip {
				t.Error("itinerary must stay untouched")
			}
			if resp.Itinerary == nil || len(resp.Itinerary.Days) == 0 {
				t.Error("current itinerary must still be returned")
			}
		})
	}
}

func TestUpdateWithPreferenceApologizesOnUnparsableAnswer(t *testing.T) {
	repo, tripID := seededTrip()
	chat := &fakeChatClient{responses: []string{"completely free-form prose with no structure"}}
	svc := NewAssistantService(repo, chat, mem.NewTripLocks())

	resp, err := svc.UpdateWithPreference(context.Background(), chatReq(tripID, "hi"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Reply, "rephrase") {
		t.Errorf("reply = %q", resp.Reply)
	}
	if repo.replacedNodes {
		t.Error("itinerary must stay untouched")
	}
}

func TestUpdateWithPreferenceUnknownTrip(t *testing.T) {
	svc := NewAssistantService(&fakeItineraryRepo{}, &fakeChatClient{}, mem.NewTripLocks())

	_, err := svc.UpdateWithPreference(context.Background(), chatReq(uuid.New(), "hi"))
	if !errors.Is(err, utils.ErrItineraryNotFound) {
		t.Errorf("err = %v, want ErrItineraryNotFound", err)
	}
}

func TestUpdateWithPreferenceCapsHistory(t *testing.T) {
	repo, tripID := seededTrip()
	chat := &fakeChatClient{responses: []string{
		`{"reply":"ok","preference":"","updatedNodes":null}`,
	}}
	svc := NewAssistantService(repo, chat, mem.NewTripLocks())

	req := chatReq(tripID, "latest question")
	for i := 0; i < 25; i++ {
		req.History = append(req.History, request_models.ChatTurn{Role: "user", Content: fmt.Sprintf("turn %d", i)})
	}

	if _, err := svc.UpdateWithPreference(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	messages := chat.calls[0]
	// system + capped history + current message
	if len(messages) != 1+10+1 {
		t.Fatalf("sent %d messages, want 12", len(messages))
	}
	if messages[1].Content != "turn 15" {
		t.Errorf("history window starts at %q, want the most recent turns", messages[1].Content)
	}
	if messages[len(messages)-1].Content != "latest question" {
		t.Error("current message must come last")
	}
}
