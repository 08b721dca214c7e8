package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	dbm "waylit/internal/models/db_models"
	"waylit/internal/models/request_models"
	"waylit/internal/models/response_models"
	"waylit/internal/repositories"
	mem "waylit/pkg/memcache"
	"waylit/pkg/utils"
)

type NodeServiceInterface interface {
	ManualUpdateNode(ctx context.Context, tripID, nodeID string, req request_models.ManualNodeUpdateRequest) (*response_models.NodeResponse, error)
	ChangeItinerary(ctx context.Context, req request_models.ChangeNodeRequest) (*response_models.NodeChangeResponse, error)
	MarkAsUnrealized(ctx context.Context, req request_models.UnrealizeNodeRequest) (*response_models.NodeResponse, error)
	LightNode(ctx context.Context, req request_models.LightNodeRequest) (*response_models.LitNodeResponse, error)
}

type NodeService struct {
	nodeRepo      repositories.NodeRepository
	itineraryRepo repositories.ItineraryRepository
	tripLocks     *mem.TripLocks
}

func NewNodeService(
	nodeRepo repositories.NodeRepository,
	itineraryRepo repositories.ItineraryRepository,
	tripLocks *mem.TripLocks,
) NodeServiceInterface {
	return &NodeService{
		nodeRepo:      nodeRepo,
		itineraryRepo: itineraryRepo,
		tripLocks:     tripLocks,
	}
}

// Replacement nodes sit between their parent and the parent's next sibling.
const replacementOrderOffset = 0.5

// getTripNode resolves a node and checks it belongs to the trip's itinerary.
func (s *NodeService) getTripNode(ctx context.Context, tripID, nodeID string) (*dbm.TravelNode, error) {
	tid, err := uuid.Parse(tripID)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}
	nid, err := uuid.Parse(nodeID)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	itinerary, err := s.itineraryRepo.GetByTripId(ctx, tid)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if itinerary == nil {
		return nil, utils.ErrItineraryNotFound
	}

	node, err := s.nodeRepo.GetById(ctx, nid)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if node == nil || node.ItineraryID != itinerary.ID {
		return nil, utils.ErrNodeNotFound
	}
	return node, nil
}

// ManualUpdateNode applies a partial edit. It never touches IsLit or Status;
// those move only through their dedicated transitions.
func (s *NodeService) ManualUpdateNode(ctx context.Context, tripID, nodeID string, req request_models.ManualNodeUpdateRequest) (*response_models.NodeResponse, error) {
	unlock := s.tripLocks.Lock(tripID)
	defer unlock()

	node, err := s.getTripNode(ctx, tripID, nodeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		node.Name = *req.Name
	}
	if req.Type != nil {
		node.NodeType = dbm.NormalizeNodeType(*req.Type)
	}
	if req.Address != nil {
		node.Address = *req.Address
	}
	if req.Description != nil {
		node.Description = *req.Description
	}
	if req.Activity != nil {
		node.Activity = *req.Activity
	}
	if req.TimeSlot != nil {
		node.TimeSlot = *req.TimeSlot
	}
	if req.DurationMinutes != nil && *req.DurationMinutes > 0 {
		node.DurationMinutes = *req.DurationMinutes
	}
	if req.ScheduledTime != nil {
		minutes, ok := utils.ParseClock(*req.ScheduledTime)
		if !ok {
			return nil, utils.ErrInvalidInput
		}
		node.ScheduledTime = utils.ClockLabel(minutes)
	}
	if req.DayIndex != nil {
		if *req.DayIndex < 1 {
			return nil, utils.ErrInvalidInput
		}
		node.DayIndex = *req.DayIndex
	}
	if req.SortOrder != nil {
		node.SortOrder = *req.SortOrder
	}
	if req.Price != nil {
		node.Price = *req.Price
	}
	if req.TicketInfo != nil {
		node.TicketInfo = *req.TicketInfo
	}
	if req.Tips != nil {
		node.Tips = *req.Tips
	}
	if req.TransportMode != nil {
		node.TransportMode = *req.TransportMode
	}
	if req.TransportDuration != nil {
		node.TransportDuration = *req.TransportDuration
	}
	if req.TransportNote != nil {
		node.TransportNote = *req.TransportNote
	}

	if err := s.nodeRepo.Update(ctx, node); err != nil {
		log.Printf("failed to update node %s: %v", nodeID, err)
		return nil, utils.ErrDatabaseError
	}

	resp := nodeResponse(node)
	return &resp, nil
}

// ChangeItinerary replaces a normal node in place: the original becomes
// changed_original (and stays visible in the diary), and a new "changed" node
// is spawned right after it, linked through ParentNodeID.
func (s *NodeService) ChangeItinerary(ctx context.Context, req request_models.ChangeNodeRequest) (*response_models.NodeChangeResponse, error) {
	unlock := s.tripLocks.Lock(req.TripID)
	defer unlock()

	original, err := s.getTripNode(ctx, req.TripID, req.NodeID)
	if err != nil {
		return nil, err
	}
	if original.Status != dbm.NodeStatusNormal {
		return nil, utils.ErrNodeStateFinal
	}

	replacement := &dbm.TravelNode{
		ItineraryID:       original.ItineraryID,
		Name:              req.Replacement.Name,
		NodeType:          dbm.NormalizeNodeType(req.Replacement.Type),
		Address:           req.Replacement.Address,
		Description:       req.Replacement.Description,
		Activity:          req.Replacement.Activity,
		TimeSlot:          req.Replacement.TimeSlot,
		DurationMinutes:   req.Replacement.DurationMinutes,
		ScheduledTime:     req.Replacement.ScheduledTime,
		DayIndex:          original.DayIndex,
		SortOrder:         original.SortOrder + replacementOrderOffset,
		Status:            dbm.NodeStatusChanged,
		ParentNodeID:      original.ID,
		AreaName:          original.AreaName,
		Price:             req.Replacement.Price,
		TicketInfo:        req.Replacement.TicketInfo,
		Tips:              req.Replacement.Tips,
		TransportMode:     req.Replacement.TransportMode,
		TransportDuration: req.Replacement.TransportDuration,
		TransportNote:     req.Replacement.TransportNote,
	}
	replacement.ID = uuid.New()
	if replacement.DurationMinutes <= 0 {
		replacement.DurationMinutes = original.DurationMinutes
	}
	if replacement.ScheduledTime == "" {
		replacement.ScheduledTime = original.ScheduledTime
	}
	if replacement.TimeSlot == "" {
		replacement.TimeSlot = original.TimeSlot
	}

	original.Status = dbm.NodeStatusChangedOriginal
	original.IsLit = true
	original.StatusNote = req.Reason

	if err := s.nodeRepo.SaveChange(ctx, original, replacement); err != nil {
		log.Printf("failed to save change for node %s: %v", req.NodeID, err)
		return nil, utils.ErrDatabaseError
	}

	return &response_models.NodeChangeResponse{
		Original:    nodeResponse(original),
		Replacement: nodeResponse(replacement),
	}, nil
}

// MarkAsUnrealized records that the traveler skipped a node. A lit node was
// experienced and cannot be skipped; a node outside "normal" already left the
// lifecycle.
func (s *NodeService) MarkAsUnrealized(ctx context.Context, req request_models.UnrealizeNodeRequest) (*response_models.NodeResponse, error) {
	unlock := s.tripLocks.Lock(req.TripID)
	defer unlock()

	node, err := s.getTripNode(ctx, req.TripID, req.NodeID)
	if err != nil {
		return nil, err
	}
	if node.IsLit {
		return nil, utils.ErrNodeAlreadyLit
	}
	if node.Status != dbm.NodeStatusNormal {
		return nil, utils.ErrNodeStateFinal
	}

	node.Status = dbm.NodeStatusUnrealized
	node.StatusNote = req.Reason

	if err := s.nodeRepo.Update(ctx, node); err != nil {
		log.Printf("failed to unrealize node %s: %v", req.NodeID, err)
		return nil, utils.ErrDatabaseError
	}

	resp := nodeResponse(node)
	return &resp, nil
}

// LightNode marks a node as experienced. Lighting a "changed" node also loads
// its parent so the diary can show what the stop replaced.
func (s *NodeService) LightNode(ctx context.Context, req request_models.LightNodeRequest) (*response_models.LitNodeResponse, error) {
	unlock := s.tripLocks.Lock(req.TripID)
	defer unlock()

	node, err := s.getTripNode(ctx, req.TripID, req.NodeID)
	if err != nil {
		return nil, err
	}
	if node.IsLit {
		return nil, utils.ErrNodeAlreadyLit
	}
	if node.Status == dbm.NodeStatusUnrealized {
		return nil, utils.ErrNodeStateFinal
	}

	node.IsLit = true
	if req.Note != "" {
		node.StatusNote = req.Note
	}

	if err := s.nodeRepo.Update(ctx, node); err != nil {
		log.Printf("failed to light node %s: %v", req.NodeID, err)
		return nil, utils.ErrDatabaseError
	}

	resp := &response_models.LitNodeResponse{Node: nodeResponse(node)}
	if node.Status == dbm.NodeStatusChanged && node.ParentNodeID != uuid.Nil {
		parent, err := s.nodeRepo.GetById(ctx, node.ParentNodeID)
		if err != nil {
			log.Printf("failed to load parent of node %s: %v", req.NodeID, err)
		} else if parent != nil {
			p := nodeResponse(parent)
			resp.Parent = &p
		}
	}
	return resp, nil
}
