package services

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	dbm "waylit/internal/models/db_models"
	"waylit/internal/models/response_models"
	"waylit/pkg/utils"
)

// FlexInt tolerates the model emitting numbers as strings ("90", "90 min"),
// floats, or null. Anything unusable decodes to zero and is defaulted later.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}
	var fl float64
	if err := json.Unmarshal(data, &fl); err == nil {
		*f = FlexInt(int(fl))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexInt(leadingInt(s))
		return nil
	}
	*f = 0
	return nil
}

// FlexFloat is FlexInt's counterpart for the fractional order field.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	var fl float64
	if err := json.Unmarshal(data, &fl); err == nil {
		*f = FlexFloat(fl)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*f = FlexFloat(v)
			return nil
		}
	}
	*f = 0
	return nil
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}

// GeneratedNodeDraft is the model's proposed node, unchecked: the type and
// time-slot labels are free text and the numerics may be absent or malformed.
// Drafts exist only between model response and normalization.
type GeneratedNodeDraft struct {
	Name              string    `json:"name"`
	Type              string    `json:"type"`
	Address           string    `json:"address"`
	Description       string    `json:"description"`
	Activity          string    `json:"activity"`
	TimeSlot          string    `json:"timeSlot"`
	DurationMinutes   FlexInt   `json:"durationMinutes"`
	Time              string    `json:"time"`
	Day               FlexInt   `json:"day"`
	Order             FlexFloat `json:"order"`
	Price             string    `json:"price"`
	TicketInfo        string    `json:"ticketInfo"`
	Tips              string    `json:"tips"`
	TransportMode     string    `json:"transportMode"`
	TransportDuration string    `json:"transportDuration"`
	TransportNote     string    `json:"transportNote"`
	IsStartingPoint   bool      `json:"isStartingPoint"`
	AreaName          string    `json:"areaName"`
}

const (
	defaultDurationMinutes = 60
	defaultScheduledTime   = "09:00"
)

// buildNodesFromDrafts turns drafts into canonical nodes: type resolution,
// field defaults, (day, order) uniqueness, and provider verification backfill
// when the draft's name matches a listed POI verbatim. knownPOIs may be nil
// (AI-only path and conversational rebuild), in which case nothing is marked
// verified.
func buildNodesFromDrafts(drafts []GeneratedNodeDraft, totalDays int, knownPOIs map[string]CandidatePOI) []dbm.TravelNode {
	nodes := make([]dbm.TravelNode, 0, len(drafts))
	maxOrder := make(map[int]float64)
	taken := make(map[int]map[float64]bool)

	for _, d := range drafts {
		if strings.TrimSpace(d.Name) == "" {
			continue
		}

		day := int(d.Day)
		if day < 1 {
			day = 1
		}
		if totalDays > 0 && day > totalDays {
			day = totalDays
		}

		order := float64(d.Order)
		if order <= 0 {
			order = maxOrder[day] + 1
		}
		if taken[day] == nil {
			taken[day] = make(map[float64]bool)
		}
		for taken[day][order] {
			order = maxOrder[day] + 1
		}
		taken[day][order] = true
		if order > maxOrder[day] {
			maxOrder[day] = order
		}

		duration := int(d.DurationMinutes)
		if duration <= 0 {
			duration = defaultDurationMinutes
		}
		// The model may emit non-padded clocks ("9:30"); store the
		// canonical label.
		scheduled := defaultScheduledTime
		if minutes, ok := utils.ParseClock(strings.TrimSpace(d.Time)); ok {
			scheduled = utils.ClockLabel(minutes)
		}

		node := dbm.TravelNode{
			ItineraryID:       uuid.Nil,
			Name:              d.Name,
			NodeType:          dbm.NormalizeNodeType(d.Type),
			Address:           d.Address,
			Description:       d.Description,
			Activity:          d.Activity,
			TimeSlot:          d.TimeSlot,
			DurationMinutes:   duration,
			ScheduledTime:     scheduled,
			DayIndex:          day,
			SortOrder:         order,
			Status:            dbm.NodeStatusNormal,
			Price:             d.Price,
			TicketInfo:        d.TicketInfo,
			Tips:              d.Tips,
			TransportMode:     d.TransportMode,
			TransportDuration: d.TransportDuration,
			TransportNote:     d.TransportNote,
			IsStartingPoint:   d.IsStartingPoint,
			AreaName:          d.AreaName,
		}
		node.ID = uuid.New()

		if poi, ok := knownPOIs[d.Name]; ok {
			node.Address = poi.Address
			if poi.Description != "" {
				node.Description = poi.Description
			}
			node.Verified = true
			node.VerifyNote = "matched provider listing"
		}

		nodes = append(nodes, node)
	}

	return nodes
}

func nodeResponse(n *dbm.TravelNode) response_models.NodeResponse {
	parent := ""
	if n.ParentNodeID != uuid.Nil {
		parent = n.ParentNodeID.String()
	}
	return response_models.NodeResponse{
		ID:                n.ID.String(),
		Name:              n.Name,
		Type:              string(n.NodeType),
		Address:           n.Address,
		Description:       n.Description,
		Activity:          n.Activity,
		TimeSlot:          n.TimeSlot,
		DurationMinutes:   n.DurationMinutes,
		ScheduledTime:     n.ScheduledTime,
		DayIndex:          n.DayIndex,
		SortOrder:         n.SortOrder,
		Verified:          n.Verified,
		VerifyNote:        n.VerifyNote,
		IsLit:             n.IsLit,
		Status:            string(n.Status),
		StatusNote:        n.StatusNote,
		ParentNodeID:      parent,
		IsStartingPoint:   n.IsStartingPoint,
		AreaName:          n.AreaName,
		Price:             n.Price,
		TicketInfo:        n.TicketInfo,
		Tips:              n.Tips,
		TransportMode:     n.TransportMode,
		TransportDuration: n.TransportDuration,
		TransportNote:     n.TransportNote,
	}
}

// renderItineraryResponse derives the day-by-day ordering from
// (DayIndex, SortOrder) at read time.
func renderItineraryResponse(it *dbm.Itinerary, nodes []dbm.TravelNode) *response_models.ItineraryResponse {
	sorted := make([]dbm.TravelNode, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DayIndex != sorted[j].DayIndex {
			return sorted[i].DayIndex < sorted[j].DayIndex
		}
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	var days []response_models.DayPlanResponse
	for i := range sorted {
		n := &sorted[i]
		if len(days) == 0 || days[len(days)-1].Day != n.DayIndex {
			days = append(days, response_models.DayPlanResponse{Day: n.DayIndex})
		}
		last := &days[len(days)-1]
		last.Nodes = append(last.Nodes, nodeResponse(n))
	}

	return &response_models.ItineraryResponse{
		ID:          it.ID.String(),
		TripID:      it.TripID.String(),
		Destination: it.Destination,
		TotalDays:   it.TotalDays,
		StartDate:   utils.FormatDate(it.StartDate),
		Preferences: it.PreferenceList(),
		UpdatedAt:   it.UpdatedAt,
		Days:        days,
	}
}
