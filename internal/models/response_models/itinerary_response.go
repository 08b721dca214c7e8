package response_models

type NodeResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Type              string  `json:"type"`
	Address           string  `json:"address,omitempty"`
	Description       string  `json:"description,omitempty"`
	Activity          string  `json:"activity,omitempty"`
	TimeSlot          string  `json:"time_slot,omitempty"`
	DurationMinutes   int     `json:"duration_minutes"`
	ScheduledTime     string  `json:"scheduled_time"`
	DayIndex          int     `json:"day_index"`
	SortOrder         float64 `json:"sort_order"`
	Verified          bool    `json:"verified"`
	VerifyNote        string  `json:"verify_note,omitempty"`
	IsLit             bool    `json:"is_lit"`
	Status            string  `json:"status"`
	StatusNote        string  `json:"status_note,omitempty"`
	ParentNodeID      string  `json:"parent_node_id,omitempty"`
	IsStartingPoint   bool    `json:"is_starting_point,omitempty"`
	AreaName          string  `json:"area_name,omitempty"`
	Price             string  `json:"price,omitempty"`
	TicketInfo        string  `json:"ticket_info,omitempty"`
	Tips              string  `json:"tips,omitempty"`
	TransportMode     string  `json:"transport_mode,omitempty"`
	TransportDuration string  `json:"transport_duration,omitempty"`
	TransportNote     string  `json:"transport_note,omitempty"`
}

type DayPlanResponse struct {
	Day   int            `json:"day"`
	Nodes []NodeResponse `json:"nodes"`
}

type ItineraryResponse struct {
	ID          string            `json:"id"`
	TripID      string            `json:"trip_id"`
	Destination string            `json:"destination"`
	TotalDays   int               `json:"total_days"`
	StartDate   string            `json:"start_date,omitempty"`
	Preferences []string          `json:"preferences,omitempty"`
	UpdatedAt   int64             `json:"updated_at"`
	Days        []DayPlanResponse `json:"days"`
}

// ItineraryChatResponse is the conversational mutation result: the (possibly
// unchanged) itinerary plus the assistant's reply text.
type ItineraryChatResponse struct {
	Itinerary *ItineraryResponse `json:"itinerary"`
	Reply     string             `json:"reply"`
}

// NodeChangeResponse returns both sides of a change transition.
type NodeChangeResponse struct {
	Original    NodeResponse `json:"original"`
	Replacement NodeResponse `json:"replacement"`
}

// LitNodeResponse carries the lit node and, for a changed node, its parent's
// context for narrative continuity.
type LitNodeResponse struct {
	Node   NodeResponse  `json:"node"`
	Parent *NodeResponse `json:"parent,omitempty"`
}
