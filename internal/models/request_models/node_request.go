package request_models

// ManualNodeUpdateRequest carries a partial node edit. Nil pointers mean
// "leave unchanged". isLit is deliberately absent: ordinary mutation must
// never reset it.
type ManualNodeUpdateRequest struct {
	Name              *string  `json:"name,omitempty"`
	Type              *string  `json:"type,omitempty"`
	Address           *string  `json:"address,omitempty"`
	Description       *string  `json:"description,omitempty"`
	Activity          *string  `json:"activity,omitempty"`
	TimeSlot          *string  `json:"time_slot,omitempty"`
	DurationMinutes   *int     `json:"duration_minutes,omitempty"`
	ScheduledTime     *string  `json:"scheduled_time,omitempty"`
	DayIndex          *int     `json:"day_index,omitempty"`
	SortOrder         *float64 `json:"sort_order,omitempty"`
	Price             *string  `json:"price,omitempty"`
	TicketInfo        *string  `json:"ticket_info,omitempty"`
	Tips              *string  `json:"tips,omitempty"`
	TransportMode     *string  `json:"transport_mode,omitempty"`
	TransportDuration *string  `json:"transport_duration,omitempty"`
	TransportNote     *string  `json:"transport_note,omitempty"`
}

// ReplacementNode describes the node spawned by a change transition.
type ReplacementNode struct {
	Name              string `json:"name" binding:"required"`
	Type              string `json:"type"`
	Address           string `json:"address"`
	Description       string `json:"description"`
	Activity          string `json:"activity"`
	TimeSlot          string `json:"time_slot"`
	DurationMinutes   int    `json:"duration_minutes"`
	ScheduledTime     string `json:"scheduled_time"`
	Price             string `json:"price"`
	TicketInfo        string `json:"ticket_info"`
	Tips              string `json:"tips"`
	TransportMode     string `json:"transport_mode"`
	TransportDuration string `json:"transport_duration"`
	TransportNote     string `json:"transport_note"`
}

type ChangeNodeRequest struct {
	TripID      string          `json:"trip_id" binding:"required"`
	NodeID      string          `json:"node_id" binding:"required"`
	Reason      string          `json:"reason"`
	Replacement ReplacementNode `json:"replacement" binding:"required"`
}

type UnrealizeNodeRequest struct {
	TripID string `json:"trip_id" binding:"required"`
	NodeID string `json:"node_id" binding:"required"`
	Reason string `json:"reason"`
}

type LightNodeRequest struct {
	TripID string `json:"trip_id" binding:"required"`
	NodeID string `json:"node_id" binding:"required"`
	Note   string `json:"note"`
}
