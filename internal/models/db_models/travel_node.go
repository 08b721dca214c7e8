package db_models

import (
	"log"
	"strings"

	"github.com/google/uuid"
)

// NodeType is the closed set of node categories. The generative model emits an
// open vocabulary; NormalizeNodeType maps everything onto these four values.
type NodeType string

const (
	NodeTypeAttraction NodeType = "attraction"
	NodeTypeRestaurant NodeType = "restaurant"
	NodeTypeHotel      NodeType = "hotel"
	NodeTypeTransport  NodeType = "transport"
)

// NodeStatus is the lifecycle state of a node. A node leaves "normal" at most
// once: either it is replaced (changed_original + a spawned "changed" node) or
// skipped (unrealized). Both are terminal for the original node.
type NodeStatus string

const (
	NodeStatusNormal          NodeStatus = "normal"
	NodeStatusChanged         NodeStatus = "changed"
	NodeStatusUnrealized      NodeStatus = "unrealized"
	NodeStatusChangedOriginal NodeStatus = "changed_original"
)

type TravelNode struct {
	BaseModel
	ItineraryID uuid.UUID `gorm:"type:uuid;index"`
	Name        string
	NodeType    NodeType `gorm:"type:varchar(16)"`
	Address     string
	Description string
	Activity    string
	TimeSlot    string
	// DurationMinutes is the estimated stay, ScheduledTime an HH:MM clock label.
	DurationMinutes int
	ScheduledTime   string
	DayIndex        int
	// SortOrder is a fractional gap key: ordering within a day is derived from
	// it at read time, and a change transition inserts the replacement at
	// parent.SortOrder + 0.5 so siblings never renumber.
	SortOrder float64

	Verified   bool
	VerifyNote string
	IsLit      bool
	Status     NodeStatus `gorm:"type:varchar(20)"`
	StatusNote string
	// ParentNodeID links a "changed" node to the changed_original it replaced.
	ParentNodeID uuid.UUID `gorm:"type:uuid"`

	IsStartingPoint bool
	AreaName        string

	Price      string
	TicketInfo string
	Tips       string

	TransportMode     string
	TransportDuration string
	TransportNote     string
}

// nodeTypeSynonyms maps lowercased labels onto canonical types. English and
// Vietnamese equivalents plus the near-synonyms the model actually emits.
var nodeTypeSynonyms = map[string]NodeType{
	"attraction":  NodeTypeAttraction,
	"attractions": NodeTypeAttraction,
	"sight":       NodeTypeAttraction,
	"sightseeing": NodeTypeAttraction,
	"scenic spot": NodeTypeAttraction,
	"landmark":    NodeTypeAttraction,
	"museum":      NodeTypeAttraction,
	"park":        NodeTypeAttraction,
	"shopping":    NodeTypeAttraction,
	"market":      NodeTypeAttraction,
	"activity":    NodeTypeAttraction,
	"địa điểm":    NodeTypeAttraction,
	"tham quan":   NodeTypeAttraction,
	"danh lam":    NodeTypeAttraction,

	"restaurant": NodeTypeRestaurant,
	"food":       NodeTypeRestaurant,
	"dining":     NodeTypeRestaurant,
	"meal":       NodeTypeRestaurant,
	"cafe":       NodeTypeRestaurant,
	"coffee":     NodeTypeRestaurant,
	"bar":        NodeTypeRestaurant,
	"street food": NodeTypeRestaurant,
	"nhà hàng":    NodeTypeRestaurant,
	"quán ăn":     NodeTypeRestaurant,
	"ăn uống":     NodeTypeRestaurant,

	"hotel":         NodeTypeHotel,
	"hotels":        NodeTypeHotel,
	"accommodation": NodeTypeHotel,
	"lodging":       NodeTypeHotel,
	"hostel":        NodeTypeHotel,
	"resort":        NodeTypeHotel,
	"homestay":      NodeTypeHotel,
	"check-in":      NodeTypeHotel,
	"khách sạn":     NodeTypeHotel,
	"nhà nghỉ":      NodeTypeHotel,

	"transport":      NodeTypeTransport,
	"transportation": NodeTypeTransport,
	"transfer":       NodeTypeTransport,
	"transit":        NodeTypeTransport,
	"taxi":           NodeTypeTransport,
	"bus":            NodeTypeTransport,
	"train":          NodeTypeTransport,
	"flight":         NodeTypeTransport,
	"di chuyển":      NodeTypeTransport,
	"xe":             NodeTypeTransport,
}

// NormalizeNodeType is total: any label resolves to a canonical type. Unknown
// labels fall back to attraction and are logged; a single unrecognized label
// must never abort a generation.
func NormalizeNodeType(label string) NodeType {
	key := strings.ToLower(strings.TrimSpace(label))
	if t, ok := nodeTypeSynonyms[key]; ok {
		return t
	}
	if key != "" {
		log.Printf("unrecognized node type %q, defaulting to attraction", label)
	}
	return NodeTypeAttraction
}
