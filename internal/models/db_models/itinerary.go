package db_models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Itinerary is one trip's plan header. Its node set lives in travel_nodes and
// is recreated wholesale on every successful generation or mutation; node
// ordering is derived at read time from (DayIndex, SortOrder), never stored as
// a sequence.
type Itinerary struct {
	BaseModel
	TripID      uuid.UUID `gorm:"type:uuid;index"`
	Destination string
	TotalDays   int
	StartDate   *time.Time
	// Preferences is an append-only JSON string array of preference phrases
	// extracted during conversational mutation.
	Preferences string
}

func (i *Itinerary) PreferenceList() []string {
	if i.Preferences == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(i.Preferences), &out); err != nil {
		return nil
	}
	return out
}

func (i *Itinerary) AppendPreference(pref string) {
	if pref == "" {
		return
	}
	list := append(i.PreferenceList(), pref)
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	i.Preferences = string(raw)
}
