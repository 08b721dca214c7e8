package request_models

import "time"

// SearchConditions is the immutable preference bundle captured at destination
// selection. Tag slices are free-form preference labels; budget/style are
// coarse hotel filters; arrival/departure are "HH:MM" clock labels.
type SearchConditions struct {
	GeoPreferences      []string   `json:"geo_preferences"`
	ClimatePreferences  []string   `json:"climate_preferences"`
	FoodPreferences     []string   `json:"food_preferences"`
	ActivityPreferences []string   `json:"activity_preferences"`
	BudgetLevel         string     `json:"budget_level,omitempty"`
	HotelStyle          string     `json:"hotel_style,omitempty"`
	StartDate           *time.Time `json:"start_date,omitempty"`
	TripDays            int        `json:"trip_days"`
	ArrivalTime         string     `json:"arrival_time,omitempty"`
	DepartureTime       string     `json:"departure_time,omitempty"`
}

type GenerateItineraryRequest struct {
	TripID      string           `json:"trip_id" binding:"required"`
	Destination string           `json:"destination" binding:"required"`
	Days        int              `json:"days" binding:"required,min=1"`
	Conditions  SearchConditions `json:"conditions"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type UpdateItineraryRequest struct {
	TripID  string     `json:"trip_id" binding:"required"`
	Message string     `json:"message" binding:"required"`
	History []ChatTurn `json:"history"`
}
