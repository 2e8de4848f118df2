package models

import (
	"time"

	"github.com/google/uuid"
)

// Budget levels accepted by the itinerary planner.
const (
	BudgetLow      = "Budget"
	BudgetModerate = "Moderate"
	BudgetLuxury   = "Luxury"
)

// InterestOffbeat switches the planner prompt to hidden gems.
const InterestOffbeat = "Offbeat"

// Coordinates is an estimated GPS position returned by the model.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Activity struct {
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	Time               string       `json:"time"`
	Category           string       `json:"category"`
	LocationHint       string       `json:"locationHint,omitempty"`
	OpeningHours       string       `json:"openingHours,omitempty"`
	Duration           string       `json:"duration,omitempty"`
	Price              string       `json:"price,omitempty"`
	PackingSuggestions []string     `json:"packingSuggestions,omitempty"`
	Coordinates        *Coordinates `json:"coordinates,omitempty"`
}

type DayPlan struct {
	Day        int        `json:"day"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
}

type BudgetBreakdown struct {
	Accommodation  float64 `json:"accommodation"`
	Food           float64 `json:"food"`
	Activities     float64 `json:"activities"`
	Transport      float64 `json:"transport"`
	Misc           float64 `json:"misc"`
	Currency       string  `json:"currency"`
	TotalEstimated float64 `json:"totalEstimated"`
}

type TripItinerary struct {
	TripName        string          `json:"tripName"`
	Destination     string          `json:"destination"`
	Summary         string          `json:"summary"`
	Days            []DayPlan       `json:"days"`
	BudgetBreakdown BudgetBreakdown `json:"budgetBreakdown"`
}

// TripPreferences is the planner form.
type TripPreferences struct {
	Destination string   `json:"destination" validate:"required,notblank,max=120"`
	TravelMonth string   `json:"travelMonth" validate:"required,month"`
	Duration    int      `json:"duration" validate:"required,min=1,max=30"`
	Travelers   string   `json:"travelers" validate:"required,oneof=Solo Couple Family Friends"`
	Budget      string   `json:"budget" validate:"required,oneof=Budget Moderate Luxury"`
	Interests   []string `json:"interests" validate:"dive,oneof=Food History Nature Art Shopping Relaxation Nightlife Adventure Offbeat"`
}

// PlannedTrip is an itinerary plus the companion data fetched alongside it.
type PlannedTrip struct {
	Itinerary    TripItinerary `json:"itinerary"`
	LanguageTips []LanguageTip `json:"languageTips"`
	Currencies   []string      `json:"currencies"`
}

type LanguageTip struct {
	Phrase        string `json:"phrase"`
	Pronunciation string `json:"pronunciation"`
	Meaning       string `json:"meaning"`
}

// HistoryEntry is a saved itinerary owned by a client.
type HistoryEntry struct {
	ID          uuid.UUID     `json:"id"`
	ClientID    uuid.UUID     `json:"clientId"`
	Destination string        `json:"destination"`
	TripName    string        `json:"tripName"`
	Days        int           `json:"days"`
	Itinerary   TripItinerary `json:"itinerary"`
	CreatedAt   time.Time     `json:"createdAt"`
}
