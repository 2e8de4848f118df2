package models

// Negotiation styles a souvenir guide may report.
const (
	NegotiationFixed      = "Fixed Price"
	NegotiationCasual     = "Casual Bargaining"
	NegotiationAggressive = "Aggressive Bargaining"
)

type Souvenir struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	PriceRange      string `json:"priceRange"`
	AuthenticityTip string `json:"authenticityTip"`
}

type CollectibleStamp struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type SouvenirGuide struct {
	Items             []Souvenir         `json:"items"`
	NegotiationStyle  string             `json:"negotiationStyle"`
	NegotiationTips   []string           `json:"negotiationTips"`
	RestrictedItems   []string           `json:"restrictedItems"`
	CollectibleStamps []CollectibleStamp `json:"collectibleStamps"`
	Coordinates       *Coordinates       `json:"coordinates,omitempty"`
}

// ScoutRequest starts a souvenir scouting session.
type ScoutRequest struct {
	Destination string `json:"destination" validate:"required,notblank,max=120"`
	Budget      string `json:"budget" validate:"omitempty,oneof='Budget ($)' 'Moderate ($$)' 'Splurge ($$$)'"`
	Duration    string `json:"duration" validate:"omitempty,oneof=Day Weekend Week Extended"`
}
