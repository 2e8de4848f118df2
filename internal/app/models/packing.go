package models

type PackingCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type PackingRequest struct {
	Destination string `json:"destination" validate:"required,notblank,max=120"`
	Month       string `json:"month" validate:"required,month"`
	TravelType  string `json:"type" validate:"required,oneof=Business Leisure Adventure Family"`
}

type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Reason string `json:"reason"`
}

type PlaylistRequest struct {
	Destination string `json:"destination" validate:"required,notblank,max=120"`
	Vibe        string `json:"vibe" validate:"required,oneof=Chill Upbeat Romantic Underground Classic Electronic Folk Jazz"`
}
