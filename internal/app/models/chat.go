package models

const (
	RoleUser  = "user"
	RoleModel = "model"
)

type ChatMessage struct {
	Role string `json:"role" validate:"required,oneof=user model"`
	Text string `json:"text"`
}

// ChatRequest asks the concierge a question about a trip in progress.
type ChatRequest struct {
	Message     string        `json:"message" validate:"required,notblank,max=2000"`
	Destination string        `json:"destination" validate:"required,notblank"`
	Summary     string        `json:"summary"`
	History     []ChatMessage `json:"history" validate:"dive"`
}

type ChatReply struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
