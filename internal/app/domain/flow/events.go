package flow

import "time"

// EventType names the notifications a Controller emits.
type EventType string

const (
	EventPhaseChanged        EventType = "phase_changed"
	EventMessageIndexChanged EventType = "message_index_changed"
	EventFailed              EventType = "failed"
	EventCompleted           EventType = "completed"
)

// Event is a snapshot pushed to subscribers on every transition.
// Payload is set only on EventCompleted, Err only on EventFailed.
type Event[T any] struct {
	Type         EventType          `json:"type"`
	Generation   uint64             `json:"generation"`
	Phase        Phase              `json:"phase"`
	MessageIndex int                `json:"message_index"`
	Message      string             `json:"message,omitempty"`
	Target       *TargetCoordinates `json:"target,omitempty"`
	Payload      *T                 `json:"payload,omitempty"`
	Err          error              `json:"-"`
	Timestamp    time.Time          `json:"timestamp"`
}

// Terminal reports whether no further events follow for this generation.
func (e Event[T]) Terminal() bool {
	return e.Type == EventCompleted || e.Type == EventFailed
}

// Listener receives controller events. It is called with the controller
// locked, so it must not block or call back into the controller.
type Listener[T any] func(Event[T])

// Query is the opaque request a flow resolves. Destination is the primary
// field and must not be blank.
type Query struct {
	Destination string
	Params      map[string]string
}

// Result is what the resolver hands back on success.
type Result[T any] struct {
	Coordinates *LatLng
	Payload     T
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Generation   uint64             `json:"generation"`
	Phase        Phase              `json:"phase"`
	MessageIndex int                `json:"message_index"`
	Message      string             `json:"message,omitempty"`
	Target       *TargetCoordinates `json:"target,omitempty"`
}
