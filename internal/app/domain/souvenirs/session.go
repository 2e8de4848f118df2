package souvenirs

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-wander/internal/app/domain/flow"
	"github.com/FACorreiaa/go-wander/internal/app/domain/theme"
	"github.com/FACorreiaa/go-wander/internal/app/handlers"
	"github.com/FACorreiaa/go-wander/internal/app/models"
)

// EventThemeChanged is logged when a new destination switches the palette.
const EventThemeChanged = "theme_changed"

// Event is one entry of a session's log, in the shape sent over SSE.
type Event struct {
	Seq          int                     `json:"seq"`
	Type         string                  `json:"type"`
	Generation   uint64                  `json:"generation"`
	Phase        flow.Phase              `json:"phase"`
	MessageIndex int                     `json:"messageIndex"`
	Message      string                  `json:"message,omitempty"`
	Target       *flow.TargetCoordinates `json:"target,omitempty"`
	Guide        *models.SouvenirGuide   `json:"guide,omitempty"`
	Palette      string                  `json:"palette,omitempty"`
	Error        string                  `json:"error,omitempty"`
	Timestamp    time.Time               `json:"timestamp"`
}

// Terminal reports whether the event ends its generation.
func (e Event) Terminal() bool {
	return e.Type == string(flow.EventCompleted) || e.Type == string(flow.EventFailed)
}

// Session is one scouting run: a flow controller, its theme context and the
// log of everything the controller emitted.
type Session struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	CreatedAt time.Time

	controller *flow.Controller[models.SouvenirGuide]
	theme      *theme.Context
	detach     []func()

	mu      sync.Mutex
	request models.ScoutRequest
	events  []Event
	changed chan struct{}
	guide   *models.SouvenirGuide
	failure string
	closed  bool
}

// View is the read model returned by the HTTP layer.
type View struct {
	ID          uuid.UUID             `json:"id"`
	Destination string                `json:"destination"`
	Budget      string                `json:"budget"`
	Duration    string                `json:"duration"`
	Palette     theme.Palette         `json:"palette"`
	Flow        flow.Snapshot         `json:"flow"`
	Guide       *models.SouvenirGuide `json:"guide,omitempty"`
	Error       string                `json:"error,omitempty"`
	Events      int                   `json:"events"`
	CreatedAt   time.Time             `json:"createdAt"`
}

func newSession(clientID uuid.UUID, req models.ScoutRequest, tc *theme.Context, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		ClientID:  clientID,
		CreatedAt: now,
		theme:     tc,
		request:   req,
		changed:   make(chan struct{}),
	}
}

// onFlowEvent runs with the controller locked. It only touches session state.
func (s *Session) onFlowEvent(ev flow.Event[models.SouvenirGuide]) {
	e := Event{
		Type:         string(ev.Type),
		Generation:   ev.Generation,
		Phase:        ev.Phase,
		MessageIndex: ev.MessageIndex,
		Message:      ev.Message,
		Target:       ev.Target,
		Guide:        ev.Payload,
		Timestamp:    ev.Timestamp,
	}
	if ev.Type == flow.EventFailed {
		e.Error = handlers.MsgConnectionLost
	}
	s.record(e)
}

func (s *Session) onThemeChange(ch theme.Change) {
	s.record(Event{
		Type:      EventThemeChanged,
		Palette:   ch.Current.Name,
		Timestamp: time.Now(),
	})
}

func (s *Session) record(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	e.Seq = len(s.events)
	s.events = append(s.events, e)
	switch e.Type {
	case string(flow.EventCompleted):
		s.guide = e.Guide
		s.failure = ""
	case string(flow.EventFailed):
		s.guide = nil
		s.failure = e.Error
	}

	close(s.changed)
	s.changed = make(chan struct{})
}

// Since returns the events from seq onwards, a channel closed on the next
// append, and whether the session has been closed.
func (s *Session) Since(seq int) ([]Event, <-chan struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Event
	if seq < len(s.events) {
		out = append(out, s.events[max(seq, 0):]...)
	}
	return out, s.changed, s.closed
}

func (s *Session) restart(req models.ScoutRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.request = req
	s.guide = nil
	s.failure = ""
}

// View reads the controller first so the session lock is never held while
// taking the controller lock.
func (s *Session) View() View {
	snap := s.controller.Snapshot()
	palette := s.theme.Current()

	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:          s.ID,
		Destination: s.request.Destination,
		Budget:      s.request.Budget,
		Duration:    s.request.Duration,
		Palette:     palette,
		Flow:        snap,
		Guide:       s.guide,
		Error:       s.failure,
		Events:      len(s.events),
		CreatedAt:   s.CreatedAt,
	}
}

func (s *Session) close() {
	s.controller.Cancel()
	for _, fn := range s.detach {
		fn()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.changed)
}
