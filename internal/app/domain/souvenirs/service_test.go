package souvenirs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-wander/internal/app/domain/flow"
	"github.com/FACorreiaa/go-wander/internal/app/domain/theme"
	"github.com/FACorreiaa/go-wander/internal/app/handlers"
	"github.com/FACorreiaa/go-wander/internal/app/models"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeGenerator answers souvenir prompts through fn. It is safe for the
// resolver goroutines the controller spawns.
type fakeGenerator struct {
	calls atomic.Int32
	fn    func(ctx context.Context, prompt string, out *models.SouvenirGuide) error
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, _, prompt string, _ *genai.Schema, out any) error {
	f.calls.Add(1)
	return f.fn(ctx, prompt, out.(*models.SouvenirGuide))
}

func (f *fakeGenerator) Chat(context.Context, string) (string, error) { return "", nil }

func guideFor(name string) models.SouvenirGuide {
	return models.SouvenirGuide{
		Items:            []models.Souvenir{{Name: name, Category: "Traditional"}},
		NegotiationStyle: models.NegotiationCasual,
		NegotiationTips:  []string{"Smile"},
		Coordinates:      &models.Coordinates{Lat: -8.34, Lng: 115.09},
	}
}

func returning(g models.SouvenirGuide) *fakeGenerator {
	return &fakeGenerator{fn: func(_ context.Context, _ string, out *models.SouvenirGuide) error {
		*out = g
		return nil
	}}
}

func newTestService(gen *fakeGenerator) (*ServiceImpl, *flow.ManualClock) {
	clock := flow.NewManualClock(epoch)
	svc := NewService(gen, theme.NewSelector(), flow.DefaultConfig(), time.Minute, zap.NewNop(), WithClock(clock))
	return svc, clock
}

// runToCompletion walks a started session through the default choreography.
func runToCompletion(t *testing.T, sess *Session, clock *flow.ManualClock) {
	t.Helper()
	clock.Advance(2500 * time.Millisecond)
	require.Eventually(t, func() bool {
		return sess.controller.Snapshot().Phase == flow.PhaseResolvingTarget
	}, time.Second, 5*time.Millisecond)
	clock.Advance(1500*time.Millisecond + 100*time.Millisecond + 2000*time.Millisecond + 5000*time.Millisecond)
}

func eventTypes(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestScout_CompletesWithGuide(t *testing.T) {
	gen := returning(guideFor("Batik sarong"))
	svc, clock := newTestService(gen)
	clientID := uuid.New()

	sess, err := svc.Scout(context.Background(), clientID, models.ScoutRequest{Destination: "Bali"})
	require.NoError(t, err)

	view := sess.View()
	assert.Equal(t, theme.Tropical, view.Palette.Name)
	assert.Equal(t, defaultBudget, view.Budget)
	assert.Equal(t, defaultDuration, view.Duration)
	assert.Equal(t, flow.PhasePreparing, view.Flow.Phase)

	runToCompletion(t, sess, clock)

	view = sess.View()
	assert.Equal(t, flow.PhaseComplete, view.Flow.Phase)
	require.NotNil(t, view.Guide)
	assert.Equal(t, "Batik sarong", view.Guide.Items[0].Name)
	assert.Empty(t, view.Error)
	require.NotNil(t, view.Flow.Target)
	assert.InDelta(t, 81.97, view.Flow.Target.X, 0.01)

	events, _, closed := sess.Since(0)
	assert.False(t, closed)
	types := eventTypes(events)
	assert.Equal(t, EventThemeChanged, types[0])
	assert.Equal(t, string(flow.EventCompleted), types[len(types)-1])
	for i, e := range events {
		assert.Equal(t, i, e.Seq)
	}

	var phases []flow.Phase
	for _, e := range events {
		if e.Type == string(flow.EventPhaseChanged) {
			phases = append(phases, e.Phase)
		}
	}
	assert.Equal(t, flow.Sequence, phases)
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestScout_FailureReportsConnectionLost(t *testing.T) {
	gen := &fakeGenerator{fn: func(context.Context, string, *models.SouvenirGuide) error {
		return models.ErrUnavailable
	}}
	svc, _ := newTestService(gen)

	sess, err := svc.Scout(context.Background(), uuid.Nil, models.ScoutRequest{Destination: "Cairo", Budget: "Splurge ($$$)", Duration: "Day"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return sess.View().Flow.Phase == flow.PhaseFailed
	}, time.Second, 5*time.Millisecond)

	view := sess.View()
	assert.Equal(t, handlers.MsgConnectionLost, view.Error)
	assert.Nil(t, view.Guide)

	events, _, _ := sess.Since(0)
	last := events[len(events)-1]
	assert.Equal(t, string(flow.EventFailed), last.Type)
	assert.True(t, last.Terminal())
}

func TestScout_EmptyGuideFails(t *testing.T) {
	svc, _ := newTestService(returning(models.SouvenirGuide{}))

	sess, err := svc.Scout(context.Background(), uuid.Nil, models.ScoutRequest{Destination: "Lima"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return sess.View().Error == handlers.MsgConnectionLost
	}, time.Second, 5*time.Millisecond)
}

func TestScout_Validation(t *testing.T) {
	svc, _ := newTestService(returning(guideFor("x")))

	_, err := svc.Scout(context.Background(), uuid.Nil, models.ScoutRequest{Destination: "   "})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Scout(context.Background(), uuid.Nil, models.ScoutRequest{Destination: "Oslo", Budget: "Free"})
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.Equal(t, 0, svc.sessions.ItemCount())
}

func TestRescout_DiscardsPreviousGeneration(t *testing.T) {
	release := make(chan struct{})
	gen := &fakeGenerator{fn: func(_ context.Context, prompt string, out *models.SouvenirGuide) error {
		if strings.Contains(prompt, "Paris") {
			<-release
			*out = guideFor("Beret")
			return nil
		}
		*out = guideFor("Matcha whisk")
		return nil
	}}
	svc, clock := newTestService(gen)
	clientID := uuid.New()

	sess, err := svc.Scout(context.Background(), clientID, models.ScoutRequest{Destination: "Paris"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return gen.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	_, err = svc.Rescout(context.Background(), clientID, sess.ID, models.ScoutRequest{Destination: "Tokyo"})
	require.NoError(t, err)
	assert.Equal(t, theme.Urban, sess.View().Palette.Name)
	close(release)

	runToCompletion(t, sess, clock)

	view := sess.View()
	assert.Equal(t, uint64(2), view.Flow.Generation)
	require.NotNil(t, view.Guide)
	assert.Equal(t, "Matcha whisk", view.Guide.Items[0].Name)
	assert.Equal(t, "Tokyo", view.Destination)

	events, _, _ := sess.Since(0)
	for _, e := range events {
		if e.Type == string(flow.EventCompleted) {
			assert.Equal(t, uint64(2), e.Generation)
		}
	}
}

func TestGetAndCancel(t *testing.T) {
	svc, _ := newTestService(returning(guideFor("x")))
	owner := uuid.New()

	sess, err := svc.Scout(context.Background(), owner, models.ScoutRequest{Destination: "Oslo"})
	require.NoError(t, err)

	_, err = svc.Get(uuid.New(), sess.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err := svc.Get(owner, sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, svc.Cancel(owner, sess.ID))
	_, err = svc.Get(owner, sess.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, _, closed := sess.Since(0)
	assert.True(t, closed)
	assert.Equal(t, flow.PhaseIdle, sess.controller.Snapshot().Phase)
}

func TestGet_SessionWithoutOwnerIsNotShared(t *testing.T) {
	svc, _ := newTestService(returning(guideFor("x")))

	sess, err := svc.Scout(context.Background(), uuid.Nil, models.ScoutRequest{Destination: "Oslo"})
	require.NoError(t, err)

	_, err = svc.Get(uuid.New(), sess.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, svc.Cancel(uuid.New(), sess.ID), models.ErrNotFound)

	got, err := svc.Get(uuid.Nil, sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestSession_SinceWakesOnAppend(t *testing.T) {
	svc, _ := newTestService(returning(guideFor("x")))
	sess, err := svc.Scout(context.Background(), uuid.Nil, models.ScoutRequest{Destination: "Oslo"})
	require.NoError(t, err)

	events, changed, _ := sess.Since(0)
	sess.record(Event{Type: "custom"})

	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatal("changed channel was not closed")
	}
	more, _, _ := sess.Since(len(events))
	require.Len(t, more, 1)
	assert.Equal(t, "custom", more[0].Type)
}

func newRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, zap.NewNop())
	r := gin.New()
	r.POST("/api/souvenirs/scout", h.Scout)
	r.GET("/api/souvenirs/sessions/:id", h.GetSession)
	r.POST("/api/souvenirs/sessions/:id/scout", h.Rescout)
	r.GET("/api/souvenirs/sessions/:id/events", h.StreamEvents)
	r.DELETE("/api/souvenirs/sessions/:id", h.CancelSession)
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_ScoutStreamAndCancel(t *testing.T) {
	svc, clock := newTestService(returning(guideFor("Troll figurine")))
	r := newRouter(svc)

	w := serve(r, http.MethodPost, "/api/souvenirs/scout", `{"destination":"Bergen, Norway","budget":"Budget ($)","duration":"Weekend"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var view View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, theme.Forest, view.Palette.Name)
	assert.Equal(t, "/api/souvenirs/sessions/"+view.ID.String(), w.Header().Get("Location"))

	sess, err := svc.Get(uuid.Nil, view.ID)
	require.NoError(t, err)
	runToCompletion(t, sess, clock)

	w = serve(r, http.MethodGet, "/api/souvenirs/sessions/"+view.ID.String()+"/events", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "id:0\n")
	assert.Contains(t, body, "event:theme_changed\n")
	assert.Contains(t, body, "event:completed\n")
	assert.Contains(t, body, "Troll figurine")

	w = serve(r, http.MethodGet, "/api/souvenirs/sessions/"+view.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"phase":"complete"`)

	w = serve(r, http.MethodDelete, "/api/souvenirs/sessions/"+view.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(r, http.MethodGet, "/api/souvenirs/sessions/"+view.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_BadInput(t *testing.T) {
	svc, _ := newTestService(returning(guideFor("x")))
	r := newRouter(svc)

	w := serve(r, http.MethodGet, "/api/souvenirs/sessions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/api/souvenirs/scout", `{"destination":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodGet, "/api/souvenirs/sessions/"+uuid.NewString()+"/events", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
