// Package souvenirs runs souvenir scouting sessions. Each session drives a
// phased flow whose single resolver call asks the model for a souvenir guide.
package souvenirs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/app/domain/flow"
	"github.com/FACorreiaa/go-wander/internal/app/domain/theme"
	"github.com/FACorreiaa/go-wander/internal/app/models"
	"github.com/FACorreiaa/go-wander/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-wander/internal/pkg/llm"
	"github.com/FACorreiaa/go-wander/internal/pkg/validate"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Scout(ctx context.Context, clientID uuid.UUID, req models.ScoutRequest) (*Session, error)
	Rescout(ctx context.Context, clientID, id uuid.UUID, req models.ScoutRequest) (*Session, error)
	Get(clientID, id uuid.UUID) (*Session, error)
	Cancel(clientID, id uuid.UUID) error
}

type ServiceImpl struct {
	llm      llm.Generator
	selector *theme.Selector
	flowCfg  flow.Config
	clock    flow.Clock
	sessions *gocache.Cache
	logger   *zap.Logger
}

type Option func(*ServiceImpl)

// WithClock replaces the wall clock driving every session's flow.
func WithClock(c flow.Clock) Option {
	return func(s *ServiceImpl) { s.clock = c }
}

// NewService keeps each session for ttl after its last access.
func NewService(gen llm.Generator, selector *theme.Selector, cfg flow.Config, ttl time.Duration, logger *zap.Logger, opts ...Option) *ServiceImpl {
	s := &ServiceImpl{
		llm:      gen,
		selector: selector,
		flowCfg:  cfg,
		clock:    flow.WallClock(),
		sessions: gocache.New(ttl, max(ttl/4, time.Second)),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions.OnEvicted(func(key string, v any) {
		sess, ok := v.(*Session)
		if !ok {
			return
		}
		sess.close()
		metrics.Get().ActiveSessionsGauge.Add(context.Background(), -1)
		s.logger.Debug("Souvenir session closed", zap.String("session_id", key))
	})
	return s
}

func (s *ServiceImpl) Scout(ctx context.Context, clientID uuid.UUID, req models.ScoutRequest) (*Session, error) {
	ctx, span := otel.Tracer("SouvenirService").Start(ctx, "Scout", trace.WithAttributes(
		attribute.String("destination", req.Destination),
	))
	defer span.End()

	req, err := normalize(req)
	if err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}

	sess := newSession(clientID, req, theme.NewContext(s.selector), s.clock.Now())
	l := s.logger.With(zap.String("session_id", sess.ID.String()))

	sess.controller = flow.New[models.SouvenirGuide](
		flow.ResolverFunc[models.SouvenirGuide](s.resolve),
		flow.WithClock(s.clock),
		flow.WithConfig(s.flowCfg),
		flow.WithLogger(l),
		flow.WithStaleHook(func(uint64) {
			metrics.Get().FlowStaleResultsTotal.Add(context.Background(), 1)
		}),
	)
	sess.detach = append(sess.detach,
		sess.controller.Subscribe(s.observe(l)),
		sess.controller.Subscribe(sess.onFlowEvent),
		sess.theme.Observe(sess.onThemeChange),
	)

	s.sessions.SetDefault(sess.ID.String(), sess)
	metrics.Get().ActiveSessionsGauge.Add(ctx, 1)

	if err := s.start(ctx, sess, req); err != nil {
		s.sessions.Delete(sess.ID.String())
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("session.id", sess.ID.String()))
	l.Info("Souvenir scouting started",
		zap.String("destination", req.Destination),
		zap.String("palette", sess.theme.Current().Name))
	return sess, nil
}

// Rescout starts a new generation on an existing session. Anything still in
// flight for the previous destination is discarded.
func (s *ServiceImpl) Rescout(ctx context.Context, clientID, id uuid.UUID, req models.ScoutRequest) (*Session, error) {
	sess, err := s.Get(clientID, id)
	if err != nil {
		return nil, err
	}
	req, err = normalize(req)
	if err != nil {
		return nil, err
	}

	sess.restart(req)
	if err := s.start(ctx, sess, req); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *ServiceImpl) start(ctx context.Context, sess *Session, req models.ScoutRequest) error {
	sess.theme.Apply(req.Destination)

	gen, err := sess.controller.Start(ctx, flow.Query{
		Destination: req.Destination,
		Params: map[string]string{
			"budget":   req.Budget,
			"duration": req.Duration,
		},
	})
	if err != nil {
		return fmt.Errorf("%v: %w", err, models.ErrValidation)
	}

	metrics.Get().FlowsStartedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("flow", "souvenirs")))
	s.logger.Debug("Flow generation started",
		zap.String("session_id", sess.ID.String()),
		zap.Uint64("generation", gen))
	return nil
}

func (s *ServiceImpl) Get(clientID, id uuid.UUID) (*Session, error) {
	v, ok := s.sessions.Get(id.String())
	if !ok {
		return nil, fmt.Errorf("souvenir session %s: %w", id, models.ErrNotFound)
	}
	sess := v.(*Session)
	if sess.ClientID != clientID {
		return nil, fmt.Errorf("souvenir session %s: %w", id, models.ErrNotFound)
	}
	// Touch to extend the TTL.
	s.sessions.SetDefault(id.String(), sess)
	return sess, nil
}

func (s *ServiceImpl) Cancel(clientID, id uuid.UUID) error {
	if _, err := s.Get(clientID, id); err != nil {
		return err
	}
	s.sessions.Delete(id.String())
	return nil
}

// Close ends every live session.
func (s *ServiceImpl) Close() {
	for key := range s.sessions.Items() {
		s.sessions.Delete(key)
	}
}

func (s *ServiceImpl) resolve(ctx context.Context, q flow.Query) (flow.Result[models.SouvenirGuide], error) {
	var guide models.SouvenirGuide
	prompt := getSouvenirPrompt(q.Destination, q.Params["budget"], q.Params["duration"])
	if err := s.llm.GenerateJSON(ctx, "souvenirs", prompt, souvenirSchema(), &guide); err != nil {
		return flow.Result[models.SouvenirGuide]{}, err
	}
	if len(guide.Items) == 0 {
		return flow.Result[models.SouvenirGuide]{}, fmt.Errorf("no souvenirs generated: %w", models.ErrUpstream)
	}

	res := flow.Result[models.SouvenirGuide]{Payload: guide}
	if c := guide.Coordinates; c != nil {
		res.Coordinates = &flow.LatLng{Lat: c.Lat, Lng: c.Lng}
	}
	return res, nil
}

// observe counts terminal outcomes. It runs with the controller locked.
func (s *ServiceImpl) observe(l *zap.Logger) flow.Listener[models.SouvenirGuide] {
	attrs := metric.WithAttributes(attribute.String("flow", "souvenirs"))
	return func(ev flow.Event[models.SouvenirGuide]) {
		switch ev.Type {
		case flow.EventCompleted:
			metrics.Get().FlowsCompletedTotal.Add(context.Background(), 1, attrs)
		case flow.EventFailed:
			metrics.Get().FlowsFailedTotal.Add(context.Background(), 1, attrs)
			l.Warn("Souvenir scouting failed", zap.Uint64("generation", ev.Generation), zap.Error(ev.Err))
		}
	}
}

func normalize(req models.ScoutRequest) (models.ScoutRequest, error) {
	if req.Budget == "" {
		req.Budget = defaultBudget
	}
	if req.Duration == "" {
		req.Duration = defaultDuration
	}
	if err := validate.Struct(req); err != nil {
		return req, fmt.Errorf("%s: %w", validate.Message(err), models.ErrValidation)
	}
	return req, nil
}
