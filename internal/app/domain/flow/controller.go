// Package flow drives the choreographed loading sequence shown while a
// destination is being resolved. A Controller walks a fixed list of phases on
// timers and joins them with exactly one asynchronous resolver call, so the
// visible phase never gets ahead of, or stuck behind, the request it depicts.
package flow

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Resolver turns a query into a result. It is called once per Start.
type Resolver[T any] interface {
	Resolve(ctx context.Context, q Query) (Result[T], error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc[T any] func(ctx context.Context, q Query) (Result[T], error)

func (f ResolverFunc[T]) Resolve(ctx context.Context, q Query) (Result[T], error) {
	return f(ctx, q)
}

type options struct {
	clock   Clock
	cfg     Config
	logger  *zap.Logger
	onStale func(generation uint64)
}

// Option configures a Controller.
type Option func(*options)

func WithClock(c Clock) Option { return func(o *options) { o.clock = c } }

func WithConfig(cfg Config) Option { return func(o *options) { o.cfg = cfg } }

func WithLogger(l *zap.Logger) Option { return func(o *options) { o.logger = l } }

// WithStaleHook is called, with the controller locked, whenever a resolver
// outcome from a superseded generation is dropped.
func WithStaleHook(fn func(generation uint64)) Option {
	return func(o *options) { o.onStale = fn }
}

type subscription[T any] struct {
	id uint64
	fn Listener[T]
}

// Controller is the phased async flow state machine. All state is owned by
// the controller and mutated only under mu; timer callbacks and resolver
// outcomes compare the generation they were created for before touching it.
type Controller[T any] struct {
	resolver Resolver[T]
	clock    Clock
	cfg      Config
	logger   *zap.Logger
	onStale  func(uint64)

	mu           sync.Mutex
	generation   uint64
	phase        Phase
	cursor       int
	target       *TargetCoordinates
	pending      *Result[T]
	dwellElapsed bool
	timers       []Timer
	cancelCall   context.CancelFunc

	subs    []subscription[T]
	nextSub uint64
}

// New returns an idle controller.
func New[T any](resolver Resolver[T], opts ...Option) *Controller[T] {
	o := options{
		clock:  WallClock(),
		cfg:    DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Controller[T]{
		resolver: resolver,
		clock:    o.clock,
		cfg:      o.cfg,
		logger:   o.logger,
		onStale:  o.onStale,
		phase:    PhaseIdle,
	}
}

// Subscribe registers l for every subsequent event and returns a function
// that removes it.
func (c *Controller[T]) Subscribe(l Listener[T]) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscription[T]{id: id, fn: l})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Start begins a new flow for q and returns its generation. Any previous
// generation is invalidated first; its timers and late results become no-ops.
func (c *Controller[T]) Start(ctx context.Context, q Query) (uint64, error) {
	if strings.TrimSpace(q.Destination) == "" {
		return 0, &ValidationError{Field: "destination", Reason: "must not be blank"}
	}

	c.mu.Lock()
	c.invalidateLocked()
	c.generation++
	gen := c.generation
	c.phase = PhasePreparing

	base := context.WithoutCancel(ctx)
	var callCtx context.Context
	if c.cfg.ResolveTimeout > 0 {
		callCtx, c.cancelCall = context.WithTimeout(base, c.cfg.ResolveTimeout)
	} else {
		callCtx, c.cancelCall = context.WithCancel(base)
	}

	c.logger.Info("Flow started",
		zap.Uint64("generation", gen),
		zap.String("destination", q.Destination))

	c.emitLocked(Event[T]{Type: EventPhaseChanged})
	c.scheduleLocked(gen, c.cfg.PrepareDelay, c.enterSearchingLocked)
	c.scheduleLocked(gen, c.cfg.SearchDwell, func() {
		c.dwellElapsed = true
		c.tryResolveLocked(gen)
	})
	c.mu.Unlock()

	go c.resolve(callCtx, gen, q)

	return gen, nil
}

func (c *Controller[T]) resolve(ctx context.Context, gen uint64, q Query) {
	res, err := c.resolver.Resolve(ctx, q)
	if err != nil {
		c.OnExternalFailure(gen, err)
		return
	}
	c.OnExternalResult(gen, res)
}

// OnExternalResult delivers a successful resolver outcome for generation gen.
func (c *Controller[T]) OnExternalResult(gen uint64, res Result[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.staleLocked(gen)
		return
	}
	if c.pending != nil || (c.phase != PhasePreparing && c.phase != PhaseSearching) {
		c.logger.Debug("Ignoring result outside the search window",
			zap.Uint64("generation", gen),
			zap.Stringer("phase", c.phase))
		return
	}

	c.pending = &res
	c.logger.Debug("Result received", zap.Uint64("generation", gen), zap.Stringer("phase", c.phase))
	c.tryResolveLocked(gen)
}

// OnExternalFailure aborts generation gen. It is ignored once the flow has
// completed or was already reset.
func (c *Controller[T]) OnExternalFailure(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.staleLocked(gen)
		return
	}
	if !c.phase.Active() {
		c.logger.Debug("Ignoring failure for settled flow",
			zap.Uint64("generation", gen),
			zap.Stringer("phase", c.phase),
			zap.Error(err))
		return
	}

	c.stopTimersLocked()
	c.cancelCallLocked()
	c.pending = nil
	c.target = nil
	c.cursor = 0
	c.dwellElapsed = false
	c.phase = PhaseFailed

	c.logger.Warn("Flow failed", zap.Uint64("generation", gen), zap.Error(err))
	c.emitLocked(Event[T]{Type: EventFailed, Err: &ResolutionError{Generation: gen, Err: err}})
}

// Cancel invalidates the current generation and returns to Idle without
// emitting anything further.
func (c *Controller[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidateLocked()
	c.generation++
	c.phase = PhaseIdle
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Generation:   c.generation,
		Phase:        c.phase,
		MessageIndex: c.cursor,
	}
	if c.phase == PhaseScanning || c.phase == PhaseComplete {
		s.Message = c.messageLocked()
	}
	if c.target != nil {
		t := *c.target
		s.Target = &t
	}
	return s
}

func (c *Controller[T]) enterSearchingLocked() {
	if c.phase != PhasePreparing {
		return
	}
	c.transitionLocked(PhaseSearching)
	c.tryResolveLocked(c.generation)
}

// tryResolveLocked leaves Searching once both the dwell time and the result
// are in, whichever arrives later.
func (c *Controller[T]) tryResolveLocked(gen uint64) {
	if c.phase != PhaseSearching || !c.dwellElapsed || c.pending == nil {
		return
	}

	target := MapCenter
	if c.pending.Coordinates != nil {
		target = Project(*c.pending.Coordinates)
	}
	c.target = &target

	c.transitionLocked(PhaseResolvingTarget)
	c.advanceLocked(gen, PhaseResolvingTarget, c.cfg.ResolveDelay, func() {
		c.transitionLocked(PhaseLocking)
		c.advanceLocked(gen, PhaseLocking, c.cfg.LockDelay, func() {
			c.transitionLocked(PhaseZooming)
			c.advanceLocked(gen, PhaseZooming, c.cfg.ZoomDelay, func() {
				c.enterScanningLocked(gen)
			})
		})
	})
}

func (c *Controller[T]) enterScanningLocked(gen uint64) {
	c.transitionLocked(PhaseScanning)
	c.scheduleTickLocked(gen)
	c.advanceLocked(gen, PhaseScanning, c.cfg.ScanDuration, func() {
		c.completeLocked(gen)
	})
}

// advanceLocked schedules the step out of from. A wall clock timer can
// already be waiting on mu when a failure stops it, so the callback also
// checks that the flow is still in from.
func (c *Controller[T]) advanceLocked(gen uint64, from Phase, d time.Duration, fn func()) {
	c.scheduleLocked(gen, d, func() {
		if c.phase != from {
			return
		}
		fn()
	})
}

func (c *Controller[T]) scheduleTickLocked(gen uint64) {
	if c.cfg.MessageInterval <= 0 || c.cursor >= len(c.cfg.Messages)-1 {
		return
	}
	c.scheduleLocked(gen, c.cfg.MessageInterval, func() {
		if c.phase != PhaseScanning {
			return
		}
		c.cursor++
		c.emitLocked(Event[T]{Type: EventMessageIndexChanged, Message: c.messageLocked()})
		c.scheduleTickLocked(gen)
	})
}

func (c *Controller[T]) completeLocked(gen uint64) {
	c.stopTimersLocked()
	c.cancelCallLocked()

	var payload *T
	if c.pending != nil {
		p := c.pending.Payload
		payload = &p
	}
	c.pending = nil

	c.transitionLocked(PhaseComplete)
	c.logger.Info("Flow completed", zap.Uint64("generation", gen))
	c.emitLocked(Event[T]{Type: EventCompleted, Payload: payload})
}

func (c *Controller[T]) transitionLocked(next Phase) {
	c.logger.Debug("Phase transition",
		zap.Uint64("generation", c.generation),
		zap.Stringer("from", c.phase),
		zap.Stringer("to", next))
	c.phase = next
	c.emitLocked(Event[T]{Type: EventPhaseChanged})
}

// scheduleLocked arms a timer whose callback runs under the controller lock
// and only if gen is still current.
func (c *Controller[T]) scheduleLocked(gen uint64, d time.Duration, fn func()) {
	t := c.clock.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation {
			return
		}
		fn()
	})
	c.timers = append(c.timers, t)
}

func (c *Controller[T]) emitLocked(ev Event[T]) {
	ev.Generation = c.generation
	ev.Phase = c.phase
	ev.MessageIndex = c.cursor
	ev.Timestamp = c.clock.Now()
	if c.target != nil && ev.Type == EventPhaseChanged {
		t := *c.target
		ev.Target = &t
	}
	for _, s := range c.subs {
		s.fn(ev)
	}
}

func (c *Controller[T]) messageLocked() string {
	if len(c.cfg.Messages) == 0 {
		return ""
	}
	idx := min(c.cursor, len(c.cfg.Messages)-1)
	return c.cfg.Messages[idx]
}

func (c *Controller[T]) invalidateLocked() {
	c.stopTimersLocked()
	c.cancelCallLocked()
	c.pending = nil
	c.target = nil
	c.cursor = 0
	c.dwellElapsed = false
}

func (c *Controller[T]) stopTimersLocked() {
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = nil
}

func (c *Controller[T]) cancelCallLocked() {
	if c.cancelCall != nil {
		c.cancelCall()
		c.cancelCall = nil
	}
}

func (c *Controller[T]) staleLocked(gen uint64) {
	c.logger.Debug("Discarding stale resolver outcome",
		zap.Uint64("generation", gen),
		zap.Uint64("current", c.generation),
		zap.Error(ErrStaleResult))
	if c.onStale != nil {
		c.onStale(gen)
	}
}
