// Package planner generates trip itineraries and the companion data shown
// next to them: language tips, budget conversion and concierge chat.
package planner

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/go-wander/internal/app/domain/currency"
	"github.com/FACorreiaa/go-wander/internal/app/domain/history"
	"github.com/FACorreiaa/go-wander/internal/app/models"
	"github.com/FACorreiaa/go-wander/internal/pkg/cache"
	"github.com/FACorreiaa/go-wander/internal/pkg/llm"
	"github.com/FACorreiaa/go-wander/internal/pkg/validate"
)

// ConciergeFallback is returned when the model answers with nothing.
const ConciergeFallback = "I'm having trouble connecting to the concierge service."

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GenerateItinerary(ctx context.Context, clientID uuid.UUID, prefs models.TripPreferences) (*models.PlannedTrip, error)
	Chat(ctx context.Context, req models.ChatRequest) (models.ChatReply, error)
	LanguageTips(ctx context.Context, destination string) []models.LanguageTip
	ConvertBudget(b models.BudgetBreakdown, to string) (models.BudgetBreakdown, error)
}

type ServiceImpl struct {
	llm     llm.Generator
	history history.Service
	caches  *cache.CacheManager
	logger  *zap.Logger
}

// NewService wires the planner. history may be nil, in which case
// itineraries are not recorded.
func NewService(gen llm.Generator, hist history.Service, caches *cache.CacheManager, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		llm:     gen,
		history: hist,
		caches:  caches,
		logger:  logger,
	}
}

func (s *ServiceImpl) GenerateItinerary(ctx context.Context, clientID uuid.UUID, prefs models.TripPreferences) (*models.PlannedTrip, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.String("destination", prefs.Destination),
		attribute.Int("duration", prefs.Duration),
		attribute.String("budget", prefs.Budget),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "GenerateItinerary"))

	if err := validate.Struct(prefs); err != nil {
		span.SetStatus(codes.Error, "invalid preferences")
		return nil, fmt.Errorf("%s: %w", validate.Message(err), models.ErrValidation)
	}
	destination := titleCase(prefs.Destination)

	var (
		itinerary models.TripItinerary
		tips      []models.LanguageTip
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		itinerary, err = s.itinerary(gctx, prefs, destination)
		return err
	})
	g.Go(func() error {
		tips = s.LanguageTips(gctx, destination)
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "itinerary generation failed")
		l.Error("Itinerary generation failed", zap.String("destination", destination), zap.Error(err))
		return nil, err
	}

	if s.history != nil && clientID != uuid.Nil {
		if _, err := s.history.Record(ctx, clientID, itinerary); err != nil {
			l.Warn("Could not save itinerary to history", zap.Error(err))
		}
	}

	span.SetAttributes(attribute.Int("days.count", len(itinerary.Days)))
	span.SetStatus(codes.Ok, "itinerary generated")
	l.Info("Itinerary generated",
		zap.String("destination", destination),
		zap.Int("days", len(itinerary.Days)),
		zap.Int("language_tips", len(tips)))

	return &models.PlannedTrip{
		Itinerary:    itinerary,
		LanguageTips: tips,
		Currencies:   currency.Available(itinerary.BudgetBreakdown.Currency),
	}, nil
}

func (s *ServiceImpl) itinerary(ctx context.Context, prefs models.TripPreferences, destination string) (models.TripItinerary, error) {
	interests := slices.Clone(prefs.Interests)
	slices.Sort(interests)
	key := cache.NewCacheKeyBuilder().
		AddDomain("itinerary").
		AddDestination(destination).
		Add("month", prefs.TravelMonth).
		Add("duration", prefs.Duration).
		Add("travelers", prefs.Travelers).
		Add("budget", prefs.Budget).
		Add("interests", interests).
		BuildOrDefault()

	if key != "" {
		if cached, ok := s.caches.Itineraries.Get(key); ok {
			return cached, nil
		}
	}

	var out models.TripItinerary
	if err := s.llm.GenerateJSON(ctx, "itinerary", getItineraryPrompt(prefs, destination), itinerarySchema(), &out); err != nil {
		return models.TripItinerary{}, fmt.Errorf("failed to generate itinerary: %w", err)
	}
	if len(out.Days) == 0 {
		return models.TripItinerary{}, fmt.Errorf("no itinerary generated: %w", models.ErrUpstream)
	}
	if strings.TrimSpace(out.Destination) == "" {
		out.Destination = destination
	}

	if key != "" {
		s.caches.Itineraries.Set(key, out)
	}
	return out, nil
}

// LanguageTips never fails; any error yields an empty list.
func (s *ServiceImpl) LanguageTips(ctx context.Context, destination string) []models.LanguageTip {
	destination = titleCase(destination)
	if destination == "" {
		return []models.LanguageTip{}
	}

	key := cache.NewCacheKeyBuilder().AddDomain("language_tips").AddDestination(destination).BuildOrDefault()
	if cached, ok := s.caches.LanguageTips.Get(key); ok && key != "" {
		return cached
	}

	var tips []models.LanguageTip
	if err := s.llm.GenerateJSON(ctx, "language_tips", getLanguageTipsPrompt(destination), languageTipsSchema(), &tips); err != nil {
		s.logger.Warn("Language tips unavailable", zap.String("destination", destination), zap.Error(err))
		return []models.LanguageTip{}
	}
	if tips == nil {
		tips = []models.LanguageTip{}
	}
	if key != "" && len(tips) > 0 {
		s.caches.LanguageTips.Set(key, tips)
	}
	return tips
}

func (s *ServiceImpl) Chat(ctx context.Context, req models.ChatRequest) (models.ChatReply, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "Chat", trace.WithAttributes(
		attribute.String("destination", req.Destination),
		attribute.Int("history.length", len(req.History)),
	))
	defer span.End()

	if strings.TrimSpace(req.Message) == "" {
		return models.ChatReply{}, fmt.Errorf("message is required: %w", models.ErrValidation)
	}

	text, err := s.llm.Chat(ctx, getConciergePrompt(req))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat failed")
		return models.ChatReply{}, fmt.Errorf("concierge chat failed: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		text = ConciergeFallback
	}
	return models.ChatReply{Role: models.RoleModel, Text: text}, nil
}

func (s *ServiceImpl) ConvertBudget(b models.BudgetBreakdown, to string) (models.BudgetBreakdown, error) {
	if _, ok := currency.Rate(to); !ok {
		return b, fmt.Errorf("unsupported currency %q: %w", to, models.ErrValidation)
	}
	return currency.ConvertBudget(b, to), nil
}

// titleCase normalizes a free-text destination, e.g. "new york " to "New York".
func titleCase(destination string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(destination), " "))
}
