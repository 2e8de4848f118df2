// Package packing builds weather aware packing lists for a trip.
package packing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-wander/internal/app/models"
	"github.com/FACorreiaa/go-wander/internal/pkg/cache"
	"github.com/FACorreiaa/go-wander/internal/pkg/llm"
	"github.com/FACorreiaa/go-wander/internal/pkg/validate"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Generate(ctx context.Context, req models.PackingRequest) ([]models.PackingCategory, error)
}

type ServiceImpl struct {
	llm    llm.Generator
	cache  *cache.UnifiedCache[[]models.PackingCategory]
	logger *zap.Logger
}

func NewService(gen llm.Generator, c *cache.UnifiedCache[[]models.PackingCategory], logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{llm: gen, cache: c, logger: logger}
}

func (s *ServiceImpl) Generate(ctx context.Context, req models.PackingRequest) ([]models.PackingCategory, error) {
	ctx, span := otel.Tracer("PackingService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("destination", req.Destination),
		attribute.String("month", req.Month),
		attribute.String("type", req.TravelType),
	))
	defer span.End()

	if err := validate.Struct(req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, fmt.Errorf("%s: %w", validate.Message(err), models.ErrValidation)
	}

	key := cache.NewCacheKeyBuilder().
		AddDomain("packing").
		AddDestination(req.Destination).
		Add("month", req.Month).
		Add("type", req.TravelType).
		BuildOrDefault()
	if cached, ok := s.cache.Get(key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	var categories []models.PackingCategory
	if err := s.llm.GenerateJSON(ctx, "packing", getPackingPrompt(req), packingSchema(), &categories); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, fmt.Errorf("failed to generate packing list: %w", err)
	}

	categories = dropEmpty(categories)
	if len(categories) == 0 {
		return nil, fmt.Errorf("no packing list generated: %w", models.ErrUpstream)
	}

	s.cache.Set(key, categories)
	s.logger.Info("Packing list generated",
		zap.String("destination", req.Destination),
		zap.Int("categories", len(categories)))
	return categories, nil
}

func dropEmpty(in []models.PackingCategory) []models.PackingCategory {
	out := in[:0]
	for _, c := range in {
		if c.Category != "" && len(c.Items) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func getPackingPrompt(req models.PackingRequest) string {
	return fmt.Sprintf(`Create a smart packing list for %s in %s for a %s trip.
Categorize items (e.g., Clothing, Tech, Toiletries, Documents).
Include weather-specific items for that month.
Return strictly JSON.`, req.Destination, req.Month, req.TravelType)
}

func packingSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"category": {Type: genai.TypeString},
				"items":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{"category", "items"},
		},
	}
}
