// Package playlist suggests songs that match a destination and a mood.
package playlist

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

// Size is the number of songs requested per playlist.
const Size = 8

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Generate(ctx context.Context, req models.PlaylistRequest) ([]models.Song, error)
}

type ServiceImpl struct {
	llm    llm.Generator
	cache  *cache.UnifiedCache[[]models.Song]
	logger *zap.Logger
}

func NewService(gen llm.Generator, c *cache.UnifiedCache[[]models.Song], logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{llm: gen, cache: c, logger: logger}
}

func (s *ServiceImpl) Generate(ctx context.Context, req models.PlaylistRequest) ([]models.Song, error) {
	ctx, span := otel.Tracer("PlaylistService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("destination", req.Destination),
		attribute.String("vibe", req.Vibe),
	))
	defer span.End()

	if err := validate.Struct(req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, fmt.Errorf("%s: %w", validate.Message(err), models.ErrValidation)
	}

	key := cache.NewCacheKeyBuilder().AddDomain("playlist").AddDestination(req.Destination).Add("vibe", req.Vibe).BuildOrDefault()
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	var songs []models.Song
	if err := s.llm.GenerateJSON(ctx, "playlist", getPlaylistPrompt(req), songSchema(), &songs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, fmt.Errorf("failed to generate playlist: %w", err)
	}
	if len(songs) == 0 {
		return nil, fmt.Errorf("no songs generated: %w", models.ErrUpstream)
	}
	if len(songs) > Size {
		songs = songs[:Size]
	}

	s.cache.Set(key, songs)
	s.logger.Debug("Playlist generated", zap.String("destination", req.Destination), zap.Int("songs", len(songs)))
	return songs, nil
}

func getPlaylistPrompt(req models.PlaylistRequest) string {
	return fmt.Sprintf(`Create a playlist of %d songs that capture the vibe "%s" for a trip to %s.
Include a mix of local artists and songs that fit the atmosphere.
For each song, provide the title, artist, and a short reason why it fits.
Return strictly JSON.`, Size, req.Vibe, req.Destination)
}

func songSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":  {Type: genai.TypeString},
				"artist": {Type: genai.TypeString},
				"reason": {Type: genai.TypeString},
			},
			Required: []string{"title", "artist", "reason"},
		},
	}
}
