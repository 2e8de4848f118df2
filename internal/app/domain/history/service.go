package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Record(ctx context.Context, clientID uuid.UUID, itinerary models.TripItinerary) (*models.HistoryEntry, error)
	List(ctx context.Context, clientID uuid.UUID) ([]models.HistoryEntry, error)
	Clear(ctx context.Context, clientID uuid.UUID) (int64, error)
}

// ServiceImpl keeps the newest limit itineraries per client.
type ServiceImpl struct {
	repo   Repository
	limit  int
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, limit int, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		limit:  limit,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ServiceImpl) Record(ctx context.Context, clientID uuid.UUID, itinerary models.TripItinerary) (*models.HistoryEntry, error) {
	ctx, span := otel.Tracer("HistoryService").Start(ctx, "Record", trace.WithAttributes(
		attribute.String("client.id", clientID.String()),
		attribute.String("destination", itinerary.Destination),
	))
	defer span.End()

	if clientID == uuid.Nil {
		span.SetStatus(codes.Error, "missing client")
		return nil, fmt.Errorf("client id is required: %w", models.ErrBadRequest)
	}
	if strings.TrimSpace(itinerary.Destination) == "" {
		span.SetStatus(codes.Error, "missing destination")
		return nil, fmt.Errorf("itinerary destination is required: %w", models.ErrValidation)
	}

	entry := models.HistoryEntry{
		ID:          uuid.New(),
		ClientID:    clientID,
		Destination: itinerary.Destination,
		TripName:    itinerary.TripName,
		Days:        len(itinerary.Days),
		Itinerary:   itinerary,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.Save(ctx, entry, s.limit); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return nil, fmt.Errorf("failed to save trip history: %w", err)
	}

	s.logger.Info("Trip saved to history",
		zap.String("client_id", clientID.String()),
		zap.String("destination", entry.Destination))
	return &entry, nil
}

func (s *ServiceImpl) List(ctx context.Context, clientID uuid.UUID) ([]models.HistoryEntry, error) {
	ctx, span := otel.Tracer("HistoryService").Start(ctx, "List")
	defer span.End()

	entries, err := s.repo.List(ctx, clientID, s.limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, fmt.Errorf("failed to list trip history: %w", err)
	}
	return entries, nil
}

func (s *ServiceImpl) Clear(ctx context.Context, clientID uuid.UUID) (int64, error) {
	ctx, span := otel.Tracer("HistoryService").Start(ctx, "Clear")
	defer span.End()

	n, err := s.repo.Clear(ctx, clientID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "clear failed")
		return 0, fmt.Errorf("failed to clear trip history: %w", err)
	}
	s.logger.Info("Trip history cleared", zap.String("client_id", clientID.String()), zap.Int64("deleted", n))
	return n, nil
}
