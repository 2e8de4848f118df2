package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/app/models"
	"github.com/FACorreiaa/go-wander/internal/app/observability/metrics"
)

const table = "trip_history"

var columns = []string{"id", "client_id", "destination", "trip_name", "days", "itinerary", "created_at"}

// DB is satisfied by *pgxpool.Pool and by pgxmock pools.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	// Save inserts entry and deletes all but the newest keep rows for its client.
	Save(ctx context.Context, entry models.HistoryEntry, keep int) error
	List(ctx context.Context, clientID uuid.UUID, limit int) ([]models.HistoryEntry, error)
	Clear(ctx context.Context, clientID uuid.UUID) (int64, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	db     DB
	psql   sq.StatementBuilderType
}

func NewRepositoryImpl(db DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
		psql:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *RepositoryImpl) Save(ctx context.Context, entry models.HistoryEntry, keep int) (err error) {
	ctx, span := otel.Tracer("HistoryRepo").Start(ctx, "Save", trace.WithAttributes(
		semconv.DBSystemNamePostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", table),
		attribute.String("client.id", entry.ClientID.String()),
	))
	defer span.End()
	defer r.observe(ctx, "save", time.Now(), &err)

	l := r.logger.With(zap.String("method", "Save"), zap.String("client_id", entry.ClientID.String()))

	payload, err := json.Marshal(entry.Itinerary)
	if err != nil {
		return fmt.Errorf("encode itinerary: %w", err)
	}

	insertSQL, insertArgs, err := r.psql.Insert(table).
		Columns(columns...).
		Values(entry.ID, entry.ClientID, entry.Destination, entry.TripName, entry.Days, payload, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	trimSQL, trimArgs, err := r.psql.Delete(table).
		Where(sq.Eq{"client_id": entry.ClientID}).
		Where("id NOT IN (SELECT id FROM "+table+" WHERE client_id = ? ORDER BY created_at DESC LIMIT ?)", entry.ClientID, keep).
		ToSql()
	if err != nil {
		return fmt.Errorf("build trim: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin failed")
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				l.Warn("Rollback failed", zap.Error(rbErr))
			}
		}
	}()

	if _, err = tx.Exec(ctx, insertSQL, insertArgs...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return fmt.Errorf("insert history entry: %w", err)
	}

	tag, err := tx.Exec(ctx, trimSQL, trimArgs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "trim failed")
		return fmt.Errorf("trim history: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return fmt.Errorf("commit history: %w", err)
	}

	l.Debug("History entry saved", zap.Int64("trimmed", tag.RowsAffected()))
	span.SetStatus(codes.Ok, "saved")
	return nil
}

func (r *RepositoryImpl) List(ctx context.Context, clientID uuid.UUID, limit int) (_ []models.HistoryEntry, err error) {
	ctx, span := otel.Tracer("HistoryRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemNamePostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", table),
	))
	defer span.End()
	defer r.observe(ctx, "list", time.Now(), &err)

	query, args, err := r.psql.Select(columns...).
		From(table).
		Where(sq.Eq{"client_id": clientID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := make([]models.HistoryEntry, 0, limit)
	for rows.Next() {
		var (
			e       models.HistoryEntry
			payload []byte
		)
		if err = rows.Scan(&e.ID, &e.ClientID, &e.Destination, &e.TripName, &e.Days, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if err = json.Unmarshal(payload, &e.Itinerary); err != nil {
			return nil, fmt.Errorf("decode itinerary %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	span.SetAttributes(attribute.Int("results.count", len(entries)))
	return entries, nil
}

func (r *RepositoryImpl) Clear(ctx context.Context, clientID uuid.UUID) (_ int64, err error) {
	ctx, span := otel.Tracer("HistoryRepo").Start(ctx, "Clear", trace.WithAttributes(
		semconv.DBSystemNamePostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", table),
	))
	defer span.End()
	defer r.observe(ctx, "clear", time.Now(), &err)

	query, args, err := r.psql.Delete(table).Where(sq.Eq{"client_id": clientID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RepositoryImpl) observe(ctx context.Context, op string, start time.Time, err *error) {
	attrs := metric.WithAttributes(attribute.String("operation", op), attribute.String("table", table))
	metrics.Get().DBQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if *err != nil {
		metrics.Get().DBQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
