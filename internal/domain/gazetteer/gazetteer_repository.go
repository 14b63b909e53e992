package gazetteer

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/545426946/travel-planning2.0-sub000/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository loads the attraction dataset from Postgres. It is an alternate
// source for the embedded dataset, used when a database is configured; the
// gazetteer itself stays immutable after loading either way.
type Repository interface {
	GetAllAttractions(ctx context.Context) ([]types.GazetteerEntry, error)
}

// Querier is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool Querier
}

func NewRepository(pgpool Querier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

// GetAllAttractions returns all attractions ordered by their dataset
// position. The position ordering matters: fuzzy lookup is defined as
// first-match-wins over dataset order.
func (r *RepositoryImpl) GetAllAttractions(ctx context.Context) ([]types.GazetteerEntry, error) {
	ctx, span := otel.Tracer("GazetteerRepository").Start(ctx, "GetAllAttractions")
	defer span.End()

	l := r.logger.With(slog.String("method", "GetAllAttractions"))

	query, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("name", "latitude", "longitude", "address").
		From("attractions").
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attractions query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query attractions", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query attractions: %w", err)
	}
	defer rows.Close()

	var entries []types.GazetteerEntry
	for rows.Next() {
		var e types.GazetteerEntry
		if err := rows.Scan(&e.Name, &e.Latitude, &e.Longitude, &e.Address); err != nil {
			l.ErrorContext(ctx, "Failed to scan attraction row", slog.Any("error", err))
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan attraction row: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		l.ErrorContext(ctx, "Error iterating attraction rows", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating attraction rows: %w", err)
	}

	l.InfoContext(ctx, "Attractions loaded from database", slog.Int("count", len(entries)))
	span.SetAttributes(attribute.Int("results.count", len(entries)))
	span.SetStatus(codes.Ok, "Attractions loaded")

	return entries, nil
}
