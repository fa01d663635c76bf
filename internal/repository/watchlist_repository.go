package repository

import (
	"context"
	"fmt"
	"time"

	"pumpradar/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type WatchlistRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewWatchlistRepository(pool PgxPool, tracer trace.Tracer) *WatchlistRepository {
	return &WatchlistRepository{pool: pool, tracer: tracer}
}

func (r *WatchlistRepository) List(ctx context.Context) ([]domain.WatchlistEntry, error) {
	ctx, span := r.tracer.Start(ctx, "watchlist-repo.list")
	defer span.End()

	rows, err := r.pool.Query(ctx, `SELECT ticker, added_at FROM watchlist ORDER BY added_at ASC, ticker ASC`)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	entries := []domain.WatchlistEntry{}
	for rows.Next() {
		var e domain.WatchlistEntry
		var ts time.Time
		if err := rows.Scan(&e.Ticker, &ts); err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		e.AddedAt = ts.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Add is idempotent: re-adding a ticker keeps its original timestamp.
func (r *WatchlistRepository) Add(ctx context.Context, ticker string) error {
	ctx, span := r.tracer.Start(ctx, "watchlist-repo.add")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO watchlist (ticker) VALUES ($1) ON CONFLICT (ticker) DO NOTHING`,
		ticker,
	)
	if err != nil {
		return fmt.Errorf("add %s to watchlist: %w", ticker, err)
	}
	return nil
}

func (r *WatchlistRepository) Remove(ctx context.Context, ticker string) error {
	ctx, span := r.tracer.Start(ctx, "watchlist-repo.remove")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM watchlist WHERE ticker = $1`, ticker)
	if err != nil {
		return fmt.Errorf("remove %s from watchlist: %w", ticker, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", ticker, domain.ErrNotFound)
	}
	return nil
}
