package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pumpradar/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const snapshotColumns = `id, ticker, sentiment_score, sentiment_label, sentiment_confidence,
       total_mentions, sources_used, phase, signal, pump_confidence,
       price_momentum, volume_ratio, current_price, reasoning, analyzed_at`

type SnapshotRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewSnapshotRepository(pool PgxPool, tracer trace.Tracer) *SnapshotRepository {
	return &SnapshotRepository{pool: pool, tracer: tracer}
}

func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, s domain.AnalysisSnapshot) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "snapshot-repo.save")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", s.Ticker))

	sources := s.SourcesUsed
	if sources == nil {
		sources = []string{}
	}
	reasoning := s.Reasoning
	if reasoning == nil {
		reasoning = []string{}
	}

	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO analysis_snapshots (
		     ticker, sentiment_score, sentiment_label, sentiment_confidence,
		     total_mentions, sources_used, phase, signal, pump_confidence,
		     price_momentum, volume_ratio, current_price, reasoning, analyzed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id`,
		s.Ticker, s.SentimentScore, string(s.SentimentLabel), s.SentimentConf,
		s.TotalMentions, sources, string(s.Phase), string(s.Signal), s.PumpConfidence,
		s.PriceMomentum, s.VolumeRatio, s.CurrentPrice, reasoning, s.AnalyzedAt.UTC(),
	).Scan(&id)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("insert snapshot for %s: %w", s.Ticker, err)
	}
	return id, nil
}

// PreviousSnapshot returns the newest snapshot taken at or before `before`,
// falling back to the newest snapshot overall. It returns nil when the
// ticker has no history.
func (r *SnapshotRepository) PreviousSnapshot(ctx context.Context, ticker string, before time.Time) (*domain.AnalysisSnapshot, error) {
	ctx, span := r.tracer.Start(ctx, "snapshot-repo.previous")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	rows, err := r.pool.Query(ctx,
		`SELECT `+snapshotColumns+`
		 FROM analysis_snapshots
		 WHERE ticker = $1
		 ORDER BY (analyzed_at <= $2) DESC, analyzed_at DESC
		 LIMIT 1`,
		ticker, before.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query previous snapshot for %s: %w", ticker, err)
	}
	snaps, err := collectSnapshots(rows)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	return &snaps[0], nil
}

// ListSnapshots returns stored snapshots newest first.
func (r *SnapshotRepository) ListSnapshots(ctx context.Context, ticker string, limit int) ([]domain.AnalysisSnapshot, error) {
	ctx, span := r.tracer.Start(ctx, "snapshot-repo.list")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+snapshotColumns+`
		 FROM analysis_snapshots
		 WHERE ticker = $1
		 ORDER BY analyzed_at DESC
		 LIMIT $2`,
		ticker, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots for %s: %w", ticker, err)
	}
	return collectSnapshots(rows)
}

func collectSnapshots(rows pgx.Rows) ([]domain.AnalysisSnapshot, error) {
	defer rows.Close()

	snaps := []domain.AnalysisSnapshot{}
	for rows.Next() {
		var (
			s                    domain.AnalysisSnapshot
			label, phase, signal string
			analyzedAt           time.Time
		)
		if err := rows.Scan(
			&s.ID, &s.Ticker, &s.SentimentScore, &label, &s.SentimentConf,
			&s.TotalMentions, &s.SourcesUsed, &phase, &signal, &s.PumpConfidence,
			&s.PriceMomentum, &s.VolumeRatio, &s.CurrentPrice, &s.Reasoning, &analyzedAt,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s.SentimentLabel = domain.OverallLabel(label)
		s.Phase = domain.PumpPhase(phase)
		s.Signal = domain.TradingSignal(signal)
		s.AnalyzedAt = analyzedAt.UTC()
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return snaps, nil
		}
		return nil, err
	}
	return snaps, nil
}
