package service

import (
	"context"
	"sort"

	"pumpradar/internal/domain"
	"pumpradar/pkg/logger"

	"go.opentelemetry.io/otel/trace"
)

type WatchlistStore interface {
	List(ctx context.Context) ([]domain.WatchlistEntry, error)
	Add(ctx context.Context, ticker string) error
	Remove(ctx context.Context, ticker string) error
}

// WatchlistService merges the persisted watchlist with the configured seed
// tickers. Seed tickers cannot be removed at runtime.
type WatchlistService struct {
	tracer trace.Tracer
	store  WatchlistStore
	seed   []string
}

func NewWatchlistService(tracer trace.Tracer, store WatchlistStore, seed []string) *WatchlistService {
	clean := make([]string, 0, len(seed))
	for _, raw := range seed {
		if t, err := domain.NormalizeTicker(raw); err == nil {
			clean = append(clean, t)
		} else {
			logger.Get().Warnw("ignoring invalid seed ticker", "ticker", raw)
		}
	}
	return &WatchlistService{tracer: tracer, store: store, seed: clean}
}

// Tickers returns the merged watchlist, sorted and de-duplicated.
func (s *WatchlistService) Tickers(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "watchlist-service.tickers")
	defer span.End()

	set := make(map[string]struct{}, len(s.seed))
	for _, t := range s.seed {
		set[t] = struct{}{}
	}
	if s.store != nil {
		entries, err := s.store.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			set[e.Ticker] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func (s *WatchlistService) Add(ctx context.Context, raw string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "watchlist-service.add")
	defer span.End()

	ticker, err := domain.NormalizeTicker(raw)
	if err != nil {
		return "", err
	}
	if s.store == nil {
		return "", ErrUnavailable
	}
	if err := s.store.Add(ctx, ticker); err != nil {
		return "", err
	}
	return ticker, nil
}

func (s *WatchlistService) Remove(ctx context.Context, raw string) error {
	ctx, span := s.tracer.Start(ctx, "watchlist-service.remove")
	defer span.End()

	ticker, err := domain.NormalizeTicker(raw)
	if err != nil {
		return err
	}
	if s.store == nil {
		return ErrUnavailable
	}
	return s.store.Remove(ctx, ticker)
}
