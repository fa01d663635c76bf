package job

import (
	"context"
	"sync"
	"time"

	"pumpradar/internal/domain"
	"pumpradar/internal/metrics"
	"pumpradar/pkg/logger"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type AnalysisRefresher interface {
	Refresh(ctx context.Context, ticker string) (*domain.TickerAnalysis, error)
}

type TickerLister interface {
	Tickers(ctx context.Context) ([]string, error)
}

// Transition records a ticker whose phase changed between two runs.
type Transition struct {
	Ticker string
	From   domain.PumpPhase
	To     domain.PumpPhase
	Signal domain.TradingSignal
}

// WatchlistJob periodically refreshes the analysis of every watched ticker.
type WatchlistJob struct {
	tracer    trace.Tracer
	analyses  AnalysisRefresher
	watchlist TickerLister
	interval  time.Duration
	spacing   time.Duration

	mu        sync.Mutex
	lastPhase map[string]domain.PumpPhase
	onTransit func(Transition)
}

func NewWatchlistJob(tracer trace.Tracer, analyses AnalysisRefresher, watchlist TickerLister, intervalSecs int) *WatchlistJob {
	if intervalSecs <= 0 {
		intervalSecs = 900
	}
	return &WatchlistJob{
		tracer:    tracer,
		analyses:  analyses,
		watchlist: watchlist,
		interval:  time.Duration(intervalSecs) * time.Second,
		spacing:   2 * time.Second,
		lastPhase: make(map[string]domain.PumpPhase),
	}
}

// OnTransition registers a callback for phase changes, e.g. chat alerts.
func (j *WatchlistJob) OnTransition(fn func(Transition)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.onTransit = fn
}

// Start runs immediately and then every interval. Blocks until ctx is cancelled.
func (j *WatchlistJob) Start(ctx context.Context) {
	log := logger.Get().Named("watchlist-job")
	log.Infow("watchlist job starting", "interval", j.interval)

	j.RunOnce(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("watchlist job stopped")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce refreshes every ticker in turn and returns the phase transitions
// seen since the previous run. A ticker seen for the first time is not a
// transition.
func (j *WatchlistJob) RunOnce(ctx context.Context) []Transition {
	ctx, span := j.tracer.Start(ctx, "watchlist-job.run")
	defer span.End()
	log := logger.Get().Named("watchlist-job")

	tickers, err := j.watchlist.Tickers(ctx)
	if err != nil {
		log.Warnw("load watchlist failed", "error", err)
		return nil
	}
	span.SetAttributes(attribute.Int("tickers", len(tickers)))

	var transitions []Transition
	for i, t := range tickers {
		if i > 0 && j.spacing > 0 {
			select {
			case <-ctx.Done():
				return transitions
			case <-time.After(j.spacing):
			}
		}
		if ctx.Err() != nil {
			return transitions
		}

		a, err := j.analyses.Refresh(ctx, t)
		if err != nil {
			log.Warnw("watchlist refresh failed", "ticker", t, "error", err)
			continue
		}
		if tr, ok := j.record(a); ok {
			log.Infow("phase transition", "ticker", tr.Ticker, "from", tr.From, "to", tr.To, "signal", tr.Signal)
			transitions = append(transitions, tr)
		}
	}

	metrics.RecordWatchlistRun()
	return transitions
}

func (j *WatchlistJob) record(a *domain.TickerAnalysis) (Transition, bool) {
	j.mu.Lock()
	prev, seen := j.lastPhase[a.Ticker]
	j.lastPhase[a.Ticker] = a.Pump.Phase
	notify := j.onTransit
	j.mu.Unlock()

	if !seen || prev == a.Pump.Phase {
		return Transition{}, false
	}
	tr := Transition{Ticker: a.Ticker, From: prev, To: a.Pump.Phase, Signal: a.Pump.Signal}
	// Called without the lock: alert delivery does network IO.
	if notify != nil {
		notify(tr)
	}
	return tr, true
}
