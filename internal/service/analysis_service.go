package service

import (
	"context"
	"errors"
	"time"

	"pumpradar/internal/aggregate"
	"pumpradar/internal/cache"
	"pumpradar/internal/domain"
	"pumpradar/internal/metrics"
	"pumpradar/internal/normalize"
	"pumpradar/internal/pump"
	"pumpradar/internal/sentiment"
	"pumpradar/pkg/logger"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type PriceProvider interface {
	FetchPriceSnapshot(ctx context.Context, ticker string) (*domain.PriceSnapshot, error)
}

type SocialFeedProvider interface {
	FetchDailySentiment(ctx context.Context, ticker string) ([]domain.DailySentiment, error)
}

type NewsProvider interface {
	FetchNewsSentiment(ctx context.Context, ticker string, limit int) ([]domain.NewsArticle, error)
}

type MentionProvider interface {
	FetchMentions(ctx context.Context, ticker string, limit int) ([]domain.Mention, error)
}

type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s domain.AnalysisSnapshot) (int64, error)
	PreviousSnapshot(ctx context.Context, ticker string, before time.Time) (*domain.AnalysisSnapshot, error)
	ListSnapshots(ctx context.Context, ticker string, limit int) ([]domain.AnalysisSnapshot, error)
}

// Providers holds the collaborators of one analysis. Any of them may be nil;
// a missing collaborator is treated like one that returned no data.
type Providers struct {
	Price        PriceProvider
	SocialFeed   SocialFeedProvider
	News         NewsProvider
	NewsFallback NewsProvider
	Mentions     MentionProvider
}

// Engine bundles the pure scoring pipeline.
type Engine struct {
	Scorer     *sentiment.Scorer
	Normalizer *normalize.Normalizer
	Aggregator *aggregate.Aggregator
	Classifier *pump.Classifier
}

// NewEngine wires the pipeline with default tables.
func NewEngine(cfg normalize.Config) (Engine, error) {
	scorer := sentiment.NewScorer()
	agg, err := aggregate.New()
	if err != nil {
		return Engine{}, err
	}
	return Engine{
		Scorer:     scorer,
		Normalizer: normalize.New(cfg, scorer),
		Aggregator: agg,
		Classifier: pump.NewClassifier(),
	}, nil
}

type Options struct {
	CacheTTL     time.Duration
	Timeout      time.Duration
	Lookback     time.Duration
	NewsLimit    int
	MentionLimit int
}

func (o Options) withDefaults() Options {
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	if o.Lookback <= 0 {
		o.Lookback = 24 * time.Hour
	}
	if o.NewsLimit <= 0 {
		o.NewsLimit = 50
	}
	if o.MentionLimit <= 0 {
		o.MentionLimit = 40
	}
	return o
}

type AnalysisService struct {
	tracer    trace.Tracer
	engine    Engine
	providers Providers
	store     SnapshotStore
	redis     cache.KV
	opts      Options
	now       func() time.Time
}

func NewAnalysisService(
	tracer trace.Tracer,
	engine Engine,
	providers Providers,
	store SnapshotStore,
	redisClient cache.KV,
	opts Options,
) *AnalysisService {
	return &AnalysisService{
		tracer:    tracer,
		engine:    engine,
		providers: providers,
		store:     store,
		redis:     redisClient,
		opts:      opts.withDefaults(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Analyze returns the cached analysis for the ticker when one is fresh,
// otherwise runs a new one.
func (s *AnalysisService) Analyze(ctx context.Context, ticker string) (*domain.TickerAnalysis, error) {
	return s.analyze(ctx, ticker, true)
}

// Refresh always runs a new analysis and overwrites the cache.
func (s *AnalysisService) Refresh(ctx context.Context, ticker string) (*domain.TickerAnalysis, error) {
	return s.analyze(ctx, ticker, false)
}

func (s *AnalysisService) analyze(ctx context.Context, raw string, useCache bool) (*domain.TickerAnalysis, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.analyze")
	defer span.End()

	ticker, err := domain.NormalizeTicker(raw)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("ticker", ticker), attribute.Bool("use_cache", useCache))
	log := logger.Get().With("ticker", ticker)

	if useCache {
		if cached := s.cached(ctx, ticker); cached != nil {
			return cached, nil
		}
	}

	start := s.now()
	in, price := s.collect(ctx, ticker)

	points := s.engine.Normalizer.Points(ticker, in)
	present := make(map[domain.SourceID]bool, len(points))
	for _, p := range points {
		present[p.Source] = true
	}
	for _, src := range domain.AllSources() {
		metrics.RecordSourcePoint(string(src), present[src])
	}

	agg := s.engine.Aggregator.Aggregate(points)

	input := pump.Input{Sentiment: agg, Price: price, MentionCount: agg.TotalMentions}
	if prev := s.previous(ctx, ticker, start); prev != nil {
		mentions := prev.TotalMentions
		score := prev.SentimentScore
		input.PreviousMentionCount = &mentions
		input.PreviousSentiment = &score
	}
	result := s.engine.Classifier.Classify(input)

	analysis := &domain.TickerAnalysis{
		Ticker:     ticker,
		Sentiment:  agg,
		Pump:       result,
		Price:      price,
		DataPoints: points,
		AnalyzedAt: start,
	}
	s.persist(ctx, analysis)

	took := s.now().Sub(start)
	metrics.RecordAnalysis(string(result.Phase), string(result.Signal), took)
	span.SetAttributes(
		attribute.String("phase", string(result.Phase)),
		attribute.String("signal", string(result.Signal)),
	)
	log.Infow("analysis complete",
		"phase", result.Phase,
		"signal", result.Signal,
		"confidence", result.Confidence,
		"sentiment", agg.OverallScore,
		"sources", len(points),
		"took", took,
	)
	return analysis, nil
}

func (s *AnalysisService) cached(ctx context.Context, ticker string) *domain.TickerAnalysis {
	if s.redis == nil {
		return nil
	}
	var a domain.TickerAnalysis
	key := cache.AnalysisKey(ticker)
	hit, err := cache.GetJSON(ctx, s.redis, key, &a)
	switch {
	case err != nil:
		metrics.RecordCacheLookup("error")
		logger.Get().Warnw("analysis cache read failed", "ticker", ticker, "error", err)
		if errors.Is(err, cache.ErrCorrupt) {
			_ = cache.Delete(ctx, s.redis, key)
		}
		return nil
	case !hit:
		metrics.RecordCacheLookup("miss")
		return nil
	}
	metrics.RecordCacheLookup("hit")
	return &a
}

// collect fans out to every collaborator. A failing collaborator only
// removes its own input; the group never cancels siblings.
func (s *AnalysisService) collect(ctx context.Context, ticker string) (normalize.Inputs, *domain.PriceSnapshot) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.collect")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	var (
		in    normalize.Inputs
		price *domain.PriceSnapshot
		g     errgroup.Group
	)

	if p := s.providers.Price; p != nil {
		g.Go(func() error {
			snap, err := p.FetchPriceSnapshot(ctx, ticker)
			if s.absent("price", ticker, err) {
				return nil
			}
			price = snap
			return nil
		})
	}
	if p := s.providers.SocialFeed; p != nil {
		g.Go(func() error {
			records, err := p.FetchDailySentiment(ctx, ticker)
			if s.absent("social_feed", ticker, err) {
				return nil
			}
			in.Daily = records
			return nil
		})
	}
	if s.providers.News != nil || s.providers.NewsFallback != nil {
		g.Go(func() error {
			in.Articles = s.news(ctx, ticker)
			return nil
		})
	}
	if p := s.providers.Mentions; p != nil {
		g.Go(func() error {
			mentions, err := p.FetchMentions(ctx, ticker, s.opts.MentionLimit)
			if s.absent("mentions", ticker, err) {
				return nil
			}
			in.Mentions = mentions
			return nil
		})
	}
	_ = g.Wait()
	return in, price
}

// news prefers the primary provider and falls back when it errors or has
// nothing for the ticker.
func (s *AnalysisService) news(ctx context.Context, ticker string) []domain.NewsArticle {
	if p := s.providers.News; p != nil {
		articles, err := p.FetchNewsSentiment(ctx, ticker, s.opts.NewsLimit)
		if !s.absent("news", ticker, err) && len(articles) > 0 {
			return articles
		}
	}
	if p := s.providers.NewsFallback; p != nil {
		articles, err := p.FetchNewsSentiment(ctx, ticker, s.opts.NewsLimit)
		if !s.absent("news_fallback", ticker, err) {
			return articles
		}
	}
	return nil
}

func (s *AnalysisService) absent(provider, ticker string, err error) bool {
	if err == nil {
		return false
	}
	metrics.RecordProviderError(provider)
	logger.Get().Warnw("provider failed, treating source as absent",
		"provider", provider, "ticker", ticker, "error", err)
	return true
}

func (s *AnalysisService) previous(ctx context.Context, ticker string, now time.Time) *domain.AnalysisSnapshot {
	if s.store == nil {
		return nil
	}
	prev, err := s.store.PreviousSnapshot(ctx, ticker, now.Add(-s.opts.Lookback))
	if err != nil {
		logger.Get().Warnw("load previous snapshot failed", "ticker", ticker, "error", err)
		return nil
	}
	return prev
}

func (s *AnalysisService) persist(ctx context.Context, a *domain.TickerAnalysis) {
	if s.store != nil {
		if _, err := s.store.SaveSnapshot(ctx, domain.SnapshotFromAnalysis(*a)); err != nil {
			logger.Get().Warnw("save snapshot failed", "ticker", a.Ticker, "error", err)
		}
	}
	if s.redis != nil {
		if err := cache.SetJSON(ctx, s.redis, cache.AnalysisKey(a.Ticker), a, s.opts.CacheTTL); err != nil {
			logger.Get().Warnw("analysis cache write failed", "ticker", a.Ticker, "error", err)
		}
	}
}

// History returns stored snapshots for the ticker, newest first.
func (s *AnalysisService) History(ctx context.Context, raw string, limit int) ([]domain.AnalysisSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.history")
	defer span.End()

	ticker, err := domain.NormalizeTicker(raw)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return []domain.AnalysisSnapshot{}, nil
	}
	return s.store.ListSnapshots(ctx, ticker, limit)
}

// TextScore is the base and finance-adjusted score of one text.
type TextScore struct {
	Text     string                `json:"text"`
	Base     domain.SentimentScore `json:"base"`
	Adjusted domain.SentimentScore `json:"adjusted"`
}

func (s *AnalysisService) ScoreText(text string) TextScore {
	return TextScore{
		Text:     text,
		Base:     s.engine.Scorer.Score(text),
		Adjusted: s.engine.Scorer.ScoreDomain(text),
	}
}

// ErrUnavailable is returned by surfaces that need a service part that was
// not configured.
var ErrUnavailable = errors.New("not configured")

// BatchScore is the per-text score of several texts with their unweighted
// summary and engagement-weighted blend.
type BatchScore struct {
	Items        []TextScore            `json:"items"`
	Average      float64                `json:"average"`
	Distribution sentiment.Distribution `json:"distribution"`
	Combined     domain.SentimentScore  `json:"combined"`
	Weighted     domain.SentimentScore  `json:"weighted"`
}

func (s *AnalysisService) ScoreBatch(items []sentiment.WeightedText) BatchScore {
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Text
	}
	res := s.engine.Scorer.Batch(texts)

	out := BatchScore{
		Items:        make([]TextScore, 0, len(items)),
		Average:      res.Average,
		Distribution: res.Distribution,
		Combined:     res.Combined,
		Weighted:     s.engine.Scorer.WeightedBatch(items),
	}
	for i, text := range texts {
		out.Items = append(out.Items, TextScore{
			Text:     text,
			Base:     res.Scores[i],
			Adjusted: s.engine.Scorer.ScoreDomain(text),
		})
	}
	return out
}
