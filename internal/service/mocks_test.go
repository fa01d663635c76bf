package service

import (
	"context"
	"sync"
	"time"

	"pumpradar/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace/noop"
)

var testTracer = noop.NewTracerProvider().Tracer("test")

func f64(v float64) *float64 { return &v }

type mockPriceProvider struct {
	snap  *domain.PriceSnapshot
	err   error
	calls int
}

func (m *mockPriceProvider) FetchPriceSnapshot(ctx context.Context, ticker string) (*domain.PriceSnapshot, error) {
	m.calls++
	return m.snap, m.err
}

type mockSocialFeed struct {
	records []domain.DailySentiment
	err     error
}

func (m *mockSocialFeed) FetchDailySentiment(ctx context.Context, ticker string) ([]domain.DailySentiment, error) {
	return m.records, m.err
}

type mockNews struct {
	articles []domain.NewsArticle
	err      error
	calls    int
}

func (m *mockNews) FetchNewsSentiment(ctx context.Context, ticker string, limit int) ([]domain.NewsArticle, error) {
	m.calls++
	return m.articles, m.err
}

type mockMentions struct {
	mentions  []domain.Mention
	err       error
	lastLimit int
}

func (m *mockMentions) FetchMentions(ctx context.Context, ticker string, limit int) ([]domain.Mention, error) {
	m.lastLimit = limit
	return m.mentions, m.err
}

type mockSnapshotStore struct {
	mu         sync.Mutex
	previous   *domain.AnalysisSnapshot
	prevErr    error
	saveErr    error
	saved      []domain.AnalysisSnapshot
	lastBefore time.Time
	list       []domain.AnalysisSnapshot
	lastLimit  int
}

func (m *mockSnapshotStore) SaveSnapshot(ctx context.Context, s domain.AnalysisSnapshot) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.saved = append(m.saved, s)
	return int64(len(m.saved)), nil
}

func (m *mockSnapshotStore) PreviousSnapshot(ctx context.Context, ticker string, before time.Time) (*domain.AnalysisSnapshot, error) {
	m.lastBefore = before
	return m.previous, m.prevErr
}

func (m *mockSnapshotStore) ListSnapshots(ctx context.Context, ticker string, limit int) ([]domain.AnalysisSnapshot, error) {
	m.lastLimit = limit
	return m.list, nil
}

type mockWatchlistStore struct {
	entries []domain.WatchlistEntry
	added   []string
	removed []string
	err     error
}

func (m *mockWatchlistStore) List(ctx context.Context) ([]domain.WatchlistEntry, error) {
	return m.entries, m.err
}

func (m *mockWatchlistStore) Add(ctx context.Context, ticker string) error {
	m.added = append(m.added, ticker)
	return m.err
}

func (m *mockWatchlistStore) Remove(ctx context.Context, ticker string) error {
	m.removed = append(m.removed, ticker)
	return m.err
}

type fakeRedis struct {
	data   map[string][]byte
	ttl    map[string]time.Duration
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte), ttl: make(map[string]time.Duration)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = v
	case string:
		f.data[key] = []byte(v)
	}
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.data, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
