package service

import (
	"context"
	"errors"
	"testing"

	"pumpradar/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchlistTickersMergesSeed(t *testing.T) {
	store := &mockWatchlistStore{entries: []domain.WatchlistEntry{{Ticker: "AMC"}, {Ticker: "GME"}}}
	svc := NewWatchlistService(testTracer, store, []string{"gme", "$koss", "not valid"})

	got, err := svc.Tickers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AMC", "GME", "KOSS"}, got)
}

func TestWatchlistWithoutStore(t *testing.T) {
	svc := NewWatchlistService(testTracer, nil, []string{"GME"})

	got, err := svc.Tickers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"GME"}, got)

	_, err = svc.Add(context.Background(), "AMC")
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.True(t, errors.Is(svc.Remove(context.Background(), "AMC"), ErrUnavailable))
}

func TestWatchlistAddRemoveNormalize(t *testing.T) {
	store := &mockWatchlistStore{}
	svc := NewWatchlistService(testTracer, store, nil)

	ticker, err := svc.Add(context.Background(), " $amc ")
	require.NoError(t, err)
	assert.Equal(t, "AMC", ticker)
	assert.Equal(t, []string{"AMC"}, store.added)

	require.NoError(t, svc.Remove(context.Background(), "amc"))
	assert.Equal(t, []string{"AMC"}, store.removed)

	_, err = svc.Add(context.Background(), "123")
	assert.True(t, errors.Is(err, domain.ErrInvalidTicker))
}
