package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pumpradar_analyses_total",
			Help: "Completed ticker analyses by resulting phase and signal",
		},
		[]string{"phase", "signal"},
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pumpradar_analysis_duration_seconds",
			Help:    "Wall time of one uncached ticker analysis",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
	)

	SourcePoints = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pumpradar_source_points_total",
			Help: "Normalized sentiment points per source",
		},
		[]string{"source", "status"}, // status: present|absent
	)

	ProviderErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pumpradar_provider_errors_total",
			Help: "Collaborator fetch failures converted to absence",
		},
		[]string{"provider"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pumpradar_analysis_cache_total",
			Help: "Analysis cache lookups",
		},
		[]string{"result"}, // result: hit|miss|error
	)

	WatchlistLastRun = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pumpradar_watchlist_last_run_timestamp",
			Help: "Unix timestamp of the last watchlist refresh",
		},
	)
)

var registerOnce sync.Once

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			AnalysesTotal,
			AnalysisDuration,
			SourcePoints,
			ProviderErrors,
			CacheLookups,
			WatchlistLastRun,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordAnalysis(phase, signal string, took time.Duration) {
	AnalysesTotal.WithLabelValues(phase, signal).Inc()
	AnalysisDuration.Observe(took.Seconds())
}

func RecordSourcePoint(source string, present bool) {
	status := "absent"
	if present {
		status = "present"
	}
	SourcePoints.WithLabelValues(source, status).Inc()
}

func RecordProviderError(provider string) {
	ProviderErrors.WithLabelValues(provider).Inc()
}

func RecordCacheLookup(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}

func RecordWatchlistRun() {
	WatchlistLastRun.SetToCurrentTime()
}
