package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every tweetlens collector. It is separate from the
// default registry so dumps contain only tweetlens series.
var Registry = prometheus.NewRegistry()

var (
	Queries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetlens_queries_total",
		Help: "Total queries evaluated",
	}, []string{"op"})
	QueryErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetlens_query_errors_total",
		Help: "Total queries that failed",
	}, []string{"op"})
	QueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tweetlens_query_duration_seconds",
		Help:    "Query evaluation duration seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{"op"})
	TweetsLoaded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tweetlens_tweets_loaded_total",
		Help: "Total tweets decoded from collections",
	})
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tweetlens_cache_hits_total",
		Help: "Collection cache hits",
	})
	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tweetlens_cache_misses_total",
		Help: "Collection cache misses",
	})
)

func init() {
	Registry.MustRegister(Queries, QueryErrors, QueryDuration, TweetsLoaded, CacheHits, CacheMisses)
}

// ObserveQuery records one evaluation of op that started at start
func ObserveQuery(op string, start time.Time, err error) {
	Queries.WithLabelValues(op).Inc()
	if err != nil {
		QueryErrors.WithLabelValues(op).Inc()
	}
	QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// WriteTextfile dumps the registry in the text exposition format, for the
// node_exporter textfile collector. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
