// Package metrics defines the Prometheus metrics for the advisor service.
//
// All collectors are registered on the package Registry so that callers can
// record without threading a metrics handle through every constructor. The
// HTTP layer exposes Registry on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector in this package plus the standard Go and
// process collectors.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Catalog scraper metrics.
var (
	ScrapeRequestsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bteam_scrape_requests_total",
			Help: "Total number of department page scrapes by college and status",
		},
		[]string{"college", "status"}, // status: ok, error
	)

	ScrapeDurationSeconds = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bteam_scrape_duration_seconds",
			Help:    "Department page scrape duration in seconds by college",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"college"},
	)

	CoursesParsedTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bteam_courses_parsed_total",
			Help: "Total number of course records emitted by the parser, by college",
		},
		[]string{"college"},
	)

	ParseSkipsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bteam_parse_skips_total",
			Help: "Total number of malformed blocks or rows skipped during parsing",
		},
		[]string{"reason"}, // reason: invalid_number, short_row
	)
)

// RAG pipeline metrics.
var (
	RagRequestsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bteam_rag_requests_total",
			Help: "Total number of advisor requests by outcome",
		},
		[]string{"status"}, // status: success, auth_error, error
	)

	RagStepSeconds = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bteam_rag_step_duration_seconds",
			Help:    "Duration of each advisor pipeline step in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"step"}, // step: enhance, retrieve, assemble, complete
	)

	EnhanceFallbacks = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "bteam_enhance_fallbacks_total",
			Help: "Total number of query enhancements that fell back to the raw query",
		},
	)

	RetrievedDocs = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bteam_retrieved_docs",
			Help:    "Number of course records returned per retrieval",
			Buckets: []float64{0, 1, 2, 5, 10, 15, 25, 50},
		},
	)

	SummarizationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bteam_summarizations_total",
			Help: "Total number of chat history compactions by outcome",
		},
		[]string{"status"}, // status: success, skipped, error
	)
)

// Embedding metrics.
var EmbeddingRetriesTotal = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Name: "bteam_embedding_retries_total",
		Help: "Total number of embedding request retries after transient failures",
	},
)

// HTTP metrics.
var HTTPErrorsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Name: "bteam_http_errors_total",
		Help: "Total number of HTTP error responses by status code",
	},
	[]string{"code"},
)
