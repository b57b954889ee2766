package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	renderDuration   prom.Histogram
	pageOutcomes     *prom.CounterVec
	transformIssues  *prom.CounterVec
	generateDuration prom.Histogram
	generateResults  *prom.CounterVec
	httpDuration     *prom.HistogramVec
	httpRequests     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.renderDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_render_duration_seconds",
			Help:      "Duration of a single page assembly",
			Buckets:   prom.DefBuckets,
		})
		pr.pageOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_outcomes_total",
			Help:      "Page assemblies by terminal state",
		}, []string{"outcome"})
		pr.transformIssues = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "transform_issues_total",
			Help:      "Non-fatal transform issues by kind",
		}, []string{"kind"})
		pr.generateDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "generate_duration_seconds",
			Help:      "Total static generation duration",
			Buckets:   prom.DefBuckets,
		})
		pr.generateResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "generate_page_results_total",
			Help:      "Generated pages by result",
		}, []string{"result"})
		pr.httpDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by method",
			Buckets:   prom.DefBuckets,
		}, []string{"method"})
		pr.httpRequests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code",
		}, []string{"method", "code"})
		reg.MustRegister(pr.renderDuration, pr.pageOutcomes, pr.transformIssues,
			pr.generateDuration, pr.generateResults, pr.httpDuration, pr.httpRequests)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageOutcome(outcome PageOutcome) {
	if p == nil || p.pageOutcomes == nil {
		return
	}
	p.pageOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncTransformIssue(kind string) {
	if p == nil || p.transformIssues == nil {
		return
	}
	p.transformIssues.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) ObserveGenerateDuration(d time.Duration) {
	if p == nil || p.generateDuration == nil {
		return
	}
	p.generateDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncGenerateResult(result ResultLabel) {
	if p == nil || p.generateResults == nil {
		return
	}
	p.generateResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveHTTPRequest(method string, status int, d time.Duration) {
	if p == nil || p.httpDuration == nil {
		return
	}
	p.httpDuration.WithLabelValues(method).Observe(d.Seconds())
	p.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
