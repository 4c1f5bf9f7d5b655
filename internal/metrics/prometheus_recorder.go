package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "pillarsync"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	runDuration    prom.Histogram
	runOutcome     *prom.CounterVec
	courseDuration *prom.HistogramVec
	courseResults  *prom.CounterVec
	fileOutcomes   *prom.CounterVec
	injections     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total sync run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Sync runs by final status",
		}, []string{"outcome"})
		pr.courseDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "course_duration_seconds",
			Help:      "Duration of a single course sync",
			Buckets:   prom.DefBuckets,
		}, []string{"course"})
		pr.courseResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "course_results_total",
			Help:      "Course results by outcome",
		}, []string{"course", "result"})
		pr.fileOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "file_outcomes_total",
			Help:      "Per-file outcomes (updated, unchanged, unlinked, error)",
		}, []string{"course", "outcome"})
		pr.injections = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "injections_applied_total",
			Help:      "Markup injections applied by name",
		}, []string{"injection"})
		reg.MustRegister(pr.runDuration, pr.runOutcome, pr.courseDuration, pr.courseResults, pr.fileOutcomes, pr.injections)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcomeLabel) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveCourseDuration(course string, d time.Duration) {
	if p == nil || p.courseDuration == nil {
		return
	}
	p.courseDuration.WithLabelValues(course).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCourseResult(course string, result CourseResultLabel) {
	if p == nil || p.courseResults == nil {
		return
	}
	p.courseResults.WithLabelValues(course, string(result)).Inc()
}

func (p *PrometheusRecorder) IncFileOutcome(course, outcome string) {
	if p == nil || p.fileOutcomes == nil {
		return
	}
	p.fileOutcomes.WithLabelValues(course, outcome).Inc()
}

func (p *PrometheusRecorder) IncInjection(name string) {
	if p == nil || p.injections == nil {
		return
	}
	p.injections.WithLabelValues(name).Inc()
}
