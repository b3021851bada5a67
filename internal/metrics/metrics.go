// Package metrics records run statistics in Prometheus collectors and pushes
// them to a Pushgateway when the run ends.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/amishk599/jobhydra/internal/ai"
	"github.com/amishk599/jobhydra/internal/model"
	"github.com/amishk599/jobhydra/internal/pipeline"
)

const namespace = "jobhydra"

var (
	_ pipeline.Recorder  = (*Recorder)(nil)
	_ ai.FailureRecorder = (*Recorder)(nil)
)

// Recorder owns all collectors of one process. Collectors are safe for
// concurrent use, so a Recorder is too.
type Recorder struct {
	reg *prometheus.Registry

	sourceCandidates *prometheus.CounterVec
	sourceFailures   *prometheus.CounterVec
	providerFailures *prometheus.CounterVec
	notifyFailures   prometheus.Counter
	runCandidates    *prometheus.GaugeVec
	runDuration      prometheus.Gauge
	lastSuccess      prometheus.Gauge
}

// NewRecorder registers the collectors on a fresh registry.
func NewRecorder() (*Recorder, error) {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		reg: reg,
		sourceCandidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_candidates_total",
			Help:      "Raw candidates returned, partitioned by source kind.",
		}, []string{"kind"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Source fetches that failed and contributed an empty batch.",
		}, []string{"kind"}),
		providerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_failures_total",
			Help:      "Language-model calls that produced no usable answer.",
		}, []string{"provider"}),
		notifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Alerts that could not be delivered.",
		}),
		runCandidates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_candidates",
			Help:      "Candidates at each stage of the last run.",
		}, []string{"stage"}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
	for _, c := range []prometheus.Collector{
		r.sourceCandidates,
		r.sourceFailures,
		r.providerFailures,
		r.notifyFailures,
		r.runCandidates,
		r.runDuration,
		r.lastSuccess,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

func (r *Recorder) SourceFetched(kind model.SourceKind, n int) {
	r.sourceCandidates.WithLabelValues(string(kind)).Add(float64(n))
}

func (r *Recorder) SourceFailed(kind model.SourceKind) {
	r.sourceFailures.WithLabelValues(string(kind)).Inc()
}

func (r *Recorder) ProviderFailed(provider string) {
	r.providerFailures.WithLabelValues(provider).Inc()
}

func (r *Recorder) NotificationFailed() { r.notifyFailures.Inc() }

// RunFinished records the per-stage counts of a finished run.
func (r *Recorder) RunFinished(s pipeline.Summary) {
	for stage, v := range map[string]int{
		"fetched":    s.Fetched,
		"accepted":   s.Accepted,
		"excluded":   s.Excluded,
		"duplicates": s.Duplicates,
		"enriched":   s.Enriched,
		"matches":    s.Matches,
		"drafts":     s.Drafts,
	} {
		r.runCandidates.WithLabelValues(stage).Set(float64(v))
	}
	r.runDuration.Set(s.Duration.Seconds())
	r.lastSuccess.SetToCurrentTime()
}

// Push sends every collector to the Pushgateway at url under job, replacing
// what the previous run pushed.
func (r *Recorder) Push(ctx context.Context, url, job, instance string) error {
	p := push.New(url, job).Gatherer(r.reg)
	if instance != "" {
		p = p.Grouping("instance", instance)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
