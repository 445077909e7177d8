package sink

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/model"
)

// PromSink exposes decision outcomes as Prometheus metrics. Label sets stay
// low-cardinality: source, agreement, and fallback reason, never the
// category or transaction ID.
type PromSink struct {
	decisions *prometheus.CounterVec
	agreement *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	latency   prometheus.Histogram
}

// NewPromSink registers the suggestion metrics on reg.
func NewPromSink(reg prometheus.Registerer) *PromSink {
	factory := promauto.With(reg)
	return &PromSink{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suggest",
			Name:      "decisions_total",
			Help:      "Decisions served, by source path.",
		}, []string{"source"}),
		agreement: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suggest",
			Name:      "shadow_comparisons_total",
			Help:      "Shadow comparisons between rule and model paths, by agreement.",
		}, []string{"agreement"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suggest",
			Name:      "model_fallbacks_total",
			Help:      "Requests routed to the model but served by rules, by reason.",
		}, []string{"reason"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "suggest",
			Name:      "decision_duration_seconds",
			Help:      "End-to-end Suggest latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
	}
}

// Emit implements Sink.
func (s *PromSink) Emit(e Event) error {
	s.decisions.WithLabelValues(string(e.Source)).Inc()
	if e.ShadowAgreement != model.ShadowNA {
		s.agreement.WithLabelValues(string(e.ShadowAgreement)).Inc()
	}
	if e.Fallback != FallbackNone {
		s.fallbacks.WithLabelValues(e.Fallback).Inc()
	}
	s.latency.Observe(e.Duration.Seconds())
	return nil
}

// Close implements Sink.
func (s *PromSink) Close() error { return nil }
