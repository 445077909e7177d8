package sink

import (
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/common"
)

// LogSink writes each event as a structured log line. It is the default
// sink when no durable store is configured.
type LogSink struct{}

// NewLogSink creates a log sink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Emit logs the event.
func (s *LogSink) Emit(e Event) error {
	common.LogInfo("suggestion decision", common.Fields{
		"event_id":         e.ID,
		"txn_id":           e.TransactionID,
		"label":            e.Label,
		"confidence":       e.Confidence,
		"source":           string(e.Source),
		"shadow_agreement": string(e.ShadowAgreement),
		"model_version":    e.ModelVersion,
		"fallback":         e.Fallback,
		"duration_ms":      e.Duration.Milliseconds(),
	})
	return nil
}

// Close implements Sink.
func (s *LogSink) Close() error { return nil }

// Fanout emits every event to each of its sinks. A failure in one sink
// does not stop delivery to the others; the first error is returned for
// counting.
type Fanout []Sink

// Emit implements Sink.
func (f Fanout) Emit(e Event) error {
	var first error
	for _, s := range f {
		if err := s.Emit(e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes every sink, returning the first error.
func (f Fanout) Close() error {
	var first error
	for _, s := range f {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
