// Package sink carries structured decision outcomes out of the serving
// path. The front of the pipeline is a bounded queue with an explicit
// drop-newest overflow policy; emission never blocks and never fails the
// request that produced the event.
package sink

import (
	"time"

	"github.com/google/uuid"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/model"
)

// Fallback reasons recorded when the model path was routed but the rule
// result was served anyway.
const (
	FallbackNone        = ""
	FallbackUnavailable = "unavailable" // no usable artifact loaded
	FallbackThreshold   = "threshold"   // confidence under the category threshold
)

// Event is one decision outcome. It is immutable once constructed.
type Event struct {
	OccurredAt      time.Time
	ID              string
	TransactionID   string
	Label           string
	Source          model.DecisionSource
	ShadowAgreement model.ShadowAgreement
	ModelVersion    string
	Fallback        string
	Confidence      float64
	Duration        time.Duration
}

// NewEvent builds an event from a completed decision.
func NewEvent(txnID string, d model.Decision, fallback string, duration time.Duration) Event {
	return Event{
		ID:              uuid.NewString(),
		TransactionID:   txnID,
		Label:           d.Label,
		Confidence:      d.Confidence,
		Source:          d.Source,
		ShadowAgreement: d.ShadowAgreement,
		ModelVersion:    d.ModelVersion,
		Fallback:        fallback,
		OccurredAt:      d.DecidedAt,
		Duration:        duration,
	}
}

// Sink consumes events. Implementations may block or fail; they sit behind
// the queue, never on the request path.
type Sink interface {
	Emit(Event) error
	Close() error
}

// Emitter is the request path's view of the pipeline: fire and forget.
type Emitter interface {
	Emit(Event)
}
