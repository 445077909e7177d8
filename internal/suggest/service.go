// Package suggest orchestrates feature extraction, the rule engine, the
// model runtime, rollout routing, and threshold gating into the single
// public entry point: Suggest.
package suggest

import (
	"context"
	"time"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/classifier"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/feature"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/model"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/rollout"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/rules"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/sink"
)

// ConfigSource supplies the rollout config snapshot for one decision cycle.
type ConfigSource interface {
	Snapshot() rollout.Config
}

// StaticConfig is a ConfigSource that always returns the same snapshot.
// Useful for tests and one-shot CLI invocations.
type StaticConfig rollout.Config

// Snapshot implements ConfigSource.
func (c StaticConfig) Snapshot() rollout.Config { return rollout.Config(c) }

// Service decides category suggestions. All dependencies are read-mostly
// and safe for concurrent Suggest calls; the service itself holds no
// per-request state.
type Service struct {
	rules   *rules.Engine
	runtime *classifier.Runtime
	gate    *rollout.Gate
	config  ConfigSource
	emitter sink.Emitter
}

// New creates a suggestion service. A nil emitter disables outcome
// emission.
func New(ruleEngine *rules.Engine, runtime *classifier.Runtime, config ConfigSource, emitter sink.Emitter) *Service {
	if emitter == nil {
		emitter = nopEmitter{}
	}
	return &Service{
		rules:   ruleEngine,
		runtime: runtime,
		gate:    rollout.NewGate(),
		config:  config,
		emitter: emitter,
	}
}

// Suggest returns a category decision for the transaction. It never
// returns an error: a missing, cold, or mismatched model silently degrades
// to the rule engine's result, worst case the unknown category with
// confidence 0. The completed decision is emitted asynchronously; emission
// can never delay or fail the response.
func (s *Service) Suggest(ctx context.Context, txn model.Transaction) model.Decision {
	start := time.Now()
	cfg := s.config.Snapshot()

	features := feature.Extract(txn)

	// The rule path is the unconditional safety net and is always computed.
	ruleLabel, ruleConf := s.rules.Classify(txn)

	decision := model.Decision{
		DecidedAt:       start.UTC(),
		Label:           ruleLabel,
		Confidence:      ruleConf,
		Source:          model.SourceRule,
		ShadowAgreement: model.ShadowNA,
	}

	route := rollout.Route(rollout.BucketKey(txn), cfg)
	fallback := sink.FallbackNone

	if route.ComputeModel() {
		pred, err := s.runtime.Predict(features)
		switch {
		case err != nil:
			if route.ServeModel() {
				fallback = sink.FallbackUnavailable
			}
		default:
			decision.ModelVersion = pred.Version
			if pred.Label == ruleLabel {
				decision.ShadowAgreement = model.ShadowAgree
			} else {
				decision.ShadowAgreement = model.ShadowDisagree
			}
			if route.ServeModel() {
				if s.gate.Accept(pred.Label, pred.Confidence, cfg) {
					decision.Label = pred.Label
					decision.Confidence = pred.Confidence
					decision.Source = model.SourceModel
				} else {
					fallback = sink.FallbackThreshold
				}
			}
		}
	}

	s.emitter.Emit(sink.NewEvent(txn.ID, decision, fallback, time.Since(start)))
	return decision
}

type nopEmitter struct{}

func (nopEmitter) Emit(sink.Event) {}
