package rollout

import (
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/common"
)

// Gate applies per-category confidence thresholds to model predictions.
// The only state it carries is the once-per-label warning dedup, so one
// Gate is shared across all requests.
type Gate struct {
	warnOnce common.WarnOncer
}

// NewGate creates a threshold gate.
func NewGate() *Gate {
	return &Gate{}
}

// Accept reports whether a model prediction clears the confidence threshold
// for its category. Categories absent from the config use the conservative
// default threshold; each distinct unmapped category is logged once, not
// per request.
func (g *Gate) Accept(label string, confidence float64, cfg Config) bool {
	threshold, mapped := cfg.Threshold(label)
	if !mapped {
		g.warnOnce.Warn("threshold:"+label, "no confidence threshold configured for category, using default", common.Fields{
			"category": label,
			"default":  cfg.DefaultThreshold,
		})
	}
	return confidence >= threshold
}
