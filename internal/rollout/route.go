package rollout

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/model"
)

// RouteKind is the branch the suggestion service follows for one request.
// It is computed once per request; downstream code branches on it in a
// single place instead of re-deriving the canary condition.
type RouteKind int

// Route kinds.
const (
	// RouteRule serves the rule engine and skips the model entirely.
	RouteRule RouteKind = iota
	// RouteModel computes the model and serves it, subject to the
	// threshold gate.
	RouteModel
	// RouteModelShadowed computes the model for comparison only; the rule
	// engine's result is served.
	RouteModelShadowed
)

// RouteDecision is the routing outcome for one request key.
type RouteDecision struct {
	Kind   RouteKind
	Bucket int // the key's stable position in [0,100)
}

// ComputeModel reports whether the model prediction should run at all.
func (d RouteDecision) ComputeModel() bool { return d.Kind != RouteRule }

// ServeModel reports whether the model's decision is the one served, gate
// permitting.
func (d RouteDecision) ServeModel() bool { return d.Kind == RouteModel }

// Bucket hashes a request key into [0,100). The hash is a pure function of
// the key, so a given entity's cohort assignment never flaps across
// requests or concurrent callers.
func Bucket(key string) int {
	sum := sha256.Sum256([]byte(key))
	return int(binary.BigEndian.Uint64(sum[:8]) % 100)
}

// BucketKey picks the canary-cohort key for a transaction: the user ID when
// present, so a user's whole history lands in one cohort, otherwise the
// transaction ID.
func BucketKey(txn model.Transaction) string {
	if txn.UserID != "" {
		return txn.UserID
	}
	return txn.ID
}

// Route decides the classification path for a request key under a config
// snapshot.
//
// With shadow enabled the model is always computed for comparison, and
// additionally served when the key's bucket falls under the canary percent.
// With shadow disabled the model is only computed when it would be served,
// saving the prediction cost for the rest of the traffic.
func Route(key string, cfg Config) RouteDecision {
	if !cfg.ModelEnabled {
		return RouteDecision{Kind: RouteRule}
	}

	bucket := Bucket(key)
	inCanary := bucket < cfg.CanaryPercent

	switch {
	case inCanary:
		return RouteDecision{Kind: RouteModel, Bucket: bucket}
	case cfg.ShadowEnabled:
		return RouteDecision{Kind: RouteModelShadowed, Bucket: bucket}
	default:
		return RouteDecision{Kind: RouteRule, Bucket: bucket}
	}
}
