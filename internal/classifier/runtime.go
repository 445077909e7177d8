package classifier

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/common"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/feature"
)

// Prediction is the model's opinion for one transaction: the top class and
// the full probability distribution it came from.
type Prediction struct {
	Probabilities map[string]float64
	Label         string
	Version       string
	Confidence    float64
}

// Runtime serves predictions from the currently installed artifact. The
// artifact pointer is swapped atomically by Install; Predict never takes a
// lock. A Runtime with no installed artifact is valid and reports
// unavailable rather than failing.
type Runtime struct {
	current  atomic.Pointer[Artifact]
	warnOnce common.WarnOncer
}

// NewRuntime creates an empty runtime. No artifact is loaded until the
// first Install.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// Install validates the artifact against the live feature schema and makes
// it current. On any validation failure the previously installed artifact
// (if any) stays active, so a bad promotion never removes a working model.
func (r *Runtime) Install(a *Artifact) error {
	if a == nil {
		return fmt.Errorf("install: %w", common.ErrArtifactCorrupt)
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("install %s: %w: %v", a.Version, common.ErrArtifactCorrupt, err)
	}
	if a.SchemaVersion != feature.SchemaVersion || !a.SchemaMatches(feature.Names()) {
		r.warnOnce.Warn("schema:"+a.Version, "artifact feature schema does not match extractor", common.Fields{
			"artifact_version": a.Version,
			"artifact_schema":  a.SchemaVersion,
			"runtime_schema":   feature.SchemaVersion,
		})
		return fmt.Errorf("install %s: %w", a.Version, common.ErrSchemaMismatch)
	}
	r.current.Store(a)
	return nil
}

// Version returns the installed artifact's version, or "" when none is
// installed.
func (r *Runtime) Version() string {
	if a := r.current.Load(); a != nil {
		return a.Version
	}
	return ""
}

// Available reports whether a usable artifact is installed.
func (r *Runtime) Available() bool {
	return r.current.Load() != nil
}

// Predict scores the feature vector against the installed artifact. It is
// pure in-memory math with no I/O. When no artifact is installed, or the
// vector does not match the artifact's feature dimension, it returns
// common.ErrModelUnavailable; callers fall back to the rule path.
func (r *Runtime) Predict(features feature.Vector) (Prediction, error) {
	a := r.current.Load()
	if a == nil {
		return Prediction{}, common.ErrModelUnavailable
	}
	if len(features) != len(a.FeatureNames) {
		r.warnOnce.Warn("dim:"+a.Version, "feature vector dimension does not match artifact", common.Fields{
			"artifact_version": a.Version,
			"got":              len(features),
			"want":             len(a.FeatureNames),
		})
		return Prediction{}, common.ErrModelUnavailable
	}

	scores := make([]float64, len(a.Classes))
	for i, row := range a.Weights {
		s := a.Biases[i]
		for j, w := range row {
			s += w * features[j]
		}
		scores[i] = s
	}

	probs := softmax(scores)
	if len(a.Calibrations) == len(a.Classes) {
		probs = calibrate(probs, a.Calibrations)
	}

	dist := make(map[string]float64, len(a.Classes))
	best := 0
	for i, class := range a.Classes {
		dist[class] = probs[i]
		if probs[i] > probs[best] {
			best = i
		}
	}

	return Prediction{
		Label:         a.Classes[best],
		Confidence:    probs[best],
		Probabilities: dist,
		Version:       a.Version,
	}, nil
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// calibrate applies per-class Platt scaling and renormalizes so the output
// is still a distribution. Zero-value parameters are identity.
func calibrate(probs []float64, cals []Calibration) []float64 {
	out := make([]float64, len(probs))
	var sum float64
	for i, p := range probs {
		c := cals[i]
		if c.A == 0 && c.B == 0 {
			out[i] = p
		} else {
			logit := math.Log(p/(1-p) + 1e-12)
			out[i] = 1 / (1 + math.Exp(-(c.A*logit + c.B)))
		}
		sum += out[i]
	}
	if sum > 0 {
		for i := range out {
			out[i] /= sum
		}
	}
	return out
}
