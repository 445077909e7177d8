// Package classifier implements the model runtime: loading versioned
// classifier artifacts and serving in-memory predictions from them.
package classifier

import (
	"fmt"
	"time"
)

// TrainingMetadata records provenance for a trained artifact. It is written
// by the offline training pipeline and carried through for operator
// inspection; the runtime never branches on it.
type TrainingMetadata struct {
	TrainedAt    time.Time `json:"trained_at"`
	RunID        string    `json:"run_id"`
	ValidationF1 float64   `json:"validation_f1"`
}

// Calibration holds per-class Platt scaling parameters applied to the raw
// class score before the final renormalization. A zero-value Calibration
// (A=0, B=0) is treated as identity.
type Calibration struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Artifact is an immutable, versioned classifier bundle: a linear scorer
// per class, the ordered class list, the feature schema it was trained
// against, and training metadata. Artifacts are written once by the
// training pipeline and never mutated.
type Artifact struct {
	Metadata      TrainingMetadata `json:"metadata"`
	Version       string           `json:"version"`
	SchemaVersion string           `json:"schema_version"`
	Classes       []string         `json:"classes"`
	FeatureNames  []string         `json:"feature_names"`
	Weights       [][]float64      `json:"weights"` // one row per class
	Biases        []float64        `json:"biases"`
	Calibrations  []Calibration    `json:"calibrations,omitempty"`
}

// Validate checks internal consistency: every class needs a weight row of
// the feature dimension and a bias, and calibration, when present, must
// cover every class.
func (a *Artifact) Validate() error {
	if a.Version == "" {
		return fmt.Errorf("artifact version is required")
	}
	if len(a.Classes) == 0 {
		return fmt.Errorf("artifact has no classes")
	}
	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("artifact has no feature names")
	}
	if len(a.Weights) != len(a.Classes) {
		return fmt.Errorf("weight rows (%d) do not match classes (%d)", len(a.Weights), len(a.Classes))
	}
	for i, row := range a.Weights {
		if len(row) != len(a.FeatureNames) {
			return fmt.Errorf("weight row for class %q has %d values, want %d", a.Classes[i], len(row), len(a.FeatureNames))
		}
	}
	if len(a.Biases) != len(a.Classes) {
		return fmt.Errorf("biases (%d) do not match classes (%d)", len(a.Biases), len(a.Classes))
	}
	if len(a.Calibrations) != 0 && len(a.Calibrations) != len(a.Classes) {
		return fmt.Errorf("calibrations (%d) do not match classes (%d)", len(a.Calibrations), len(a.Classes))
	}
	return nil
}

// SchemaMatches reports whether the artifact was trained against exactly
// the given ordered feature-name list.
func (a *Artifact) SchemaMatches(names []string) bool {
	if len(a.FeatureNames) != len(names) {
		return false
	}
	for i, n := range names {
		if a.FeatureNames[i] != n {
			return false
		}
	}
	return true
}
