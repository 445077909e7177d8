package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/common"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/feature"
)

// testArtifact builds a valid artifact over the live feature schema whose
// prediction is dominated by per-class biases: the class with the largest
// bias wins regardless of input.
func testArtifact(version string, classBias map[string]float64) *Artifact {
	names := feature.Names()
	classes := make([]string, 0, len(classBias))
	for class := range classBias {
		classes = append(classes, class)
	}
	// Map iteration order is random; fix it so tests are reproducible.
	for i := 0; i < len(classes); i++ {
		for j := i + 1; j < len(classes); j++ {
			if classes[j] < classes[i] {
				classes[i], classes[j] = classes[j], classes[i]
			}
		}
	}

	weights := make([][]float64, len(classes))
	biases := make([]float64, len(classes))
	for i, class := range classes {
		weights[i] = make([]float64, len(names))
		biases[i] = classBias[class]
	}

	return &Artifact{
		Version:       version,
		SchemaVersion: feature.SchemaVersion,
		Classes:       classes,
		FeatureNames:  append([]string(nil), names...),
		Weights:       weights,
		Biases:        biases,
		Metadata: TrainingMetadata{
			RunID:        "run-" + version,
			ValidationF1: 0.91,
			TrainedAt:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestRuntime_PredictUnavailableWhenEmpty(t *testing.T) {
	rt := NewRuntime()

	assert.False(t, rt.Available())
	assert.Empty(t, rt.Version())

	_, err := rt.Predict(feature.Vector{1, 2, 3})
	assert.ErrorIs(t, err, common.ErrModelUnavailable)
}

func TestRuntime_InstallAndPredict(t *testing.T) {
	rt := NewRuntime()
	require.NoError(t, rt.Install(testArtifact("v1", map[string]float64{
		"Groceries": 4,
		"Dining":    0,
	})))

	assert.True(t, rt.Available())
	assert.Equal(t, "v1", rt.Version())

	vec := make(feature.Vector, len(feature.Names()))
	pred, err := rt.Predict(vec)
	require.NoError(t, err)

	assert.Equal(t, "Groceries", pred.Label)
	assert.Equal(t, "v1", pred.Version)
	assert.Greater(t, pred.Confidence, 0.95)

	var sum float64
	for _, p := range pred.Probabilities {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9, "probabilities must form a distribution")
}

func TestRuntime_InstallRejectsSchemaMismatch(t *testing.T) {
	rt := NewRuntime()
	require.NoError(t, rt.Install(testArtifact("v1", map[string]float64{"A": 1, "B": 0})))

	bad := testArtifact("v2", map[string]float64{"A": 1, "B": 0})
	bad.SchemaVersion = "txn-features-v999"

	err := rt.Install(bad)
	assert.ErrorIs(t, err, common.ErrSchemaMismatch)

	// The previously installed artifact keeps serving.
	assert.Equal(t, "v1", rt.Version())
	_, err = rt.Predict(make(feature.Vector, len(feature.Names())))
	assert.NoError(t, err)
}

func TestRuntime_InstallRejectsCorruptArtifact(t *testing.T) {
	rt := NewRuntime()
	require.NoError(t, rt.Install(testArtifact("v1", map[string]float64{"A": 1, "B": 0})))

	bad := testArtifact("v2", map[string]float64{"A": 1, "B": 0})
	bad.Biases = bad.Biases[:1]

	err := rt.Install(bad)
	assert.ErrorIs(t, err, common.ErrArtifactCorrupt)
	assert.Equal(t, "v1", rt.Version())
}

func TestRuntime_PredictDimensionMismatch(t *testing.T) {
	rt := NewRuntime()
	require.NoError(t, rt.Install(testArtifact("v1", map[string]float64{"A": 1, "B": 0})))

	_, err := rt.Predict(feature.Vector{1})
	assert.ErrorIs(t, err, common.ErrModelUnavailable)
}

func TestArtifact_Validate(t *testing.T) {
	tests := []struct {
		mutate  func(*Artifact)
		name    string
		wantErr bool
	}{
		{name: "valid", mutate: func(_ *Artifact) {}},
		{name: "missing version", mutate: func(a *Artifact) { a.Version = "" }, wantErr: true},
		{name: "no classes", mutate: func(a *Artifact) { a.Classes = nil }, wantErr: true},
		{name: "weight row dimension", mutate: func(a *Artifact) { a.Weights[0] = a.Weights[0][:2] }, wantErr: true},
		{name: "bias count", mutate: func(a *Artifact) { a.Biases = append(a.Biases, 1) }, wantErr: true},
		{name: "calibration count", mutate: func(a *Artifact) { a.Calibrations = []Calibration{{A: 1}} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testArtifact("v1", map[string]float64{"A": 1, "B": 0, "C": -1})
			tt.mutate(a)
			err := a.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPrediction_Rankings(t *testing.T) {
	p := Prediction{Probabilities: map[string]float64{
		"Dining":    0.2,
		"Groceries": 0.7,
		"Transport": 0.1,
	}}

	r := p.Rankings()
	require.Len(t, r, 3)
	assert.Equal(t, "Groceries", r[0].Class)
	assert.Equal(t, "Dining", r[1].Class)
	assert.Equal(t, "Transport", r[2].Class)
}
