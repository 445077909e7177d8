package rollout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_Accept(t *testing.T) {
	cfg := Config{
		Thresholds:       map[string]float64{"Groceries": 0.70, "Transfers": 0.95},
		DefaultThreshold: 0.80,
	}
	require.NoError(t, cfg.Validate())
	gate := NewGate()

	tests := []struct {
		name       string
		label      string
		confidence float64
		want       bool
	}{
		{name: "above threshold", label: "Groceries", confidence: 0.85, want: true},
		{name: "exactly at threshold", label: "Groceries", confidence: 0.70, want: true},
		{name: "just below threshold", label: "Groceries", confidence: 0.6999, want: false},
		{name: "strict category rejects", label: "Transfers", confidence: 0.90, want: false},
		{name: "unmapped label uses default, above", label: "Esoterica", confidence: 0.81, want: true},
		{name: "unmapped label uses default, below", label: "Esoterica", confidence: 0.79, want: false},
		{name: "unmapped label exactly at default", label: "Esoterica", confidence: 0.80, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Accept(tt.label, tt.confidence, cfg))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: Config{}},
		{name: "full", cfg: Config{CanaryPercent: 50, DefaultThreshold: 0.9, Thresholds: map[string]float64{"A": 0.5}}},
		{name: "canary over 100", cfg: Config{CanaryPercent: 101}, wantErr: true},
		{name: "canary negative", cfg: Config{CanaryPercent: -1}, wantErr: true},
		{name: "threshold over 1", cfg: Config{Thresholds: map[string]float64{"A": 1.5}}, wantErr: true},
		{name: "default threshold over 1", cfg: Config{DefaultThreshold: 1.5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateFillsDefaultThreshold(t *testing.T) {
	cfg := Config{}
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultThreshold, cfg.DefaultThreshold)
}

func TestParseCanaryPercent(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "number", in: "25", want: 25},
		{name: "zero", in: "0", want: 0},
		{name: "hundred", in: "100", want: 100},
		{name: "disabled literal", in: "disabled", want: 0},
		{name: "all literal", in: "all", want: 100},
		{name: "mixed case literal", in: "Disabled", want: 0},
		{name: "whitespace", in: " 10 ", want: 10},
		{name: "over range", in: "101", wantErr: true},
		{name: "negative", in: "-5", wantErr: true},
		{name: "garbage", in: "half", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCanaryPercent(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
