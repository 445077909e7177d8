package config

import (
	"strings"
	"sync"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/rollout"
)

func viperFromYAML(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	SetRolloutDefaults(v)
	require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))
	return v
}

func TestRolloutFromViper(t *testing.T) {
	v := viperFromYAML(t, `
rollout:
  model_enabled: true
  shadow_enabled: true
  canary_percent: 25
  default_threshold: 0.75
  thresholds:
    groceries: 0.70
    transfers: 0.95
`)

	cfg, err := RolloutFromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.ModelEnabled)
	assert.True(t, cfg.ShadowEnabled)
	assert.Equal(t, 25, cfg.CanaryPercent)
	assert.Equal(t, 0.75, cfg.DefaultThreshold)
	assert.Equal(t, 0.70, cfg.Thresholds["groceries"])
	assert.Equal(t, 0.95, cfg.Thresholds["transfers"])
}

func TestRolloutFromViper_Literals(t *testing.T) {
	tests := []struct {
		name   string
		canary string
		want   int
	}{
		{name: "disabled", canary: "disabled", want: 0},
		{name: "all", canary: "all", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viperFromYAML(t, "rollout:\n  canary_percent: "+tt.canary+"\n")
			cfg, err := RolloutFromViper(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.CanaryPercent)
		})
	}
}

func TestRolloutFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	SetRolloutDefaults(v)

	cfg, err := RolloutFromViper(v)
	require.NoError(t, err)

	assert.False(t, cfg.ModelEnabled)
	assert.False(t, cfg.ShadowEnabled)
	assert.Equal(t, 0, cfg.CanaryPercent)
	assert.Equal(t, rollout.DefaultThreshold, cfg.DefaultThreshold)
}

func TestRolloutFromViper_InvalidCanary(t *testing.T) {
	v := viperFromYAML(t, "rollout:\n  canary_percent: 250\n")
	_, err := RolloutFromViper(v)
	assert.Error(t, err)
}

func TestStore_SnapshotAndUpdate(t *testing.T) {
	store, err := NewStore(rollout.Config{ModelEnabled: true, CanaryPercent: 10})
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.True(t, snap.ModelEnabled)
	assert.Equal(t, 10, snap.CanaryPercent)

	require.NoError(t, store.Update(rollout.Config{CanaryPercent: 50}))
	assert.Equal(t, 50, store.Snapshot().CanaryPercent)
}

func TestStore_InvalidUpdateKeepsPrevious(t *testing.T) {
	store, err := NewStore(rollout.Config{CanaryPercent: 10})
	require.NoError(t, err)

	assert.Error(t, store.Update(rollout.Config{CanaryPercent: 500}))
	assert.Equal(t, 10, store.Snapshot().CanaryPercent, "failed reload must not disturb serving config")
}

func TestStore_ConcurrentSnapshots(t *testing.T) {
	store, err := NewStore(rollout.Config{CanaryPercent: 1})
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := store.Snapshot()
				// A snapshot is internally consistent: the validated
				// default threshold is always present.
				if snap.DefaultThreshold == 0 {
					t.Error("observed torn config snapshot")
					return
				}
			}
		}()
	}

	for pct := 0; pct <= 100; pct += 5 {
		require.NoError(t, store.Update(rollout.Config{CanaryPercent: pct}))
	}
	close(stop)
	wg.Wait()
}
