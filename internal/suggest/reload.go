package suggest

import (
	"context"
	"errors"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/classifier"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/common"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/registry"
)

// LoadCurrentModel installs the registry's current artifact into the
// runtime. A registry with no promoted model is not an error: the service
// simply serves rules until a promotion happens.
func LoadCurrentModel(ctx context.Context, reg *registry.Registry, runtime *classifier.Runtime) error {
	artifact, err := reg.LoadCurrent(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoCurrentModel) {
			common.LogInfo("no model promoted yet, serving rules only", common.Fields{
				"registry": reg.Root(),
			})
			return nil
		}
		return err
	}
	if err := runtime.Install(artifact); err != nil {
		return err
	}
	common.LogInfo("model loaded", common.Fields{
		"version": artifact.Version,
		"run_id":  artifact.Metadata.RunID,
	})
	return nil
}

// WatchPromotions blocks, reloading the runtime each time the registry's
// current pointer changes. Reload failures keep the previously installed
// artifact serving.
func WatchPromotions(ctx context.Context, reg *registry.Registry, runtime *classifier.Runtime) error {
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(done)
	}()

	return reg.Watch(done, func(version string) {
		artifact, err := reg.Load(ctx, version)
		if err != nil {
			common.LogError(err, "promoted artifact failed to load, keeping previous model", common.Fields{
				"version": version,
			})
			return
		}
		if err := runtime.Install(artifact); err != nil {
			common.LogError(err, "promoted artifact rejected, keeping previous model", common.Fields{
				"version": version,
			})
			return
		}
		common.LogInfo("model hot-reloaded", common.Fields{"version": version})
	})
}
