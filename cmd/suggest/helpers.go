package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/classifier"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/common"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/config"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/registry"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/rules"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/sink"
	"github.com/leok974/ai-finance-agent-oss-sub001/internal/suggest"
)

func openRegistry() (*registry.Registry, error) {
	dir := viper.GetString("registry.dir")
	reg, err := registry.New(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open model registry: %w", err)
	}
	return reg, nil
}

// buildService wires the full decision stack from viper settings: rule
// engine, model runtime primed from the registry, rollout config store
// (hot-reloading when a config file is in use), and the queued sink fanout.
// The returned cleanup drains the event queue.
func buildService(ctx context.Context) (*suggest.Service, *config.Store, func(), error) {
	reg, err := openRegistry()
	if err != nil {
		return nil, nil, nil, err
	}

	runtime := classifier.NewRuntime()
	if err := suggest.LoadCurrentModel(ctx, reg, runtime); err != nil {
		// A bad artifact must not take the CLI down; rules still serve.
		common.LogError(err, "model load failed, serving rules only", common.Fields{
			"registry": reg.Root(),
		})
	}

	rolloutCfg, err := config.RolloutFromViper(viper.GetViper())
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := config.NewStore(rolloutCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if viper.ConfigFileUsed() != "" {
		config.WatchRollout(viper.GetViper(), store)
	}

	sinks := sink.Fanout{sink.NewLogSink(), sink.NewPromSink(prometheus.DefaultRegisterer)}
	if dbPath := viper.GetString("sink.events_db"); dbPath != "" {
		dbSink, err := sink.NewSQLiteSink(dbPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open events database: %w", err)
		}
		sinks = append(sinks, dbSink)
	}
	queue := sink.NewQueue(sinks, viper.GetInt("sink.queue_capacity"))

	svc := suggest.New(rules.NewDefaultEngine(), runtime, store, queue)
	cleanup := func() { _ = queue.Close() }
	return svc, store, cleanup, nil
}
