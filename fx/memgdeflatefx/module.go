// Package memgdeflatefx provides an fx module for an in-process codec.
// Useful for testing and for environments without a codec library.
package memgdeflatefx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gpupack/gdeflate"
	"github.com/gpupack/gdeflate/internal/native/memnative"
	"github.com/gpupack/gdeflate/internal/stats"
	"github.com/gpupack/gdeflate/internal/stats/logger"
)

// Module provides a codec backed by the in-process DEFLATE stand-in.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memgdeflate",
	fx.Provide(
		newStatsCollector,
		newBackend,
		newCodec,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("gdeflate.stats"))
}

func newBackend() *memnative.Codec {
	return memnative.New()
}

// Params holds dependencies for creating the codec.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Backend   *memnative.Codec
	Lifecycle fx.Lifecycle
}

func newCodec(p Params) (*gdeflate.Codec, error) {
	codec, err := gdeflate.New(
		gdeflate.WithBackend(p.Backend),
		gdeflate.WithStats(p.Collector),
		gdeflate.WithLogger(p.Logger.Named("gdeflate")),
	)
	if err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return codec.Close()
		},
	})

	return codec, nil
}
