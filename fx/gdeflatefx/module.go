// Package gdeflatefx provides an fx module for a library-backed codec.
package gdeflatefx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gpupack/gdeflate"
	"github.com/gpupack/gdeflate/internal/stats"
	"github.com/gpupack/gdeflate/internal/stats/logger"
)

// Config holds configuration for the library-backed codec.
type Config struct {
	// LibraryPath is the path to the GDeflate codec shared library.
	LibraryPath string
}

// Module provides a codec backed by a loaded shared library.
// Requires a Config and a *zap.Logger to be provided.
var Module = fx.Module("gdeflate",
	fx.Provide(
		newStatsCollector,
		newCodec,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("gdeflate.stats"))
}

// Params holds dependencies for creating the codec.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

func newCodec(p Params) (*gdeflate.Codec, error) {
	libOpt, err := gdeflate.WithLibrary(p.Config.LibraryPath)
	if err != nil {
		return nil, err
	}

	codec, err := gdeflate.New(
		libOpt,
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
