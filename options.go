package gdeflate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gpupack/gdeflate/internal/native"
	"github.com/gpupack/gdeflate/internal/stats"
)

// Option configures a Codec.
type Option interface {
	apply(*options)
}

// options holds the codec configuration.
type options struct {
	backend native.Interface
	stats   stats.Collector
	logger  *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithBackend sets the codec backend directly. Useful for in-process
// backends such as memnative.
func WithBackend(b native.Interface) Option {
	return optionFunc(func(o *options) {
		o.backend = b
	})
}

// WithLibrary loads the shared library at path and uses it as the backend.
// Loading resolves all required entry points up front; a failure is
// terminal and wraps ErrCodecLoad. This is the recommended way to create a
// codec against a real GDeflate build.
func WithLibrary(path string) (Option, error) {
	lib, err := native.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodecLoad, err)
	}
	return WithBackend(lib), nil
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}
