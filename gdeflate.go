// Package gdeflate wraps a GDeflate codec shared library behind a typed,
// whole-buffer compression API.
//
// GDeflate is a block-oriented DEFLATE variant whose streams can be decoded
// on the GPU; the entropy coding and block layout live entirely inside the
// loaded library. This package owns the contract for calling it safely:
// buffer-size negotiation, worst-case output allocation, worker-hint
// validation and the translation of the library's bare success booleans
// into errors.
//
// Example usage:
//
//	lib, err := gdeflate.WithLibrary("libgdeflate.so")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	codec, err := gdeflate.New(lib)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer codec.Close()
//
//	compressed, err := codec.Compress(raw, gdeflate.LevelDefault, 0)
package gdeflate

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/gpupack/gdeflate/internal/native"
	"github.com/gpupack/gdeflate/internal/stats"
)

// Sentinel errors for well-defined error conditions. The loaded library
// reports failure through a boolean with no further detail, so the
// operation errors below carry no diagnosis beyond which call failed.
var (
	// ErrCodecLoad indicates the codec library could not be loaded or is
	// missing a required entry point.
	ErrCodecLoad = errors.New("gdeflate: codec library load failed")

	// ErrSizeQuery indicates the uncompressed size could not be read from
	// the stream header.
	ErrSizeQuery = errors.New("gdeflate: uncompressed size query failed")

	// ErrDecompress indicates the native decompress call reported failure.
	ErrDecompress = errors.New("gdeflate: decompression failed")

	// ErrCompress indicates the native compress call reported failure,
	// including insufficient output capacity.
	ErrCompress = errors.New("gdeflate: compression failed")

	// ErrInvalidArgument indicates an input rejected before any native call.
	ErrInvalidArgument = errors.New("gdeflate: invalid argument")

	// ErrClosed indicates the codec has been closed.
	ErrClosed = errors.New("gdeflate: codec closed")

	// ErrNoBackend indicates no codec backend was provided.
	ErrNoBackend = errors.New("gdeflate: no codec backend provided")
)

// CompressionLevel selects the codec's quality/speed tier. The three named
// tiers map onto DirectStorage compression levels; other values are passed
// to the codec as-is and their acceptance is the codec's decision.
type CompressionLevel uint32

const (
	// LevelFastest optimizes for compression speed.
	LevelFastest CompressionLevel = 1

	// LevelDefault balances speed and ratio.
	LevelDefault CompressionLevel = 9

	// LevelBestRatio optimizes for output size.
	LevelBestRatio CompressionLevel = 12
)

// Flags is an opaque bitmask handed to the codec uninterpreted.
type Flags uint32

// Codec is the handle to a loaded codec backend.
//
// A Codec holds no mutable state between calls besides the backend
// reference; every buffer is scoped to a single operation. Concurrent use
// from multiple goroutines is safe exactly when the backend's entry points
// are reentrant; the handle adds no locking of its own.
type Codec struct {
	backend native.Interface
	stats   stats.Collector
	logger  *zap.Logger
	closed  atomic.Bool
}

// New creates a Codec with the given options. A backend is required; use
// WithLibrary to load a shared library or WithBackend to supply one
// directly.
func New(opts ...Option) (*Codec, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.backend == nil {
		return nil, ErrNoBackend
	}

	c := &Codec{
		backend: cfg.backend,
		stats:   cfg.stats,
		logger:  cfg.logger,
	}

	c.logger.Debug("codec initialized")
	return c, nil
}

// UncompressedSize returns the exact byte count the decompressed form of
// compressed will occupy, read from the stream header without decompressing.
func (c *Codec) UncompressedSize(compressed []byte) (uint64, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	if len(compressed) == 0 {
		return 0, fmt.Errorf("%w: empty compressed buffer", ErrInvalidArgument)
	}

	c.stats.IncCounter(stats.MetricSizeQueriesTotal, 1)

	size, ok := c.backend.UncompressedSize(compressed)
	if !ok {
		c.stats.IncCounter(stats.MetricErrorsTotal, 1)
		return 0, ErrSizeQuery
	}
	return size, nil
}

// Decompress fully decompresses compressed into a fresh, exactly sized
// buffer. workers hints how many codec-internal workers may run during the
// call; the codec may ignore it. The call blocks until the codec returns.
//
// On failure no output is returned, not even partially written bytes.
func (c *Codec) Decompress(compressed []byte, workers int) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if len(compressed) == 0 {
		return nil, fmt.Errorf("%w: empty compressed buffer", ErrInvalidArgument)
	}
	// The hint crosses the boundary as a uint32; anything that would wrap
	// or truncate there is rejected here, before any native call.
	if workers <= 0 || uint64(workers) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: workers must be in [1, %d], got %d", ErrInvalidArgument, uint64(math.MaxUint32), workers)
	}

	size, err := c.UncompressedSize(compressed)
	if err != nil {
		return nil, err
	}

	c.stats.IncCounter(stats.MetricDecompressTotal, 1)
	start := time.Now()

	output := make([]byte, size)
	if !c.backend.Decompress(output, compressed, uint32(workers)) {
		c.stats.IncCounter(stats.MetricErrorsTotal, 1)
		return nil, ErrDecompress
	}

	c.stats.ObserveHistogram(stats.MetricDecompressSeconds, time.Since(start).Seconds())
	c.stats.IncCounter(stats.MetricCompressedBytes, int64(len(compressed)))
	c.stats.IncCounter(stats.MetricRawBytes, int64(size))
	c.stats.SetGauge(stats.MetricWorkerHint, int64(workers))

	c.logger.Debug("decompressed",
		zap.Int("compressedBytes", len(compressed)),
		zap.Uint64("rawBytes", size),
		zap.Int("workers", workers),
	)
	return output, nil
}

// Compress compresses raw at the given level into a fresh buffer, truncated
// to the byte count the codec reports having written. flags is passed to the
// codec uninterpreted; zero is the usual value.
//
// Output capacity follows the bound policy in compressBound. A capacity
// miss surfaces as ErrCompress; the codec has no distinct signal for it.
func (c *Codec) Compress(raw []byte, level CompressionLevel, flags Flags) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty raw buffer", ErrInvalidArgument)
	}

	c.stats.IncCounter(stats.MetricCompressTotal, 1)
	start := time.Now()

	output := make([]byte, c.compressBound(uint64(len(raw))))
	written, ok := c.backend.Compress(output, raw, uint32(level), uint32(flags))
	if !ok {
		c.stats.IncCounter(stats.MetricErrorsTotal, 1)
		return nil, ErrCompress
	}

	c.stats.ObserveHistogram(stats.MetricCompressSeconds, time.Since(start).Seconds())
	c.stats.IncCounter(stats.MetricRawBytes, int64(len(raw)))
	c.stats.IncCounter(stats.MetricCompressedBytes, int64(written))

	c.logger.Debug("compressed",
		zap.Int("rawBytes", len(raw)),
		zap.Uint64("compressedBytes", written),
		zap.Uint32("level", uint32(level)),
	)

	// Everything past written is uninitialized padding; the three-index
	// slice keeps it unreachable through the returned buffer.
	return output[:written:written], nil
}

// compressBound is the output sizing policy: prefer the codec's own
// worst-case query and fall back to input-size capacity when the codec does
// not expose one. The fallback assumes framed output never exceeds its
// input, which the wrapper's framing satisfies for compressible data but is
// not re-verified here.
func (c *Codec) compressBound(n uint64) uint64 {
	if bound, ok := c.backend.CompressBound(n); ok {
		return bound
	}
	return n
}

// Close releases the codec backend. After Close, every operation returns
// ErrClosed; a second Close returns ErrClosed as well.
func (c *Codec) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return c.backend.Close()
}
