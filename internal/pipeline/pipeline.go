// Package pipeline moves whole files through the codec.
//
// Files are read fully into memory, transformed in a single codec call and
// written back out; the codec parallelizes internally, so there is no
// streaming or chunking at this layer.
package pipeline

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/gpupack/gdeflate"
)

// Codec is the slice of the gdeflate API the pipeline needs.
type Codec interface {
	Compress(raw []byte, level gdeflate.CompressionLevel, flags gdeflate.Flags) ([]byte, error)
	Decompress(compressed []byte, workers int) ([]byte, error)
}

// Pipeline reads, transforms and writes files.
type Pipeline struct {
	codec  Codec
	logger *zap.Logger
}

// New creates a pipeline over codec.
// If logger is nil, a no-op logger is used.
func New(codec Codec, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{codec: codec, logger: logger}
}

// Report summarizes one file operation for user-facing output.
type Report struct {
	InputPath  string
	OutputPath string

	// Byte counts of the two forms of the payload, independent of which
	// direction the pipeline ran.
	RawBytes        int64
	CompressedBytes int64
}

// Ratio returns the compressed size as a percentage of the raw size.
func (r Report) Ratio() float64 {
	if r.RawBytes == 0 {
		return 0
	}
	return float64(r.CompressedBytes) / float64(r.RawBytes) * 100
}

// CompressFile compresses inputPath into outputPath at the given level.
func (p *Pipeline) CompressFile(inputPath, outputPath string, level gdeflate.CompressionLevel) (Report, error) {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return Report{}, fmt.Errorf("reading %s: %w", inputPath, err)
	}

	compressed, err := p.codec.Compress(raw, level, 0)
	if err != nil {
		return Report{}, fmt.Errorf("compressing %s: %w", inputPath, err)
	}

	if err := os.WriteFile(outputPath, compressed, 0o644); err != nil {
		return Report{}, fmt.Errorf("writing %s: %w", outputPath, err)
	}

	report := Report{
		InputPath:       inputPath,
		OutputPath:      outputPath,
		RawBytes:        int64(len(raw)),
		CompressedBytes: int64(len(compressed)),
	}
	p.logger.Debug("compressed file",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Int64("rawBytes", report.RawBytes),
		zap.Int64("compressedBytes", report.CompressedBytes),
	)
	return report, nil
}

// DecompressFile decompresses inputPath into outputPath, hinting workers
// codec-internal workers.
func (p *Pipeline) DecompressFile(inputPath, outputPath string, workers int) (Report, error) {
	compressed, err := os.ReadFile(inputPath)
	if err != nil {
		return Report{}, fmt.Errorf("reading %s: %w", inputPath, err)
	}

	raw, err := p.codec.Decompress(compressed, workers)
	if err != nil {
		return Report{}, fmt.Errorf("decompressing %s: %w", inputPath, err)
	}

	if err := os.WriteFile(outputPath, raw, 0o644); err != nil {
		return Report{}, fmt.Errorf("writing %s: %w", outputPath, err)
	}

	report := Report{
		InputPath:       inputPath,
		OutputPath:      outputPath,
		RawBytes:        int64(len(raw)),
		CompressedBytes: int64(len(compressed)),
	}
	p.logger.Debug("decompressed file",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Int64("compressedBytes", report.CompressedBytes),
		zap.Int64("rawBytes", report.RawBytes),
	)
	return report, nil
}
