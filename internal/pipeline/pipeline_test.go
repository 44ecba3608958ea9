package pipeline

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gpupack/gdeflate"
	"github.com/gpupack/gdeflate/internal/native/memnative"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()

	codec, err := gdeflate.New(gdeflate.WithBackend(memnative.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { codec.Close() })
	return New(codec, nil)
}

func TestPipeline_FileRoundTrip(t *testing.T) {
	p := newTestPipeline(t)
	dir := t.TempDir()

	rawPath := filepath.Join(dir, "input.bin")
	compressedPath := filepath.Join(dir, "input.bin.gdef")
	restoredPath := filepath.Join(dir, "restored.bin")

	raw := bytes.Repeat([]byte("file pipeline round trip"), 2048)
	if err := os.WriteFile(rawPath, raw, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	compressReport, err := p.CompressFile(rawPath, compressedPath, gdeflate.LevelDefault)
	if err != nil {
		t.Fatalf("CompressFile() error = %v", err)
	}
	if compressReport.RawBytes != int64(len(raw)) {
		t.Errorf("Report.RawBytes = %d, want %d", compressReport.RawBytes, len(raw))
	}
	if compressReport.CompressedBytes >= compressReport.RawBytes {
		t.Errorf("compressed %d bytes >= raw %d bytes for repetitive input",
			compressReport.CompressedBytes, compressReport.RawBytes)
	}

	decompressReport, err := p.DecompressFile(compressedPath, restoredPath, 4)
	if err != nil {
		t.Fatalf("DecompressFile() error = %v", err)
	}
	if decompressReport.RawBytes != int64(len(raw)) {
		t.Errorf("Report.RawBytes = %d, want %d", decompressReport.RawBytes, len(raw))
	}

	restored, err := os.ReadFile(restoredPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(restored, raw) {
		t.Error("restored file differs from original")
	}
}

func TestPipeline_MissingInput(t *testing.T) {
	p := newTestPipeline(t)
	dir := t.TempDir()

	if _, err := p.CompressFile(filepath.Join(dir, "absent"), filepath.Join(dir, "out"), gdeflate.LevelDefault); err == nil {
		t.Error("CompressFile() expected error for missing input, got nil")
	}
	if _, err := p.DecompressFile(filepath.Join(dir, "absent"), filepath.Join(dir, "out"), 1); err == nil {
		t.Error("DecompressFile() expected error for missing input, got nil")
	}
}

func TestPipeline_DecompressFile_InvalidData(t *testing.T) {
	p := newTestPipeline(t)
	dir := t.TempDir()

	inputPath := filepath.Join(dir, "junk")
	outputPath := filepath.Join(dir, "out")
	if err := os.WriteFile(inputPath, []byte("not a compressed stream"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := p.DecompressFile(inputPath, outputPath, 1)
	if !errors.Is(err, gdeflate.ErrSizeQuery) {
		t.Errorf("DecompressFile() error = %v, want ErrSizeQuery", err)
	}
	if _, statErr := os.Stat(outputPath); !os.IsNotExist(statErr) {
		t.Error("output file created despite decompression failure")
	}
}

func TestReport_Ratio(t *testing.T) {
	r := Report{RawBytes: 200, CompressedBytes: 50}
	if got := r.Ratio(); math.Abs(got-25.0) > 1e-9 {
		t.Errorf("Ratio() = %v, want 25.0", got)
	}

	var zero Report
	if got := zero.Ratio(); got != 0 {
		t.Errorf("Ratio() on zero report = %v, want 0", got)
	}
}
