// Package stats provides a unified interface for collecting codec metrics.
package stats

// Metric names used throughout the library.
const (
	// Operation counters.
	MetricCompressTotal    = "gdeflate_compress_total"
	MetricDecompressTotal  = "gdeflate_decompress_total"
	MetricSizeQueriesTotal = "gdeflate_size_queries_total"
	MetricErrorsTotal      = "gdeflate_errors_total"

	// Byte counters, measured on the compressed side and the raw side.
	MetricCompressedBytes = "gdeflate_compressed_bytes_total"
	MetricRawBytes        = "gdeflate_raw_bytes_total"

	// Native call latency.
	MetricCompressSeconds   = "gdeflate_compress_duration_seconds"
	MetricDecompressSeconds = "gdeflate_decompress_duration_seconds"

	// Worker hint of the most recent decompression.
	MetricWorkerHint = "gdeflate_worker_hint"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
