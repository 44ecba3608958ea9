package prometheus

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func gatherValue(t *testing.T, reg *prometheus.Registry, name string) (float64, bool) {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, m := range metrics {
		if m.GetName() != name {
			continue
		}
		if len(m.GetMetric()) == 0 {
			t.Fatalf("metric %s has no samples", name)
		}
		sample := m.GetMetric()[0]
		switch {
		case sample.GetCounter() != nil:
			return sample.GetCounter().GetValue(), true
		case sample.GetGauge() != nil:
			return sample.GetGauge().GetValue(), true
		case sample.GetHistogram() != nil:
			return float64(sample.GetHistogram().GetSampleCount()), true
		}
	}
	return 0, false
}

func TestNew_DefaultRegistry(t *testing.T) {
	c := New(nil)
	if c == nil {
		t.Fatal("New(nil) returned nil")
	}
	if c.registry == nil {
		t.Error("registry should not be nil")
	}
}

func TestCollector_IncCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.IncCounter("gdeflate_compress_total", 5)
	c.IncCounter("gdeflate_compress_total", 3)

	val, found := gatherValue(t, reg, "gdeflate_compress_total")
	if !found {
		t.Fatal("counter not found in registry")
	}
	if val != 8 {
		t.Errorf("counter value = %v, want 8", val)
	}
}

func TestCollector_SetGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.SetGauge("gdeflate_workers", 4)
	c.SetGauge("gdeflate_workers", 2)

	val, found := gatherValue(t, reg, "gdeflate_workers")
	if !found {
		t.Fatal("gauge not found in registry")
	}
	if val != 2 {
		t.Errorf("gauge value = %v, want 2", val)
	}
}

func TestCollector_ObserveHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveHistogram("gdeflate_compress_duration_seconds", 0.25)
	c.ObserveHistogram("gdeflate_compress_duration_seconds", 1.5)

	count, found := gatherValue(t, reg, "gdeflate_compress_duration_seconds")
	if !found {
		t.Fatal("histogram not found in registry")
	}
	if count != 2 {
		t.Errorf("histogram sample count = %v, want 2", count)
	}
}

func TestCollector_ReusesRegisteredMetric(t *testing.T) {
	reg := prometheus.NewRegistry()

	existing := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gdeflate_errors_total",
		Help: "gdeflate_errors_total",
	})
	reg.MustRegister(existing)
	existing.Add(100)

	c := New(reg)
	c.IncCounter("gdeflate_errors_total", 5)

	val, found := gatherValue(t, reg, "gdeflate_errors_total")
	if !found {
		t.Fatal("counter not found in registry")
	}
	if val != 105 {
		t.Errorf("counter value = %v, want 105", val)
	}
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncCounter("gdeflate_decompress_total", 1)
				c.SetGauge("gdeflate_last_workers", int64(j))
				c.ObserveHistogram("gdeflate_decompress_duration_seconds", float64(j))
			}
		}()
	}
	wg.Wait()

	val, found := gatherValue(t, reg, "gdeflate_decompress_total")
	if !found {
		t.Fatal("counter not found in registry")
	}
	if val != 1000 {
		t.Errorf("counter value = %v, want 1000", val)
	}

	count, found := gatherValue(t, reg, "gdeflate_decompress_duration_seconds")
	if !found {
		t.Fatal("histogram not found in registry")
	}
	if count != 1000 {
		t.Errorf("histogram sample count = %v, want 1000", count)
	}
}
