package sessionclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledByDefault(t *testing.T) {
	m := NewMetrics(MetricsConfig{})
	m.Inc(MetricRequestSuccess)

	if m.Enabled() {
		t.Fatal("metrics must be disabled by default")
	}
	if got := m.Value(MetricRequestSuccess); got != 0 {
		t.Fatalf("disabled metrics must not count, got %d", got)
	}
}

func TestMetricsCountersConcurrent(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const workers = 16
	const perWorker = 1000

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				m.Inc(MetricRefreshAttempt)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricRefreshAttempt); got != workers*perWorker {
		t.Fatalf("expected %d, got %d", workers*perWorker, got)
	}
}

func TestMetricsLatencyBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricRequestLatency, 3*time.Millisecond)
	m.Observe(MetricRequestLatency, 40*time.Millisecond)
	m.Observe(MetricRequestLatency, 2*time.Second)

	snap := m.Snapshot()
	buckets := snap.Histograms[MetricRequestLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("expected %d buckets, got %d", histBucketCount, len(buckets))
	}
	if buckets[0] != 1 || buckets[3] != 1 || buckets[7] != 1 {
		t.Fatalf("unexpected bucket distribution %v", buckets)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.Inc(MetricRequestSuccess)
	m.Observe(MetricRequestLatency, time.Millisecond)

	if m.Enabled() || m.LatencyEnabled() {
		t.Fatal("nil metrics must report disabled")
	}
	snap := m.Snapshot()
	if len(snap.Counters) != 0 {
		t.Fatal("nil metrics snapshot must be empty")
	}
}

func TestClientRecordsRecoveryMetrics(t *testing.T) {
	mux := http.NewServeMux()
	calls := 0
	var mu sync.Mutex
	mux.HandleFunc("/employee/data", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/employee/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New().
		WithBaseURL(srv.URL).
		WithRole(RoleEmployee).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer client.Close()

	if _, err := client.Get(context.Background(), "/data"); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	checks := map[MetricID]uint64{
		MetricRefreshAttempt: 1,
		MetricRefreshSuccess: 1,
		MetricReplayAttempt:  1,
		MetricReplaySuccess:  1,
		MetricRequestSuccess: 1,
		MetricRequestFailure: 1,
	}
	for id, want := range checks {
		if got := client.Metrics().Value(id); got != want {
			t.Fatalf("metric %d: expected %d, got %d", id, want, got)
		}
	}
}
