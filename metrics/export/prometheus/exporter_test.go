package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sessionclient "github.com/workforcekit/sessionclient"
)

type fakeSource struct {
	snapshot sessionclient.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() sessionclient.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                           { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: sessionclient.MetricsSnapshot{
			Counters:   map[sessionclient.MetricID]uint64{},
			Histograms: map[sessionclient.MetricID][]uint64{},
		},
		dropped: 0,
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderDeterministicIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: sessionclient.MetricsSnapshot{
			Counters: map[sessionclient.MetricID]uint64{
				sessionclient.MetricRequestSuccess: 7,
			},
			Histograms: map[sessionclient.MetricID][]uint64{
				sessionclient.MetricRequestLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	if !strings.Contains(out, "sessionclient_request_success_total 7") {
		t.Fatalf("expected request_success counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "sessionclient_request_latency_seconds_bucket{le=\"0.005\"} 1") {
		t.Fatalf("expected first histogram bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "sessionclient_request_latency_seconds_bucket{le=\"+Inf\"} 36") {
		t.Fatalf("expected +Inf cumulative bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "sessionclient_audit_dropped_total 2") {
		t.Fatalf("expected audit dropped counter in output, got:\n%s", out)
	}
}

func TestRenderStampsRoleLabelFromClient(t *testing.T) {
	client, err := sessionclient.New().
		WithBaseURL("http://api.internal.test").
		WithRole(sessionclient.RoleEmployee).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer client.Close()

	client.Metrics().Inc(sessionclient.MetricRequestSuccess)

	out := NewPrometheusExporter(client).Render()
	if !strings.Contains(out, `sessionclient_request_success_total{role="employee"} 1`) {
		t.Fatalf("expected role-labeled counter series, got:\n%s", out)
	}
	if !strings.Contains(out, `sessionclient_audit_dropped_total{role="employee"} 0`) {
		t.Fatalf("expected role-labeled audit counter, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: sessionclient.MetricsSnapshot{
			Counters:   map[sessionclient.MetricID]uint64{sessionclient.MetricRequestSuccess: 1},
			Histograms: map[sessionclient.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: sessionclient.MetricsSnapshot{
			Counters: map[sessionclient.MetricID]uint64{
				sessionclient.MetricRequestSuccess: 1000,
				sessionclient.MetricRequestFailure: 40,
				sessionclient.MetricRefreshSuccess: 800,
				sessionclient.MetricRefreshFailure: 10,
				sessionclient.MetricReplaySuccess:  790,
				sessionclient.MetricForcedLogout:   20,
			},
			Histograms: map[sessionclient.MetricID][]uint64{
				sessionclient.MetricRequestLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
		dropped: 0,
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
