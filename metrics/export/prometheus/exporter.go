package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	sessionclient "github.com/workforcekit/sessionclient"
	"github.com/workforcekit/sessionclient/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() sessionclient.MetricsSnapshot
	AuditDropped() uint64
}

// PrometheusExporter renders sessionclient metrics in Prometheus text exposition format.
//
// A client-backed exporter stamps every series with the client's role label,
// so scrapes from several role-scoped clients in one process stay
// distinguishable.
//
//	Docs: docs/metrics.md
type PrometheusExporter struct {
	source metricsSource
	role   string
}

// NewPrometheusExporter creates a Prometheus exporter that reads from the given [sessionclient.Client].
//
//	Docs: docs/metrics.md
func NewPrometheusExporter(client *sessionclient.Client) *PrometheusExporter {
	exp := &PrometheusExporter{source: client}
	if client != nil {
		exp.role = string(client.Role())
	}
	return exp
}

// NewPrometheusExporterFromSource creates a Prometheus exporter from a
// custom metrics source. Series carry no role label; the source decides what
// its numbers aggregate over.
//
//	Docs: docs/metrics.md
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

// Handler returns an http.Handler that serves Prometheus metrics.
//
//	Docs: docs/metrics.md
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render writes the current metrics in Prometheus text exposition format.
//
//	Docs: docs/metrics.md
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 && dropped == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(8192)

	for _, def := range internaldefs.CounterDefs {
		p.writeCounter(&b, def.Name, def.Help, snapshot.Counters[def.ID])
	}

	for _, def := range internaldefs.HistogramDefs {
		nonCumulative := internaldefs.NormalizeBuckets(snapshot.Histograms[def.ID])
		cumulative := internaldefs.CumulativeBuckets(nonCumulative)
		p.writeHistogram(&b, def.Name, def.Help, cumulative)
	}

	p.writeCounter(&b, "sessionclient_audit_dropped_total", "Dropped audit events due to dispatcher backpressure.", dropped)

	return b.String()
}

// seriesSuffix renders the label set appended to a metric name. extra is a
// pre-formatted label pair like `le="0.005"`, or empty.
func (p *PrometheusExporter) seriesSuffix(extra string) string {
	switch {
	case p.role != "" && extra != "":
		return `{role="` + p.role + `",` + extra + "}"
	case p.role != "":
		return `{role="` + p.role + `"}`
	case extra != "":
		return "{" + extra + "}"
	default:
		return ""
	}
}

func (p *PrometheusExporter) writeCounter(b *strings.Builder, name, help string, value uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteString(" counter\n")
	b.WriteString(name)
	b.WriteString(p.seriesSuffix(""))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}

func (p *PrometheusExporter) writeHistogram(b *strings.Builder, name, help string, cumulative [8]uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteString(" histogram\n")

	for i, le := range internaldefs.HistogramBounds {
		b.WriteString(name)
		b.WriteString("_bucket")
		b.WriteString(p.seriesSuffix(`le="` + le + `"`))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatUint(cumulative[i], 10))
		b.WriteByte('\n')
	}

	count := cumulative[len(cumulative)-1]
	b.WriteString(name)
	b.WriteString("_count")
	b.WriteString(p.seriesSuffix(""))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(count, 10))
	b.WriteByte('\n')

	// Sum is not available in core snapshots; keep a stable field for compatibility.
	b.WriteString(name)
	b.WriteString("_sum")
	b.WriteString(p.seriesSuffix(""))
	b.WriteString(" 0\n")
}

func escapeHelp(help string) string {
	help = strings.ReplaceAll(help, "\\", "\\\\")
	help = strings.ReplaceAll(help, "\n", "\\n")
	return help
}
