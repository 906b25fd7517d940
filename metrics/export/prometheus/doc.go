// Package prometheus provides Prometheus collectors for sessionclient metrics.
//
// [NewPrometheusExporter] accepts a [sessionclient.Client] and exposes an [http.Handler]
// that renders all sessionclient counters and histograms in Prometheus text exposition
// format. Counter names are prefixed sessionclient_*_total; the single histogram is
// sessionclient_request_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate client state.
package prometheus
