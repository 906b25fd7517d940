package internaldefs

import (
	sessionclient "github.com/workforcekit/sessionclient"
)

// CounterDef defines a public type used by sessionclient APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   sessionclient.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by sessionclient APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   sessionclient.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session client.
var CounterDefs = []CounterDef{
	{ID: sessionclient.MetricRequestSuccess, Name: "sessionclient_request_success_total", Help: "Requests that completed with a 2xx status, replays included."},
	{ID: sessionclient.MetricRequestFailure, Name: "sessionclient_request_failure_total", Help: "Requests that completed with a non-2xx status or no response."},
	{ID: sessionclient.MetricNetworkFailure, Name: "sessionclient_network_failure_total", Help: "Requests that produced no HTTP response."},
	{ID: sessionclient.MetricRefreshAttempt, Name: "sessionclient_refresh_attempt_total", Help: "Credential refresh attempts."},
	{ID: sessionclient.MetricRefreshSuccess, Name: "sessionclient_refresh_success_total", Help: "Successful credential refreshes."},
	{ID: sessionclient.MetricRefreshFailure, Name: "sessionclient_refresh_failure_total", Help: "Failed credential refreshes."},
	{ID: sessionclient.MetricRefreshCoalesced, Name: "sessionclient_refresh_coalesced_total", Help: "Refresh calls served by another in-flight refresh."},
	{ID: sessionclient.MetricProactiveRefresh, Name: "sessionclient_proactive_refresh_total", Help: "Refreshes triggered by credential expiry leeway."},
	{ID: sessionclient.MetricReplayAttempt, Name: "sessionclient_replay_attempt_total", Help: "Original requests replayed after a refresh."},
	{ID: sessionclient.MetricReplaySuccess, Name: "sessionclient_replay_success_total", Help: "Replays that completed with a 2xx status."},
	{ID: sessionclient.MetricReplayFailure, Name: "sessionclient_replay_failure_total", Help: "Replays that failed."},
	{ID: sessionclient.MetricForcedLogout, Name: "sessionclient_forced_logout_total", Help: "Forced logout teardowns."},
	{ID: sessionclient.MetricLogoutNotifyFailed, Name: "sessionclient_logout_notify_failed_total", Help: "Best-effort server logout notifications that failed."},
	{ID: sessionclient.MetricConflictNotified, Name: "sessionclient_conflict_notified_total", Help: "Business conflicts surfaced through the notifier."},
}

// HistogramDefs is an exported constant or variable used by the session client.
var HistogramDefs = []HistogramDef{
	{ID: sessionclient.MetricRequestLatency, Name: "sessionclient_request_latency_seconds", Help: "Request latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session client.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session client.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
