// Command sessionclient-probe exercises a backend through a role-scoped
// client and reports recovery behavior: how many requests succeeded outright,
// how many recovered through a refresh-and-replay, and how many ended in a
// forced logout.
//
// Configuration comes from the environment (a .env file is honored):
//
//	PROBE_BASE_URL      backend base URL (required)
//	PROBE_ROLE          business-owner | manager | employee | superadmin
//	PROBE_PATH          request path relative to the role prefix
//	PROBE_REQUESTS      total requests to issue
//	PROBE_CONCURRENCY   concurrent workers
//	PROBE_SINGLE_FLIGHT coalesce concurrent refreshes
//	PROBE_REDIS_ADDR    optional Redis for session snapshots
//
// Run:
//
//	PROBE_BASE_URL=https://api.example.com go run ./cmd/sessionclient-probe
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	sessionclient "github.com/workforcekit/sessionclient"
)

type probeConfig struct {
	BaseURL      string        `env:"PROBE_BASE_URL,required"`
	Role         string        `env:"PROBE_ROLE" envDefault:"employee"`
	Path         string        `env:"PROBE_PATH" envDefault:"/health"`
	Requests     int           `env:"PROBE_REQUESTS" envDefault:"100"`
	Concurrency  int           `env:"PROBE_CONCURRENCY" envDefault:"8"`
	SingleFlight bool          `env:"PROBE_SINGLE_FLIGHT" envDefault:"false"`
	RedisAddr    string        `env:"PROBE_REDIS_ADDR"`
	Timeout      time.Duration `env:"PROBE_TIMEOUT" envDefault:"10s"`
}

func main() {
	_ = godotenv.Load()

	var cfg probeConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if cfg.Requests <= 0 || cfg.Concurrency <= 0 {
		fmt.Fprintln(os.Stderr, "PROBE_REQUESTS and PROBE_CONCURRENCY must be > 0")
		os.Exit(2)
	}

	role := sessionclient.Role(cfg.Role)
	if _, ok := sessionclient.RolePreset(role); !ok {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", cfg.Role)
		os.Exit(2)
	}

	builder := sessionclient.New().
		WithBaseURL(cfg.BaseURL).
		WithRole(role).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		WithSingleFlightRefresh(cfg.SingleFlight)

	if cfg.RedisAddr != "" {
		rdb := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{cfg.RedisAddr}})
		defer rdb.Close()
		builder = builder.WithRedis(rdb)
		fmt.Printf("using redis at %s for session snapshots\n", cfg.RedisAddr)
	}

	client, err := builder.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "client build: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Printf("probing %s as %s: %d requests, %d workers\n",
		cfg.BaseURL, role, cfg.Requests, cfg.Concurrency)

	stats := run(client, cfg)
	report(client, stats)
}

type probeStats struct {
	success   atomic.Int64
	failure   atomic.Int64
	mu        sync.Mutex
	latencies []time.Duration
}

func run(client *sessionclient.Client, cfg probeConfig) *probeStats {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout*time.Duration(cfg.Requests))
	defer cancel()

	stats := &probeStats{latencies: make([]time.Duration, 0, cfg.Requests)}

	var wg sync.WaitGroup
	var cursor atomic.Int64
	for w := 0; w < cfg.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if cursor.Add(1) > int64(cfg.Requests) {
					return
				}

				start := time.Now()
				_, err := client.Get(ctx, cfg.Path)
				elapsed := time.Since(start)

				if err != nil {
					stats.failure.Add(1)
				} else {
					stats.success.Add(1)
				}

				stats.mu.Lock()
				stats.latencies = append(stats.latencies, elapsed)
				stats.mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return stats
}

func report(client *sessionclient.Client, stats *probeStats) {
	stats.mu.Lock()
	latencies := stats.latencies
	stats.mu.Unlock()

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Println("---- results ----")
	fmt.Printf("success:   %d\n", stats.success.Load())
	fmt.Printf("failure:   %d\n", stats.failure.Load())
	if len(latencies) > 0 {
		fmt.Printf("p50:       %s\n", percentile(latencies, 50).Round(time.Microsecond))
		fmt.Printf("p99:       %s\n", percentile(latencies, 99).Round(time.Microsecond))
	}

	fmt.Println("---- recovery counters ----")
	m := client.Metrics()
	fmt.Printf("refresh attempts:   %d\n", m.Value(sessionclient.MetricRefreshAttempt))
	fmt.Printf("refresh successes:  %d\n", m.Value(sessionclient.MetricRefreshSuccess))
	fmt.Printf("refresh coalesced:  %d\n", m.Value(sessionclient.MetricRefreshCoalesced))
	fmt.Printf("replays:            %d\n", m.Value(sessionclient.MetricReplayAttempt))
	fmt.Printf("forced logouts:     %d\n", m.Value(sessionclient.MetricForcedLogout))
	fmt.Printf("network failures:   %d\n", m.Value(sessionclient.MetricNetworkFailure))
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
