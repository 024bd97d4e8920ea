// Package metrics provides Prometheus metrics collection for the FPL
// bot. It covers run outcomes, posting activity, lexicon provisioning
// and request latencies, all exposed via the Prometheus endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the bot.
type Metrics struct {
	// Run outcome metrics
	RunsTotal          prometheus.Counter   // Total scheduled and manual runs started
	RunSuccesses       prometheus.Counter   // Runs that completed successfully
	DependencyFailures prometheus.Counter   // Runs aborted provisioning runtime dependencies
	ResourceFailures   prometheus.Counter   // Runs aborted downloading the lexicon
	UnitFailures       prometheus.Counter   // Runs where the bot routine itself failed
	RunDuration        prometheus.Histogram // End-to-end run duration
	LastRunUnix        prometheus.Gauge     // Unix time of the most recent run

	// Posting metrics
	TransfersTotal prometheus.Counter // Transfer payloads posted
	PicksPosted    prometheus.Counter // Picks payloads posted

	// Data provisioning metrics
	LexiconDownloads prometheus.Counter   // Lexicon downloads performed
	ScrapeErrors     prometheus.Counter   // News sources that failed to fetch
	FetchLatency     prometheus.Histogram // FPL API fetch latency

	// Team state gauges
	BankTenths      prometheus.Gauge // Bank balance in tenths of a million
	HoursToDeadline prometheus.Gauge // Hours until the next deadline

	// System metrics
	ErrorsTotal prometheus.Counter // Total errors encountered
}

// New creates and registers all Prometheus metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "runs_total",
			Help: "Total scheduled and manual runs started",
		}),
		RunSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "run_successes_total",
			Help: "Runs that completed successfully",
		}),
		DependencyFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "run_dependency_failures_total",
			Help: "Runs aborted while provisioning runtime dependencies",
		}),
		ResourceFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "run_resource_failures_total",
			Help: "Runs aborted while fetching the sentiment lexicon",
		}),
		UnitFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "run_unit_failures_total",
			Help: "Runs where the weekly routine itself failed",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "run_duration_seconds",
			Help:    "End-to-end duration of a run in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		LastRunUnix: factory.NewGauge(prometheus.GaugeOpts{
			Name: "last_run_unix",
			Help: "Unix timestamp of the most recent run",
		}),
		TransfersTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "transfers_posted_total",
			Help: "Transfer payloads posted to the FPL API",
		}),
		PicksPosted: factory.NewCounter(prometheus.CounterOpts{
			Name: "picks_posted_total",
			Help: "Picks payloads posted to the FPL API",
		}),
		LexiconDownloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "lexicon_downloads_total",
			Help: "Sentiment lexicon downloads performed",
		}),
		ScrapeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "scrape_errors_total",
			Help: "News sources that failed to fetch or parse",
		}),
		FetchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fpl_fetch_latency_seconds",
			Help:    "FPL API fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		BankTenths: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bank_tenths",
			Help: "Bank balance in tenths of a million",
		}),
		HoursToDeadline: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hours_to_deadline",
			Help: "Hours until the next gameweek deadline",
		}),
		ErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors encountered",
		}),
	}
}
