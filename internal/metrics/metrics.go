package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion Metrics
	BattlesReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "royale_ingest_battles_received_total",
		Help: "The total number of raw battle records handed to the reconciler",
	})
	BattlesMalformedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "royale_ingest_battles_malformed_total",
		Help: "The total number of battle records skipped as malformed",
	})
	BattlesIrrelevantTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "royale_ingest_battles_irrelevant_total",
		Help: "The total number of battle records with no tracked participant",
	})
	MatchesInsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "royale_ingest_matches_inserted_total",
		Help: "The total number of new matches written to storage",
	})
	MergeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "royale_ingest_merge_latency_seconds",
		Help:    "Latency of the insert-ignore merge transaction",
		Buckets: prometheus.DefBuckets,
	})

	// Scheduler Metrics
	SyncCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "royale_sync_cycles_total",
		Help: "The total number of completed sync cycles",
	})
	SyncCycleFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "royale_sync_cycle_failures_total",
		Help: "The total number of cycles abandoned before syncing any player",
	})
	SyncPlayerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "royale_sync_player_errors_total",
		Help: "The total number of per-player sync failures by reason",
	}, []string{"reason"})
	SchedulerRestartsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "royale_scheduler_restarts_total",
		Help: "The total number of scheduler loop restarts after a panic",
	})
	SchedulerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "royale_scheduler_state",
		Help: "Current scheduler state (0 idle, 1 fetching, 2 throttling, 3 sleeping)",
	})
	ForceSyncsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "royale_force_syncs_total",
		Help: "The total number of on-demand sync requests by outcome",
	}, []string{"outcome"})

	// Upstream Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "royale_upstream_requests_total",
		Help: "The total number of upstream API requests by endpoint and status",
	}, []string{"endpoint", "status"})
)
