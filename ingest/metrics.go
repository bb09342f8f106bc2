package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wim_pipeline_snapshots_fetched_total",
		Help: "Total number of snapshots fetched from the station.",
	})
	snapshotsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wim_pipeline_snapshots_stored_total",
		Help: "Total number of snapshots transformed and committed.",
	})
	snapshotsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wim_pipeline_snapshots_skipped_total",
		Help: "Total number of polls skipped because the identity was unchanged.",
	})
	processingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wim_pipeline_processing_failures_total",
		Help: "Total number of fetch, transform or persistence faults.",
	})
)
