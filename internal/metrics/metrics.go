package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	// RunsTotal counts pipeline runs.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emojiscrub_runs_total",
			Help: "Total number of clean runs.",
		},
		[]string{"source", "status"}, // source: cli, http; status: success, error
	)

	// CellsProcessed counts cells passed through the cleaner, by kind.
	CellsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emojiscrub_cells_processed_total",
			Help: "Total number of cells passed through the cleaner.",
		},
		[]string{"kind"}, // text, other, changed
	)

	// EmojiRemoved counts removed emoji sequences.
	EmojiRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emojiscrub_emoji_removed_total",
			Help: "Total number of emoji sequences removed.",
		},
	)

	// RowsWritten counts data rows written to CSV.
	RowsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emojiscrub_rows_written_total",
			Help: "Total number of data rows written.",
		},
	)

	// RunDuration observes how long a run takes end to end.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "emojiscrub_run_duration_seconds",
			Help:    "Duration of clean runs.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// ActiveRequests reports in-flight HTTP clean requests.
	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "emojiscrub_active_requests",
			Help: "Number of clean requests currently being processed.",
		},
	)
)

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// WriteTextfile dumps the default registry to path for the node_exporter
// textfile collector. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return err
	}
	log.Debug().Str("path", path).Msg("Metrics written")
	return nil
}
