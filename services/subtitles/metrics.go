package subtitles

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	responseCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subresolver_response_cache_lookups_total",
		Help: "Response cache lookups, by result (hit, miss).",
	}, []string{"result"})

	sharedResolutions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "subresolver_shared_resolutions_total",
		Help: "Callers served by a resolution that was already in flight.",
	})

	archiveCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subresolver_archive_cache_lookups_total",
		Help: "Archive cache lookups, by result (hit, miss, error).",
	}, []string{"result"})

	pageMetadataLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subresolver_page_metadata_lookups_total",
		Help: "Page metadata cache lookups, by result (hit, miss, error).",
	}, []string{"result"})

	resolutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "subresolver_resolution_duration_seconds",
		Help:    "Wall time of uncached resolutions.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	downloadQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "subresolver_download_queue_depth",
		Help: "Pending provider requests of the caller that most recently downloaded an archive.",
	})
)
