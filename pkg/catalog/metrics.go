package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_fetches_total",
		Help: "The total number of field catalog documents fetched",
	})
	noSkippedLoads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_skipped_loads_total",
		Help: "The total number of loads answered from already loaded fields",
	})
	noDecodeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_decode_errors_total",
		Help: "The total number of field catalog documents that failed to decode",
	})
	mergedFields = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_merged_fields_total",
		Help: "Fields merged into the catalog by outcome",
	}, []string{"outcome"})
)
