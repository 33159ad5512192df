package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeFound    = "found"
	outcomeNotFound = "not_found"

	// unknownProcess keeps arbitrary caller input out of metric labels.
	unknownProcess = "unknown"
)

var (
	// lookupsTotal counts process lookups by canonical process and outcome.
	lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txprocess_registry_lookups_total",
		Help: "Total number of process lookups by canonical process name and outcome (found or not_found)",
	}, []string{"process", "outcome"})

	// legacyNamesTotal counts lookups that went through a legacy process name.
	legacyNamesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txprocess_registry_legacy_names_total",
		Help: "Total number of lookups that used a legacy process name, by legacy and canonical name",
	}, []string{"legacy_name", "canonical_name"})
)

func recordLookup(canonical string, found bool) {
	if !found {
		lookupsTotal.WithLabelValues(unknownProcess, outcomeNotFound).Inc()

		return
	}

	lookupsTotal.WithLabelValues(canonical, outcomeFound).Inc()
}

func recordLegacyName(legacy, canonical string) {
	legacyNamesTotal.WithLabelValues(legacy, canonical).Inc()
}
