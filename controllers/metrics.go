package controllers

import (
	"github.com/prometheus/client_golang/prometheus"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	plannermetrics "github.com/bayleafwalker/unlockpath/internal/metrics"
)

var (
	unlockpathControllerReconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unlockpath_controller_reconcile_total",
			Help: "Number of reconciliations by controller.",
		},
		[]string{"controller"},
	)
	unlockpathControllerReconcileErrorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unlockpath_controller_reconcile_error_total",
			Help: "Number of reconciliation errors by controller.",
		},
		[]string{"controller"},
	)

	providerCatalogInvalid = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "unlockpath_providercatalog_invalid",
			Help: "Whether the last reconciled ProviderCatalog was rejected (1) or accepted (0).",
		},
	)

	// plannerMetrics records every search run by UnlockPlanReconciler.
	plannerMetrics = plannermetrics.New(ctrlmetrics.Registry)
)

func init() {
	ctrlmetrics.Registry.MustRegister(
		unlockpathControllerReconcileTotal,
		unlockpathControllerReconcileErrorTotal,
		providerCatalogInvalid,
	)
}
