package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics carries the monitor counters. Each instance owns its registry so
// tests can construct one freely.
type Metrics struct {
	registry *prometheus.Registry

	CyclesTotal             prometheus.Counter
	CycleFailures           prometheus.Counter
	AlertsTriggered         prometheus.Counter
	QuoteFetchFailures      prometheus.Counter
	NotificationsSuppressed prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		CyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "investwatch_monitor_cycles_total",
			Help: "Completed monitoring cycles.",
		}),
		CycleFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "investwatch_monitor_cycle_failures_total",
			Help: "Cycles aborted by a listing failure.",
		}),
		AlertsTriggered: factory.NewCounter(prometheus.CounterOpts{
			Name: "investwatch_alerts_triggered_total",
			Help: "Alerts that fired a notification.",
		}),
		QuoteFetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "investwatch_quote_fetch_failures_total",
			Help: "Alerts skipped because no source produced a quote.",
		}),
		NotificationsSuppressed: factory.NewCounter(prometheus.CounterOpts{
			Name: "investwatch_notifications_suppressed_total",
			Help: "Trigger notifications dropped by the permission gate.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
