package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1broseidon/progman/internal/desktop"
)

const namespace = "progman"

// Metrics holds all Prometheus collectors for one daemon. Each Metrics owns
// its registry, so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// Desktop metrics
	Events   *prometheus.CounterVec
	Launches *prometheus.CounterVec
	Windows  *prometheus.GaugeVec
	Active   prometheus.Gauge

	// Catalog metrics
	CatalogApps    prometheus.Gauge
	CatalogReloads *prometheus.CounterVec

	// Surface metrics
	IPCRequests   *prometheus.CounterVec
	WSConnections prometheus.Gauge
	WSMessages    prometheus.Counter
}

// New creates the collectors on a fresh registry, along with the standard Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "desktop_events_total",
				Help:      "Desktop mutations by kind",
			},
			[]string{"kind"},
		),
		Launches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "launches_total",
				Help:      "Windows launched by application",
			},
			[]string{"app"},
		),
		Windows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "windows",
				Help:      "Open windows by state",
			},
			[]string{"state"},
		),
		Active: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_window",
				Help:      "1 when a window is active, 0 otherwise",
			},
		),

		CatalogApps: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_apps",
				Help:      "Applications in the current catalog",
			},
		),
		CatalogReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_reloads_total",
				Help:      "Catalog reload attempts by result",
			},
			[]string{"result"},
		),

		IPCRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ipc_requests_total",
				Help:      "IPC requests by command and status",
			},
			[]string{"command", "status"},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ws_connections",
				Help:      "Open websocket connections",
			},
		),
		WSMessages: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ws_messages_total",
				Help:      "Snapshots written to websocket clients",
			},
		),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Observe implements desktop.Observer.
func (m *Metrics) Observe(ev desktop.Event, snap desktop.Snapshot) {
	m.Events.WithLabelValues(string(ev.Kind)).Inc()
	if ev.Kind == desktop.EventLaunch {
		m.Launches.WithLabelValues(ev.AppID).Inc()
	}
	m.SetWindows(snap)
}

// SetWindows recomputes the window gauges from a snapshot.
func (m *Metrics) SetWindows(snap desktop.Snapshot) {
	counts := map[desktop.State]int{
		desktop.StateNormal:    0,
		desktop.StateMinimized: 0,
		desktop.StateMaximized: 0,
	}
	for _, w := range snap.Windows {
		counts[w.State]++
	}
	for state, n := range counts {
		m.Windows.WithLabelValues(state.String()).Set(float64(n))
	}

	if snap.ActiveID != "" {
		m.Active.Set(1)
	} else {
		m.Active.Set(0)
	}
}

// CatalogReloaded records a catalog reload attempt.
func (m *Metrics) CatalogReloaded(apps int, err error) {
	if err != nil {
		m.CatalogReloads.WithLabelValues("error").Inc()
		return
	}
	m.CatalogReloads.WithLabelValues("ok").Inc()
	m.CatalogApps.Set(float64(apps))
}
