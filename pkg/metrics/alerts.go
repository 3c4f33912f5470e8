package metrics

import "github.com/prometheus/client_golang/prometheus"

// AlertScanMetrics tracks the outcome of alert sweeps over active orders.
type AlertScanMetrics struct {
	alerts        *prometheus.CounterVec
	notifications prometheus.Counter
	errors        prometheus.Counter
}

// NewAlertScanMetrics registers the alert scan metrics on the provided registerer.
func NewAlertScanMetrics(reg prometheus.Registerer) *AlertScanMetrics {
	if reg == nil {
		return &AlertScanMetrics{}
	}
	alerts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tallerflow",
		Name:      "alert_scan_alerts_total",
		Help:      "Alert candidates raised by the scanner, labeled by color.",
	}, []string{"color"})
	notifications := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tallerflow",
		Name:      "alert_scan_notifications_total",
		Help:      "Notifications created by the alert scanner.",
	})
	errs := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tallerflow",
		Name:      "alert_scan_errors_total",
		Help:      "Per-order failures swallowed during alert sweeps.",
	})
	reg.MustRegister(alerts, notifications, errs)
	return &AlertScanMetrics{
		alerts:        alerts,
		notifications: notifications,
		errors:        errs,
	}
}

// AddAlerts increments the alert counter for the given color.
func (a *AlertScanMetrics) AddAlerts(color string, count int) {
	if a == nil || a.alerts == nil || count <= 0 {
		return
	}
	a.alerts.WithLabelValues(color).Add(float64(count))
}

// AddNotifications increments the created-notification counter.
func (a *AlertScanMetrics) AddNotifications(count int) {
	if a == nil || a.notifications == nil || count <= 0 {
		return
	}
	a.notifications.Add(float64(count))
}

// AddErrors increments the swallowed-error counter.
func (a *AlertScanMetrics) AddErrors(count int) {
	if a == nil || a.errors == nil || count <= 0 {
		return
	}
	a.errors.Add(float64(count))
}
