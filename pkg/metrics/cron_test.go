package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCronJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCronJobMetrics(reg)
	job := "alert-scan"
	metrics.ObserveDuration(job, 250*time.Millisecond)
	metrics.IncSuccess(job)
	metrics.IncFailure(job)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "tallerflow_cron_job_success", "job", job); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "tallerflow_cron_job_failure", "job", job); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "tallerflow_cron_job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestAlertScanMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewAlertScanMetrics(reg)
	metrics.AddAlerts("red", 2)
	metrics.AddAlerts("yellow", 3)
	metrics.AddNotifications(5)
	metrics.AddErrors(1)
	metrics.AddErrors(0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "tallerflow_alert_scan_alerts_total", "color", "red"); err != nil {
		t.Fatalf("fetch red alerts: %v", err)
	} else if got != 2 {
		t.Fatalf("expected red=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "tallerflow_alert_scan_alerts_total", "color", "yellow"); err != nil {
		t.Fatalf("fetch yellow alerts: %v", err)
	} else if got != 3 {
		t.Fatalf("expected yellow=3, got %f", got)
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var cron *CronJobMetrics
	cron.IncSuccess("x")
	cron.IncFailure("x")
	cron.ObserveDuration("x", time.Second)

	var scan *AlertScanMetrics
	scan.AddAlerts("red", 1)
	scan.AddNotifications(1)
	scan.AddErrors(1)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
