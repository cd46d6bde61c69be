package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestSampleUpdatesGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.Sample(7, CallbackCounts{Running: 2, Queued: 1, Terminated: 3})

	if got := gaugeValue(t, r.SchedulerQueueDepth); got != 7 {
		t.Errorf("SchedulerQueueDepth = %v, want 7", got)
	}
	if got := gaugeValue(t, r.CallbacksRunning); got != 2 {
		t.Errorf("CallbacksRunning = %v, want 2", got)
	}
	if got := gaugeValue(t, r.CallbacksTerminated); got != 3 {
		t.Errorf("CallbacksTerminated = %v, want 3", got)
	}
}

func TestNewRegistersEveryCollectorExactlyOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	metricFamilies, err := reg.Gather()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metricFamilies) == 0 {
		t.Fatalf("expected at least one registered metric family")
	}
}
