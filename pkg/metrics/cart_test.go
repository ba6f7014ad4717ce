package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCartMetricsObserveMutation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)

	m.ObserveMutation(3)
	m.ObserveMutation(0)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	byName := map[string]float64{}
	for _, fam := range families {
		switch fam.GetName() {
		case "cart_mutations_total":
			byName[fam.GetName()] = fam.GetMetric()[0].GetCounter().GetValue()
		case "cart_items":
			byName[fam.GetName()] = float64(fam.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	if byName["cart_mutations_total"] != 2 {
		t.Fatalf("mutations = %v, want 2", byName["cart_mutations_total"])
	}
	if byName["cart_items"] != 2 {
		t.Fatalf("histogram samples = %v, want 2", byName["cart_items"])
	}
}

func TestCartMetricsNilSafe(t *testing.T) {
	var m *CartMetrics
	m.ObserveMutation(1)
	NewCartMetrics(nil).ObserveMutation(1)
}
