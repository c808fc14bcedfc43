package relay

import (
	"bytes"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

func TestStats_WriteText(t *testing.T) {
	s := Stats{Infos: 40, Errors: 2, Discarded: 3, Captured: 0}

	var buf bytes.Buffer
	if err := s.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() error: %v", err)
	}

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(&buf)
	if err != nil {
		t.Fatalf("parse exposition: %v", err)
	}

	records := mfs[MetricRecords]
	if records == nil || records.GetType() != dto.MetricType_COUNTER {
		t.Fatalf("%s missing or not a counter: %v", MetricRecords, records)
	}
	bySeverity := map[string]float64{}
	for _, m := range records.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "severity" {
				bySeverity[l.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	if bySeverity["info"] != 40 || bySeverity["error"] != 2 {
		t.Errorf("records by severity = %v", bySeverity)
	}
	if got := mfs[MetricDiscarded].GetMetric()[0].GetCounter().GetValue(); got != 3 {
		t.Errorf("discarded = %v, want 3", got)
	}
	if _, ok := mfs[MetricCaptured]; !ok {
		t.Errorf("%s missing", MetricCaptured)
	}
}
