package relay

import (
	"fmt"
	"io"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Metric names written by Stats.WriteText.
const (
	MetricRecords       = "memospot_relay_records_total"
	MetricDiscarded     = "memospot_relay_discarded_lines_total"
	MetricCaptured      = "memospot_relay_captured_lines_total"
	MetricCaptureErrors = "memospot_relay_capture_errors_total"
)

// Stats counts relayed lines.
type Stats struct {
	Infos         uint64
	Errors        uint64
	Discarded     uint64
	Captured      uint64
	CaptureErrors uint64
}

// Families returns the counters as Prometheus metric families.
func (s Stats) Families() []*dto.MetricFamily {
	records := counterFamily(MetricRecords, "Server log records relayed, by severity.")
	records.Metric = []*dto.Metric{
		counter(float64(s.Infos), "severity", "info"),
		counter(float64(s.Errors), "severity", "error"),
	}

	discarded := counterFamily(MetricDiscarded, "Server stdout lines that were not log records.")
	discarded.Metric = []*dto.Metric{counter(float64(s.Discarded))}

	captured := counterFamily(MetricCaptured, "Raw server stdout lines copied to the capture sink.")
	captured.Metric = []*dto.Metric{counter(float64(s.Captured))}

	captureErrors := counterFamily(MetricCaptureErrors, "Raw lines the capture sink failed to write.")
	captureErrors.Metric = []*dto.Metric{counter(float64(s.CaptureErrors))}

	return []*dto.MetricFamily{records, discarded, captured, captureErrors}
}

// WriteText writes the counters in Prometheus text exposition format.
func (s Stats) WriteText(w io.Writer) error {
	for _, mf := range s.Families() {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("relay: write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func counterFamily(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: ptr(name),
		Help: ptr(help),
		Type: dto.MetricType_COUNTER.Enum(),
	}
}

// counter builds a counter sample; labels are name/value pairs.
func counter(v float64, labels ...string) *dto.Metric {
	m := &dto.Metric{Counter: &dto.Counter{Value: ptr(v)}}
	for i := 0; i+1 < len(labels); i += 2 {
		m.Label = append(m.Label, &dto.LabelPair{Name: ptr(labels[i]), Value: ptr(labels[i+1])})
	}
	return m
}

func ptr[T any](v T) *T { return &v }
