package carbonmetrics

// Clock is a time source returning the current time in whole Unix seconds.
// Implementations must be monotonically non-decreasing: the lock-free meter
// tick algorithm relies on timestamps never going backward.
type Clock interface {
	Now() int64
}

// Metric is anything that can export a point-in-time value snapshot.
// Variants are Counter, Gauge, Meter and Histogram.
type Metric interface {
	ExportMetric() MetricValue
}

// MetricValue is a point-in-time reading of a single metric. The set of
// implementations is closed; the carbon reporter type-switches over it.
type MetricValue interface {
	metricValue()
}

// CounterValue is the exported reading of a Counter.
type CounterValue int64

// GaugeValue is the exported reading of a Gauge.
type GaugeValue float64

// MeterValue is the exported reading of a Meter.
type MeterValue MeterSnapshot

// HistogramValue is the exported reading of a Histogram.
type HistogramValue HistogramSnapshot

func (CounterValue) metricValue()   {}
func (GaugeValue) metricValue()     {}
func (MeterValue) metricValue()     {}
func (HistogramValue) metricValue() {}
