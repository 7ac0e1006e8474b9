package carbonmetrics

import (
	"math"
	"sync/atomic"
)

// Gauge holds an instantaneous value overwritten by each Set.
type Gauge struct {
	value atomic.Uint64
}

// NewGauge creates a Gauge starting at zero.
func NewGauge() *Gauge {
	return &Gauge{}
}

// Set replaces the gauge value.
func (gauge *Gauge) Set(v float64) {
	gauge.value.Store(math.Float64bits(v))
}

// Value returns the last set value.
func (gauge *Gauge) Value() float64 {
	return math.Float64frombits(gauge.value.Load())
}

// ExportMetric implements Metric.
func (gauge *Gauge) ExportMetric() MetricValue {
	return GaugeValue(gauge.Value())
}
