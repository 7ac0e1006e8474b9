package carbonmetrics

import "sync/atomic"

// Counter holds a monotonically adjustable count.
type Counter struct {
	count atomic.Int64
}

// NewCounter creates a Counter starting at zero.
func NewCounter() *Counter {
	return &Counter{}
}

// Inc increments the counter by value.
func (counter *Counter) Inc(value int64) {
	counter.count.Add(value)
}

// Dec decrements the counter by value.
func (counter *Counter) Dec(value int64) {
	counter.count.Add(-value)
}

// Clear resets the counter to zero.
func (counter *Counter) Clear() {
	counter.count.Store(0)
}

// Count returns the current count.
func (counter *Counter) Count() int64 {
	return counter.count.Load()
}

// ExportMetric implements Metric.
func (counter *Counter) ExportMetric() MetricValue {
	return CounterValue(counter.count.Load())
}
