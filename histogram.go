package carbonmetrics

import (
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// HDR histogram bounds: one microsecond to one hour when values are recorded
// in microseconds, three significant figures.
const (
	histogramMinValue = 1
	histogramMaxValue = 3600000000
	histogramSigFigs  = 3
)

// HistogramSnapshot is an immutable point-in-time copy of a Histogram.
type HistogramSnapshot struct {
	Min  int64
	Max  int64
	Mean float64
	P50  float64
	P90  float64
	P95  float64
	P99  float64
}

// Histogram measures the statistical distribution of recorded values. The
// actual distribution bookkeeping is delegated to an HDR histogram; it is not
// goroutine-safe on its own, so every access holds the mutex.
type Histogram struct {
	mutex     sync.Mutex
	histogram *hdrhistogram.Histogram
}

// NewHistogram creates a Histogram with the default value bounds.
func NewHistogram() *Histogram {
	return &Histogram{
		histogram: hdrhistogram.New(histogramMinValue, histogramMaxValue, histogramSigFigs),
	}
}

// Update records one value. Values outside the histogram bounds are clamped
// to the nearest bound rather than dropped.
func (histogram *Histogram) Update(v int64) {
	histogram.mutex.Lock()
	defer histogram.mutex.Unlock()

	if v < histogramMinValue {
		v = histogramMinValue
	}
	if v > histogramMaxValue {
		v = histogramMaxValue
	}
	_ = histogram.histogram.RecordValue(v)
}

// Count returns the number of recorded values.
func (histogram *Histogram) Count() int64 {
	histogram.mutex.Lock()
	defer histogram.mutex.Unlock()

	return histogram.histogram.TotalCount()
}

// Clear resets the distribution.
func (histogram *Histogram) Clear() {
	histogram.mutex.Lock()
	defer histogram.mutex.Unlock()

	histogram.histogram.Reset()
}

// Snapshot returns an immutable copy of the current distribution facets.
func (histogram *Histogram) Snapshot() HistogramSnapshot {
	histogram.mutex.Lock()
	defer histogram.mutex.Unlock()

	if histogram.histogram.TotalCount() == 0 {
		return HistogramSnapshot{}
	}
	return HistogramSnapshot{
		Min:  histogram.histogram.Min(),
		Max:  histogram.histogram.Max(),
		Mean: histogram.histogram.Mean(),
		P50:  float64(histogram.histogram.ValueAtQuantile(50)),
		P90:  float64(histogram.histogram.ValueAtQuantile(90)),
		P95:  float64(histogram.histogram.ValueAtQuantile(95)),
		P99:  float64(histogram.histogram.ValueAtQuantile(99)),
	}
}

// ExportMetric implements Metric.
func (histogram *Histogram) ExportMetric() MetricValue {
	return HistogramValue(histogram.Snapshot())
}
