package carbonmetrics

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNameAlreadyRegistered is returned by Register when the name is taken.
var ErrNameAlreadyRegistered = errors.New("metric name already registered")

// Registry is a concurrency-safe directory of named metrics. Names are
// unique; a duplicate registration never silently replaces the existing
// metric, since concurrent holders of the old instance would keep recording
// into a metric nobody exports anymore.
type Registry struct {
	mutex   sync.RWMutex
	metrics map[string]Metric
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{metrics: make(map[string]Metric)}
}

// Register inserts the metric under the given name. Registering an already
// taken name returns ErrNameAlreadyRegistered.
func (registry *Registry) Register(name string, metric Metric) error {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	if _, ok := registry.metrics[name]; ok {
		return fmt.Errorf("can't register metric %s: %w", name, ErrNameAlreadyRegistered)
	}
	registry.metrics[name] = metric
	return nil
}

// GetOrRegister inserts the metric under the given name, or returns the
// already registered instance when the name is taken.
func (registry *Registry) GetOrRegister(name string, metric Metric) Metric {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	if existing, ok := registry.metrics[name]; ok {
		return existing
	}
	registry.metrics[name] = metric
	return metric
}

// Get returns the metric registered under the given name.
func (registry *Registry) Get(name string) (Metric, bool) {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()

	metric, ok := registry.metrics[name]
	return metric, ok
}

// Unregister removes the metric registered under the given name.
func (registry *Registry) Unregister(name string) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	delete(registry.metrics, name)
}

// Each calls f for every registered metric. Iteration runs over a snapshot
// copy of the mapping, so concurrent registration never tears the scan;
// metric values may still move underneath it, which is fine because each
// metric's own snapshot is the unit of consistency.
func (registry *Registry) Each(f func(name string, metric Metric)) {
	registry.mutex.RLock()
	snapshot := make(map[string]Metric, len(registry.metrics))
	for name, metric := range registry.metrics {
		snapshot[name] = metric
	}
	registry.mutex.RUnlock()

	for name, metric := range snapshot {
		f(name, metric)
	}
}

// NewMeter registers and returns a Meter under the dot-joined path, or the
// existing one when the path is taken.
func (registry *Registry) NewMeter(path ...string) *Meter {
	return registry.GetOrRegister(getMetricName(path), NewMeter()).(*Meter)
}

// NewCounter registers and returns a Counter under the dot-joined path, or
// the existing one when the path is taken.
func (registry *Registry) NewCounter(path ...string) *Counter {
	return registry.GetOrRegister(getMetricName(path), NewCounter()).(*Counter)
}

// NewGauge registers and returns a Gauge under the dot-joined path, or the
// existing one when the path is taken.
func (registry *Registry) NewGauge(path ...string) *Gauge {
	return registry.GetOrRegister(getMetricName(path), NewGauge()).(*Gauge)
}

// NewHistogram registers and returns a Histogram under the dot-joined path,
// or the existing one when the path is taken.
func (registry *Registry) NewHistogram(path ...string) *Histogram {
	return registry.GetOrRegister(getMetricName(path), NewHistogram()).(*Histogram)
}

func getMetricName(path []string) string {
	return strings.Join(path, ".")
}
