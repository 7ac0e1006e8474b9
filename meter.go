package carbonmetrics

import (
	"sync/atomic"

	"github.com/moira-alert/carbonmetrics/clock"
)

// MeterSnapshot is an immutable point-in-time copy of a Meter: total count,
// the 1/5/15-minute rates and the mean rate since creation.
type MeterSnapshot struct {
	Count int64
	Rates [3]float64
	Mean  float64
}

// Meter measures the rate at which a set of events occur, just like the Unix
// load averages visible in top. It is safe for use by any number of
// goroutines; no call ever takes a lock or blocks on I/O.
//
// The total count is a single int64 and wraps around on overflow.
type Meter struct {
	clock      Clock
	birthstamp int64
	prev       atomic.Int64
	count      atomic.Int64
	rates      [3]*EWMA
}

// NewMeter creates a Meter driven by the system clock.
func NewMeter() *Meter {
	return NewMeterWithClock(clock.NewSystemClock())
}

// NewMeterWithClock creates a Meter driven by the given clock.
func NewMeterWithClock(c Clock) *Meter {
	birthstamp := c.Now()
	meter := &Meter{
		clock:      c,
		birthstamp: birthstamp,
		rates:      [3]*EWMA{NewEWMA1(), NewEWMA5(), NewEWMA15()},
	}
	meter.prev.Store(birthstamp)
	return meter
}

// Mark records the occurrence of value events.
func (meter *Meter) Mark(value int64) {
	meter.tickIfNeeded()
	meter.count.Add(value)
	for _, rate := range meter.rates {
		rate.Update(value)
	}
}

// Count returns the number of events which have been marked.
func (meter *Meter) Count() int64 {
	return meter.count.Load()
}

// MeanRate returns the mean rate at which events have occurred since the
// meter was created.
func (meter *Meter) MeanRate() float64 {
	count := meter.count.Load()
	if count == 0 {
		return 0
	}
	elapsed := meter.clock.Now() - meter.birthstamp
	if elapsed == 0 {
		return 0
	}
	return float64(count) / float64(elapsed)
}

// M01Rate returns the one-minute exponentially-weighted moving average rate.
func (meter *Meter) M01Rate() float64 {
	meter.tickIfNeeded()
	return meter.rates[0].Rate()
}

// M05Rate returns the five-minute exponentially-weighted moving average rate.
func (meter *Meter) M05Rate() float64 {
	meter.tickIfNeeded()
	return meter.rates[1].Rate()
}

// M15Rate returns the fifteen-minute exponentially-weighted moving average rate.
func (meter *Meter) M15Rate() float64 {
	meter.tickIfNeeded()
	return meter.rates[2].Rate()
}

// Snapshot returns an immutable copy of the meter state.
func (meter *Meter) Snapshot() MeterSnapshot {
	meter.tickIfNeeded()
	return MeterSnapshot{
		Count: meter.count.Load(),
		Rates: [3]float64{meter.rates[0].Rate(), meter.rates[1].Rate(), meter.rates[2].Rate()},
		Mean:  meter.MeanRate(),
	}
}

// ExportMetric implements Metric.
func (meter *Meter) ExportMetric() MetricValue {
	return MeterValue(meter.Snapshot())
}

// tickIfNeeded advances the EWMAs by however many whole tick intervals have
// elapsed since the last advancement. Exactly one concurrent caller wins the
// CAS and replays the missed ticks; the losers observed a stale timestamp and
// tick zero times this round. Clock values never decrease, so no ABA problem
// is possible here.
func (meter *Meter) tickIfNeeded() {
	now := meter.clock.Now()
	old := meter.prev.Load()
	elapsed := now - old

	if elapsed <= tickInterval {
		return
	}
	if !meter.prev.CompareAndSwap(old, now-elapsed%tickInterval) {
		return
	}
	for ticks := elapsed / tickInterval; ticks > 0; ticks-- {
		for _, rate := range meter.rates {
			rate.Tick()
		}
	}
}
