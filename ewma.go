package carbonmetrics

import (
	"math"
	"sync/atomic"
)

// tickInterval is the number of seconds between meter ticks, matching the
// sampling interval of the Unix load averages.
const tickInterval = 5

// EWMA is an exponentially-weighted moving average rate estimator. Events are
// accumulated with Update and folded into the decayed rate on every Tick.
// Update and Rate never lock; Tick is driven by the owning Meter.
type EWMA struct {
	alpha     float64
	uncounted atomic.Int64
	rate      atomic.Uint64
	ticked    atomic.Bool
}

// NewEWMA creates an estimator averaging over the given window in minutes.
func NewEWMA(minutes int) *EWMA {
	return &EWMA{alpha: 1 - math.Exp(-tickInterval/(float64(minutes)*60))}
}

// NewEWMA1 creates a one-minute moving average estimator.
func NewEWMA1() *EWMA {
	return NewEWMA(1)
}

// NewEWMA5 creates a five-minute moving average estimator.
func NewEWMA5() *EWMA {
	return NewEWMA(5)
}

// NewEWMA15 creates a fifteen-minute moving average estimator.
func NewEWMA15() *EWMA {
	return NewEWMA(15)
}

// Update adds n events to the uncounted accumulator. No decay is applied
// here; the call never blocks and never fails.
func (ewma *EWMA) Update(n int64) {
	ewma.uncounted.Add(n)
}

// Tick folds the accumulated events into the rate. The first tick sets the
// rate to the instant per-second rate directly, so a cold start is not biased
// toward zero.
func (ewma *EWMA) Tick() {
	instantRate := float64(ewma.uncounted.Swap(0)) / tickInterval
	if ewma.ticked.CompareAndSwap(false, true) {
		ewma.setRate(instantRate)
		return
	}
	rate := ewma.Rate()
	ewma.setRate(rate + ewma.alpha*(instantRate-rate))
}

// Rate returns the current decayed rate in events per second. It is zero
// before the first tick.
func (ewma *EWMA) Rate() float64 {
	return math.Float64frombits(ewma.rate.Load())
}

func (ewma *EWMA) setRate(v float64) {
	ewma.rate.Store(math.Float64bits(v))
}
