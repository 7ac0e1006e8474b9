package carbonmetrics

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHistogram(t *testing.T) {
	Convey("Empty histogram snapshots to zeroes", t, func(c C) {
		histogram := NewHistogram()

		c.So(histogram.Count(), ShouldEqual, 0)
		c.So(histogram.Snapshot(), ShouldResemble, HistogramSnapshot{})
	})

	Convey("Quantiles follow the recorded distribution", t, func(c C) {
		histogram := NewHistogram()
		for v := int64(1); v <= 100; v++ {
			histogram.Update(v)
		}

		snapshot := histogram.Snapshot()
		c.So(histogram.Count(), ShouldEqual, 100)
		c.So(snapshot.Min, ShouldEqual, 1)
		c.So(snapshot.Max, ShouldEqual, 100)
		c.So(snapshot.Mean, ShouldAlmostEqual, 50.5, 1)
		c.So(snapshot.P50, ShouldAlmostEqual, 50, 1)
		c.So(snapshot.P90, ShouldAlmostEqual, 90, 1)
		c.So(snapshot.P95, ShouldAlmostEqual, 95, 1)
		c.So(snapshot.P99, ShouldAlmostEqual, 99, 1)
	})

	Convey("Out-of-range values are clamped, not dropped", t, func(c C) {
		histogram := NewHistogram()
		histogram.Update(-5)
		histogram.Update(0)

		c.So(histogram.Count(), ShouldEqual, 2)
		c.So(histogram.Snapshot().Min, ShouldEqual, 1)
	})

	Convey("Clear resets the distribution", t, func(c C) {
		histogram := NewHistogram()
		histogram.Update(42)
		histogram.Clear()

		c.So(histogram.Count(), ShouldEqual, 0)
	})
}
