package carbonmetrics

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/mock/gomock"

	mock_clock "github.com/moira-alert/carbonmetrics/mock/clock"
)

func TestMeterZero(t *testing.T) {
	Convey("Fresh meter reports zeroes", t, func(c C) {
		meter := NewMeter()

		c.So(meter.Count(), ShouldEqual, 0)
		c.So(meter.MeanRate(), ShouldAlmostEqual, 0, 1e-3)
		c.So(meter.M01Rate(), ShouldAlmostEqual, 0, 1e-3)
		c.So(meter.M05Rate(), ShouldAlmostEqual, 0, 1e-3)
		c.So(meter.M15Rate(), ShouldAlmostEqual, 0, 1e-3)
	})
}

func TestMeterNoElapsedTime(t *testing.T) {
	Convey("With no elapsed time marks sum exactly and rates stay zero", t, func(c C) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		clock := mock_clock.NewMockClock(mockCtrl)
		clock.EXPECT().Now().Return(int64(0)).AnyTimes()

		meter := NewMeterWithClock(clock)
		meter.Mark(1)
		meter.Mark(2)
		meter.Mark(40)

		c.So(meter.Count(), ShouldEqual, 43)
		c.So(meter.MeanRate(), ShouldEqual, 0)
		c.So(meter.M01Rate(), ShouldEqual, 0)
		c.So(meter.M05Rate(), ShouldEqual, 0)
		c.So(meter.M15Rate(), ShouldEqual, 0)
	})
}

func TestMeterCatchUp(t *testing.T) {
	Convey("Ten elapsed seconds replay two ticks", t, func(c C) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		clock := mock_clock.NewMockClock(mockCtrl)
		clock.EXPECT().Now().Return(int64(0)).Times(2)
		clock.EXPECT().Now().Return(int64(10)).AnyTimes()

		meter := NewMeterWithClock(clock)
		meter.Mark(1)
		meter.Mark(2)

		c.So(meter.Count(), ShouldEqual, 3)
		c.So(meter.MeanRate(), ShouldAlmostEqual, 0.3, 1e-3)

		// two ticks: 0.2 instant, then one decay step per window
		c.So(meter.M01Rate(), ShouldAlmostEqual, 0.2*math.Exp(-5.0/60.0), 1e-3)
		c.So(meter.M05Rate(), ShouldAlmostEqual, 0.2*math.Exp(-5.0/300.0), 1e-3)
		c.So(meter.M15Rate(), ShouldAlmostEqual, 0.2*math.Exp(-5.0/900.0), 1e-3)

		c.So(meter.M01Rate(), ShouldAlmostEqual, 0.1840, 1e-3)
		c.So(meter.M05Rate(), ShouldAlmostEqual, 0.1966, 1e-3)
		c.So(meter.M15Rate(), ShouldAlmostEqual, 0.1988, 1e-3)
	})
}

// stepClock returns zero for the first two calls (construction and the first
// mark) and thirteen thereafter.
type stepClock struct {
	calls atomic.Int64
}

func (clock *stepClock) Now() int64 {
	if clock.calls.Add(1) <= 2 {
		return 0
	}
	return 13
}

func TestMeterConcurrentCatchUp(t *testing.T) {
	Convey("Exactly one concurrent caller replays the owed ticks", t, func(c C) {
		meter := NewMeterWithClock(&stepClock{})
		meter.Mark(3)

		var wg sync.WaitGroup
		for i := 0; i < 64; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				meter.M01Rate()
			}()
		}
		wg.Wait()

		// 13 elapsed seconds owe exactly two ticks, with three seconds of
		// remainder carried in the last-tick timestamp. More or fewer ticks
		// would decay the rate to a different value.
		c.So(meter.M01Rate(), ShouldAlmostEqual, 0.6*math.Exp(-5.0/60.0), 1e-9)
		c.So(meter.M05Rate(), ShouldAlmostEqual, 0.6*math.Exp(-5.0/300.0), 1e-9)
		c.So(meter.M15Rate(), ShouldAlmostEqual, 0.6*math.Exp(-5.0/900.0), 1e-9)
	})
}

func TestMeterSnapshot(t *testing.T) {
	Convey("Snapshots are point-in-time copies", t, func(c C) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		clock := mock_clock.NewMockClock(mockCtrl)
		clock.EXPECT().Now().Return(int64(0)).AnyTimes()

		meter := NewMeterWithClock(clock)
		meter.Mark(1)
		meter.Mark(1)

		snapshot := meter.Snapshot()
		meter.Mark(1)

		c.So(snapshot.Count, ShouldEqual, 2)
		c.So(meter.Snapshot().Count, ShouldEqual, 3)
	})

	Convey("ExportMetric wraps the snapshot", t, func(c C) {
		meter := NewMeter()
		meter.Mark(5)

		value, ok := meter.ExportMetric().(MeterValue)
		c.So(ok, ShouldBeTrue)
		c.So(value.Count, ShouldEqual, 5)
	})
}
