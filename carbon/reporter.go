package carbon

import (
	"strconv"
	"strings"
	"time"

	"gopkg.in/tomb.v2"

	"github.com/moira-alert/carbonmetrics"
	"github.com/moira-alert/carbonmetrics/clock"
)

// Reporter periodically walks a registry, formats a snapshot of every metric
// and hands the batch to a sender. Delivery is best effort: a failed batch is
// logged and dropped, and the next interval retries over a fresh connection.
type Reporter struct {
	registry *carbonmetrics.Registry
	sender   Sender
	clock    carbonmetrics.Clock
	logger   carbonmetrics.Logger
	interval time.Duration
	prefix   string
	tomb     tomb.Tomb
}

// NewReporter creates a Reporter shipping to a CarbonSender built from the
// given settings.
func NewReporter(registry *carbonmetrics.Registry, settings Settings, logger carbonmetrics.Logger) *Reporter {
	sender := NewCarbonSender(settings.Address, settings.DialTimeout, settings.WriteTimeout)
	return NewReporterWithSender(registry, sender, clock.NewSystemClock(), settings.Interval, settings.Prefix, logger)
}

// NewReporterWithSender creates a Reporter with an explicit sender and clock.
func NewReporterWithSender(registry *carbonmetrics.Registry, sender Sender, c carbonmetrics.Clock, interval time.Duration, prefix string, logger carbonmetrics.Logger) *Reporter {
	if prefix != "" && !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}
	return &Reporter{
		registry: registry,
		sender:   sender,
		clock:    c,
		logger:   logger,
		interval: interval,
		prefix:   prefix,
	}
}

// Start launches the reporting goroutine.
func (reporter *Reporter) Start() {
	reporter.tomb.Go(func() error {
		checkTicker := time.NewTicker(reporter.interval)
		defer checkTicker.Stop()
		for {
			select {
			case <-reporter.tomb.Dying():
				reporter.logger.Info().Msg("Carbon reporter stopped")
				return reporter.sender.Close()
			case <-checkTicker.C:
				reporter.Report()
			}
		}
	})

	reporter.logger.Info().
		String("interval", reporter.interval.String()).
		Msg("Carbon reporter started")
}

// Stop terminates the reporting goroutine, waits for an in-flight send to
// finish or time out, and releases the sender connection.
func (reporter *Reporter) Stop() error {
	reporter.tomb.Kill(nil)
	return reporter.tomb.Wait()
}

// Report runs one reporting cycle: collects a snapshot of every registered
// metric and sends it as a single batch. The background loop calls it on
// every interval; it can also be called directly for a final flush.
func (reporter *Reporter) Report() {
	lines := reporter.collect()
	if len(lines) == 0 {
		return
	}
	timestamp := reporter.clock.Now()
	if err := reporter.sender.Send(lines, timestamp); err != nil {
		reporter.logger.Error().
			Error(err).
			Int("lines", len(lines)).
			Msg("Batch dropped, will retry over a fresh connection on the next interval")
	}
}

func (reporter *Reporter) collect() []Line {
	var lines []Line
	reporter.registry.Each(func(name string, metric carbonmetrics.Metric) {
		lines = append(lines, formatMetric(reporter.prefix+name, metric.ExportMetric())...)
	})
	return lines
}

// formatMetric renders one metric reading into protocol lines. Suffix
// convention: counters report `.count`, gauges the bare path, meters
// `.count`, `.meanRate`, `.m1`, `.m5`, `.m15`, histograms `.min`, `.max`,
// `.mean` and the `.p50`, `.p90`, `.p95`, `.p99` quantiles.
func formatMetric(path string, value carbonmetrics.MetricValue) []Line {
	switch v := value.(type) {
	case carbonmetrics.CounterValue:
		return []Line{
			{path + ".count", formatInt(int64(v))},
		}
	case carbonmetrics.GaugeValue:
		return []Line{
			{path, formatFloat(float64(v))},
		}
	case carbonmetrics.MeterValue:
		return []Line{
			{path + ".count", formatInt(v.Count)},
			{path + ".meanRate", formatFloat(v.Mean)},
			{path + ".m1", formatFloat(v.Rates[0])},
			{path + ".m5", formatFloat(v.Rates[1])},
			{path + ".m15", formatFloat(v.Rates[2])},
		}
	case carbonmetrics.HistogramValue:
		return []Line{
			{path + ".min", formatInt(v.Min)},
			{path + ".max", formatInt(v.Max)},
			{path + ".mean", formatFloat(v.Mean)},
			{path + ".p50", formatFloat(v.P50)},
			{path + ".p90", formatFloat(v.P90)},
			{path + ".p95", formatFloat(v.P95)},
			{path + ".p99", formatFloat(v.P99)},
		}
	}
	return nil
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
