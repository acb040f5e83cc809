package series

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/clock"
	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("iot-sensor-monitor/series")

//go:generate moq -rm -out readingprovider_mock.go . ReadingProvider
type ReadingProvider interface {
	HistoricalReadings(ctx context.Context, metric types.Metric, start, end time.Time) ([]types.Reading, error)
}

type Bucketer interface {
	GetSeries(ctx context.Context, metric types.Metric, period types.Period, dateRange *types.DateRange) ([]types.SeriesPoint, error)
}

type bucketer struct {
	provider ReadingProvider
	clock    clock.Clock
	location *time.Location
}

// New returns a Bucketer that aligns buckets to calendar boundaries in loc.
func New(p ReadingProvider, c clock.Clock, loc *time.Location) Bucketer {
	if loc == nil {
		loc = time.UTC
	}

	return &bucketer{
		provider: p,
		clock:    c,
		location: loc,
	}
}

func (b *bucketer) GetSeries(ctx context.Context, metric types.Metric, period types.Period, dateRange *types.DateRange) ([]types.SeriesPoint, error) {
	var err error
	ctx, span := tracer.Start(ctx, "get-series")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	span.SetAttributes(
		attribute.String("metric", string(metric)),
		attribute.String("period", string(period)),
	)

	if _, err = types.ParseMetric(string(metric)); err != nil {
		return nil, err
	}

	timestamps, next, err := Buckets(period, b.clock.Now().In(b.location), dateRange)
	if err != nil {
		return nil, err
	}

	if len(timestamps) == 0 {
		return []types.SeriesPoint{}, nil
	}

	start := timestamps[0]
	end := next(timestamps[len(timestamps)-1])

	readings, err := b.provider.HistoricalReadings(ctx, metric, start, end)
	if err != nil {
		err = fmt.Errorf("could not fetch %s readings: %w", metric, err)
		return nil, err
	}

	return aggregate(timestamps, next, readings, period == types.PeriodToday), nil
}

// Buckets returns the bucket start times for period relative to now, along
// with a function that yields the start of the bucket following a given one.
// All times are in the location of now.
func Buckets(period types.Period, now time.Time, dateRange *types.DateRange) ([]time.Time, func(time.Time) time.Time, error) {
	loc := now.Location()

	// wall clock hours, so a DST change still yields one bucket per hour of the day
	nextHour := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, t.Location())
	}
	nextDay := func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	nextMonth := func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }

	switch period {
	case types.PeriodToday:
		hours := make([]time.Time, 0, now.Hour()+1)
		for h := 0; h <= now.Hour(); h++ {
			hours = append(hours, time.Date(now.Year(), now.Month(), now.Day(), h, 0, 0, 0, loc))
		}
		return hours, nextHour, nil
	case types.PeriodWeek:
		return between(startOfDay(now.AddDate(0, 0, -7)), startOfDay(now), nextDay), nextDay, nil
	case types.PeriodMonth:
		return between(startOfDay(subMonths(now, 1)), startOfDay(now), nextDay), nextDay, nil
	case types.PeriodYear:
		return between(startOfMonth(subMonths(now, 12)), startOfMonth(now), nextMonth), nextMonth, nil
	case types.PeriodCustom:
		if dateRange == nil || dateRange.Start.IsZero() || dateRange.End.IsZero() {
			return nil, nil, fmt.Errorf("%w: custom period requires a start and an end date", types.ErrInvalidRange)
		}

		first := startOfDay(dateRange.Start.In(loc))
		last := startOfDay(dateRange.End.In(loc))

		if first.After(last) {
			return nil, nil, fmt.Errorf("%w: start %s is after end %s", types.ErrInvalidRange, first.Format(time.DateOnly), last.Format(time.DateOnly))
		}

		return between(first, last, nextDay), nextDay, nil
	}

	return nil, nil, fmt.Errorf("%w: unknown period %q", types.ErrValidation, period)
}

// FormatLabel renders a bucket timestamp with a granularity matching its period.
func FormatLabel(ts time.Time, period types.Period) string {
	switch period {
	case types.PeriodToday:
		return ts.Format("15:04")
	case types.PeriodWeek, types.PeriodMonth:
		return ts.Format("Jan 02")
	case types.PeriodYear:
		return ts.Format("Jan 2006")
	default:
		return ts.Format("2006-01-02")
	}
}

func between(first, last time.Time, next func(time.Time) time.Time) []time.Time {
	result := []time.Time{}
	for t := first; !t.After(last); t = next(t) {
		result = append(result, t)
	}
	return result
}

func aggregate(timestamps []time.Time, next func(time.Time) time.Time, readings []types.Reading, lastValueOnly bool) []types.SeriesPoint {
	samples := make([][]types.Reading, len(timestamps))

	for _, r := range readings {
		ts := r.Timestamp.In(timestamps[0].Location())

		// index of the last bucket starting at or before ts
		idx := sort.Search(len(timestamps), func(i int) bool { return timestamps[i].After(ts) }) - 1
		if idx < 0 || !ts.Before(next(timestamps[idx])) {
			continue
		}

		samples[idx] = append(samples[idx], r)
	}

	return lo.Map(timestamps, func(ts time.Time, i int) types.SeriesPoint {
		bucket := samples[i]
		p := types.SeriesPoint{Timestamp: ts, Samples: len(bucket)}

		if lastValueOnly {
			if len(bucket) > 0 {
				p.Value = lo.MaxBy(bucket, func(a, b types.Reading) bool {
					return a.Timestamp.After(b.Timestamp)
				}).Value
			}
			return p
		}

		values := lo.Map(bucket, func(r types.Reading, _ int) float64 { return r.Value })

		lower, upper := 0.0, 0.0
		if len(values) > 0 {
			lower, upper = lo.Min(values), lo.Max(values)
			// summing floats may push the mean just outside the envelope
			p.Value = lo.Clamp(lo.Sum(values)/float64(len(values)), lower, upper)
		}

		p.Min, p.Max = &lower, &upper
		return p
	})
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// subMonths steps back n calendar months, clamping the day to the end of
// the target month, so that Mar 31 minus one month is Feb 29 in a leap year.
func subMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()

	lastDay := time.Date(y, m-time.Month(n)+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}

	return time.Date(y, m-time.Month(n), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
