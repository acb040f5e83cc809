package series

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/clock"
	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/matryer/is"
)

var cet = time.FixedZone("CET", 3600)

func TestThatTodayHasOneBucketPerHourWithoutEnvelope(t *testing.T) {
	is := is.New(t)

	now := time.Date(2024, 3, 10, 13, 25, 0, 0, cet)
	p := &ReadingProviderMock{
		HistoricalReadingsFunc: func(ctx context.Context, metric types.Metric, start, end time.Time) ([]types.Reading, error) {
			return []types.Reading{
				{Timestamp: time.Date(2024, 3, 10, 13, 5, 0, 0, cet), Value: 21.0},
				{Timestamp: time.Date(2024, 3, 10, 13, 20, 0, 0, cet), Value: 23.5},
				{Timestamp: time.Date(2024, 3, 10, 13, 10, 0, 0, cet), Value: 22.0},
			}, nil
		},
	}

	points, err := New(p, &clock.Fixed{T: now}, cet).GetSeries(context.Background(), types.Temperature, types.PeriodToday, nil)
	is.NoErr(err)
	is.Equal(len(points), 14)

	for h, pt := range points {
		is.Equal(pt.Timestamp.Hour(), h)
		is.Equal(pt.Min, nil)
		is.Equal(pt.Max, nil)
	}

	is.Equal(points[13].Value, 23.5)
	is.Equal(points[13].Samples, 3)
	is.Equal(points[0].Samples, 0)

	call := p.HistoricalReadingsCalls()[0]
	is.True(call.Start.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, cet)))
	is.True(call.End.Equal(time.Date(2024, 3, 10, 14, 0, 0, 0, cet)))
}

func TestThatWeekHasEightBucketsWithEnvelope(t *testing.T) {
	is := is.New(t)

	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	p := &ReadingProviderMock{
		HistoricalReadingsFunc: func(ctx context.Context, metric types.Metric, start, end time.Time) ([]types.Reading, error) {
			readings := []types.Reading{}
			for ts := start; ts.Before(end); ts = ts.Add(30 * time.Minute) {
				v := 20 + 5*math.Sin(float64(ts.Unix())/7200)
				readings = append(readings, types.Reading{Timestamp: ts, Value: v})
			}
			return readings, nil
		},
	}

	points, err := New(p, &clock.Fixed{T: now}, time.UTC).GetSeries(context.Background(), types.Humidity, types.PeriodWeek, nil)
	is.NoErr(err)
	is.Equal(len(points), 8)

	is.True(points[0].Timestamp.Equal(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)))
	is.True(points[7].Timestamp.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))

	for i, pt := range points {
		is.True(pt.Min != nil && pt.Max != nil)
		is.True(*pt.Min <= pt.Value)
		is.True(pt.Value <= *pt.Max)
		is.Equal(pt.Samples, 48)

		if i > 0 {
			is.True(points[i-1].Timestamp.Before(pt.Timestamp))
		}
	}
}

func TestThatEnvelopeHoldsForIdenticalSamples(t *testing.T) {
	is := is.New(t)

	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	p := &ReadingProviderMock{
		HistoricalReadingsFunc: func(ctx context.Context, metric types.Metric, start, end time.Time) ([]types.Reading, error) {
			return []types.Reading{
				{Timestamp: now.Add(-3 * time.Hour), Value: 0.1},
				{Timestamp: now.Add(-2 * time.Hour), Value: 0.1},
				{Timestamp: now.Add(-1 * time.Hour), Value: 0.1},
			}, nil
		},
	}

	points, err := New(p, &clock.Fixed{T: now}, time.UTC).GetSeries(context.Background(), types.Temperature, types.PeriodWeek, nil)
	is.NoErr(err)

	last := points[len(points)-1]
	is.Equal(last.Samples, 3)
	is.True(*last.Min <= last.Value && last.Value <= *last.Max)

	empty := points[0]
	is.Equal(empty.Samples, 0)
	is.Equal(*empty.Min, 0.0)
	is.Equal(*empty.Max, 0.0)
}

func TestThatReversedCustomRangeIsInvalid(t *testing.T) {
	is := is.New(t)

	p := &ReadingProviderMock{}
	b := New(p, &clock.Fixed{T: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}, time.UTC)

	_, err := b.GetSeries(context.Background(), types.Temperature, types.PeriodCustom, &types.DateRange{
		Start: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	})
	is.True(errors.Is(err, types.ErrInvalidRange))

	_, err = b.GetSeries(context.Background(), types.Temperature, types.PeriodCustom, nil)
	is.True(errors.Is(err, types.ErrInvalidRange))

	is.Equal(len(p.HistoricalReadingsCalls()), 0)
}

func TestThatCustomRangeIsInclusive(t *testing.T) {
	is := is.New(t)

	p := &ReadingProviderMock{
		HistoricalReadingsFunc: func(ctx context.Context, metric types.Metric, start, end time.Time) ([]types.Reading, error) {
			return nil, nil
		},
	}
	b := New(p, &clock.Fixed{T: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}, time.UTC)

	points, err := b.GetSeries(context.Background(), types.Temperature, types.PeriodCustom, &types.DateRange{
		Start: time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC),
	})
	is.NoErr(err)
	is.Equal(len(points), 3)

	same, err := b.GetSeries(context.Background(), types.Temperature, types.PeriodCustom, &types.DateRange{
		Start: time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 3, 6, 0, 0, 0, time.UTC),
	})
	is.NoErr(err)
	is.Equal(len(same), 1)
}

func TestThatYearHasMonthlyBuckets(t *testing.T) {
	is := is.New(t)

	now := time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC)
	ts, next, err := Buckets(types.PeriodYear, now, nil)
	is.NoErr(err)
	is.Equal(len(ts), 13)
	is.True(ts[0].Equal(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)))
	is.True(ts[12].Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	is.True(next(ts[12]).Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestThatMonthHasDailyBuckets(t *testing.T) {
	is := is.New(t)

	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	ts, _, err := Buckets(types.PeriodMonth, now, nil)
	is.NoErr(err)
	is.Equal(len(ts), 30)
	is.True(ts[0].Equal(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)))
}

func TestThatMonthStartsAtTheEndOfAShorterMonth(t *testing.T) {
	is := is.New(t)

	ts, _, err := Buckets(types.PeriodMonth, time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC), nil)
	is.NoErr(err)
	is.True(ts[0].Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	is.Equal(len(ts), 32)

	ts, _, err = Buckets(types.PeriodMonth, time.Date(2024, 5, 31, 9, 0, 0, 0, time.UTC), nil)
	is.NoErr(err)
	is.True(ts[0].Equal(time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)))
	is.Equal(len(ts), 32)
}

func TestThatYearOnLeapDayHasThirteenBuckets(t *testing.T) {
	is := is.New(t)

	ts, _, err := Buckets(types.PeriodYear, time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC), nil)
	is.NoErr(err)
	is.Equal(len(ts), 13)
	is.True(ts[0].Equal(time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)))
	is.True(ts[12].Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestThatTodayHasOneBucketPerHourAcrossDaylightSavingChanges(t *testing.T) {
	is := is.New(t)

	stockholm, err := time.LoadLocation("Europe/Stockholm")
	is.NoErr(err)

	// clocks go forward at 02:00 on 2024-03-31 and back at 03:00 on 2024-10-27
	for _, now := range []time.Time{
		time.Date(2024, 3, 31, 10, 30, 0, 0, stockholm),
		time.Date(2024, 10, 27, 10, 30, 0, 0, stockholm),
	} {
		ts, next, err := Buckets(types.PeriodToday, now, nil)
		is.NoErr(err)
		is.Equal(len(ts), 11)
		is.Equal(ts[0].Hour(), 0)
		is.Equal(ts[10].Hour(), 10)
		is.Equal(next(ts[10]).Hour(), 11)
	}
}

func TestThatUnknownMetricOrPeriodIsRejected(t *testing.T) {
	is := is.New(t)

	b := New(&ReadingProviderMock{}, clock.System(), time.UTC)

	_, err := b.GetSeries(context.Background(), types.Metric("pressure"), types.PeriodWeek, nil)
	is.True(errors.Is(err, types.ErrValidation))

	_, err = b.GetSeries(context.Background(), types.Temperature, types.Period("decade"), nil)
	is.True(errors.Is(err, types.ErrValidation))
}

func TestThatProviderFailurePropagates(t *testing.T) {
	is := is.New(t)

	p := &ReadingProviderMock{
		HistoricalReadingsFunc: func(ctx context.Context, metric types.Metric, start, end time.Time) ([]types.Reading, error) {
			return nil, types.ErrTransport
		},
	}

	_, err := New(p, clock.System(), time.UTC).GetSeries(context.Background(), types.Temperature, types.PeriodToday, nil)
	is.True(errors.Is(err, types.ErrTransport))
}

func TestFormatLabel(t *testing.T) {
	is := is.New(t)

	ts := time.Date(2024, 1, 5, 7, 0, 0, 0, time.UTC)

	is.Equal(FormatLabel(ts, types.PeriodToday), "07:00")
	is.Equal(FormatLabel(ts, types.PeriodWeek), "Jan 05")
	is.Equal(FormatLabel(ts, types.PeriodMonth), "Jan 05")
	is.Equal(FormatLabel(ts, types.PeriodYear), "Jan 2024")
	is.Equal(FormatLabel(ts, types.PeriodCustom), "2024-01-05")
}
