package sensors

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/clock"
	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/samber/lo"
)

const simulatorStep = 10 * time.Minute

// Simulator produces repeatable readings for local development. The same
// metric and timestamp always give the same value.
type Simulator struct {
	clock clock.Clock
}

func NewSimulator(c clock.Clock) *Simulator {
	return &Simulator{clock: c}
}

func (s *Simulator) CurrentReading(ctx context.Context, metric types.Metric) (types.Reading, error) {
	now := s.clock.Now()
	return types.Reading{Timestamp: now, Value: simulate(metric, now)}, nil
}

func (s *Simulator) HistoricalReadings(ctx context.Context, metric types.Metric, start, end time.Time) ([]types.Reading, error) {
	readings := []types.Reading{}

	for ts := start.Truncate(simulatorStep); ts.Before(end); ts = ts.Add(simulatorStep) {
		if ts.Before(start) {
			continue
		}
		readings = append(readings, types.Reading{Timestamp: ts, Value: simulate(metric, ts)})
	}

	return readings, nil
}

func (s *Simulator) CurrentValues(ctx context.Context) (types.CurrentValues, error) {
	now := s.clock.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	maxOf := func(metric types.Metric) float64 {
		readings, _ := s.HistoricalReadings(ctx, metric, midnight, now)
		values := lo.Map(readings, func(r types.Reading, _ int) float64 { return r.Value })
		return lo.Max(append(values, simulate(metric, now)))
	}

	return types.CurrentValues{
		Current: types.SensorValues{
			Temperature: simulate(types.Temperature, now),
			Humidity:    simulate(types.Humidity, now),
		},
		MaxToday: types.SensorValues{
			Temperature: maxOf(types.Temperature),
			Humidity:    maxOf(types.Humidity),
		},
	}, nil
}

func simulate(metric types.Metric, ts time.Time) float64 {
	base, amplitude := 22.0, 4.0
	if metric == types.Humidity {
		base, amplitude = 45.0, 10.0
	}

	minutes := float64(ts.UTC().Hour()*60 + ts.UTC().Minute())
	daily := math.Sin(2 * math.Pi * (minutes - 360) / 1440)

	h := fnv.New32a()
	h.Write([]byte(string(metric) + ts.UTC().Format(time.RFC3339)))
	noise := float64(h.Sum32()%100)/100.0 - 0.5

	return math.Round((base+amplitude*daily+noise)*10) / 10
}
