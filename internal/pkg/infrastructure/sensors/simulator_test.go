package sensors

import (
	"context"
	"testing"
	"time"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/clock"
	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/matryer/is"
)

func TestThatSimulatorIsRepeatable(t *testing.T) {
	is := is.New(t)

	s := NewSimulator(&clock.Fixed{T: time.Date(2024, 1, 5, 14, 3, 0, 0, time.UTC)})

	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	first, err := s.HistoricalReadings(context.Background(), types.Temperature, start, start.Add(time.Hour))
	is.NoErr(err)
	second, _ := s.HistoricalReadings(context.Background(), types.Temperature, start, start.Add(time.Hour))

	is.Equal(len(first), 6)
	is.Equal(first, second)
}

func TestThatSimulatedMaxIsAtLeastCurrent(t *testing.T) {
	is := is.New(t)

	s := NewSimulator(&clock.Fixed{T: time.Date(2024, 1, 5, 14, 3, 0, 0, time.UTC)})

	cv, err := s.CurrentValues(context.Background())
	is.NoErr(err)
	is.True(cv.MaxToday.Temperature >= cv.Current.Temperature)
	is.True(cv.MaxToday.Humidity >= cv.Current.Humidity)
}
