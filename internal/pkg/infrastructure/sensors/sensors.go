package sensors

import (
	"context"
	"time"

	"github.com/diwise/iot-sensor-monitor/pkg/types"
)

// Provider is the source of sensor readings used by the dashboard.
//
//go:generate moq -rm -out provider_mock.go . Provider
type Provider interface {
	CurrentReading(ctx context.Context, metric types.Metric) (types.Reading, error)
	HistoricalReadings(ctx context.Context, metric types.Metric, start, end time.Time) ([]types.Reading, error)
	CurrentValues(ctx context.Context) (types.CurrentValues, error)
}

type Config struct {
	URL          string        `yaml:"url"`
	Token        string        `yaml:"token"`
	ClientID     string        `yaml:"clientID"`
	ClientSecret string        `yaml:"clientSecret"`
	TokenURL     string        `yaml:"tokenURL"`
	Simulate     bool          `yaml:"simulate"`
	Timeout      time.Duration `yaml:"timeout"`
}
