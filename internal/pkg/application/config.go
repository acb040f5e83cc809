package application

import (
	"fmt"
	"io"
	"time"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/events"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/watchdog"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/sensors"
	yaml "gopkg.in/yaml.v2"
)

const (
	StorageFile     string = "file"
	StorageSQLite   string = "sqlite"
	StoragePostgres string = "postgres"
)

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type Config struct {
	Location      string                `yaml:"location"`
	PollInterval  time.Duration         `yaml:"pollInterval"`
	Storage       StorageConfig         `yaml:"storage"`
	Sensors       sensors.Config        `yaml:"sensors"`
	Notifications []events.Notification `yaml:"notifications"`
}

func DefaultConfig() *Config {
	return &Config{
		Location:     "UTC",
		PollInterval: watchdog.DefaultInterval,
		Storage: StorageConfig{
			Driver: StorageFile,
			Path:   "data",
		},
	}
}

// LoadConfiguration reads a yaml document on top of DefaultConfig.
func LoadConfiguration(data io.Reader) (*Config, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, err
	}

	switch cfg.Storage.Driver {
	case StorageFile, StorageSQLite, StoragePostgres:
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	if _, err := cfg.TimeLocation(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) TimeLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", c.Location, err)
	}
	return loc, nil
}

func (c *Config) EventsConfig() *events.Config {
	return &events.Config{Notifications: c.Notifications}
}
