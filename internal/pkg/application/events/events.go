package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/logging"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"
	yaml "gopkg.in/yaml.v2"
)

type TopicMessage = messaging.TopicMessage

// Publisher is satisfied by messaging.MsgContext as well as by the senders in this package.
//
//go:generate moq -rm -out publisher_mock.go . Publisher
type Publisher interface {
	PublishOnTopic(ctx context.Context, message TopicMessage) error
}

const source string = "github.com/diwise/iot-sensor-monitor"

type eventSender struct {
	subscribers map[string][]SubscriberConfig
	client      cloudevents.Client
	now         func() time.Time
}

// NewSender returns a Publisher that forwards topic messages as CloudEvents to the
// subscribers registered for the topic name.
func NewSender(cfg *Config) (Publisher, error) {
	c, err := cloudevents.NewClientHTTP()
	if err != nil {
		return nil, err
	}

	return newSender(cfg, c), nil
}

func newSender(cfg *Config, c cloudevents.Client) *eventSender {
	e := &eventSender{
		subscribers: make(map[string][]SubscriberConfig),
		client:      c,
		now:         func() time.Time { return time.Now().UTC() },
	}

	if cfg != nil {
		for _, n := range cfg.Notifications {
			e.subscribers[n.Type] = append(e.subscribers[n.Type], n.Subscribers...)
		}
	}

	return e
}

func (e *eventSender) PublishOnTopic(ctx context.Context, message TopicMessage) error {
	subscribers, ok := e.subscribers[message.TopicName()]
	if !ok || len(subscribers) == 0 {
		return nil
	}

	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	event := cloudevents.NewEvent()
	event.SetID(uuid.NewString())
	event.SetTime(e.now())
	event.SetSource(source)
	event.SetType(message.TopicName())

	err = event.SetData(cloudevents.ApplicationJSON, json.RawMessage(data))
	if err != nil {
		return err
	}

	logger := logging.GetLoggerFromContext(ctx)

	var errs []error

	for _, s := range subscribers {
		ctxWithTarget := cloudevents.ContextWithTarget(ctx, s.Endpoint)

		result := e.client.Send(ctxWithTarget, event)
		if cloudevents.IsUndelivered(result) || errors.Is(result, unix.ECONNREFUSED) {
			logger.Error().Err(result).Msgf("failed to send event to %s", s.Endpoint)
			errs = append(errs, fmt.Errorf("%s: %w", s.Endpoint, result))
		}
	}

	return errors.Join(errs...)
}

type fanout []Publisher

// Fanout publishes every message to all publishers and joins their errors.
func Fanout(publishers ...Publisher) Publisher {
	return fanout(publishers)
}

func (f fanout) PublishOnTopic(ctx context.Context, message TopicMessage) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.PublishOnTopic(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type SubscriberConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type Notification struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Type        string             `yaml:"type"`
	Subscribers []SubscriberConfig `yaml:"subscribers"`
}

type Config struct {
	Notifications []Notification `yaml:"notifications"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := Config{}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
