package sensors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/clock"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var tracer = otel.Tracer("iot-sensor-monitor/sensors")

type Client struct {
	url        string
	httpClient *http.Client
	clock      clock.Clock
}

type currentValue struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

type dailyMax struct {
	MaxTemp     float64 `json:"max_temp"`
	MaxHumidity float64 `json:"max_humidity"`
}

// NewClient returns a client for the remote sensor backend. A bearer token is
// attached to every request when either a static token or client credentials
// are configured.
func NewClient(ctx context.Context, cfg Config, c clock.Clock) *Client {
	var transport http.RoundTripper = otelhttp.NewTransport(http.DefaultTransport)

	switch {
	case cfg.ClientID != "" && cfg.TokenURL != "":
		oauthConfig := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}

		tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: transport})
		transport = &oauth2.Transport{Source: oauthConfig.TokenSource(tokenCtx), Base: transport}
	case cfg.Token != "":
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
			Base:   transport,
		}
	}

	return &Client{
		url:        strings.TrimSuffix(cfg.URL, "/"),
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		clock:      c,
	}
}

func (c *Client) CurrentReading(ctx context.Context, metric types.Metric) (types.Reading, error) {
	var err error
	ctx, span := tracer.Start(ctx, "current-reading")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	cv := currentValue{}
	if err = c.get(ctx, "/current-value/", nil, &cv); err != nil {
		return types.Reading{}, err
	}

	r := types.Reading{Timestamp: c.clock.Now()}

	switch metric {
	case types.Temperature:
		r.Value = cv.Temperature
	case types.Humidity:
		r.Value = cv.Humidity
	default:
		err = fmt.Errorf("%w: unknown metric %q", types.ErrValidation, metric)
		return types.Reading{}, err
	}

	return r, nil
}

func (c *Client) HistoricalReadings(ctx context.Context, metric types.Metric, start, end time.Time) ([]types.Reading, error) {
	var err error
	ctx, span := tracer.Start(ctx, "historical-readings")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	params := url.Values{}
	params.Set("metric", string(metric))
	params.Set("start", start.UTC().Format(time.RFC3339))
	params.Set("end", end.UTC().Format(time.RFC3339))

	readings := []types.Reading{}
	if err = c.get(ctx, "/readings/", params, &readings); err != nil {
		return nil, err
	}

	return readings, nil
}

func (c *Client) CurrentValues(ctx context.Context) (types.CurrentValues, error) {
	var err error
	ctx, span := tracer.Start(ctx, "current-values")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	cv := currentValue{}
	if err = c.get(ctx, "/current-value/", nil, &cv); err != nil {
		return types.CurrentValues{}, err
	}

	dm := dailyMax{}
	if err = c.get(ctx, "/daily-max/", nil, &dm); err != nil {
		return types.CurrentValues{}, err
	}

	return types.CurrentValues{
		Current:  types.SensorValues{Temperature: cv.Temperature, Humidity: cv.Humidity},
		MaxToday: types.SensorValues{Temperature: dm.MaxTemp, Humidity: dm.MaxHumidity},
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	log := logging.GetLoggerFromContext(ctx)

	u := c.url + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msgf("request to %s failed", path)
		return fmt.Errorf("%w: %w", types.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Error().Msgf("request to %s failed with status code %d", path, resp.StatusCode)
		return fmt.Errorf("%w: %s returned status code %d", types.ErrTransport, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", types.ErrTransport, err)
	}

	if err = json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: failed to unmarshal response from %s: %w", types.ErrTransport, path, err)
	}

	return nil
}
