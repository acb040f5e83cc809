package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/application"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/comments"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/events"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/incidents"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/series"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/watchdog"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/clock"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/repositories/database"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/repositories/filestore"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/router"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/sensors"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/tracing"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/presentation/api"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/presentation/api/auth"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/zerolog"
)

const serviceName string = "iot-sensor-monitor"

type flagType int
type flagMap map[flagType]string

const (
	listenAddress flagType = iota
	servicePort
	configurationFile
	policiesFile
	jwtSecret
	rabbitMQHost
	devmode
)

func defaultFlags() flagMap {
	return flagMap{
		listenAddress:     "0.0.0.0",
		servicePort:       "8080",
		configurationFile: "/opt/diwise/config/sensormonitor.yaml",
		policiesFile:      "",
		jwtSecret:         "",
		rabbitMQHost:      "",
		devmode:           "false",
	}
}

func main() {
	serviceVersion := version()

	ctx, logger := logging.NewLogger(context.Background(), serviceName, serviceVersion, os.Getenv("LOG_LEVEL"))
	logger.Info().Msg("starting up ...")

	flags := parseExternalConfig(logger, defaultFlags())

	cleanup, err := tracing.Init(ctx, logger, serviceName, serviceVersion)
	exitIf(err, logger, "failed to init tracing")
	defer cleanup()

	cfg, err := loadConfiguration(logger, flags[configurationFile])
	exitIf(err, logger, "could not load configuration")

	policies, err := openPolicies(flags[policiesFile])
	exitIf(err, logger, "unable to open opa policy file")

	app, err := initialize(ctx, flags, cfg, policies)
	exitIf(err, logger, "failed to initialize service")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.watchdog.Start(ctx)

	server := &http.Server{
		Addr:              net.JoinHostPort(flags[listenAddress], flags[servicePort]),
		Handler:           app.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("starting to listen for connections")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("failed to start request router")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down http server")
	}

	app.close()
}

type service struct {
	router   *chi.Mux
	watchdog watchdog.Watchdog
	closers  []func()
}

func (s *service) close() {
	s.watchdog.Stop()
	for _, c := range s.closers {
		c()
	}
}

func initialize(ctx context.Context, flags flagMap, cfg *application.Config, policies io.ReadCloser) (*service, error) {
	defer policies.Close()

	log := logging.GetLoggerFromContext(ctx)
	svc := &service{}

	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}

	incidentStore, commentStore, err := newStores(log, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("could not create or connect to storage: %w", err)
	}

	publisher, err := newPublisher(log, flags, cfg, svc)
	if err != nil {
		return nil, err
	}

	c := clock.System()
	provider := newReadingProvider(ctx, flags, cfg.Sensors, c)

	im := incidents.New(incidentStore, publisher, c)
	cs := comments.New(commentStore, im, publisher, c)
	bucketer := series.New(provider, c, loc)
	svc.watchdog = watchdog.New(im, provider, c, cfg.PollInterval)

	if flags[jwtSecret] == "" {
		return nil, errors.New("no JWT_SECRET configured")
	}

	authenticator, err := auth.NewAuthenticator(ctx, jwtauth.New("HS256", []byte(flags[jwtSecret]), nil), policies)
	if err != nil {
		return nil, fmt.Errorf("failed to create api authenticator: %w", err)
	}

	svc.router = api.RegisterHandlers(ctx, router.New(serviceName), authenticator, api.Services{
		Incidents: im,
		Comments:  cs,
		Series:    bucketer,
		Dashboard: svc.watchdog,
		Clock:     c,
		Location:  loc,
	})

	return svc, nil
}

type store interface {
	incidents.IncidentStore
	comments.CommentStore
}

func newStores(log zerolog.Logger, cfg application.StorageConfig) (incidents.IncidentStore, comments.CommentStore, error) {
	var s store
	var err error

	switch cfg.Driver {
	case application.StorageSQLite:
		s, err = database.New(database.NewSQLiteConnector(log, cfg.Path))
	case application.StoragePostgres:
		s, err = database.New(database.NewPostgreSQLConnector(log, database.LoadConfigFromEnv(log)))
	default:
		s, err = filestore.New(cfg.Path)
	}

	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("driver", cfg.Driver).Msg("storage ready")

	return s, s, nil
}

func newPublisher(log zerolog.Logger, flags flagMap, cfg *application.Config, svc *service) (events.Publisher, error) {
	sender, err := events.NewSender(cfg.EventsConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create event sender: %w", err)
	}

	if flags[rabbitMQHost] == "" {
		log.Info().Msg("no message broker configured, notifications go to http subscribers only")
		return sender, nil
	}

	messenger, err := messaging.Initialize(messaging.LoadConfiguration(serviceName, log))
	if err != nil {
		return nil, fmt.Errorf("failed to init messenger: %w", err)
	}

	svc.closers = append(svc.closers, messenger.Close)

	return events.Fanout(messenger, sender), nil
}

func newReadingProvider(ctx context.Context, flags flagMap, cfg sensors.Config, c clock.Clock) sensors.Provider {
	log := logging.GetLoggerFromContext(ctx)

	if cfg.Simulate || flags[devmode] == "true" {
		log.Warn().Msg("using simulated sensor readings")
		return sensors.NewSimulator(c)
	}

	return sensors.NewClient(ctx, cfg, c)
}

func loadConfiguration(log zerolog.Logger, path string) (*application.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("path", path).Msg("configuration file not found, using defaults")
			return application.DefaultConfig(), nil
		}
		return nil, err
	}
	defer f.Close()

	return application.LoadConfiguration(f)
}

func openPolicies(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(strings.NewReader(auth.DefaultPolicy)), nil
	}
	return os.Open(path)
}

func parseExternalConfig(log zerolog.Logger, flags flagMap) flagMap {
	// Allow environment variables to override certain defaults
	envOrDef := env.GetVariableOrDefault

	flags[listenAddress] = envOrDef(log, "LISTEN_ADDRESS", flags[listenAddress])
	flags[servicePort] = envOrDef(log, "SERVICE_PORT", flags[servicePort])
	flags[configurationFile] = envOrDef(log, "CONFIG_FILE", flags[configurationFile])
	flags[policiesFile] = envOrDef(log, "POLICIES_FILE", flags[policiesFile])
	flags[jwtSecret] = envOrDef(log, "JWT_SECRET", flags[jwtSecret])
	flags[rabbitMQHost] = envOrDef(log, "RABBITMQ_HOST", flags[rabbitMQHost])
	flags[devmode] = envOrDef(log, "DEV_MODE", flags[devmode])

	apply := func(f flagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("config", "sensor monitor configuration file", apply(configurationFile))
	flag.Func("policies", "an authorization policy file", apply(policiesFile))
	flag.Func("port", "the port to listen on", apply(servicePort))
	flag.Func("devmode", "use simulated sensor readings", apply(devmode))
	flag.Parse()

	return flags
}

func version() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	buildSettings := buildInfo.Settings
	infoMap := map[string]string{}
	for _, s := range buildSettings {
		infoMap[s.Key] = s.Value
	}

	sha := infoMap["vcs.revision"]
	if infoMap["vcs.modified"] == "true" {
		sha += "+"
	}

	return sha
}

func exitIf(err error, logger zerolog.Logger, msg string) {
	if err != nil {
		logger.Fatal().Err(err).Msg(msg)
	}
}
