package incidents

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/events"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/clock"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
)

var tracer = otel.Tracer("iot-sensor-monitor/incidents")

//go:generate moq -rm -out incidentmanager_mock.go . IncidentManager
type IncidentManager interface {
	List(ctx context.Context) ([]types.Incident, error)
	Get(ctx context.Context, incidentID int) (types.Incident, error)
	Open(ctx context.Context, temperature float64) (types.Incident, error)
	ChangeStatus(ctx context.Context, incidentID int, status types.IncidentStatus, actingUser string) (types.Incident, error)
}

// IncidentStore persists the whole incident collection as one unit.
//
//go:generate moq -rm -out incidentstore_mock.go . IncidentStore
type IncidentStore interface {
	List(ctx context.Context) ([]types.Incident, error)
	Save(ctx context.Context, incidents []types.Incident) error
}

type manager struct {
	mu        sync.Mutex
	store     IncidentStore
	publisher events.Publisher
	clock     clock.Clock
}

func New(s IncidentStore, p events.Publisher, c clock.Clock) IncidentManager {
	return &manager{
		store:     s,
		publisher: p,
		clock:     c,
	}
}

func (m *manager) List(ctx context.Context) ([]types.Incident, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-incidents")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	incidents, err := m.load(ctx)
	if err != nil {
		return nil, err
	}

	return incidents, nil
}

func (m *manager) Get(ctx context.Context, incidentID int) (types.Incident, error) {
	var err error
	ctx, span := tracer.Start(ctx, "get-incident")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	incidents, err := m.load(ctx)
	if err != nil {
		return types.Incident{}, err
	}

	incident, ok := lo.Find(incidents, func(i types.Incident) bool { return i.ID == incidentID })
	if !ok {
		err = fmt.Errorf("incident %d: %w", incidentID, types.ErrNotFound)
		return types.Incident{}, err
	}

	return incident, nil
}

func (m *manager) Open(ctx context.Context, temperature float64) (types.Incident, error) {
	var err error
	ctx, span := tracer.Start(ctx, "open-incident")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.load(ctx)
	if err != nil {
		return types.Incident{}, err
	}

	nextID := 1
	if len(current) > 0 {
		nextID = current[len(current)-1].ID + 1
	}

	incident := types.Incident{
		ID:           nextID,
		Status:       types.StatusUp,
		AccidentDate: m.clock.Now(),
		Temperature:  temperature,
	}

	next := make([]types.Incident, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, incident)

	err = m.store.Save(ctx, next)
	if err != nil {
		return types.Incident{}, fmt.Errorf("could not save incidents: %w", err)
	}

	incidentsOpened.Inc()

	m.publish(ctx, &types.IncidentCreated{
		Incident:  incident,
		Timestamp: incident.AccidentDate,
	})

	return incident, nil
}

func (m *manager) ChangeStatus(ctx context.Context, incidentID int, status types.IncidentStatus, actingUser string) (types.Incident, error) {
	var err error
	ctx, span := tracer.Start(ctx, "change-incident-status")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if strings.TrimSpace(actingUser) == "" {
		err = fmt.Errorf("%w: no acting user", types.ErrValidation)
		return types.Incident{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.load(ctx)
	if err != nil {
		return types.Incident{}, err
	}

	_, idx, ok := lo.FindIndexOf(current, func(i types.Incident) bool { return i.ID == incidentID })
	if !ok {
		err = fmt.Errorf("incident %d: %w", incidentID, types.ErrNotFound)
		return types.Incident{}, err
	}

	now := m.clock.Now()

	updated, err := transition(current[idx], status, actingUser, now)
	if err != nil {
		return types.Incident{}, err
	}

	next := make([]types.Incident, len(current))
	copy(next, current)
	next[idx] = updated

	err = m.store.Save(ctx, next)
	if err != nil {
		err = fmt.Errorf("could not save incidents: %w", err)
		return types.Incident{}, err
	}

	previous := current[idx].Status
	transitions.WithLabelValues(string(previous), string(updated.Status)).Inc()

	logger := logging.GetLoggerFromContext(ctx)
	logger.Info().
		Int("incident_id", incidentID).
		Str("from", string(previous)).
		Str("to", string(updated.Status)).
		Str("acting_user", actingUser).
		Msg("incident status changed")

	m.publish(ctx, &types.IncidentStatusChanged{
		Incident:       updated,
		PreviousStatus: previous,
		ChangedBy:      actingUser,
		Timestamp:      now,
	})

	return updated, nil
}

// transition applies one lifecycle step. Only up -> being resolved and
// being resolved -> resolved are valid.
func transition(incident types.Incident, status types.IncidentStatus, actingUser string, now time.Time) (types.Incident, error) {
	switch {
	case incident.Status == types.StatusUp && status == types.StatusBeingResolved:
		incident.ResolutionStartDate = &now
	case incident.Status == types.StatusBeingResolved && status == types.StatusResolved:
		incident.ResolutionDate = &now
	default:
		return types.Incident{}, fmt.Errorf("%w: %q to %q for incident %d", types.ErrInvalidTransition, incident.Status, status, incident.ID)
	}

	incident.Status = status
	incident.ResolvedBy = actingUser

	return incident, nil
}

func (m *manager) load(ctx context.Context) ([]types.Incident, error) {
	incidents, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load incidents: %w", err)
	}

	sort.SliceStable(incidents, func(i, j int) bool {
		return incidents[i].ID < incidents[j].ID
	})

	return incidents, nil
}

func (m *manager) publish(ctx context.Context, msg events.TopicMessage) {
	if m.publisher == nil {
		return
	}

	err := m.publisher.PublishOnTopic(ctx, msg)
	if err != nil {
		logger := logging.GetLoggerFromContext(ctx)
		logger.Error().Err(err).Msgf("could not publish %s", msg.TopicName())
	}
}
