package watchdog

import (
	"context"
	"sync"
	"time"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/clock"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/lo"
)

const DefaultInterval = 30 * time.Second

var polls = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sensormonitor",
	Subsystem: "poller",
	Name:      "polls_total",
	Help:      "Number of dashboard polls by result.",
}, []string{"result"})

// Snapshot is the most recent successfully polled dashboard state.
type Snapshot struct {
	Incidents     []types.Incident    `json:"incidents"`
	OpenIncidents int                 `json:"openIncidents"`
	Values        types.CurrentValues `json:"values"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type IncidentLister interface {
	List(ctx context.Context) ([]types.Incident, error)
}

type ValuesProvider interface {
	CurrentValues(ctx context.Context) (types.CurrentValues, error)
}

type Watchdog interface {
	Start(ctx context.Context)
	Stop()
	Snapshot() (Snapshot, bool)
}

type watchdogImpl struct {
	incidents IncidentLister
	values    ValuesProvider
	clock     clock.Clock
	interval  time.Duration

	mu       sync.Mutex
	snapshot *Snapshot

	polls   sync.WaitGroup
	worker  sync.WaitGroup
	done    chan struct{}
	cancel  context.CancelFunc
	stopped sync.Once
}

func New(incidents IncidentLister, values ValuesProvider, c clock.Clock, interval time.Duration) Watchdog {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &watchdogImpl{
		incidents: incidents,
		values:    values,
		clock:     c,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

// Start polls immediately and then once every interval until Stop is called
// or ctx is cancelled. Polls that outlast the interval are not coalesced.
func (w *watchdogImpl) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.worker.Add(1)
	go w.backgroundWorker(ctx)
}

func (w *watchdogImpl) Stop() {
	w.stopped.Do(func() {
		close(w.done)
		if w.cancel != nil {
			w.cancel()
		}
	})

	w.worker.Wait()
	w.polls.Wait()
}

func (w *watchdogImpl) Snapshot() (Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.snapshot == nil {
		return Snapshot{}, false
	}

	return *w.snapshot, true
}

func (w *watchdogImpl) backgroundWorker(ctx context.Context) {
	defer w.worker.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.spawnPoll(ctx)

	for {
		select {
		case <-w.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.spawnPoll(ctx)
		}
	}
}

func (w *watchdogImpl) spawnPoll(ctx context.Context) {
	w.polls.Add(1)
	go func() {
		defer w.polls.Done()
		w.poll(ctx)
	}()
}

func (w *watchdogImpl) poll(ctx context.Context) {
	log := logging.GetLoggerFromContext(ctx)
	startedAt := w.clock.Now()

	incidents, err := w.incidents.List(ctx)
	if err != nil {
		polls.WithLabelValues("failure").Inc()
		log.Error().Err(err).Msg("could not list incidents, keeping previous snapshot")
		return
	}

	values, err := w.values.CurrentValues(ctx)
	if err != nil {
		polls.WithLabelValues("failure").Inc()
		log.Error().Err(err).Msg("could not fetch current sensor values, keeping previous snapshot")
		return
	}

	polls.WithLabelValues("success").Inc()

	w.mu.Lock()
	defer w.mu.Unlock()

	// a slow poll must not replace the result of one that started later
	if w.snapshot != nil && w.snapshot.UpdatedAt.After(startedAt) {
		return
	}

	w.snapshot = &Snapshot{
		Incidents:     incidents,
		OpenIncidents: lo.CountBy(incidents, func(i types.Incident) bool { return i.IsOpen() }),
		Values:        values,
		UpdatedAt:     startedAt,
	}

	log.Debug().Int("incidents", len(incidents)).Msg("dashboard snapshot updated")
}
