package watchdog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/clock"
	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/matryer/is"
)

type incidentLister func(ctx context.Context) ([]types.Incident, error)

func (f incidentLister) List(ctx context.Context) ([]types.Incident, error) { return f(ctx) }

type valuesProvider func(ctx context.Context) (types.CurrentValues, error)

func (f valuesProvider) CurrentValues(ctx context.Context) (types.CurrentValues, error) {
	return f(ctx)
}

func TestThatSnapshotIsAvailableAfterFirstPoll(t *testing.T) {
	is := is.New(t)

	var calls int32
	incidents := incidentLister(func(ctx context.Context) ([]types.Incident, error) {
		atomic.AddInt32(&calls, 1)
		return []types.Incident{
			{ID: 1, Status: types.StatusResolved},
			{ID: 2, Status: types.StatusUp},
		}, nil
	})
	values := valuesProvider(func(ctx context.Context) (types.CurrentValues, error) {
		return types.CurrentValues{Current: types.SensorValues{Temperature: 21}}, nil
	})

	w := New(incidents, values, clock.System(), time.Hour)
	w.Start(context.Background())

	var snapshot Snapshot
	ok := false
	for i := 0; i < 100 && !ok; i++ {
		time.Sleep(10 * time.Millisecond)
		snapshot, ok = w.Snapshot()
	}

	w.Stop()

	is.True(ok)
	is.Equal(len(snapshot.Incidents), 2)
	is.Equal(snapshot.OpenIncidents, 1)
	is.Equal(snapshot.Values.Current.Temperature, 21.0)
	is.Equal(atomic.LoadInt32(&calls), int32(1))
}

func TestThatFailedPollKeepsPreviousSnapshot(t *testing.T) {
	is := is.New(t)

	fail := false
	incidents := incidentLister(func(ctx context.Context) ([]types.Incident, error) {
		if fail {
			return nil, types.ErrTransport
		}
		return []types.Incident{{ID: 1, Status: types.StatusUp}}, nil
	})
	values := valuesProvider(func(ctx context.Context) (types.CurrentValues, error) {
		return types.CurrentValues{}, nil
	})

	c := &clock.Fixed{T: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	w := New(incidents, values, c, time.Hour).(*watchdogImpl)

	w.poll(context.Background())
	first, ok := w.Snapshot()
	is.True(ok)

	fail = true
	c.Advance(30 * time.Second)
	w.poll(context.Background())

	second, ok := w.Snapshot()
	is.True(ok)
	is.Equal(first, second)
}

func TestThatSensorFailureLeavesNoSnapshot(t *testing.T) {
	is := is.New(t)

	incidents := incidentLister(func(ctx context.Context) ([]types.Incident, error) {
		return []types.Incident{}, nil
	})
	values := valuesProvider(func(ctx context.Context) (types.CurrentValues, error) {
		return types.CurrentValues{}, errors.New("sensor backend down")
	})

	w := New(incidents, values, clock.System(), time.Hour).(*watchdogImpl)
	w.poll(context.Background())

	_, ok := w.Snapshot()
	is.True(!ok)
}

func TestThatStopWaitsForInflightPolls(t *testing.T) {
	is := is.New(t)

	var finished int32
	incidents := incidentLister(func(ctx context.Context) ([]types.Incident, error) {
		<-ctx.Done()
		atomic.StoreInt32(&finished, 1)
		return nil, ctx.Err()
	})
	values := valuesProvider(func(ctx context.Context) (types.CurrentValues, error) {
		return types.CurrentValues{}, nil
	})

	w := New(incidents, values, clock.System(), time.Hour)
	w.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	w.Stop()

	is.Equal(atomic.LoadInt32(&finished), int32(1))
}
