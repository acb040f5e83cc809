package database

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestThatIncidentsRoundTrip(t *testing.T) {
	is, ctx, s := testSetup(t)

	started := time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC)
	resolved := time.Date(2024, 1, 1, 5, 30, 0, 0, time.UTC)

	incidents := []types.Incident{
		{ID: 1, Status: types.StatusResolved, AccidentDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ResolutionStartDate: &started, ResolutionDate: &resolved, ResolvedBy: "bob", Temperature: 35},
		{ID: 2, Status: types.StatusUp, AccidentDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Temperature: 31.25},
	}

	is.NoErr(s.Save(ctx, incidents))

	loaded, err := s.List(ctx)
	is.NoErr(err)
	is.Equal(len(loaded), 2)

	for i := range incidents {
		assertSameIncident(is, loaded[i], incidents[i])
	}
}

func TestThatSaveRemovesIncidentsNotInCollection(t *testing.T) {
	is, ctx, s := testSetup(t)

	is.NoErr(s.Save(ctx, []types.Incident{{ID: 1, Status: types.StatusUp}, {ID: 2, Status: types.StatusUp}}))
	is.NoErr(s.Save(ctx, []types.Incident{{ID: 2, Status: types.StatusBeingResolved}}))

	loaded, err := s.List(ctx)
	is.NoErr(err)
	is.Equal(len(loaded), 1)
	is.Equal(loaded[0].Status, types.StatusBeingResolved)

	is.NoErr(s.Save(ctx, []types.Incident{}))

	loaded, err = s.List(ctx)
	is.NoErr(err)
	is.Equal(len(loaded), 0)
}

func TestThatCommentsGetMonotonicIDs(t *testing.T) {
	is, ctx, s := testSetup(t)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := s.Append(ctx, types.Comment{AccidentID: 1, Content: "a", UserName: "alice", Timestamp: ts})
	is.NoErr(err)
	second, err := s.Append(ctx, types.Comment{AccidentID: 2, Content: "b", UserName: "bob", Timestamp: ts})
	is.NoErr(err)
	third, err := s.Append(ctx, types.Comment{AccidentID: 1, Content: "c", UserName: "alice", Timestamp: ts})
	is.NoErr(err)

	is.True(first.ID < second.ID)
	is.True(second.ID < third.ID)

	comments, err := s.ListByIncident(ctx, 1)
	is.NoErr(err)
	is.Equal(len(comments), 2)
	is.Equal(comments[1].Content, "c")
	is.True(comments[0].Timestamp.Equal(ts))
}

func TestThatIncidentsRoundTripInPostgres(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	cfg := LoadConfigFromEnv(zerolog.Nop())
	if cfg.Host == "" {
		t.SkipNow()
	}

	s, err := New(NewPostgreSQLConnector(zerolog.Nop(), cfg))
	if err != nil {
		t.SkipNow()
	}

	started := time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC)
	incidents := []types.Incident{
		{ID: 1, Status: types.StatusBeingResolved, AccidentDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ResolutionStartDate: &started, ResolvedBy: "alice", Temperature: 33.5},
	}

	is.NoErr(s.Save(ctx, incidents))

	loaded, err := s.List(ctx)
	is.NoErr(err)
	is.Equal(len(loaded), 1)
	assertSameIncident(is, loaded[0], incidents[0])
}

func assertSameIncident(is *is.I, actual, expected types.Incident) {
	is.Equal(actual.ID, expected.ID)
	is.Equal(actual.Status, expected.Status)
	is.True(actual.AccidentDate.Equal(expected.AccidentDate))
	is.Equal(actual.ResolvedBy, expected.ResolvedBy)
	is.Equal(actual.Temperature, expected.Temperature)

	is.Equal(actual.ResolutionStartDate == nil, expected.ResolutionStartDate == nil)
	if expected.ResolutionStartDate != nil {
		is.True(actual.ResolutionStartDate.Equal(*expected.ResolutionStartDate))
	}

	is.Equal(actual.ResolutionDate == nil, expected.ResolutionDate == nil)
	if expected.ResolutionDate != nil {
		is.True(actual.ResolutionDate.Equal(*expected.ResolutionDate))
	}
}

func testSetup(t *testing.T) (*is.I, context.Context, *Store) {
	is := is.New(t)
	ctx := context.Background()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	conn := NewSQLiteConnector(zerolog.Nop(), fmt.Sprintf("file:%s?mode=memory&cache=shared", name))

	s, err := New(conn)
	is.NoErr(err)

	return is, ctx, s
}
