package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/comments"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/incidents"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/series"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/watchdog"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/clock"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/presentation/api/auth"
	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("iot-sensor-monitor/api")

type Snapshotter interface {
	Snapshot() (watchdog.Snapshot, bool)
}

// Services are the application components exposed through the api.
type Services struct {
	Incidents incidents.IncidentManager
	Comments  comments.CommentService
	Series    series.Bucketer
	Dashboard Snapshotter
	Clock     clock.Clock
	Location  *time.Location
}

func RegisterHandlers(ctx context.Context, router *chi.Mux, authenticator auth.Authenticator, svc Services) *chi.Mux {
	log := logging.GetLoggerFromContext(ctx)

	if svc.Location == nil {
		svc.Location = time.UTC
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v0", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticator.Verify())

			r.Route("/incidents", func(r chi.Router) {
				r.With(authenticator.RequireAccess(auth.ReadIncidents)).Get("/", listIncidentsHandler(log, svc.Incidents, svc.Clock))
				r.With(authenticator.RequireAccess(auth.CreateIncident)).Post("/", openIncidentHandler(log, svc.Incidents, svc.Clock))

				r.Route("/{incidentID}", func(r chi.Router) {
					r.With(authenticator.RequireAccess(auth.ReadIncidents)).Get("/", getIncidentHandler(log, svc.Incidents, svc.Clock))
					r.With(authenticator.RequireAccess(auth.UpdateIncident)).Patch("/", changeStatusHandler(log, svc.Incidents, svc.Clock))
					r.With(authenticator.RequireAccess(auth.ReadComments)).Get("/comments", listCommentsHandler(log, svc.Comments))
					r.With(authenticator.RequireAccess(auth.CreateComment)).Post("/comments", addCommentHandler(log, svc.Comments))
				})
			})

			r.With(authenticator.RequireAccess(auth.ReadSeries)).Get("/series/{metric}", getSeriesHandler(log, svc.Series, svc.Location))
			r.With(authenticator.RequireAccess(auth.ReadDashboard)).Get("/dashboard", getDashboardHandler(log, svc.Dashboard, svc.Clock))
		})
	})

	return router
}

func listIncidentsHandler(log zerolog.Logger, svc incidents.IncidentManager, c clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "list-incidents")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		all, err := svc.List(ctx)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to list incidents")
			writeError(w, err)
			return
		}

		now := c.Now()
		writeJSON(w, http.StatusOK, lo.Map(all, func(i types.Incident, _ int) incidentResponse {
			return newIncidentResponse(i, now)
		}))
	}
}

func getIncidentHandler(log zerolog.Logger, svc incidents.IncidentManager, c clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-incident")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		incidentID, err := incidentIDFromRequest(r)
		if err != nil {
			requestLogger.Info().Err(err).Msg("bad incident id")
			writeError(w, err)
			return
		}

		incident, err := svc.Get(ctx, incidentID)
		if err != nil {
			requestLogger.Debug().Err(err).Int("incident_id", incidentID).Msg("unable to get incident")
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newIncidentResponse(incident, c.Now()))
	}
}

func openIncidentHandler(log zerolog.Logger, svc incidents.IncidentManager, c clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "open-incident")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		req := openIncidentRequest{}
		if err = decodeBody(r, &req); err != nil {
			requestLogger.Info().Err(err).Msg("unable to decode request body")
			writeError(w, err)
			return
		}

		if req.Temperature == nil {
			err = fmt.Errorf("%w: temperature is required", types.ErrValidation)
			writeError(w, err)
			return
		}

		incident, err := svc.Open(ctx, *req.Temperature)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to open incident")
			writeError(w, err)
			return
		}

		w.Header().Add("Location", fmt.Sprintf("/api/v0/incidents/%d", incident.ID))
		writeJSON(w, http.StatusCreated, newIncidentResponse(incident, c.Now()))
	}
}

func changeStatusHandler(log zerolog.Logger, svc incidents.IncidentManager, c clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "change-incident-status")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		incidentID, err := incidentIDFromRequest(r)
		if err != nil {
			writeError(w, err)
			return
		}

		requestLogger = requestLogger.With().Int("incident_id", incidentID).Logger()

		req := changeStatusRequest{}
		if err = decodeBody(r, &req); err != nil {
			requestLogger.Info().Err(err).Msg("unable to decode request body")
			writeError(w, err)
			return
		}

		status, err := types.ParseIncidentStatus(req.Status)
		if err != nil {
			requestLogger.Info().Err(err).Msg("bad status")
			writeError(w, err)
			return
		}

		user, _ := auth.UserFromContext(ctx)

		incident, err := svc.ChangeStatus(ctx, incidentID, status, user.Name)
		if err != nil {
			requestLogger.Info().Err(err).Msg("unable to change incident status")
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newIncidentResponse(incident, c.Now()))
	}
}

func listCommentsHandler(log zerolog.Logger, svc comments.CommentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "list-comments")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		incidentID, err := incidentIDFromRequest(r)
		if err != nil {
			writeError(w, err)
			return
		}

		result, err := svc.List(ctx, incidentID)
		if err != nil {
			requestLogger.Info().Err(err).Int("incident_id", incidentID).Msg("unable to list comments")
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func addCommentHandler(log zerolog.Logger, svc comments.CommentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "add-comment")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		incidentID, err := incidentIDFromRequest(r)
		if err != nil {
			writeError(w, err)
			return
		}

		req := addCommentRequest{}
		if err = decodeBody(r, &req); err != nil {
			requestLogger.Info().Err(err).Msg("unable to decode request body")
			writeError(w, err)
			return
		}

		user, _ := auth.UserFromContext(ctx)

		comment, err := svc.Add(ctx, incidentID, req.Content, user.Name)
		if err != nil {
			requestLogger.Info().Err(err).Int("incident_id", incidentID).Msg("unable to add comment")
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, comment)
	}
}

func getSeriesHandler(log zerolog.Logger, svc series.Bucketer, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-series")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		metric, err := types.ParseMetric(chi.URLParam(r, "metric"))
		if err != nil {
			writeError(w, err)
			return
		}

		q := r.URL.Query()

		period, err := types.ParsePeriod(lo.Ternary(q.Has("period"), q.Get("period"), string(types.PeriodToday)))
		if err != nil {
			writeError(w, err)
			return
		}

		var dateRange *types.DateRange
		if period == types.PeriodCustom && (q.Has("startDate") || q.Has("endDate")) {
			dateRange, err = parseDateRange(q.Get("startDate"), q.Get("endDate"), loc)
			if err != nil {
				writeError(w, err)
				return
			}
		}

		points, err := svc.GetSeries(ctx, metric, period, dateRange)
		if err != nil {
			requestLogger.Info().Err(err).Str("metric", string(metric)).Str("period", string(period)).Msg("unable to get series")
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newSeriesResponse(metric, period, points))
	}
}

func getDashboardHandler(log zerolog.Logger, svc Snapshotter, c clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := svc.Snapshot()
		if !ok {
			log.Debug().Msg("no dashboard snapshot available yet")
			w.Header().Add("Retry-After", "5")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		now := c.Now()

		writeJSON(w, http.StatusOK, dashboardResponse{
			Incidents: lo.Map(snapshot.Incidents, func(i types.Incident, _ int) incidentResponse {
				return newIncidentResponse(i, now)
			}),
			OpenIncidents: snapshot.OpenIncidents,
			Values:        snapshot.Values,
			UpdatedAt:     snapshot.UpdatedAt,
		})
	}
}

func parseDateRange(start, end string, loc *time.Location) (*types.DateRange, error) {
	parse := func(s string) (time.Time, error) {
		if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
			return t, nil
		}
		return time.Parse(time.RFC3339, s)
	}

	from, err := parse(start)
	if err != nil {
		return nil, fmt.Errorf("%w: bad start date %q", types.ErrInvalidRange, start)
	}

	to, err := parse(end)
	if err != nil {
		return nil, fmt.Errorf("%w: bad end date %q", types.ErrInvalidRange, end)
	}

	return &types.DateRange{Start: from, End: to}, nil
}

func incidentIDFromRequest(r *http.Request) (int, error) {
	id := chi.URLParam(r, "incidentID")

	incidentID, err := strconv.Atoi(id)
	if err != nil {
		return 0, fmt.Errorf("%w: incident id %q is not a number", types.ErrValidation, id)
	}

	return incidentID, nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}
	return nil
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrValidation), errors.Is(err, types.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, types.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		w.WriteHeader(status)
		return
	}

	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
