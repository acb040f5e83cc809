package api

import (
	"time"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/incidents"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/series"
	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/samber/lo"
)

type incidentResponse struct {
	types.Incident
	Duration string `json:"duration"`
}

func newIncidentResponse(i types.Incident, now time.Time) incidentResponse {
	return incidentResponse{
		Incident: i,
		Duration: incidents.Duration(i.ResolutionStartDate, i.ResolutionDate, now),
	}
}

type seriesPointResponse struct {
	types.SeriesPoint
	Label string `json:"label"`
}

type seriesResponse struct {
	Metric types.Metric          `json:"metric"`
	Period types.Period          `json:"period"`
	Points []seriesPointResponse `json:"points"`
}

func newSeriesResponse(metric types.Metric, period types.Period, points []types.SeriesPoint) seriesResponse {
	return seriesResponse{
		Metric: metric,
		Period: period,
		Points: lo.Map(points, func(p types.SeriesPoint, _ int) seriesPointResponse {
			return seriesPointResponse{SeriesPoint: p, Label: series.FormatLabel(p.Timestamp, period)}
		}),
	}
}

type dashboardResponse struct {
	Incidents     []incidentResponse  `json:"incidents"`
	OpenIncidents int                 `json:"openIncidents"`
	Values        types.CurrentValues `json:"values"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type openIncidentRequest struct {
	Temperature *float64 `json:"temperature"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

type addCommentRequest struct {
	Content string `json:"content"`
}
