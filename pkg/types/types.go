package types

import (
	"fmt"
	"strings"
	"time"
)

type IncidentStatus string

const (
	StatusUp            IncidentStatus = "up"
	StatusBeingResolved IncidentStatus = "being resolved"
	StatusResolved      IncidentStatus = "resolved"
)

// ParseIncidentStatus maps user input onto one of the three lifecycle states.
// Both "being resolved" and "being_resolved" are accepted.
func ParseIncidentStatus(s string) (IncidentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(StatusUp):
		return StatusUp, nil
	case string(StatusBeingResolved), "being_resolved":
		return StatusBeingResolved, nil
	case string(StatusResolved):
		return StatusResolved, nil
	}
	return "", fmt.Errorf("%w: unknown incident status %q", ErrValidation, s)
}

type Incident struct {
	ID                  int            `json:"id"`
	Status              IncidentStatus `json:"status"`
	AccidentDate        time.Time      `json:"accidentDate"`
	ResolutionStartDate *time.Time     `json:"resolutionStartDate,omitempty"`
	ResolutionDate      *time.Time     `json:"resolutionDate,omitempty"`
	ResolvedBy          string         `json:"resolvedBy,omitempty"`
	Temperature         float64        `json:"temperature"`
}

// IsOpen reports whether the incident still needs operator attention.
func (i Incident) IsOpen() bool {
	return i.Status != StatusResolved
}

type Comment struct {
	ID         int       `json:"id"`
	AccidentID int       `json:"accidentId"`
	Content    string    `json:"content"`
	UserName   string    `json:"userName"`
	Timestamp  time.Time `json:"timestamp"`
}

type Metric string

const (
	Temperature Metric = "temperature"
	Humidity    Metric = "humidity"
)

func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case Temperature, Humidity:
		return Metric(s), nil
	}
	return "", fmt.Errorf("%w: unknown metric %q", ErrValidation, s)
}

type Period string

const (
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"
)

func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodCustom:
		return Period(s), nil
	}
	return "", fmt.Errorf("%w: unknown period %q", ErrValidation, s)
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Min       *float64  `json:"min,omitempty"`
	Max       *float64  `json:"max,omitempty"`
	Samples   int       `json:"samples"`
}

type SensorValues struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

type CurrentValues struct {
	Current  SensorValues `json:"current"`
	MaxToday SensorValues `json:"maxToday"`
}
