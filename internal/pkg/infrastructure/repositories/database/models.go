package database

import (
	"time"

	"github.com/diwise/iot-sensor-monitor/pkg/types"
)

type Incident struct {
	ID                  int `gorm:"primaryKey;autoIncrement:false"`
	Status              string
	AccidentDate        time.Time
	ResolutionStartDate *time.Time
	ResolutionDate      *time.Time
	ResolvedBy          string
	Temperature         float64
}

type Comment struct {
	ID         int `gorm:"primaryKey;autoIncrement"`
	AccidentID int `gorm:"index"`
	Content    string
	UserName   string
	Timestamp  time.Time
}

func fromIncident(i types.Incident) Incident {
	return Incident{
		ID:                  i.ID,
		Status:              string(i.Status),
		AccidentDate:        i.AccidentDate.UTC(),
		ResolutionStartDate: utc(i.ResolutionStartDate),
		ResolutionDate:      utc(i.ResolutionDate),
		ResolvedBy:          i.ResolvedBy,
		Temperature:         i.Temperature,
	}
}

func (i Incident) toIncident() types.Incident {
	return types.Incident{
		ID:                  i.ID,
		Status:              types.IncidentStatus(i.Status),
		AccidentDate:        i.AccidentDate.UTC(),
		ResolutionStartDate: utc(i.ResolutionStartDate),
		ResolutionDate:      utc(i.ResolutionDate),
		ResolvedBy:          i.ResolvedBy,
		Temperature:         i.Temperature,
	}
}

func (c Comment) toComment() types.Comment {
	return types.Comment{
		ID:         c.ID,
		AccidentID: c.AccidentID,
		Content:    c.Content,
		UserName:   c.UserName,
		Timestamp:  c.Timestamp.UTC(),
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
