package types

import (
	"encoding/json"
	"time"
)

type IncidentCreated struct {
	Incident  Incident  `json:"incident"`
	Timestamp time.Time `json:"timestamp"`
}

func (i *IncidentCreated) ContentType() string {
	return "application/json"
}
func (i *IncidentCreated) TopicName() string {
	return "incidents.incidentCreated"
}
func (i *IncidentCreated) Body() []byte {
	b, _ := json.Marshal(i)
	return b
}

type IncidentStatusChanged struct {
	Incident       Incident       `json:"incident"`
	PreviousStatus IncidentStatus `json:"previousStatus"`
	ChangedBy      string         `json:"changedBy"`
	Timestamp      time.Time      `json:"timestamp"`
}

func (i *IncidentStatusChanged) ContentType() string {
	return "application/json"
}
func (i *IncidentStatusChanged) TopicName() string {
	return "incidents.statusChanged"
}
func (i *IncidentStatusChanged) Body() []byte {
	b, _ := json.Marshal(i)
	return b
}

type CommentAdded struct {
	Comment   Comment   `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *CommentAdded) ContentType() string {
	return "application/json"
}
func (c *CommentAdded) TopicName() string {
	return "incidents.commentAdded"
}
func (c *CommentAdded) Body() []byte {
	b, _ := json.Marshal(c)
	return b
}
