package comments

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/application/events"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/clock"
	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("iot-sensor-monitor/comments")

//go:generate moq -rm -out commentservice_mock.go . CommentService
type CommentService interface {
	List(ctx context.Context, incidentID int) ([]types.Comment, error)
	Add(ctx context.Context, incidentID int, content, author string) (types.Comment, error)
}

// CommentStore appends comments and assigns their ids.
//
//go:generate moq -rm -out commentstore_mock.go . CommentStore
type CommentStore interface {
	ListByIncident(ctx context.Context, incidentID int) ([]types.Comment, error)
	Append(ctx context.Context, comment types.Comment) (types.Comment, error)
}

type IncidentFinder interface {
	Get(ctx context.Context, incidentID int) (types.Incident, error)
}

type service struct {
	store     CommentStore
	incidents IncidentFinder
	publisher events.Publisher
	clock     clock.Clock
}

func New(s CommentStore, i IncidentFinder, p events.Publisher, c clock.Clock) CommentService {
	return &service{
		store:     s,
		incidents: i,
		publisher: p,
		clock:     c,
	}
}

func (s *service) List(ctx context.Context, incidentID int) ([]types.Comment, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-comments")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if _, err = s.incidents.Get(ctx, incidentID); err != nil {
		return nil, err
	}

	comments, err := s.store.ListByIncident(ctx, incidentID)
	if err != nil {
		err = fmt.Errorf("could not load comments for incident %d: %w", incidentID, err)
		return nil, err
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].ID < comments[j].ID
	})

	return comments, nil
}

func (s *service) Add(ctx context.Context, incidentID int, content, author string) (types.Comment, error) {
	var err error
	ctx, span := tracer.Start(ctx, "add-comment")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if strings.TrimSpace(content) == "" {
		err = fmt.Errorf("%w: comment content is empty", types.ErrValidation)
		return types.Comment{}, err
	}

	if strings.TrimSpace(author) == "" {
		err = fmt.Errorf("%w: no acting user", types.ErrValidation)
		return types.Comment{}, err
	}

	if _, err = s.incidents.Get(ctx, incidentID); err != nil {
		return types.Comment{}, err
	}

	comment, err := s.store.Append(ctx, types.Comment{
		AccidentID: incidentID,
		Content:    content,
		UserName:   author,
		Timestamp:  s.clock.Now(),
	})
	if err != nil {
		err = fmt.Errorf("could not store comment: %w", err)
		return types.Comment{}, err
	}

	logger := logging.GetLoggerFromContext(ctx)
	logger.Debug().Int("incident_id", incidentID).Int("comment_id", comment.ID).Msg("comment added")

	if s.publisher != nil {
		msg := &types.CommentAdded{Comment: comment, Timestamp: comment.Timestamp}
		if perr := s.publisher.PublishOnTopic(ctx, msg); perr != nil {
			logger.Error().Err(perr).Msgf("could not publish %s", msg.TopicName())
		}
	}

	return comment, nil
}
