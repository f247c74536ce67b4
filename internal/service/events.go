package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/fieldscribe/scribe-api/internal/models"
)

// SubmissionEventPublisher notifies downstream consumers about stored
// submissions. Delivery is best effort and never blocks the request path.
type SubmissionEventPublisher interface {
	PublishCreated(ctx context.Context, submission models.Submission) error
}

// SubmissionEvent is the wire payload published on submission creation.
type SubmissionEvent struct {
	SubmissionID  uint      `json:"submission_id"`
	Technician    string    `json:"technician"`
	Manufacturer  string    `json:"manufacturer"`
	EquipmentType string    `json:"equipment_type"`
	Model         string    `json:"model"`
	NumQuestions  int       `json:"num_questions"`
	PointsAwarded int       `json:"points_awarded"`
	CreatedAt     time.Time `json:"created_at"`
}

type natsEventPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSEventPublisher builds a publisher over the given NATS connection.
func NewNATSEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) SubmissionEventPublisher {
	if subject == "" {
		subject = "scribe.submissions.created"
	}
	return &natsEventPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsEventPublisher) PublishCreated(_ context.Context, submission models.Submission) error {
	event := SubmissionEvent{
		SubmissionID:  submission.ID,
		Technician:    submission.Technician.Name,
		Manufacturer:  submission.Manufacturer,
		EquipmentType: submission.EquipmentType,
		Model:         submission.Model,
		NumQuestions:  submission.NumQuestions,
		PointsAwarded: submission.PointsAwarded,
		CreatedAt:     submission.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return err
	}

	p.logger.Debug().Uint("submission_id", submission.ID).Str("subject", p.subject).Msg("submission event published")

	return nil
}
