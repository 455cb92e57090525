package mongo

import (
	"context"
	"time"

	"github.com/robertarktes/movie-ticket-booking/internal/events"
	"github.com/robertarktes/movie-ticket-booking/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditLog struct {
	ID         string    `bson:"_id"`
	Action     string    `bson:"action"`
	TicketID   int       `bson:"ticket_id"`
	OccurredAt time.Time `bson:"occurred_at"`
	RecordedAt time.Time `bson:"recorded_at"`
	Data       bson.M    `bson:"data"`
}

// Record stores the event keyed by its id, so a redelivered message is
// written once.
func (a *AuditLogger) Record(ctx context.Context, event events.TicketEvent) error {
	doc := AuditLog{
		ID:         event.ID.String(),
		Action:     string(event.Type),
		TicketID:   event.Ticket.ID,
		OccurredAt: event.OccurredAt,
		RecordedAt: time.Now().UTC(),
		Data: bson.M{
			"name":    event.Ticket.Name,
			"show_id": event.Ticket.ShowID,
			"movie":   event.Ticket.Movie,
			"time":    event.Ticket.Time,
		},
	}
	_, err := a.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		a.logger.WithField("event_id", doc.ID).Debug("audit log already recorded")
		return nil
	}
	if err != nil {
		a.logger.Error("failed to insert audit log", err)
		return err
	}
	return nil
}
