// Package audit turns ticket events from the broker into audit records.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/movie-ticket-booking/internal/events"
	"github.com/robertarktes/movie-ticket-booking/internal/observability"
)

var ErrDeliveriesClosed = errors.New("delivery channel closed")

type Recorder interface {
	Record(ctx context.Context, event events.TicketEvent) error
}

type Worker struct {
	recorder   Recorder
	logger     observability.Logger
	maxRetries int
	backoff    func(attempt int) time.Duration
}

func NewWorker(recorder Recorder, logger observability.Logger) *Worker {
	return &Worker{
		recorder:   recorder,
		logger:     logger,
		maxRetries: 3,
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<attempt) * time.Second
		},
	}
}

// Run handles deliveries until ctx is done or the channel closes.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	w.logger.Info("audit worker started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	log := w.logger.WithField("message_id", d.MessageId)

	var event events.TicketEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		log.Error("drop undecodable ticket event: ", err)
		if err := d.Nack(false, false); err != nil {
			log.Error("nack: ", err)
		}
		return
	}

	if err := w.recordWithRetry(ctx, event); err != nil {
		log.Error("failed to record ticket event after retries: ", err)
		if err := d.Nack(false, true); err != nil {
			log.Error("nack: ", err)
		}
		return
	}
	if err := d.Ack(false); err != nil {
		log.Error("ack: ", err)
	}
}

func (w *Worker) recordWithRetry(ctx context.Context, event events.TicketEvent) error {
	var err error
	for i := 0; i < w.maxRetries; i++ {
		if err = w.recorder.Record(ctx, event); err == nil {
			return nil
		}
		if i == w.maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.backoff(i)):
		}
	}
	return errors.Wrapf(err, "failed after %d retries", w.maxRetries)
}
