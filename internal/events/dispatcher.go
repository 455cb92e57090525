package events

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/movie-ticket-booking/internal/domain"
	"github.com/robertarktes/movie-ticket-booking/internal/observability"
	"golang.org/x/sync/errgroup"
)

type Sink interface {
	Name() string
	Publish(ctx context.Context, event TicketEvent) error
}

type Dispatcher struct {
	sinks  []Sink
	logger observability.Logger
	now    func() time.Time
}

func NewDispatcher(logger observability.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, logger: logger, now: time.Now}
}

// Emit publishes one event per ticket to every sink concurrently. A failing
// sink does not stop the others; failures are logged, counted and returned
// combined.
func (d *Dispatcher) Emit(ctx context.Context, typ Type, tickets ...domain.Ticket) error {
	var g errgroup.Group
	errs := make([]error, len(d.sinks)*len(tickets))

	for ti, ticket := range tickets {
		event := NewTicketEvent(typ, ticket, d.now())
		for si, sink := range d.sinks {
			idx := ti*len(d.sinks) + si
			g.Go(func() error {
				if err := sink.Publish(ctx, event); err != nil {
					observability.EventSinkFailures.WithLabelValues(sink.Name()).Inc()
					d.logger.WithField("sink", sink.Name()).
						WithField("event_type", string(event.Type)).
						WithField("ticket_id", event.Ticket.ID).
						Error("publish ticket event: ", err)
					errs[idx] = errors.Wrapf(err, "sink %s", sink.Name())
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	var combined error
	for _, err := range errs {
		combined = errors.CombineErrors(combined, err)
	}
	return combined
}

// LogSink writes events to the structured log.
type LogSink struct {
	logger observability.Logger
}

func NewLogSink(logger observability.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Publish(_ context.Context, event TicketEvent) error {
	s.logger.WithField("event_id", event.ID.String()).
		WithField("event_type", string(event.Type)).
		WithField("ticket_id", event.Ticket.ID).
		WithField("show_id", event.Ticket.ShowID).
		Info("ticket event")
	return nil
}
