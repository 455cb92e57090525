// Package events carries notifications about successful ticket mutations to
// the configured sinks.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/movie-ticket-booking/internal/domain"
)

type Type string

const (
	TicketBooked    Type = "ticket.booked"
	TicketCancelled Type = "ticket.cancelled"
	TicketUpdated   Type = "ticket.updated"
)

type TicketEvent struct {
	ID         uuid.UUID     `json:"event_id"`
	Type       Type          `json:"type"`
	Ticket     domain.Ticket `json:"ticket"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func NewTicketEvent(typ Type, ticket domain.Ticket, at time.Time) TicketEvent {
	return TicketEvent{
		ID:         uuid.New(),
		Type:       typ,
		Ticket:     ticket,
		OccurredAt: at.UTC(),
	}
}
