package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/movie-ticket-booking/internal/domain"
	"github.com/robertarktes/movie-ticket-booking/internal/events"
	"github.com/robertarktes/movie-ticket-booking/internal/observability"
	"github.com/robertarktes/movie-ticket-booking/internal/store"
)

type Emitter interface {
	Emit(ctx context.Context, typ events.Type, tickets ...domain.Ticket) error
}

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

type Handlers struct {
	store   *store.Store
	emitter Emitter
	checks  []Pinger
}

func NewHandlers(store *store.Store, emitter Emitter, checks ...Pinger) *Handlers {
	return &Handlers{
		store:   store,
		emitter: emitter,
		checks:  checks,
	}
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r)
}

func (h *Handlers) BookTicket(w http.ResponseWriter, r *http.Request) {
	showID, err := formInt(r, "show_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	ticket, err := h.store.Book(r.PostFormValue("name"), showID)
	if err != nil {
		observability.TicketOperations.WithLabelValues("book", "not_found").Inc()
		writeError(w, r, err)
		return
	}
	observability.TicketOperations.WithLabelValues("book", "ok").Inc()
	h.emit(r.Context(), events.TicketBooked, ticket)

	h.render(w, r)
}

func (h *Handlers) CancelTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := formInt(r, "ticket_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	removed := h.store.Cancel(ticketID)
	if len(removed) == 0 {
		observability.TicketOperations.WithLabelValues("cancel", "noop").Inc()
	} else {
		observability.TicketOperations.WithLabelValues("cancel", "ok").Inc()
		h.emit(r.Context(), events.TicketCancelled, removed...)
	}

	h.render(w, r)
}

func (h *Handlers) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := formInt(r, "ticket_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var upd domain.TicketUpdate
	if name := r.PostFormValue("name"); name != "" {
		upd.Name = &name
	}
	if raw := r.PostFormValue("show_id"); raw != "" {
		showID, err := parseInt("show_id", raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		upd.ShowID = &showID
	}

	ticket, err := h.store.Update(ticketID, upd)
	if err != nil {
		observability.TicketOperations.WithLabelValues("update", "not_found").Inc()
		writeError(w, r, err)
		return
	}
	observability.TicketOperations.WithLabelValues("update", "ok").Inc()
	h.emit(r.Context(), events.TicketUpdated, ticket)

	h.render(w, r)
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, c := range h.checks {
		if err := c.Ping(ctx); err != nil {
			LoggerFromContext(r.Context()).WithField("dependency", c.Name()).Warn("not ready: ", err)
			writeText(w, http.StatusServiceUnavailable, c.Name()+" unavailable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request) {
	page := h.store.Snapshot()
	observability.TicketsHeld.Set(float64(len(page.Tickets)))
	if err := renderPage(w, page); err != nil {
		writeError(w, r, errors.Wrap(err, "render page"))
	}
}

// emit never fails the request: the store has already changed.
func (h *Handlers) emit(ctx context.Context, typ events.Type, tickets ...domain.Ticket) {
	if h.emitter == nil {
		return
	}
	if err := h.emitter.Emit(ctx, typ, tickets...); err != nil {
		LoggerFromContext(ctx).WithField("event_type", string(typ)).Warn("ticket event not fully delivered: ", err)
	}
}

func formInt(r *http.Request, field string) (int, error) {
	return parseInt(field, r.PostFormValue(field))
}

func parseInt(field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Mark(errors.Wrapf(err, "form field %s", field), domain.ErrInvalidInput)
	}
	return n, nil
}
