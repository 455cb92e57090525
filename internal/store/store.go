// Package store holds the show catalog and the ticket collection in memory.
package store

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/movie-ticket-booking/internal/domain"
)

type Store struct {
	mu      sync.RWMutex
	shows   []domain.Show
	tickets []domain.Ticket
	lastID  int
}

// New returns a store seeded with shows. The slice is copied; the catalog is
// never modified afterwards.
func New(shows []domain.Show) *Store {
	return &Store{shows: append([]domain.Show(nil), shows...)}
}

func (s *Store) Shows() []domain.Show {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Show(nil), s.shows...)
}

func (s *Store) Tickets() []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Ticket(nil), s.tickets...)
}

// Snapshot reads shows and tickets under a single lock.
func (s *Store) Snapshot() domain.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Page{
		Shows:   append([]domain.Show(nil), s.shows...),
		Tickets: append([]domain.Ticket(nil), s.tickets...),
	}
}

// Book appends a ticket for the first show matching showID. Ticket ids come
// from a counter that only grows, so a cancelled id is never handed out again.
func (s *Store) Book(name string, showID int) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	show, ok := s.findShow(showID)
	if !ok {
		return domain.Ticket{}, errors.Wrapf(domain.ErrShowNotFound, "show %d", showID)
	}

	s.lastID++
	ticket := domain.NewTicket(s.lastID, name, show)
	s.tickets = append(s.tickets, ticket)
	return ticket, nil
}

// Cancel removes every ticket with the given id and returns what was removed.
// Cancelling an unknown id is a no-op.
func (s *Store) Cancel(ticketID int) []domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []domain.Ticket
	kept := s.tickets[:0:0]
	for _, t := range s.tickets {
		if t.ID == ticketID {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	if len(removed) > 0 {
		s.tickets = kept
	}
	return removed
}

// Update applies upd to the ticket. A non-empty name always applies; a show id
// that matches no show leaves show_id, movie and time as they were.
func (s *Store) Update(ticketID int, upd domain.TicketUpdate) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.tickets {
		if s.tickets[i].ID == ticketID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Ticket{}, errors.Wrapf(domain.ErrTicketNotFound, "ticket %d", ticketID)
	}

	t := &s.tickets[idx]
	if upd.Name != nil && *upd.Name != "" {
		t.Name = *upd.Name
	}
	if upd.ShowID != nil {
		if show, ok := s.findShow(*upd.ShowID); ok {
			t.AssignShow(show)
		}
	}
	return *t, nil
}

func (s *Store) findShow(id int) (domain.Show, bool) {
	for _, show := range s.shows {
		if show.ID == id {
			return show, true
		}
	}
	return domain.Show{}, false
}
