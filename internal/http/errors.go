package http

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/movie-ticket-booking/internal/domain"
)

const (
	msgShowNotFound   = "Show not found!"
	msgTicketNotFound = "Ticket not found!"
	msgInternal       = "Internal Server Error"
)

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// writeError maps a domain error onto the response. Malformed form values
// are reported as a plain server error, like any other unexpected failure.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrShowNotFound):
		writeText(w, http.StatusNotFound, msgShowNotFound)
	case errors.Is(err, domain.ErrTicketNotFound):
		writeText(w, http.StatusNotFound, msgTicketNotFound)
	default:
		LoggerFromContext(r.Context()).Error("request failed: ", err)
		writeText(w, http.StatusInternalServerError, msgInternal)
	}
}
