package domain

func NewTicket(id int, name string, show Show) Ticket {
	t := Ticket{ID: id, Name: name}
	t.AssignShow(show)
	return t
}

// AssignShow copies the show's fields by value; movie and time are never
// set apart from show_id.
func (t *Ticket) AssignShow(show Show) {
	t.ShowID = show.ID
	t.Movie = show.Movie
	t.Time = show.Time
}

// DefaultShows is the catalog seeded when no shows file is configured.
func DefaultShows() []Show {
	return []Show{
		{ID: 1, Movie: "Inception", Time: "7:00 PM"},
		{ID: 2, Movie: "Interstellar", Time: "9:00 PM"},
	}
}
