package domain

type Show struct {
	ID    int    `json:"id" yaml:"id"`
	Movie string `json:"movie" yaml:"movie"`
	Time  string `json:"time" yaml:"time"`
}

type Ticket struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	ShowID int    `json:"show_id"`
	Movie  string `json:"movie"`
	Time   string `json:"time"`
}

// TicketUpdate carries the optional fields of an update request. A nil field
// was not supplied.
type TicketUpdate struct {
	Name   *string
	ShowID *int
}

// Page is the state rendered on every response.
type Page struct {
	Shows   []Show
	Tickets []Ticket
}
