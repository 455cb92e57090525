package domain

import "github.com/cockroachdb/errors"

var (
	ErrShowNotFound   = errors.New("show not found")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidCatalog = errors.New("invalid show catalog")
)
