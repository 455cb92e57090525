package idempotency

import (
	"context"
	"time"

	redisadapter "github.com/robertarktes/movie-ticket-booking/internal/adapters/redis"
)

// MinKeyLength is the shortest Idempotency-Key header accepted.
const MinKeyLength = 16

type Backend interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (*redisadapter.IdempResponse, error)
	Set(ctx context.Context, key string, resp redisadapter.IdempResponse, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type Idempotency struct {
	backend Backend
	ttl     time.Duration
}

func NewIdempotency(backend Backend, ttl time.Duration) *Idempotency {
	return &Idempotency{backend: backend, ttl: ttl}
}

type Response struct {
	Status      int
	ContentType string
	Result      []byte
}

// Reserve atomically claims key. Only the caller that gets true may run the
// request; it must finish with Set or Release.
func (i *Idempotency) Reserve(ctx context.Context, key string) (bool, error) {
	return i.backend.Reserve(ctx, key, i.ttl)
}

// Get returns the stored response, or nil when the key is unknown or its
// request is still in flight.
func (i *Idempotency) Get(ctx context.Context, key string) (*Response, error) {
	stored, err := i.backend.Get(ctx, key)
	if err != nil || stored == nil || stored.Pending() {
		return nil, err
	}
	return &Response{Status: stored.Status, ContentType: stored.ContentType, Result: stored.Result}, nil
}

func (i *Idempotency) Set(ctx context.Context, key string, resp Response) error {
	return i.backend.Set(ctx, key, redisadapter.IdempResponse{
		Status:      resp.Status,
		ContentType: resp.ContentType,
		Result:      resp.Result,
	}, i.ttl)
}

func (i *Idempotency) Release(ctx context.Context, key string) error {
	return i.backend.Release(ctx, key)
}
