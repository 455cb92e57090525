package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	redisadapter "github.com/robertarktes/movie-ticket-booking/internal/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	stored  map[string]redisadapter.IdempResponse
	ttl     time.Duration
	failGet error
}

func (s *stubBackend) Get(_ context.Context, key string) (*redisadapter.IdempResponse, error) {
	if s.failGet != nil {
		return nil, s.failGet
	}
	resp, ok := s.stored[key]
	if !ok {
		return nil, nil
	}
	return &resp, nil
}

func (s *stubBackend) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if _, ok := s.stored[key]; ok {
		return false, nil
	}
	if s.stored == nil {
		s.stored = map[string]redisadapter.IdempResponse{}
	}
	s.stored[key] = redisadapter.IdempResponse{}
	s.ttl = ttl
	return true, nil
}

func (s *stubBackend) Release(_ context.Context, key string) error {
	delete(s.stored, key)
	return nil
}

func (s *stubBackend) Set(_ context.Context, key string, resp redisadapter.IdempResponse, ttl time.Duration) error {
	if s.stored == nil {
		s.stored = map[string]redisadapter.IdempResponse{}
	}
	s.stored[key] = resp
	s.ttl = ttl
	return nil
}

func TestIdempotency_RoundTrip(t *testing.T) {
	backend := &stubBackend{}
	idemp := NewIdempotency(backend, 30*time.Minute)
	ctx := context.Background()

	got, err := idemp.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	want := Response{Status: 404, ContentType: "text/plain; charset=utf-8", Result: []byte("Ticket not found!")}
	require.NoError(t, idemp.Set(ctx, "k", want))
	assert.Equal(t, 30*time.Minute, backend.ttl)

	got, err = idemp.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestIdempotency_BackendError(t *testing.T) {
	boom := errors.New("redis down")
	idemp := NewIdempotency(&stubBackend{failGet: boom}, time.Minute)

	_, err := idemp.Get(context.Background(), "k")
	assert.True(t, errors.Is(err, boom))
}

func TestIdempotency_ReservationLifecycle(t *testing.T) {
	backend := &stubBackend{}
	idemp := NewIdempotency(backend, time.Minute)
	ctx := context.Background()

	ok, err := idemp.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, backend.ttl)

	ok, err = idemp.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "second reservation must fail")

	pending, err := idemp.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, pending, "in-flight reservation is not a response")

	require.NoError(t, idemp.Release(ctx, "k"))
	ok, err = idemp.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "released key can be reserved again")
}
