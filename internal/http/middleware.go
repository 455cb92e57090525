package http

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robertarktes/movie-ticket-booking/internal/idempotency"
	"github.com/robertarktes/movie-ticket-booking/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelhttp "go.opentelemetry.io/otel/propagation"
)

type loggerKey struct{}

var nopLogger = observability.NewNopLogger()

// LoggerFromContext returns the request-scoped logger, or a discarding one.
func LoggerFromContext(ctx context.Context) observability.Logger {
	if l, ok := ctx.Value(loggerKey{}).(observability.Logger); ok {
		return l
	}
	return nopLogger
}

// Limiter decides whether a request under key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string, rate int, period time.Duration) bool
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func RequestIDMiddleware(next http.Handler) http.Handler {
	return middleware.RequestID(next)
}

func LoggerMiddleware(logger observability.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			entry := logger.WithField("request_id", middleware.GetReqID(r.Context()))
			ctx := context.WithValue(r.Context(), loggerKey{}, entry)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			entry.WithField("method", r.Method).
				WithField("path", r.URL.Path).
				WithField("status", rec.status).
				WithField("duration", time.Since(start).String()).
				Info("request")
		})
	}
}

func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		observability.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status), r.Method).Inc()
		observability.RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), otelhttp.HeaderCarrier(r.Header))
		tracer := otel.Tracer("http")
		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.url", r.URL.String()),
			attribute.Int("http.status_code", rec.status),
		)
	})
}

// RateLimitMiddleware limits mutating requests per client IP.
func RateLimitMiddleware(rl Limiter, perMinute int) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			if !rl.Allow(r.Context(), "ip:"+clientIP(r), perMinute, time.Minute) {
				observability.RateLimitExceeded.Inc()
				writeText(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key. The key is reserved before the handler runs, so a duplicate
// arriving while the first request is in flight gets 409 instead of running
// again. POSTs without the header pass through untouched.
func IdempotencyMiddleware(idemp *idempotency.Idempotency) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Idempotency-Key")
			if r.Method != http.MethodPost || header == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(header) < idempotency.MinKeyLength {
				writeText(w, http.StatusBadRequest, "invalid Idempotency-Key")
				return
			}

			ctx := r.Context()
			log := LoggerFromContext(ctx)
			key := r.URL.Path + ":" + header

			reserved, err := idemp.Reserve(ctx, key)
			if err != nil {
				log.Error("idempotency reserve: ", err)
				writeText(w, http.StatusInternalServerError, msgInternal)
				return
			}
			if !reserved {
				existing, err := idemp.Get(ctx, key)
				if err != nil {
					log.Error("idempotency lookup: ", err)
					writeText(w, http.StatusInternalServerError, msgInternal)
					return
				}
				if existing == nil {
					writeText(w, http.StatusConflict, "request with this Idempotency-Key is in progress")
					return
				}
				observability.IdempotentReplays.Inc()
				w.Header().Set("Content-Type", existing.ContentType)
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(existing.Status)
				w.Write(existing.Result)
				return
			}

			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				if p := recover(); p != nil {
					_ = idemp.Release(context.WithoutCancel(ctx), key)
					panic(p)
				}
			}()
			next.ServeHTTP(cw, r)

			// The client may be gone; the outcome still has to be recorded.
			storeCtx := context.WithoutCancel(ctx)
			if cw.status >= http.StatusInternalServerError {
				if err := idemp.Release(storeCtx, key); err != nil {
					log.Warn("idempotency release: ", err)
				}
				return
			}
			resp := idempotency.Response{
				Status:      cw.status,
				ContentType: cw.Header().Get("Content-Type"),
				Result:      cw.buf.Bytes(),
			}
			if err := idemp.Set(storeCtx, key, resp); err != nil {
				log.Warn("idempotency store: ", err)
			}
		})
	}
}

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
