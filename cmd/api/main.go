package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/robertarktes/movie-ticket-booking/internal/adapters/rabbit"
	redisadapter "github.com/robertarktes/movie-ticket-booking/internal/adapters/redis"
	"github.com/robertarktes/movie-ticket-booking/internal/catalog"
	"github.com/robertarktes/movie-ticket-booking/internal/config"
	"github.com/robertarktes/movie-ticket-booking/internal/events"
	httphandler "github.com/robertarktes/movie-ticket-booking/internal/http"
	"github.com/robertarktes/movie-ticket-booking/internal/idempotency"
	"github.com/robertarktes/movie-ticket-booking/internal/observability"
	"github.com/robertarktes/movie-ticket-booking/internal/ratelimit"
	"github.com/robertarktes/movie-ticket-booking/internal/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := observability.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("booking api stopped: ", err)
		os.Exit(1)
	}
	logger.Info("Server exiting")
}

// run serves until ctx is done or the listener fails. Every resource it opens
// is closed before it returns.
func run(ctx context.Context, cfg *config.Config, logger observability.Logger) error {
	shutdownOtel, err := observability.SetupOTel(ctx, cfg, "booking-api")
	if err != nil {
		return errors.Wrap(err, "setup otel")
	}
	defer shutdownOtel()

	shows, err := catalog.Load(cfg.ShowsFile)
	if err != nil {
		return errors.Wrap(err, "load shows")
	}
	ticketStore := store.New(shows)
	logger.WithField("shows", len(shows)).Info("show catalog loaded")

	sinks := []events.Sink{events.NewLogSink(logger)}
	var checks []httphandler.Pinger
	var limiter httphandler.Limiter
	var idemp *idempotency.Idempotency

	if cfg.RedisAddr != "" {
		redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		redisCache := redisadapter.NewCache(redisClient)
		limiter = ratelimit.NewRateLimiter(redisCache)
		idemp = idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), cfg.IdempotencyTTL)
		checks = append(checks, redisCache)
	}

	if cfg.RabbitURL != "" {
		rabbitConn, err := amqp.Dial(cfg.RabbitURL)
		if err != nil {
			return errors.Wrap(err, "connect to rabbitmq")
		}
		defer rabbitConn.Close()
		rabbitPub, err := rabbit.NewPublisher(rabbitConn)
		if err != nil {
			return errors.Wrap(err, "create publisher")
		}
		sinks = append(sinks, rabbit.NewEventSink(rabbitPub))
		checks = append(checks, rabbitPub)
	}

	dispatcher := events.NewDispatcher(logger, sinks...)
	handlers := httphandler.NewHandlers(ticketStore, dispatcher, checks...)

	r := httphandler.SetupRouter(handlers, logger, limiter, cfg.RateLimitPerMinute, idemp)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Shutdown Server ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server shutdown")
	}
	return nil
}
