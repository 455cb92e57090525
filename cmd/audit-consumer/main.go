package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	mongoadapter "github.com/robertarktes/movie-ticket-booking/internal/adapters/mongo"
	"github.com/robertarktes/movie-ticket-booking/internal/adapters/rabbit"
	"github.com/robertarktes/movie-ticket-booking/internal/audit"
	"github.com/robertarktes/movie-ticket-booking/internal/config"
	"github.com/robertarktes/movie-ticket-booking/internal/observability"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queueName = "booking.audit"

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
		logger.Error("audit consumer stopped: ", err)
		os.Exit(1)
	}
	logger.Info("Shutdown audit consumer")
}

func run(ctx context.Context, cfg *config.Config, logger observability.Logger) error {
	if cfg.RabbitURL == "" || cfg.MongoURI == "" {
		return errors.New("RABBIT_URL and MONGO_URI are required")
	}

	shutdownOtel, err := observability.SetupOTel(ctx, cfg, "booking-audit-consumer")
	if err != nil {
		return errors.Wrap(err, "setup otel")
	}
	defer shutdownOtel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return errors.Wrap(err, "connect to mongo")
	}
	defer mongoClient.Disconnect(context.Background())
	auditLogger := mongoadapter.NewAuditLogger(mongoClient.Database(cfg.MongoDB), logger)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		return errors.Wrap(err, "connect to rabbitmq")
	}
	defer conn.Close()
	consumer, err := rabbit.NewConsumer(conn, queueName)
	if err != nil {
		return errors.Wrap(err, "create consumer")
	}
	defer consumer.Close()

	deliveries, err := consumer.Consume(ctx)
	if err != nil {
		return errors.Wrapf(err, "consume %s", queueName)
	}

	worker := audit.NewWorker(auditLogger, logger)
	if err := worker.Run(ctx, deliveries); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "audit worker")
	}
	return nil
}
