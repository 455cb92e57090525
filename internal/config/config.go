package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type Config struct {
	HTTPAddr           string
	ShowsFile          string
	LogLevel           string
	RedisAddr          string
	RateLimitPerMinute int
	IdempotencyTTL     time.Duration
	RabbitURL          string
	MongoURI           string
	MongoDB            string
	OTLPEndpoint       string
	ShutdownTimeout    time.Duration
}

// Load reads .env, then the environment, then command line flags in args.
// Flags win over environment variables.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	rateLimit, err := intEnv("RATE_LIMIT_PER_MINUTE", 60)
	if err != nil {
		return nil, err
	}
	idempTTL, err := durationEnv("IDEMPOTENCY_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationEnv("SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		ShowsFile:          os.Getenv("SHOWS_FILE"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RateLimitPerMinute: rateLimit,
		IdempotencyTTL:     idempTTL,
		RabbitURL:          os.Getenv("RABBIT_URL"),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDB:            getenv("MONGO_DB", "booking"),
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ShutdownTimeout:    shutdownTimeout,
	}

	fs := pflag.NewFlagSet("booking", pflag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.ShowsFile, "shows", cfg.ShowsFile, "YAML file with the show catalog")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, "parse flags")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid int for %s", key)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration for %s", key)
	}
	return d, nil
}
