// Package storefront parses storefront command flags and launches the runtime.
package storefront

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/storefront/internal/platform/cmd"
	"github.com/louisbranch/storefront/internal/platform/logging"
	"github.com/louisbranch/storefront/internal/services/storefront/app"
)

// Config holds storefront command configuration.
type Config struct {
	HTTPAddr           string        `env:"STOREFRONT_HTTP_ADDR" envDefault:":8080"`
	GRPCHealthAddr     string        `env:"STOREFRONT_GRPC_HEALTH_ADDR" envDefault:":8081"`
	LogMode            string        `env:"STOREFRONT_LOG_MODE" envDefault:"production"`
	EventStore         string        `env:"STOREFRONT_EVENT_STORE" envDefault:"sqlite"`
	SQLitePath         string        `env:"STOREFRONT_SQLITE_PATH" envDefault:"data/storefront.db"`
	PostgresDSN        string        `env:"STOREFRONT_POSTGRES_DSN"`
	CheckpointStore    string        `env:"STOREFRONT_CHECKPOINT_STORE" envDefault:"store"`
	RedisAddr          string        `env:"STOREFRONT_REDIS_ADDR"`
	KafkaBrokers       []string      `env:"STOREFRONT_KAFKA_BROKERS" envSeparator:","`
	KafkaTopic         string        `env:"STOREFRONT_KAFKA_TOPIC" envDefault:"storefront.events"`
	RedisPublish       bool          `env:"STOREFRONT_REDIS_PUBLISH" envDefault:"false"`
	PollInterval       time.Duration `env:"STOREFRONT_POLL_INTERVAL" envDefault:"500ms"`
	BatchSize          int           `env:"STOREFRONT_BATCH_SIZE" envDefault:"100"`
	StrictCurrency     bool          `env:"STOREFRONT_STRICT_CURRENCY" envDefault:"true"`
	RebuildProjections bool          `env:"STOREFRONT_REBUILD_PROJECTIONS" envDefault:"false"`

	Postgres PostgresConfig
}

// PostgresConfig builds a DSN when STOREFRONT_POSTGRES_DSN is unset.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	DB       string `env:"POSTGRES_DB" envDefault:"storefront"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

// DSN renders a postgres URL.
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.Host, fmt.Sprint(c.Port)),
		Path:     "/" + c.DB,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	return u.String()
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.Load(&cfg, fs, args, bindFlags); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The HTTP API listen address")
	fs.StringVar(&cfg.GRPCHealthAddr, "grpc-health-addr", cfg.GRPCHealthAddr, "The gRPC health listen address")
	fs.StringVar(&cfg.LogMode, "log-mode", cfg.LogMode, "Log mode: development or production")
	fs.StringVar(&cfg.EventStore, "event-store", cfg.EventStore, "Event store backend: memory, sqlite or postgres")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "The SQLite database path")
	fs.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "The Postgres DSN")
	fs.StringVar(&cfg.CheckpointStore, "checkpoint-store", cfg.CheckpointStore, "Checkpoint backend: store, redis or memory")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "The Redis address")
	fs.Func("kafka-brokers", "Comma separated Kafka brokers", func(raw string) error {
		cfg.KafkaBrokers = splitList(raw)
		return nil
	})
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "The Kafka topic for published events")
	fs.BoolVar(&cfg.RedisPublish, "redis-publish", cfg.RedisPublish, "Publish events on Redis pub/sub")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Subscription poll interval")
	fs.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "Subscription batch size")
	fs.BoolVar(&cfg.StrictCurrency, "strict-currency", cfg.StrictCurrency, "Require ISO 4217 currency codes")
	fs.BoolVar(&cfg.RebuildProjections, "rebuild-projections", cfg.RebuildProjections, "Rebuild read models from the log at startup")
}

// Finalize trims broker entries, derives the Postgres DSN when unset and
// rejects unknown backends.
func (c *Config) Finalize() error {
	c.KafkaBrokers = splitList(strings.Join(c.KafkaBrokers, ","))
	c.EventStore = strings.ToLower(strings.TrimSpace(c.EventStore))
	c.CheckpointStore = strings.ToLower(strings.TrimSpace(c.CheckpointStore))

	switch c.EventStore {
	case app.EventStoreMemory, app.EventStoreSQLite:
	case app.EventStorePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			c.PostgresDSN = c.Postgres.DSN()
		}
	default:
		return fmt.Errorf("unknown event store %q", c.EventStore)
	}
	switch c.CheckpointStore {
	case app.CheckpointStoreStore, app.CheckpointStoreMemory:
	case app.CheckpointStoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("checkpoint store %q requires a redis address", c.CheckpointStore)
		}
	default:
		return fmt.Errorf("unknown checkpoint store %q", c.CheckpointStore)
	}
	if c.RedisPublish && strings.TrimSpace(c.RedisAddr) == "" {
		return fmt.Errorf("redis publishing requires a redis address")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	return nil
}

// Run starts the storefront runtime.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer logger.Sync()

	return entrypoint.Run(ctx, entrypoint.ServiceStorefront, logger, func(ctx context.Context, log *logging.Logger) error {
		return app.Run(ctx, app.RuntimeConfig{
			HTTPAddr:           cfg.HTTPAddr,
			GRPCHealthAddr:     cfg.GRPCHealthAddr,
			EventStore:         cfg.EventStore,
			SQLitePath:         cfg.SQLitePath,
			PostgresDSN:        cfg.PostgresDSN,
			CheckpointStore:    cfg.CheckpointStore,
			RedisAddr:          cfg.RedisAddr,
			RedisPublish:       cfg.RedisPublish,
			KafkaBrokers:       cfg.KafkaBrokers,
			KafkaTopic:         cfg.KafkaTopic,
			PollInterval:       cfg.PollInterval,
			BatchSize:          cfg.BatchSize,
			StrictCurrency:     cfg.StrictCurrency,
			RebuildProjections: cfg.RebuildProjections,
		}, log)
	})
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
