package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/louisbranch/storefront/internal/platform/logging"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/checkpoint"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/engine"
	"github.com/louisbranch/storefront/internal/services/storefront/messaging/kafka"
	"github.com/louisbranch/storefront/internal/services/storefront/messaging/redisbus"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
	"github.com/louisbranch/storefront/internal/services/storefront/storage/memory"
	"github.com/louisbranch/storefront/internal/services/storefront/storage/postgres"
	storeredis "github.com/louisbranch/storefront/internal/services/storefront/storage/redis"
	"github.com/louisbranch/storefront/internal/services/storefront/storage/sqlite"
)

// Event store backends.
const (
	EventStoreMemory   = "memory"
	EventStoreSQLite   = "sqlite"
	EventStorePostgres = "postgres"
)

// Checkpoint store backends. CheckpointStoreStore keeps checkpoints next to
// the events.
const (
	CheckpointStoreStore  = "store"
	CheckpointStoreRedis  = "redis"
	CheckpointStoreMemory = "memory"
)

type durableStore interface {
	storage.EventStore
	storage.DocumentStore
	Checkpoints() checkpoint.Store
	Ping(ctx context.Context) error
	Close() error
}

type backends struct {
	events      storage.EventStore
	docs        storage.DocumentStore
	checkpoints checkpoint.Store
	publisher   engine.Publisher
	ping        func(ctx context.Context) error
	closers     []func() error
}

func (b *backends) close(log *logging.Logger) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			log.Warn("close backend", "error", err)
		}
	}
	b.closers = nil
}

func openBackends(ctx context.Context, cfg RuntimeConfig, log *logging.Logger) (_ *backends, err error) {
	b := &backends{}
	defer func() {
		if err != nil {
			b.close(log)
		}
	}()

	var durable durableStore
	switch strings.ToLower(strings.TrimSpace(cfg.EventStore)) {
	case EventStoreMemory:
		events := memory.NewEventStore()
		b.events = events
		b.docs = memory.NewDocumentStore()
		b.checkpoints = checkpoint.NewMemory()
	case EventStoreSQLite, "":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create storefront storage dir: %w", err)
			}
		}
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		durable = store
	case EventStorePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		durable = store
	default:
		return nil, fmt.Errorf("unknown event store %q", cfg.EventStore)
	}
	if durable != nil {
		b.closers = append(b.closers, durable.Close)
		b.events = durable
		b.docs = durable
		b.checkpoints = durable.Checkpoints()
		b.ping = durable.Ping
	}

	var rdb *goredis.Client
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		rdb, err = storeredis.Connect(ctx, addr)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, rdb.Close)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.CheckpointStore)) {
	case CheckpointStoreStore, "":
	case CheckpointStoreMemory:
		b.checkpoints = checkpoint.NewMemory()
	case CheckpointStoreRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis checkpoint store requires a redis address")
		}
		b.checkpoints = storeredis.NewCheckpointStore(rdb, "")
	default:
		return nil, fmt.Errorf("unknown checkpoint store %q", cfg.CheckpointStore)
	}

	var publishers engine.Publishers
	if len(cfg.KafkaBrokers) > 0 {
		pub, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pub.Close)
		publishers = append(publishers, pub)
	}
	if cfg.RedisPublish {
		if rdb == nil {
			return nil, fmt.Errorf("redis publishing requires a redis address")
		}
		publishers = append(publishers, redisbus.NewPublisher(rdb, log))
	}
	switch len(publishers) {
	case 0:
	case 1:
		b.publisher = publishers[0]
	default:
		b.publisher = publishers
	}
	return b, nil
}
