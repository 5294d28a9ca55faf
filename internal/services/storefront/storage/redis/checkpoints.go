// Package redis stores subscription checkpoints in Redis hashes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/louisbranch/storefront/internal/platform/timeouts"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/checkpoint"
)

const defaultKeyPrefix = "storefront:checkpoint:"

// Connect dials addr and verifies the connection with PING.
func Connect(ctx context.Context, addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: timeouts.StoreConnect,
	})
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.StoreConnect)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// CheckpointStore keeps one hash per subscription name.
type CheckpointStore struct {
	rdb    goredis.UniversalClient
	prefix string
}

// NewCheckpointStore wraps rdb. An empty prefix uses "storefront:checkpoint:".
func NewCheckpointStore(rdb goredis.UniversalClient, prefix string) *CheckpointStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &CheckpointStore{rdb: rdb, prefix: prefix}
}

// Get reads a checkpoint by subscription name.
func (s *CheckpointStore) Get(ctx context.Context, name string) (checkpoint.Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return checkpoint.Checkpoint{}, err
	}
	if s == nil || s.rdb == nil {
		return checkpoint.Checkpoint{}, checkpoint.ErrStoreRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return checkpoint.Checkpoint{}, checkpoint.ErrNameRequired
	}
	values, err := s.rdb.HGetAll(ctx, s.prefix+name).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return checkpoint.Checkpoint{}, fmt.Errorf("get checkpoint %s: %w", name, err)
	}
	if len(values) == 0 {
		return checkpoint.Checkpoint{}, checkpoint.ErrNotFound
	}
	position, err := strconv.ParseUint(values["position"], 10, 64)
	if err != nil {
		return checkpoint.Checkpoint{}, fmt.Errorf("parse checkpoint %s position: %w", name, err)
	}
	cp := checkpoint.Checkpoint{Name: name, Position: position}
	if nanos, err := strconv.ParseInt(values["updated_at"], 10, 64); err == nil {
		cp.UpdatedAt = time.Unix(0, nanos).UTC()
	}
	return cp, nil
}

// Save overwrites the checkpoint for cp.Name.
func (s *CheckpointStore) Save(ctx context.Context, cp checkpoint.Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.rdb == nil {
		return checkpoint.ErrStoreRequired
	}
	cp.Name = strings.TrimSpace(cp.Name)
	if cp.Name == "" {
		return checkpoint.ErrNameRequired
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now().UTC()
	}
	err := s.rdb.HSet(ctx, s.prefix+cp.Name,
		"position", strconv.FormatUint(cp.Position, 10),
		"updated_at", strconv.FormatInt(cp.UpdatedAt.UnixNano(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("save checkpoint %s: %w", cp.Name, err)
	}
	return nil
}
