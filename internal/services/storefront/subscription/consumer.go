// Package subscription delivers the global event log to batch handlers by
// polling, with at-least-once semantics and a checkpoint per subscription.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/louisbranch/storefront/internal/platform/logging"
	"github.com/louisbranch/storefront/internal/platform/timeouts"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/checkpoint"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// DefaultBatchSize bounds each ReadAll call when none is configured.
const DefaultBatchSize = 100

var (
	// ErrAlreadyRunning indicates Start was called on a running consumer.
	ErrAlreadyRunning = errors.New("subscription already running")
	// ErrHandlerRequired indicates a missing batch handler.
	ErrHandlerRequired = errors.New("batch handler is required")
)

// BatchHandler processes events in global order. It must tolerate
// redelivery: a batch is retried after any failure.
type BatchHandler interface {
	HandleBatch(ctx context.Context, events []event.Recorded) error
}

// BatchHandlerFunc adapts a function into a BatchHandler.
type BatchHandlerFunc func(ctx context.Context, events []event.Recorded) error

// HandleBatch calls f.
func (f BatchHandlerFunc) HandleBatch(ctx context.Context, events []event.Recorded) error {
	return f(ctx, events)
}

// Config tunes a consumer.
type Config struct {
	// Name keys the checkpoint.
	Name         string
	PollInterval time.Duration
	BatchSize    int
}

func (c Config) normalized() Config {
	c.Name = strings.TrimSpace(c.Name)
	if c.PollInterval <= 0 {
		c.PollInterval = timeouts.PollInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	return c
}

// Consumer polls the event log and hands each batch to a handler, saving
// the checkpoint after every successful batch.
type Consumer struct {
	cfg         Config
	log         storage.LogReader
	handler     BatchHandler
	checkpoints checkpoint.Store
	logger      *logging.Logger

	position atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a consumer. A nil checkpoint store never persists progress.
func New(cfg Config, log storage.LogReader, handler BatchHandler, checkpoints checkpoint.Store, logger *logging.Logger) (*Consumer, error) {
	cfg = cfg.normalized()
	if cfg.Name == "" {
		return nil, checkpoint.ErrNameRequired
	}
	if log == nil {
		return nil, fmt.Errorf("event log is required")
	}
	if handler == nil {
		return nil, ErrHandlerRequired
	}
	if checkpoints == nil {
		checkpoints = checkpoint.NewNoop()
	}
	return &Consumer{
		cfg:         cfg,
		log:         log,
		handler:     handler,
		checkpoints: checkpoints,
		logger:      logging.OrNop(logger).Named("subscription").With("subscription", cfg.Name),
	}, nil
}

// Name returns the subscription name.
func (c *Consumer) Name() string {
	return c.cfg.Name
}

// Position returns the last global position handled.
func (c *Consumer) Position() checkpoint.Position {
	return c.position.Load()
}

// StartFromCheckpoint starts after the saved checkpoint, or from the
// beginning when none exists.
func (c *Consumer) StartFromCheckpoint(ctx context.Context) error {
	from, err := checkpoint.Load(ctx, c.checkpoints, c.cfg.Name)
	if err != nil {
		return fmt.Errorf("load checkpoint %s: %w", c.cfg.Name, err)
	}
	return c.Start(ctx, from)
}

// Start polls in the background, delivering events after from.
func (c *Consumer) Start(ctx context.Context, from checkpoint.Position) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return ErrAlreadyRunning
	}
	c.position.Store(from)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done

	go func() {
		defer close(done)
		c.run(runCtx)
	}()
	c.logger.Info("subscription started", "from", from)
	return nil
}

// Stop cancels polling and waits for the in-flight batch to finish.
func (c *Consumer) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	c.logger.Info("subscription stopped", "position", c.Position())
}

// CatchUp delivers batches until the log is drained. It is used for
// synchronous rebuilds and must not run concurrently with Start.
func (c *Consumer) CatchUp(ctx context.Context) error {
	for {
		n, err := c.poll(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

func (c *Consumer) run(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		c.drain(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (c *Consumer) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := c.poll(ctx)
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Warn("subscription batch failed", "position", c.Position(), "error", err)
			}
			return
		}
		if n < c.cfg.BatchSize {
			return
		}
	}
}

// poll reads and handles one batch. Once read, the batch runs to completion
// even if ctx is cancelled so Stop never abandons a half-applied batch.
func (c *Consumer) poll(ctx context.Context) (int, error) {
	from := c.Position()
	events, err := c.log.ReadAll(ctx, from, c.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("read log after %d: %w", from, err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	batchCtx := context.WithoutCancel(ctx)
	if err := c.handler.HandleBatch(batchCtx, events); err != nil {
		return 0, err
	}
	last := events[len(events)-1].GlobalPosition
	if err := c.checkpoints.Save(batchCtx, checkpoint.Checkpoint{Name: c.cfg.Name, Position: last}); err != nil {
		return 0, fmt.Errorf("save checkpoint %s: %w", c.cfg.Name, err)
	}
	c.position.Store(last)
	c.logger.Debug("batch handled", "events", len(events), "position", last)
	return len(events), nil
}
