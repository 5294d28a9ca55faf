package subscription

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/checkpoint"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/storage/memory"
	"github.com/louisbranch/storefront/internal/services/storefront/storage/storagetest"
)

type collector struct {
	mu      sync.Mutex
	seen    []uint64
	batches int
	failN   int
}

func (c *collector) HandleBatch(_ context.Context, events []event.Recorded) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failN > 0 {
		c.failN--
		return errors.New("transient")
	}
	c.batches++
	for _, evt := range events {
		c.seen = append(c.seen, evt.GlobalPosition)
	}
	return nil
}

func (c *collector) positions() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint64(nil), c.seen...)
}

func seed(t *testing.T, store *memory.EventStore, streams int) {
	t.Helper()
	for i := 0; i < streams; i++ {
		streamID := fmt.Sprintf("ShoppingCart-c%d", i)
		if _, err := store.AppendToStream(context.Background(), streamID, event.NoStream, storagetest.Pending(streamID, 2)); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestConsumerDeliversInOrderAndCheckpoints(t *testing.T) {
	store := memory.NewEventStore()
	seed(t, store, 5)
	handler := &collector{}
	checkpoints := checkpoint.NewMemory()
	consumer, err := New(Config{Name: "proj", PollInterval: 10 * time.Millisecond, BatchSize: 3}, store, handler, checkpoints, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := consumer.StartFromCheckpoint(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitFor(t, func() bool { return len(handler.positions()) == 10 })

	// Events appended after start are picked up on the next poll.
	if _, err := store.AppendToStream(context.Background(), "Order-o1", event.NoStream, storagetest.Pending("o1", 1)); err != nil {
		t.Fatalf("append: %v", err)
	}
	waitFor(t, func() bool { return len(handler.positions()) == 11 })
	consumer.Stop()

	for i, pos := range handler.positions() {
		if pos != uint64(i+1) {
			t.Fatalf("positions = %v", handler.positions())
		}
	}
	cp, err := checkpoints.Get(context.Background(), "proj")
	if err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	if cp.Position != 11 || consumer.Position() != 11 {
		t.Fatalf("checkpoint = %d, position = %d", cp.Position, consumer.Position())
	}
}

func TestConsumerResumesFromCheckpoint(t *testing.T) {
	store := memory.NewEventStore()
	seed(t, store, 3)
	checkpoints := checkpoint.NewMemory()
	if err := checkpoints.Save(context.Background(), checkpoint.Checkpoint{Name: "proj", Position: 4}); err != nil {
		t.Fatalf("save: %v", err)
	}
	handler := &collector{}
	consumer, err := New(Config{Name: "proj", PollInterval: 10 * time.Millisecond}, store, handler, checkpoints, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := consumer.StartFromCheckpoint(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitFor(t, func() bool { return len(handler.positions()) == 2 })
	consumer.Stop()

	if got := handler.positions(); got[0] != 5 || got[1] != 6 {
		t.Fatalf("positions = %v, want [5 6]", got)
	}
}

func TestConsumerRetriesFailedBatch(t *testing.T) {
	store := memory.NewEventStore()
	seed(t, store, 1)
	handler := &collector{failN: 2}
	checkpoints := checkpoint.NewMemory()
	consumer, err := New(Config{Name: "proj", PollInterval: 5 * time.Millisecond}, store, handler, checkpoints, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := consumer.Start(context.Background(), 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitFor(t, func() bool { return len(handler.positions()) == 2 })
	consumer.Stop()

	cp, err := checkpoints.Get(context.Background(), "proj")
	if err != nil || cp.Position != 2 {
		t.Fatalf("checkpoint = %+v, %v", cp, err)
	}
}

func TestConsumerStartTwice(t *testing.T) {
	consumer, err := New(Config{Name: "proj"}, memory.NewEventStore(), &collector{}, nil, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := consumer.Start(context.Background(), 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer consumer.Stop()
	if err := consumer.Start(context.Background(), 0); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected already running, got %v", err)
	}
}

func TestConsumerStopWithoutStart(t *testing.T) {
	consumer, err := New(Config{Name: "proj"}, memory.NewEventStore(), &collector{}, nil, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	consumer.Stop()
}

func TestCatchUpDrainsLog(t *testing.T) {
	store := memory.NewEventStore()
	seed(t, store, 4)
	handler := &collector{}
	consumer, err := New(Config{Name: "rebuild", BatchSize: 3}, store, handler, nil, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := consumer.CatchUp(context.Background()); err != nil {
		t.Fatalf("catch up: %v", err)
	}
	if len(handler.positions()) != 8 || handler.batches != 3 {
		t.Fatalf("positions = %v batches = %d", handler.positions(), handler.batches)
	}
}

func TestNewValidates(t *testing.T) {
	store := memory.NewEventStore()
	if _, err := New(Config{}, store, &collector{}, nil, nil); !errors.Is(err, checkpoint.ErrNameRequired) {
		t.Fatalf("expected name required, got %v", err)
	}
	if _, err := New(Config{Name: "x"}, store, nil, nil, nil); !errors.Is(err, ErrHandlerRequired) {
		t.Fatalf("expected handler required, got %v", err)
	}
}
