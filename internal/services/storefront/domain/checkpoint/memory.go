package checkpoint

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Memory stores checkpoints in process memory.
type Memory struct {
	mu          sync.Mutex
	checkpoints map[string]Checkpoint
}

// NewMemory creates an empty in-memory checkpoint store.
func NewMemory() *Memory {
	return &Memory{checkpoints: make(map[string]Checkpoint)}
}

// Get retrieves a checkpoint by subscription name.
func (m *Memory) Get(ctx context.Context, name string) (Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return Checkpoint{}, err
	}
	if m == nil {
		return Checkpoint{}, ErrStoreRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Checkpoint{}, ErrNameRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp, ok := m.checkpoints[name]
	if !ok {
		return Checkpoint{}, ErrNotFound
	}
	return cp, nil
}

// Save stores a checkpoint, stamping UpdatedAt when it is zero.
func (m *Memory) Save(ctx context.Context, cp Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m == nil {
		return ErrStoreRequired
	}
	cp.Name = strings.TrimSpace(cp.Name)
	if cp.Name == "" {
		return ErrNameRequired
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkpoints[cp.Name] = cp
	return nil
}
