package replay

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/cart"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
)

type fakeStream struct {
	events []event.Recorded
	calls  int
	err    error
}

func (f *fakeStream) ReadStream(_ context.Context, _ string, afterVersion uint64, limit int) ([]event.Recorded, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []event.Recorded
	for _, evt := range f.events {
		if evt.StreamVersion > afterVersion && len(out) < limit {
			out = append(out, evt)
		}
	}
	return out, nil
}

func countApply(state int, _ event.Recorded) (int, error) {
	return state + 1, nil
}

func recorded(versions ...uint64) []event.Recorded {
	out := make([]event.Recorded, 0, len(versions))
	for _, v := range versions {
		out = append(out, event.Recorded{StreamID: "ShoppingCart-c1", StreamVersion: v, Type: "Noise", Data: json.RawMessage(`{}`)})
	}
	return out
}

func TestAggregateStreamMissingStream(t *testing.T) {
	agg, err := AggregateStream(context.Background(), &fakeStream{}, "ShoppingCart-c1", 0, countApply, Options{})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.Exists || agg.CurrentVersion != 0 || agg.State != 0 {
		t.Fatalf("aggregate = %+v", agg)
	}
}

func TestAggregateStreamPages(t *testing.T) {
	store := &fakeStream{events: recorded(1, 2, 3, 4, 5)}
	agg, err := AggregateStream(context.Background(), store, "ShoppingCart-c1", 0, countApply, Options{PageSize: 2})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.State != 5 || agg.CurrentVersion != 5 || !agg.Exists {
		t.Fatalf("aggregate = %+v", agg)
	}
	if store.calls != 3 {
		t.Fatalf("calls = %d, want 3", store.calls)
	}
}

func TestAggregateStreamUntilVersion(t *testing.T) {
	store := &fakeStream{events: recorded(1, 2, 3, 4)}
	agg, err := AggregateStream(context.Background(), store, "ShoppingCart-c1", 0, countApply, Options{UntilVersion: 2})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.CurrentVersion != 2 || agg.State != 2 {
		t.Fatalf("aggregate = %+v", agg)
	}
}

func TestAggregateStreamDetectsGap(t *testing.T) {
	store := &fakeStream{events: recorded(1, 3)}
	_, err := AggregateStream(context.Background(), store, "ShoppingCart-c1", 0, countApply, Options{})
	if apperrors.CodeOf(err) != apperrors.CodeStreamGap {
		t.Fatalf("expected stream gap, got %v", err)
	}
}

func TestAggregateStreamRequiresInputs(t *testing.T) {
	ctx := context.Background()
	if _, err := AggregateStream[int](ctx, nil, "s", 0, countApply, Options{}); !errors.Is(err, ErrEventStoreRequired) {
		t.Fatalf("expected store required, got %v", err)
	}
	if _, err := AggregateStream[int](ctx, &fakeStream{}, "s", 0, nil, Options{}); !errors.Is(err, ErrApplierRequired) {
		t.Fatalf("expected applier required, got %v", err)
	}
	if _, err := AggregateStream(ctx, &fakeStream{}, " ", 0, countApply, Options{}); !errors.Is(err, ErrStreamIDRequired) {
		t.Fatalf("expected stream id required, got %v", err)
	}
}

func TestAggregateStreamPropagatesReadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := AggregateStream(context.Background(), &fakeStream{err: boom}, "s", 0, countApply, Options{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestEvolveSkipsForeignEvents(t *testing.T) {
	started, err := cart.Codec{}.Encode(cart.ShoppingStarted{CartID: "c1", CustomerID: "u1", Status: cart.StatusOpen})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	store := &fakeStream{events: []event.Recorded{
		{StreamID: "ShoppingCart-c1", StreamVersion: 1, Type: started.Type, Data: started.Data},
		{StreamID: "ShoppingCart-c1", StreamVersion: 2, Type: "SomethingElse", Data: json.RawMessage(`{}`)},
	}}
	agg, err := AggregateStream(context.Background(), store, "ShoppingCart-c1", cart.InitialState, Evolve(cart.Evolve, cart.Codec{}), Options{})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.State.CartID != "c1" || agg.CurrentVersion != 2 {
		t.Fatalf("aggregate = %+v", agg)
	}
}
