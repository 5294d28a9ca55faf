package event

import (
	"testing"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
)

func TestStreamIDRoundTrip(t *testing.T) {
	stream := StreamID(CategoryOrder, "order-1")
	if stream != "Order-order-1" {
		t.Fatalf("stream = %q", stream)
	}
	category, id := SplitStreamID(stream)
	if category != CategoryOrder || id != "order-1" {
		t.Fatalf("split = %q, %q", category, id)
	}
	if StreamID(CategoryShoppingCart, "x") == StreamID(CategoryCheckout, "x") {
		t.Fatal("expected categories to keep streams apart")
	}
}

func TestSplitStreamIDWithoutDash(t *testing.T) {
	category, id := SplitStreamID("orphan")
	if category != "orphan" || id != "" {
		t.Fatalf("split = %q, %q", category, id)
	}
}

func TestCheckExpected(t *testing.T) {
	tests := []struct {
		name     string
		expected ExpectedVersion
		current  uint64
		ok       bool
	}{
		{name: "any empty", expected: Any, current: 0, ok: true},
		{name: "any existing", expected: Any, current: 7, ok: true},
		{name: "no stream empty", expected: NoStream, current: 0, ok: true},
		{name: "no stream existing", expected: NoStream, current: 1, ok: false},
		{name: "exists empty", expected: StreamExists, current: 0, ok: false},
		{name: "exists existing", expected: StreamExists, current: 3, ok: true},
		{name: "exact match", expected: Exact(3), current: 3, ok: true},
		{name: "exact stale", expected: Exact(2), current: 3, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckExpected("Order-1", tt.expected, tt.current)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && apperrors.KindOf(err) != apperrors.KindConcurrencyConflict {
				t.Fatalf("expected conflict, got %v", err)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	type payload struct {
		OrderID string  `json:"order_id"`
		Amount  float64 `json:"amount"`
	}
	pending, err := Encode("OrderCreated", payload{OrderID: "o1", Amount: 12.5})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode[payload](Recorded{Type: pending.Type, Data: pending.Data})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.OrderID != "o1" || got.Amount != 12.5 {
		t.Fatalf("decoded = %+v", got)
	}
}

func TestRecordedCategory(t *testing.T) {
	r := Recorded{StreamID: StreamID(CategoryCheckout, "c-1")}
	if r.Category() != CategoryCheckout {
		t.Fatalf("category = %q", r.Category())
	}
}
