package requestctx

import (
	"context"
	"testing"
)

func TestRequestIDFromContextRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Fatalf("RequestIDFromContext = %q, want %q", got, "req-42")
	}
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("RequestIDFromContext = %q, want empty", got)
	}
}

func TestWithRequestIDNilContext(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	ctx := WithRequestID(nil, "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("RequestIDFromContext = %q", got)
	}
}
