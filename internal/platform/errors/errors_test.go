package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("append: %w", New(CodeConcurrencyConflict, "stream changed"))
	if !stderrors.Is(err, New(CodeConcurrencyConflict, "other message")) {
		t.Fatal("expected code match through wrapping")
	}
	if stderrors.Is(err, New(CodeNotFound, "stream changed")) {
		t.Fatal("expected different codes not to match")
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeUnknown, "append failed", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindUnknown},
		{name: "plain", err: stderrors.New("boom"), want: KindInternal},
		{name: "validation", err: New(CodeNegativeMoney, "x"), want: KindValidation},
		{name: "transition", err: New(CodeCheckoutNotInitiated, "x"), want: KindIllegalTransition},
		{name: "invariant", err: New(CodeCouponAlreadyApplied, "x"), want: KindInvariantViolation},
		{name: "conflict", err: fmt.Errorf("wrapped: %w", New(CodeConcurrencyConflict, "x")), want: KindConcurrencyConflict},
		{name: "not found", err: New(CodeNotFound, "x"), want: KindNotFound},
		{name: "stream gap", err: New(CodeStreamGap, "x"), want: KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: New(CodeInvalidID, "x"), want: http.StatusBadRequest},
		{err: New(CodeOrderInvalidTransition, "x"), want: http.StatusBadRequest},
		{err: New(CodeOrderEmpty, "x"), want: http.StatusBadRequest},
		{err: New(CodeConcurrencyConflict, "x"), want: http.StatusConflict},
		{err: New(CodeNotFound, "x"), want: http.StatusNotFound},
		{err: stderrors.New("db down"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWithMetadataKeepsContext(t *testing.T) {
	err := WithMetadata(CodeCartItemNotFound, "item not found in cart", map[string]string{"product_id": "p1"})
	de, ok := As(fmt.Errorf("decide: %w", err))
	if !ok {
		t.Fatal("expected domain error in chain")
	}
	if de.Metadata["product_id"] != "p1" {
		t.Fatalf("metadata = %v", de.Metadata)
	}
	if de.Kind() != KindInvariantViolation {
		t.Fatalf("kind = %v", de.Kind())
	}
}
