package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/commands"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
	"github.com/louisbranch/storefront/internal/services/storefront/projection"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
	"github.com/louisbranch/storefront/internal/services/storefront/storage/memory"
)

type fixture struct {
	t       *testing.T
	handler http.Handler
	events  *memory.EventStore
	docs    *memory.DocumentStore
	synced  uint64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	events := memory.NewEventStore()
	docs := memory.NewDocumentStore()
	return newFixtureWithStore(t, events, events, docs)
}

func newFixtureWithStore(t *testing.T, events *memory.EventStore, store storage.EventStore, docs *memory.DocumentStore) *fixture {
	t.Helper()
	now := func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{
		t: t,
		handler: NewHandler(Deps{
			Commands: commands.New(commands.Options{Store: store, Now: now}),
			Queries:  projection.NewQueries(docs),
		}),
		events: events,
		docs:   docs,
	}
}

// project applies everything appended since the last call.
func (f *fixture) project() {
	f.t.Helper()
	all, err := f.events.ReadAll(context.Background(), f.synced, 0)
	if err != nil {
		f.t.Fatalf("read all: %v", err)
	}
	if err := projection.NewProjector(f.docs, nil).HandleBatch(context.Background(), all); err != nil {
		f.t.Fatalf("project: %v", err)
	}
	if len(all) > 0 {
		f.synced = all[len(all)-1].GlobalPosition
	}
}

func (f *fixture) do(method, path, body string) (int, map[string]any) {
	f.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	out := map[string]any{}
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			f.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return rec.Code, out
}

func (f *fixture) mustDo(method, path, body string, want int) map[string]any {
	f.t.Helper()
	status, out := f.do(method, path, body)
	if status != want {
		f.t.Fatalf("%s %s = %d %v, want %d", method, path, status, out, want)
	}
	return out
}

func (f *fixture) list(path string) []map[string]any {
	f.t.Helper()
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		f.t.Fatalf("GET %s = %d", path, rec.Code)
	}
	var out []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		f.t.Fatalf("decode list: %v", err)
	}
	return out
}

func TestCartScenario(t *testing.T) {
	f := newFixture(t)
	out := f.mustDo(http.MethodPost, "/api/carts", `{"cartId":"c1","customerId":"u1"}`, http.StatusCreated)
	if out["cartId"] != "c1" || out["message"] != "Shopping started" {
		t.Fatalf("start = %v", out)
	}
	f.mustDo(http.MethodPost, "/api/carts/c1/items", `{"productId":"p1","quantity":2,"unitPrice":{"amount":10,"currency":"USD"}}`, http.StatusOK)
	f.mustDo(http.MethodPut, "/api/carts/c1/items/p1", `{"newQuantity":5}`, http.StatusOK)
	f.project()

	view := f.mustDo(http.MethodGet, "/api/carts/c1", "", http.StatusOK)
	total := view["totalAmount"].(map[string]any)
	if total["amount"] != 50.0 || total["currency"] != "USD" {
		t.Fatalf("total = %v", total)
	}
	if len(f.list("/api/carts")) != 1 || len(f.list("/api/customers/u1/carts")) != 1 {
		t.Fatal("expected cart in listings")
	}
	if len(f.list("/api/customers/u2/carts")) != 0 {
		t.Fatal("expected no carts for other customer")
	}

	f.mustDo(http.MethodDelete, "/api/carts/c1/items/p1", "", http.StatusOK)
	f.mustDo(http.MethodPost, "/api/carts/c1/clear", "", http.StatusOK)
	f.project()
	view = f.mustDo(http.MethodGet, "/api/carts/c1", "", http.StatusOK)
	if view["status"] != "Empty" {
		t.Fatalf("status = %v", view["status"])
	}
}

func TestCheckoutScenario(t *testing.T) {
	f := newFixture(t)
	out := f.mustDo(http.MethodPost, "/api/checkouts", `{"checkoutId":"k1","cartId":"c1","customerId":"u1","totalAmount":{"amount":100,"currency":"USD"}}`, http.StatusCreated)
	if out["checkoutId"] != "k1" {
		t.Fatalf("initiate = %v", out)
	}
	f.mustDo(http.MethodPost, "/api/checkouts/k1/coupons", `{"couponCode":"save10","discountAmount":{"amount":10,"currency":"USD"}}`, http.StatusOK)
	f.mustDo(http.MethodPost, "/api/checkouts/k1/gift-cards", `{"giftCardCode":"gc1","appliedAmount":{"amount":25.5,"currency":"USD"}}`, http.StatusOK)

	status, body := f.do(http.MethodPost, "/api/checkouts/k1/complete", "")
	if status != http.StatusBadRequest || body["code"] != "CHECKOUT_PAYMENT_METHOD_REQUIRED" {
		t.Fatalf("complete without payment = %d %v", status, body)
	}

	f.mustDo(http.MethodPost, "/api/checkouts/k1/payment-method", `{"type":"CREDIT_CARD","details":"visa-4242"}`, http.StatusOK)
	f.mustDo(http.MethodPost, "/api/checkouts/k1/complete", "", http.StatusOK)
	f.project()

	view := f.mustDo(http.MethodGet, "/api/checkouts/k1", "", http.StatusOK)
	final := view["finalAmount"].(map[string]any)
	if final["amount"] != 64.5 {
		t.Fatalf("final = %v", final)
	}
	if len(f.list("/api/checkouts")) != 1 || len(f.list("/api/customers/u1/checkouts")) != 1 {
		t.Fatal("expected checkout in listings")
	}

	status, body = f.do(http.MethodPost, "/api/checkouts/k1/cancel", `{"reason":"changed mind"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("cancel completed checkout = %d %v", status, body)
	}
}

const orderBody = `{
	"orderId":"o1","cartId":"c1","checkoutId":"k1","customerId":"u1",
	"items":[{"productId":"p1","quantity":2,"unitPrice":{"amount":40,"currency":"USD"}}],
	"totalAmount":{"amount":80,"currency":"USD"},
	"shippingAddress":{"street":"1 Main St","city":"Springfield","state":"IL","zipCode":"62701","country":"US"}
}`

func TestOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	out := f.mustDo(http.MethodPost, "/api/orders", orderBody, http.StatusCreated)
	if out["orderId"] != "o1" || out["version"] != 1.0 {
		t.Fatalf("create = %v", out)
	}

	status, body := f.do(http.MethodPost, "/api/orders/o1/ship", `{"trackingNumber":"TRK1"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("ship before confirm = %d %v", status, body)
	}

	f.mustDo(http.MethodPost, "/api/orders/o1/confirm", "", http.StatusOK)
	f.mustDo(http.MethodPost, "/api/orders/o1/ship", `{"trackingNumber":"TRK1"}`, http.StatusOK)
	f.mustDo(http.MethodPost, "/api/orders/o1/deliver", "", http.StatusOK)

	status, _ = f.do(http.MethodPost, "/api/orders/o1/cancel", `{"reason":"late"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("cancel after deliver = %d", status)
	}

	f.project()
	view := f.mustDo(http.MethodGet, "/api/orders/o1", "", http.StatusOK)
	if view["status"] != "Delivered" || view["trackingNumber"] != "TRK1" {
		t.Fatalf("order = %v", view)
	}
	if len(f.list("/api/orders")) != 1 || len(f.list("/api/customers/u1/orders")) != 1 {
		t.Fatal("expected order in listings")
	}
}

func TestCancelWithoutReason(t *testing.T) {
	f := newFixture(t)
	f.mustDo(http.MethodPost, "/api/orders", orderBody, http.StatusCreated)
	f.mustDo(http.MethodPost, "/api/orders/o1/confirm", "", http.StatusOK)
	out := f.mustDo(http.MethodPost, "/api/orders/o1/cancel", "", http.StatusOK)
	if out["message"] != "Order cancelled" {
		t.Fatalf("cancel order = %v", out)
	}

	f.mustDo(http.MethodPost, "/api/checkouts", `{"checkoutId":"k1","cartId":"c1","customerId":"u1","totalAmount":{"amount":100,"currency":"USD"}}`, http.StatusCreated)
	f.mustDo(http.MethodPost, "/api/checkouts/k1/cancel", `{}`, http.StatusOK)
	f.mustDo(http.MethodPost, "/api/checkouts", `{"checkoutId":"k2","cartId":"c2","customerId":"u1","totalAmount":{"amount":100,"currency":"USD"}}`, http.StatusCreated)
	f.mustDo(http.MethodPost, "/api/checkouts/k2/cancel", "", http.StatusOK)

	f.project()
	if view := f.mustDo(http.MethodGet, "/api/orders/o1", "", http.StatusOK); view["status"] != "Cancelled" {
		t.Fatalf("order = %v", view)
	}
	for _, id := range []string{"k1", "k2"} {
		if view := f.mustDo(http.MethodGet, "/api/checkouts/"+id, "", http.StatusOK); view["status"] != "Cancelled" {
			t.Fatalf("checkout %s = %v", id, view)
		}
	}

	status, body := f.do(http.MethodPost, "/api/orders/o1/cancel", `{"reason":`)
	if status != http.StatusBadRequest || body["code"] != "INVALID_PAYLOAD" {
		t.Fatalf("malformed cancel body = %d %v", status, body)
	}
}

func TestCurrencyPolicy(t *testing.T) {
	const body = `{"productId":"p1","quantity":1,"unitPrice":{"amount":10,"currency":"XQZ"}}`

	lenient := newFixture(t)
	lenient.mustDo(http.MethodPost, "/api/carts", `{"cartId":"c1","customerId":"u1"}`, http.StatusCreated)
	lenient.mustDo(http.MethodPost, "/api/carts/c1/items", body, http.StatusOK)

	events := memory.NewEventStore()
	strict := &fixture{
		t: t,
		handler: NewHandler(Deps{
			Commands:   commands.New(commands.Options{Store: events}),
			Queries:    projection.NewQueries(memory.NewDocumentStore()),
			Currencies: value.CurrencyPolicy{Strict: true},
		}),
	}
	strict.mustDo(http.MethodPost, "/api/carts", `{"cartId":"c1","customerId":"u1"}`, http.StatusCreated)
	status, out := strict.do(http.MethodPost, "/api/carts/c1/items", body)
	if status != http.StatusBadRequest || out["code"] != string(apperrors.CodeUnknownCurrency) {
		t.Fatalf("strict add = %d %v", status, out)
	}
}

func TestErrorResponses(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"missing body", http.MethodPost, "/api/carts", "", http.StatusBadRequest, "INVALID_PAYLOAD"},
		{"unknown field", http.MethodPost, "/api/carts", `{"cartId":"c1","customerId":"u1","x":1}`, http.StatusBadRequest, "INVALID_PAYLOAD"},
		{"blank id", http.MethodPost, "/api/carts", `{"cartId":" ","customerId":"u1"}`, http.StatusBadRequest, "INVALID_ID"},
		{"negative money", http.MethodPost, "/api/carts/c9/items", `{"productId":"p1","quantity":1,"unitPrice":{"amount":-1,"currency":"USD"}}`, http.StatusBadRequest, "NEGATIVE_MONEY"},
		{"cart not started", http.MethodPost, "/api/carts/c9/clear", "", http.StatusBadRequest, "CART_NOT_STARTED"},
		{"cart not found", http.MethodGet, "/api/carts/missing", "", http.StatusNotFound, "NOT_FOUND"},
		{"checkout not found", http.MethodGet, "/api/checkouts/missing", "", http.StatusNotFound, "NOT_FOUND"},
		{"order not found", http.MethodGet, "/api/orders/missing", "", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := f.do(tc.method, tc.path, tc.body)
			if status != tc.status || body["code"] != tc.code {
				t.Fatalf("%s %s = %d %v, want %d %s", tc.method, tc.path, status, body, tc.status, tc.code)
			}
			if body["error"] == nil {
				t.Fatalf("expected error message, got %v", body)
			}
		})
	}
}

// conflictingStore reports a concurrent writer on every append.
type conflictingStore struct {
	*memory.EventStore
}

func (s conflictingStore) AppendToStream(_ context.Context, streamID string, expected event.ExpectedVersion, _ []event.Pending) (storage.AppendResult, error) {
	return storage.AppendResult{}, event.ConflictError(streamID, expected, uint64(expected)+1)
}

func TestConcurrencyConflictIs409(t *testing.T) {
	events := memory.NewEventStore()
	f := newFixtureWithStore(t, events, conflictingStore{events}, memory.NewDocumentStore())
	status, body := f.do(http.MethodPost, "/api/carts", `{"cartId":"c1","customerId":"u1"}`)
	if status != http.StatusConflict || body["code"] != "CONCURRENCY_CONFLICT" {
		t.Fatalf("status = %d %v", status, body)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	if out := f.mustDo(http.MethodGet, "/health", "", http.StatusOK); out["status"] != "ok" {
		t.Fatalf("health = %v", out)
	}

	down := NewHandler(Deps{Ready: func(context.Context) error { return errors.New("db down") }})
	rec := httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "req-1" {
		t.Fatalf("request id = %q", rec.Header().Get("X-Request-ID"))
	}
}
