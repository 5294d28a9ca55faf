package projection

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/commands"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/cart"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/order"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
	"github.com/louisbranch/storefront/internal/services/storefront/storage/memory"
)

type fixture struct {
	events   *memory.EventStore
	docs     *memory.DocumentStore
	handlers commands.Handlers
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		events: memory.NewEventStore(),
		docs:   memory.NewDocumentStore(),
		clock:  time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	f.handlers = commands.New(commands.Options{
		Store: f.events,
		Now: func() time.Time {
			f.clock = f.clock.Add(time.Second)
			return f.clock
		},
	})
	return f
}

func (f *fixture) log(t *testing.T) []event.Recorded {
	t.Helper()
	all, err := f.events.ReadAll(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	return all
}

func money(t *testing.T, amount float64) value.Money {
	t.Helper()
	m, err := value.NewMoney(amount, "USD")
	if err != nil {
		t.Fatalf("money: %v", err)
	}
	return m
}

func (f *fixture) cart(t *testing.T, cmds ...cart.Command) {
	t.Helper()
	for _, cmd := range cmds {
		if _, err := f.handlers.Cart.Handle(context.Background(), cmd); err != nil {
			t.Fatalf("%s: %v", cmd.CommandName(), err)
		}
	}
}

func TestCartProjectionIsIdempotentUnderRedelivery(t *testing.T) {
	f := newFixture(t)
	f.cart(t,
		cart.StartShopping{CartID: "c1", CustomerID: "u1"},
		cart.AddItemToCart{CartID: "c1", ProductID: "p1", Quantity: 2, UnitPrice: money(t, 10)},
		cart.AddItemToCart{CartID: "c1", ProductID: "p2", Quantity: 1, UnitPrice: money(t, 4.5)},
		cart.ChangeItemQuantity{CartID: "c1", ProductID: "p1", NewQuantity: 5},
		cart.RemoveItemFromCart{CartID: "c1", ProductID: "p2"},
	)
	projector := NewProjector(f.docs, nil)
	ctx := context.Background()
	events := f.log(t)

	for i := 0; i < 3; i++ {
		if err := projector.HandleBatch(ctx, events); err != nil {
			t.Fatalf("batch %d: %v", i, err)
		}
	}
	// Redeliver a suffix as well; versions already applied are skipped.
	if err := projector.HandleBatch(ctx, events[2:]); err != nil {
		t.Fatalf("suffix: %v", err)
	}

	view, err := NewQueries(f.docs).CartByID(ctx, "c1")
	if err != nil {
		t.Fatalf("cart by id: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].ProductID != "p1" || view.Items[0].Quantity != 5 {
		t.Fatalf("items = %+v", view.Items)
	}
	if view.TotalAmount != (value.MoneyData{Amount: 50, Currency: "USD"}) {
		t.Fatalf("total = %+v", view.TotalAmount)
	}
	if view.Version != 5 || view.Status != string(cart.StatusOpen) {
		t.Fatalf("view = %+v", view)
	}
	if view.LastUpdated.IsZero() {
		t.Fatal("last updated not set")
	}
}

func TestCartProjectionClearedKeepsCurrency(t *testing.T) {
	f := newFixture(t)
	f.cart(t,
		cart.StartShopping{CartID: "c1", CustomerID: "u1"},
		cart.AddItemToCart{CartID: "c1", ProductID: "p1", Quantity: 1, UnitPrice: money(t, 3)},
		cart.ClearShoppingCart{CartID: "c1"},
	)
	projector := NewProjector(f.docs, nil)
	if err := projector.HandleBatch(context.Background(), f.log(t)); err != nil {
		t.Fatalf("batch: %v", err)
	}
	view, err := NewQueries(f.docs).CartByID(context.Background(), "c1")
	if err != nil {
		t.Fatalf("cart by id: %v", err)
	}
	if view.Status != string(cart.StatusEmpty) || len(view.Items) != 0 {
		t.Fatalf("view = %+v", view)
	}
	if view.TotalAmount != (value.MoneyData{Amount: 0, Currency: "USD"}) {
		t.Fatalf("total = %+v", view.TotalAmount)
	}
}

func TestCheckoutProjection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coupon, _ := value.NewCouponCode("spring")
	gift, _ := value.NewGiftCardCode("GC-1")
	card, _ := value.NewPaymentMethod("PAYPAL", "me@example.com")
	for _, cmd := range []checkout.Command{
		checkout.InitiateCheckout{CheckoutID: "k1", CartID: "c1", CustomerID: "u1", TotalAmount: money(t, 100)},
		checkout.ApplyCoupon{CheckoutID: "k1", CouponCode: coupon, DiscountAmount: money(t, 10)},
		checkout.ApplyGiftCard{CheckoutID: "k1", GiftCardCode: gift, AppliedAmount: money(t, 25.5)},
		checkout.SetPaymentMethod{CheckoutID: "k1", PaymentMethod: card},
		checkout.CompleteCheckout{CheckoutID: "k1"},
	} {
		if _, err := f.handlers.Checkout.Handle(ctx, cmd); err != nil {
			t.Fatalf("%s: %v", cmd.CommandName(), err)
		}
	}
	projector := NewProjector(f.docs, nil)
	events := f.log(t)
	if err := projector.HandleBatch(ctx, events); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if err := projector.HandleBatch(ctx, events); err != nil {
		t.Fatalf("redelivery: %v", err)
	}

	view, err := NewQueries(f.docs).CheckoutByID(ctx, "k1")
	if err != nil {
		t.Fatalf("checkout by id: %v", err)
	}
	if view.Status != string(checkout.StatusCompleted) {
		t.Fatalf("status = %s", view.Status)
	}
	if len(view.AppliedCoupons) != 1 || view.AppliedCoupons[0] != "SPRING" || len(view.AppliedGiftCards) != 1 {
		t.Fatalf("codes = %v %v", view.AppliedCoupons, view.AppliedGiftCards)
	}
	if view.TotalDiscount.Amount != 10 || view.TotalGiftCardAmount.Amount != 25.5 {
		t.Fatalf("deductions = %+v %+v", view.TotalDiscount, view.TotalGiftCardAmount)
	}
	if view.FinalAmount == nil || *view.FinalAmount != (value.MoneyData{Amount: 64.5, Currency: "USD"}) {
		t.Fatalf("final = %+v", view.FinalAmount)
	}
	if view.PaymentMethod == nil || view.PaymentMethod.Type != "PAYPAL" {
		t.Fatalf("payment = %+v", view.PaymentMethod)
	}
}

func TestOrderProjectionAndQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	address, err := value.NewShippingAddress("1 Main St", "Springfield", "IL", "62701", "US")
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	create := func(orderID, customerID string) order.CreateOrder {
		return order.CreateOrder{
			OrderID: value.OrderID(orderID), CartID: "c1", CheckoutID: "k1", CustomerID: value.CustomerID(customerID),
			Items:           []order.LineItem{{ProductID: "p1", Quantity: 1, UnitPrice: money(t, 10)}},
			TotalAmount:     money(t, 10),
			ShippingAddress: address,
		}
	}
	for _, cmd := range []order.Command{
		create("o1", "u1"),
		create("o2", "u2"),
		create("o3", "u1"),
		order.ConfirmOrder{OrderID: "o1"},
		order.ShipOrder{OrderID: "o1", TrackingNumber: "TRK-1"},
		order.CancelOrder{OrderID: "o2", Reason: "changed mind"},
	} {
		if _, err := f.handlers.Order.Handle(ctx, cmd); err != nil {
			t.Fatalf("%s: %v", cmd.CommandName(), err)
		}
	}
	projector := NewProjector(f.docs, nil)
	if err := projector.HandleBatch(ctx, f.log(t)); err != nil {
		t.Fatalf("batch: %v", err)
	}
	queries := NewQueries(f.docs)

	o1, err := queries.OrderByID(ctx, "o1")
	if err != nil {
		t.Fatalf("order by id: %v", err)
	}
	if o1.Status != string(order.StatusShipped) || o1.TrackingNumber != "TRK-1" || o1.Version != 3 {
		t.Fatalf("o1 = %+v", o1)
	}
	if o1.ShippingAddress.City != "Springfield" || len(o1.Items) != 1 {
		t.Fatalf("o1 = %+v", o1)
	}

	all, err := queries.Orders(ctx)
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	// o2 was cancelled last, then o1 shipped before it, then o3 created.
	if got := orderIDs(all); got != "o2,o1,o3" {
		t.Fatalf("orders = %s", got)
	}
	mine, err := queries.OrdersByCustomer(ctx, "u1")
	if err != nil {
		t.Fatalf("orders by customer: %v", err)
	}
	if got := orderIDs(mine); got != "o1,o3" {
		t.Fatalf("customer orders = %s", got)
	}

	if _, err := queries.OrderByID(ctx, "missing"); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProjectorSkipsOrphanAndForeignEvents(t *testing.T) {
	docs := memory.NewDocumentStore()
	projector := NewProjector(docs, nil)
	ctx := context.Background()

	confirmed, _ := json.Marshal(order.OrderConfirmed{OrderID: "ghost", Status: order.StatusConfirmed})
	events := []event.Recorded{
		{StreamID: "Order-ghost", StreamVersion: 2, Type: order.TypeOrderConfirmed, Data: confirmed},
		{StreamID: "Inventory-x", StreamVersion: 1, Type: "StockReserved", Data: json.RawMessage(`{}`)},
		{StreamID: "ShoppingCart-c9", StreamVersion: 1, Type: "Unknown", Data: json.RawMessage(`{}`)},
	}
	if err := projector.HandleBatch(ctx, events); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if _, err := NewQueries(docs).OrderByID(ctx, "ghost"); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected orphan to be skipped, got %v", err)
	}
}

func TestResetClearsViews(t *testing.T) {
	f := newFixture(t)
	f.cart(t, cart.StartShopping{CartID: "c1", CustomerID: "u1"})
	projector := NewProjector(f.docs, nil)
	ctx := context.Background()
	if err := projector.HandleBatch(ctx, f.log(t)); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if err := projector.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	carts, err := NewQueries(f.docs).Carts(ctx)
	if err != nil {
		t.Fatalf("carts: %v", err)
	}
	if len(carts) != 0 {
		t.Fatalf("carts = %d, want 0", len(carts))
	}
}

func orderIDs(views []OrderView) string {
	out := ""
	for i, v := range views {
		if i > 0 {
			out += ","
		}
		out += v.OrderID
	}
	return out
}
