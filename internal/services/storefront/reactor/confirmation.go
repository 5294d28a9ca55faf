package reactor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/storefront/internal/platform/logging"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/order"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
	"github.com/louisbranch/storefront/internal/services/storefront/projection"
)

// SubscriptionName is the checkpoint name of the confirmation reactor.
const SubscriptionName = "storefront-order-confirmation"

// OrderReader loads projected orders.
type OrderReader interface {
	OrderByID(ctx context.Context, orderID string) (projection.OrderView, error)
}

// OrderConfirmation notifies customers when their order is confirmed.
//
// It reads the order view, so it depends on the projection having seen the
// order's creation. A missing view fails the batch and it is retried.
type OrderConfirmation struct {
	orders  OrderReader
	mailer  Mailer
	printer *message.Printer
	log     *logging.Logger
}

// NewOrderConfirmation creates the reactor with an English printer.
func NewOrderConfirmation(orders OrderReader, mailer Mailer, log *logging.Logger) *OrderConfirmation {
	return &OrderConfirmation{
		orders:  orders,
		mailer:  mailer,
		printer: message.NewPrinter(language.English),
		log:     logging.OrNop(log).Named("reactor"),
	}
}

// HandleBatch sends one message per OrderConfirmed event.
func (r *OrderConfirmation) HandleBatch(ctx context.Context, events []event.Recorded) error {
	for _, rec := range events {
		if rec.Category() != event.CategoryOrder || rec.Type != order.TypeOrderConfirmed {
			continue
		}
		_, orderID := event.SplitStreamID(rec.StreamID)
		view, err := r.orders.OrderByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("load order %s: %w", orderID, err)
		}
		msg, err := r.Render(ctx, view)
		if err != nil {
			return fmt.Errorf("render confirmation %s: %w", orderID, err)
		}
		if err := r.mailer.Send(ctx, msg); err != nil {
			return fmt.Errorf("send confirmation %s: %w", orderID, err)
		}
		r.log.Debug("order confirmation sent", "order_id", orderID, "position", rec.GlobalPosition)
	}
	return nil
}

// Render builds the text and HTML bodies for one order.
func (r *OrderConfirmation) Render(ctx context.Context, view projection.OrderView) (Message, error) {
	p := r.printer
	ev := emailView{
		Title:    p.Sprintf(keyConfirmedSubject, view.OrderID),
		Greeting: p.Sprintf(keyConfirmedGreet, view.OrderID),
		Total:    p.Sprintf(keyConfirmedTotal, formatAmount(p, view.TotalAmount)),
		ShipTo:   p.Sprintf(keyConfirmedShip, formatAddress(view.ShippingAddress)),
	}

	var text strings.Builder
	text.WriteString(ev.Greeting)
	text.WriteString("\n\n")
	for _, item := range view.Items {
		price := formatAmount(p, item.UnitPrice)
		ev.Lines = append(ev.Lines, emailLine{
			Item:  p.Sprintf("%d x %s", item.Quantity, item.ProductID),
			Price: price,
		})
		text.WriteString(p.Sprintf(keyConfirmedItem, item.Quantity, item.ProductID, price))
		text.WriteString("\n")
	}
	text.WriteString("\n")
	text.WriteString(ev.Total)
	text.WriteString("\n")
	text.WriteString(ev.ShipTo)
	text.WriteString("\n")

	var html bytes.Buffer
	if err := confirmationEmail(ev).Render(ctx, &html); err != nil {
		return Message{}, err
	}
	return Message{
		CustomerID: view.CustomerID,
		OrderID:    view.OrderID,
		Subject:    ev.Title,
		Text:       text.String(),
		HTML:       html.String(),
	}, nil
}

func formatAmount(p *message.Printer, m value.MoneyData) string {
	unit, err := currency.ParseISO(m.Currency)
	if err != nil {
		return p.Sprintf("%.2f %s", m.Amount, m.Currency)
	}
	return p.Sprint(currency.Symbol(unit.Amount(m.Amount)))
}

func formatAddress(a projection.AddressView) string {
	parts := make([]string, 0, 5)
	for _, part := range []string{a.Street, a.City, a.State, a.ZipCode, a.Country} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}
