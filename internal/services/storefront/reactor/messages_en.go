package reactor

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	keyConfirmedSubject = "order.confirmed.subject"
	keyConfirmedGreet   = "order.confirmed.greeting"
	keyConfirmedItem    = "order.confirmed.item"
	keyConfirmedTotal   = "order.confirmed.total"
	keyConfirmedShip    = "order.confirmed.ship_to"
)

func init() {
	lang := language.English

	message.SetString(lang, keyConfirmedSubject, "Your order %s is confirmed")
	message.SetString(lang, keyConfirmedGreet, "Thanks for your order. We have confirmed order %s.")
	message.SetString(lang, keyConfirmedItem, "%d x %s at %s")
	message.SetString(lang, keyConfirmedTotal, "Total: %s")
	message.SetString(lang, keyConfirmedShip, "Ships to: %s")
}
