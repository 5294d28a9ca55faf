package value

// MoneyData is the serializable form of Money used in event payloads.
type MoneyData struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Data returns the plain form of m.
func (m Money) Data() MoneyData {
	return MoneyData{Amount: m.amount, Currency: m.currency}
}

// Money validates d back into a Money.
func (d MoneyData) Money() (Money, error) {
	return NewMoney(d.Amount, d.Currency)
}

// IsZero reports whether d carries no currency and no amount.
func (d MoneyData) IsZero() bool {
	return d.Currency == "" && d.Amount == 0
}
