package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a completed checkout. Cart and Total keep the keys used by
// users.json files written before ids existed, so older files still load.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	Cart      Cart            `json:"cart"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// UnmarshalJSON decodes a transaction. Records saved without an id are given
// a fresh one so every loaded transaction stays distinct.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type plain Transaction
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	*t = Transaction(p)
	return nil
}

// Items lists the purchased lines.
func (t Transaction) Items() []CartItem { return t.Cart.Items() }

// CheckoutSummary is what a successful checkout reports back.
type CheckoutSummary struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
}
