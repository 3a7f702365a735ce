package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	models "shop-simulator/model"
)

// TaxRate is the flat GST surcharge applied to every checkout subtotal.
var TaxRate = decimal.RequireFromString("0.18")

// DefaultStartingBalance is credited to accounts on first login.
var DefaultStartingBalance = decimal.NewFromInt(100000)

// Engine implements every cart, stock and checkout transition. It keeps no
// state of its own: the catalog and accounts are passed in on each call, and
// it does no locking.
type Engine struct {
	StartingBalance decimal.Decimal
	Now             func() time.Time
	NewID           func() uuid.UUID

	log *zap.Logger
}

// NewEngine returns an engine with the default starting balance.
// A nil logger discards output.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		StartingBalance: DefaultStartingBalance,
		Now:             time.Now,
		NewID:           uuid.New,
		log:             log,
	}
}

// InitializeUser returns the account for username, creating it with the
// starting balance when absent. created reports whether it was new.
func (e *Engine) InitializeUser(username string, users *models.Users) (acct *models.UserAccount, created bool) {
	if acct, ok := users.Get(username); ok {
		return acct, false
	}
	acct = models.NewUserAccount(e.StartingBalance)
	users.Put(username, acct)
	e.log.Info("user created", zap.String("user", username), zap.String("balance", acct.Balance.String()))
	return acct, true
}

// ListProducts snapshots the catalog in stored order.
func (e *Engine) ListProducts(catalog *models.Catalog) []models.Product {
	return catalog.Products()
}

// AddToCart reserves qty units of product for the account. The unit price is
// fixed by the first add; later adds only grow the quantity.
func (e *Engine) AddToCart(acct *models.UserAccount, catalog *models.Catalog, product string, qty int) error {
	p, ok := catalog.Get(product)
	if !ok {
		return fmt.Errorf("%w: %q", ErrProductNotFound, product)
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if qty > p.Quantity {
		return fmt.Errorf("%w: %d requested, %d left", ErrInsufficientStock, qty, p.Quantity)
	}

	if line, ok := acct.Cart.Line(product); ok {
		line.Quantity += qty
	} else {
		acct.Cart.Put(product, models.CartLine{Quantity: qty, UnitPrice: p.Price})
	}
	p.Quantity -= qty

	e.log.Debug("stock reserved", zap.String("product", product), zap.Int("quantity", qty), zap.Int("stock_left", p.Quantity))
	return nil
}

// RemoveFromCart drops a single line and returns its quantity to the catalog.
func (e *Engine) RemoveFromCart(acct *models.UserAccount, catalog *models.Catalog, product string) (models.CartItem, error) {
	line, ok := acct.Cart.Line(product)
	if !ok {
		return models.CartItem{}, fmt.Errorf("%w: %q", ErrNotInCart, product)
	}
	item := models.CartItem{Name: product, Quantity: line.Quantity, UnitPrice: line.UnitPrice}
	e.restock(catalog, product, line.Quantity)
	acct.Cart.Remove(product)
	return item, nil
}

// ViewCart lists the cart lines in insertion order. Empty carts yield an
// empty, non-nil slice.
func (e *Engine) ViewCart(acct *models.UserAccount) []models.CartItem {
	return acct.Cart.Items()
}

// CartTotal is the untaxed value of the cart.
func (e *Engine) CartTotal(acct *models.UserAccount) decimal.Decimal {
	return acct.Cart.Subtotal()
}

// ClearCart returns every reserved unit to the catalog and empties the cart.
// It reports false when the cart was already empty.
func (e *Engine) ClearCart(acct *models.UserAccount, catalog *models.Catalog) bool {
	if acct.Cart.IsEmpty() {
		return false
	}
	for _, it := range acct.Cart.Items() {
		e.restock(catalog, it.Name, it.Quantity)
	}
	acct.Cart.Empty()
	return true
}

// Checkout charges the cart subtotal plus tax to the balance, records the
// transaction and empties the cart.
//
// When the balance does not cover the total nothing changes, and the stock
// reserved by the cart stays reserved.
func (e *Engine) Checkout(acct *models.UserAccount) (models.CheckoutSummary, error) {
	if acct.Cart.IsEmpty() {
		return models.CheckoutSummary{}, ErrEmptyCart
	}

	subtotal := acct.Cart.Subtotal()
	tax := subtotal.Mul(TaxRate)
	total := subtotal.Add(tax)

	if acct.Balance.LessThan(total) {
		return models.CheckoutSummary{}, fmt.Errorf("%w: need %s, have %s",
			ErrInsufficientBalance, models.FormatAmount(total), models.FormatAmount(acct.Balance))
	}

	tx := models.Transaction{
		ID:        e.NewID(),
		Cart:      *acct.Cart.Clone(),
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
		CreatedAt: e.Now().UTC(),
	}
	acct.Balance = acct.Balance.Sub(total)
	acct.Transactions = append(acct.Transactions, tx)
	acct.Cart.Empty()

	e.log.Info("checkout complete",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("total", total.StringFixed(2)),
		zap.String("balance", acct.Balance.StringFixed(2)))

	return models.CheckoutSummary{TransactionID: tx.ID, Subtotal: subtotal, Tax: tax, Total: total}, nil
}

// History returns a deep copy of the account's completed checkouts, oldest
// first. Recorded transactions cannot be changed through the result.
func (e *Engine) History(acct *models.UserAccount) []models.Transaction {
	out := append([]models.Transaction{}, acct.Transactions...)
	for i := range out {
		out[i].Cart = *out[i].Cart.Clone()
	}
	return out
}

// restock puts quantity back on the shelf. Lines for products that have since
// disappeared from the catalog are dropped without restocking.
func (e *Engine) restock(catalog *models.Catalog, product string, qty int) {
	p, ok := catalog.Get(product)
	if !ok {
		e.log.Warn("cart line for unknown product", zap.String("product", product), zap.Int("quantity", qty))
		return
	}
	p.Quantity += qty
}
