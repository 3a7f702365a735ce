package service

import (
	"context"

	"github.com/shopspring/decimal"

	models "shop-simulator/model"
)

// ServiceInterface is what the menu and HTTP dispatchers call.
type ServiceInterface interface {
	Login(ctx context.Context, userID string) (AccountDTO, bool, error)
	ListProducts() []models.Product
	AddToCart(ctx context.Context, userID, product string, qty int) error
	RemoveFromCart(ctx context.Context, userID, product string) (models.CartItem, error)
	GetCart(ctx context.Context, userID string) ([]models.CartItem, decimal.Decimal, error)
	ClearCart(ctx context.Context, userID string) (bool, error)
	Checkout(ctx context.Context, userID string) (models.CheckoutSummary, error)
	History(ctx context.Context, userID string) ([]models.Transaction, error)
	Save(ctx context.Context) error
}

var _ ServiceInterface = (*Service)(nil)
