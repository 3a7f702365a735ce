package service

import "errors"

// Errors returned by the engine. They are operator-facing and never fatal;
// match them with errors.Is.
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrInsufficientStock   = errors.New("not enough stock available")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotInCart           = errors.New("product not in cart")
	ErrUserRequired        = errors.New("username required")
)
