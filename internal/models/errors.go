package models

import "errors"

// Business-rule rejections and lookup failures. Services return these (or wrap
// them with %w) so handlers can map them to status codes with errors.Is.
var (
	// ErrStockOverflow is returned when a stock-in would push the stock
	// count past MaxStock.
	ErrStockOverflow = errors.New("stock would exceed the maximum allowed")

	// ErrInsufficientStock is returned when a stock-out asks for more units
	// than are in stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity is returned for stock movements of less than one unit.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrNotOwner is returned when a caller operates on a product that
	// belongs to someone else.
	ErrNotOwner = errors.New("product does not belong to this user")

	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")

	// ErrDuplicateUser is returned on signup when the username is taken.
	ErrDuplicateUser = errors.New("username already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")
)
