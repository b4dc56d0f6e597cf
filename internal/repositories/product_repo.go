package repositories

import (
	"inventario/internal/models"
)

// ProductFilter narrows a product listing. A zero value matches everything.
type ProductFilter struct {
	OwnerID string // empty matches all owners
	Query   string // case-insensitive substring on description; empty matches all
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Filter(filter ProductFilter) ([]models.Product, error)
	ExistsByDescriptionAndReferences(description, references string) (bool, error)
	// AdjustStock applies a stock delta atomically with respect to the
	// single product row: the read-modify-write is never interleaved with
	// another mutation on the same product. It returns
	// models.ErrStockOverflow or models.ErrInsufficientStock without
	// changing stored state when the delta would break the stock bounds.
	AdjustStock(id uint, delta int64) (*models.Product, error)
}
