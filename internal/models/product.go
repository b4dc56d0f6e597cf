package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxStock is the stock ceiling: the largest stock count a product may hold.
const MaxStock int64 = 2147483647

// Product represents a product in a user's inventory.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID     string          `json:"owner_id" gorm:"type:varchar(36);index;not null"`
	Description string          `json:"description" gorm:"type:varchar(255)"`
	References  string          `json:"references" gorm:"type:varchar(100)"`
	Stock       int64           `json:"stock"`
	Cost        decimal.Decimal `json:"cost" gorm:"type:decimal(10,2)"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductFields carries the caller-editable fields of a product. The owner
// and the ID are never taken from a request payload.
type ProductFields struct {
	Description string          `json:"description"`
	References  string          `json:"references"`
	Stock       int64           `json:"stock"`
	Cost        decimal.Decimal `json:"cost"`
	Price       decimal.Decimal `json:"price"`
}

// Apply copies the editable fields onto the product.
func (f ProductFields) Apply(p *Product) {
	p.Description = f.Description
	p.References = f.References
	p.Stock = f.Stock
	p.Cost = f.Cost
	p.Price = f.Price
}

// OwnedBy reports whether the product belongs to the given user.
func (p *Product) OwnedBy(userID string) bool {
	return p.OwnerID == userID
}
