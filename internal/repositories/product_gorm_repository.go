package repositories

import (
	"errors"
	"fmt"
	"strings"

	"inventario/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database. The ID is assigned by the
// database and never reused.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound when no rows match,
		// so we check RowsAffected.
		return fmt.Errorf("product %d: %w", product.ID, models.ErrProductNotFound)
	}
	return nil
}

// Filter retrieves products matching the filter, ordered by ID.
func (r *GORMProductRepository) Filter(filter ProductFilter) ([]models.Product, error) {
	query := r.db.Model(&models.Product{})
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Query != "" {
		// LOWER on both sides keeps the match case-insensitive on
		// Postgres and SQLite alike.
		query = query.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(filter.Query)+"%")
	}

	var products []models.Product
	if err := query.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}
	return products, nil
}

// ExistsByDescriptionAndReferences reports whether any product, under any
// owner, already carries the given (description, references) pair.
func (r *GORMProductRepository) ExistsByDescriptionAndReferences(description, references string) (bool, error) {
	var count int64
	// Map conditions let GORM quote the column names; "references" is a
	// reserved word in SQL.
	err := r.db.Model(&models.Product{}).
		Where(map[string]interface{}{"description": description, "references": references}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate product: %w", err)
	}
	return count > 0, nil
}

// AdjustStock applies the delta with a single guarded UPDATE, so two
// concurrent mutations on the same product serialize instead of losing an
// update. When the guard rejects the write, the current row is read back to
// tell an overflow from an insufficient-stock rejection.
func (r *GORMProductRepository) AdjustStock(id uint, delta int64) (*models.Product, error) {
	var product models.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Deltas beyond the stock ceiling in either direction can never
		// pass the guard for any in-bounds stock, and evaluating
		// stock + delta for them would overflow bigint. They skip
		// straight to the classification read below.
		if delta <= models.MaxStock && delta >= -models.MaxStock {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock + ? >= 0 AND stock + ? <= ?", id, delta, delta, models.MaxStock).
				Update("stock", gorm.Expr("stock + ?", delta))
			if res.Error != nil {
				return fmt.Errorf("failed to adjust stock for product %d: %w", id, res.Error)
			}
			if res.RowsAffected > 0 {
				return tx.First(&product, "id = ?", id).Error
			}
		}
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
			}
			return fmt.Errorf("failed to get product by ID %d: %w", id, err)
		}
		if delta > 0 {
			return models.ErrStockOverflow
		}
		return models.ErrInsufficientStock
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}
