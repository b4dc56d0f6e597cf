package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"inventario/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// The mutex serializes stock adjustments the way the database row lock does.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
	}
	return &product, nil
}

// Create adds a new product, assigning the next free ID.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	} else if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product %d: %w", product.ID, models.ErrProductNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Filter returns products matching the filter, ordered by ID.
func (r *MockProductRepository) Filter(filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.OwnerID != "" && p.OwnerID != filter.OwnerID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// ExistsByDescriptionAndReferences reports whether any product carries the
// given (description, references) pair.
func (r *MockProductRepository) ExistsByDescriptionAndReferences(description, references string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Description == description && p.References == references {
			return true, nil
		}
	}
	return false, nil
}

// AdjustStock applies the delta under the write lock, rejecting deltas that
// would break the stock bounds without changing stored state.
func (r *MockProductRepository) AdjustStock(id uint, delta int64) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
	}

	// Bounds are classified before the addition: stock is in [0, MaxStock],
	// so these subtractions cannot overflow, while stock + delta can wrap
	// around for deltas near the int64 limits.
	if delta > models.MaxStock-product.Stock {
		return nil, models.ErrStockOverflow
	}
	if delta < -product.Stock {
		return nil, models.ErrInsufficientStock
	}

	product.Stock += delta
	r.products[id] = product
	return &product, nil
}
