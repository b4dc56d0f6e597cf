package repositories_test

import (
	"fmt"
	"math"
	"testing"

	"inventario/internal/models"
	"inventario/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupDB opens a per-test in-memory SQLite database. The name keeps
// connections from the pool pointed at the same database.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func newProduct(ownerID, description, references string, stock int64) *models.Product {
	return &models.Product{
		OwnerID:     ownerID,
		Description: description,
		References:  references,
		Stock:       stock,
		Cost:        decimal.RequireFromString("5.00"),
		Price:       decimal.RequireFromString("10.00"),
	}
}

func TestGORMProductRepository_CreateAssignsID(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))

	first := newProduct("owner-1", "Laptop", "LAP 1", 10)
	second := newProduct("owner-1", "Keyboard", "KEY 1", 25)
	assert.NoError(t, repo.Create(first))
	assert.NoError(t, repo.Create(second))

	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	got, err := repo.GetByID(first.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Laptop", got.Description)
	assert.True(t, got.Cost.Equal(decimal.RequireFromString("5.00")))
}

func TestGORMProductRepository_GetByID_NotFound(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))

	_, err := repo.GetByID(42)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestGORMProductRepository_Filter(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))

	assert.NoError(t, repo.Create(newProduct("owner-1", "High performance laptop", "LAP 1", 10)))
	assert.NoError(t, repo.Create(newProduct("owner-1", "Mechanical keyboard", "KEY 1", 25)))
	assert.NoError(t, repo.Create(newProduct("owner-2", "Laptop stand", "STA 1", 5)))

	// Owner-scoped, case-insensitive substring match.
	products, err := repo.Filter(repositories.ProductFilter{OwnerID: "owner-1", Query: "LAPTOP"})
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "High performance laptop", products[0].Description)

	// Empty query returns the owner's whole collection.
	products, err = repo.Filter(repositories.ProductFilter{OwnerID: "owner-1"})
	assert.NoError(t, err)
	assert.Len(t, products, 2)

	// No owner scope matches across all owners.
	products, err = repo.Filter(repositories.ProductFilter{Query: "laptop"})
	assert.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestGORMProductRepository_ExistsByDescriptionAndReferences(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))

	assert.NoError(t, repo.Create(newProduct("owner-1", "Laptop", "LAP 1", 10)))

	exists, err := repo.ExistsByDescriptionAndReferences("Laptop", "LAP 1")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByDescriptionAndReferences("Laptop", "LAP 2")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestGORMProductRepository_AdjustStock(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))

	product := newProduct("owner-1", "Laptop", "LAP 1", 10)
	assert.NoError(t, repo.Create(product))

	updated, err := repo.AdjustStock(product.ID, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(15), updated.Stock)

	updated, err = repo.AdjustStock(product.ID, -15)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), updated.Stock)
}

func TestGORMProductRepository_AdjustStock_Bounds(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))

	product := newProduct("owner-1", "Laptop", "LAP 1", 15)
	assert.NoError(t, repo.Create(product))

	_, err := repo.AdjustStock(product.ID, -20)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	_, err = repo.AdjustStock(product.ID, 2147483630)
	assert.ErrorIs(t, err, models.ErrStockOverflow)

	// Rejected adjustments never touch the stored row.
	stored, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(15), stored.Stock)

	_, err = repo.AdjustStock(99, 1)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestGORMProductRepository_AdjustStock_ExtremeDeltas(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))

	product := newProduct("owner-1", "Laptop", "LAP 1", 10)
	assert.NoError(t, repo.Create(product))

	// Deltas near the int64 limits must classify by direction instead of
	// wrapping around or overflowing the stock column arithmetic.
	_, err := repo.AdjustStock(product.ID, math.MaxInt64)
	assert.ErrorIs(t, err, models.ErrStockOverflow)

	_, err = repo.AdjustStock(product.ID, -math.MaxInt64)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	stored, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), stored.Stock)
}

func TestGORMProductRepository_Update(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))

	product := newProduct("owner-1", "Laptop", "LAP 1", 10)
	assert.NoError(t, repo.Create(product))

	product.Description = "Refurbished laptop"
	assert.NoError(t, repo.Update(product))

	got, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Refurbished laptop", got.Description)
}
