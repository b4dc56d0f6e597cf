package services_test

import (
	"encoding/json"
	"math"
	"sync"
	"testing"

	"inventario/internal/models"
	"inventario/internal/repositories"
	"inventario/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMovementPublisher is a mock implementation of services.MovementPublisher
type MockMovementPublisher struct {
	mock.Mock
}

func (m *MockMovementPublisher) Publish(body []byte) error {
	args := m.Called(body)
	return args.Error(0)
}

// seedInventory uses the in-memory repository so the stock bounds are
// exercised for real instead of being programmed into a mock.
func seedInventory(t *testing.T) (*repositories.MockProductRepository, *models.Product) {
	t.Helper()
	repo := repositories.NewMockProductRepository()
	product := &models.Product{
		OwnerID:     "owner-1",
		Description: "High performance laptop",
		References:  "LAP 2024",
		Stock:       10,
		Cost:        decimal.RequireFromString("5.00"),
		Price:       decimal.RequireFromString("10.00"),
	}
	assert.NoError(t, repo.Create(product))
	return repo, product
}

func TestInventoryService_StockIn(t *testing.T) {
	repo, product := seedInventory(t)
	publisher := new(MockMovementPublisher)
	publisher.On("Publish", mock.Anything).Return(nil).Once()
	service := services.NewInventoryService(repo, publisher)

	updated, err := service.StockIn("owner-1", product.ID, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(15), updated.Stock)

	// The published event describes the movement that just happened.
	var movement models.StockMovement
	body := publisher.Calls[0].Arguments.Get(0).([]byte)
	assert.NoError(t, json.Unmarshal(body, &movement))
	assert.Equal(t, models.MovementEntrada, movement.Direction)
	assert.Equal(t, int64(5), movement.Quantity)
	assert.Equal(t, int64(15), movement.StockAfter)
	publisher.AssertExpectations(t)
}

func TestInventoryService_StockOut_Insufficient(t *testing.T) {
	repo, product := seedInventory(t)
	publisher := new(MockMovementPublisher)
	service := services.NewInventoryService(repo, publisher)

	updated, err := service.StockOut("owner-1", product.ID, 20)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Nil(t, updated)

	// A rejected mutation leaves stored state unchanged and publishes nothing.
	stored, _ := repo.GetByID(product.ID)
	assert.Equal(t, int64(10), stored.Stock)
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestInventoryService_StockIn_Overflow(t *testing.T) {
	repo, product := seedInventory(t)
	service := services.NewInventoryService(repo, nil)

	_, err := service.StockIn("owner-1", product.ID, models.MaxStock)
	assert.ErrorIs(t, err, models.ErrStockOverflow)

	stored, _ := repo.GetByID(product.ID)
	assert.Equal(t, int64(10), stored.Stock)
}

func TestInventoryService_StockIn_ExtremeQuantityStillOverflows(t *testing.T) {
	repo, product := seedInventory(t)
	service := services.NewInventoryService(repo, nil)

	// A quantity near the int64 limit must classify as an overflow, not
	// wrap around into an insufficient-stock rejection.
	_, err := service.StockIn("owner-1", product.ID, math.MaxInt64)
	assert.ErrorIs(t, err, models.ErrStockOverflow)

	_, err = service.StockIn("owner-1", product.ID, math.MaxInt64-5)
	assert.ErrorIs(t, err, models.ErrStockOverflow)

	stored, _ := repo.GetByID(product.ID)
	assert.Equal(t, int64(10), stored.Stock)
}

// Mirrors the canonical movement sequence: 10 +5 = 15, then a salida of 20
// and an entrada of 2147483630 are both rejected without touching the 15.
func TestInventoryService_MovementSequence(t *testing.T) {
	repo, product := seedInventory(t)
	service := services.NewInventoryService(repo, nil)

	updated, err := service.StockIn("owner-1", product.ID, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(15), updated.Stock)

	_, err = service.StockOut("owner-1", product.ID, 20)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	_, err = service.StockIn("owner-1", product.ID, 2147483630)
	assert.ErrorIs(t, err, models.ErrStockOverflow)

	stored, _ := repo.GetByID(product.ID)
	assert.Equal(t, int64(15), stored.Stock)
}

func TestInventoryService_RepeatedFailuresAreIdempotent(t *testing.T) {
	repo, product := seedInventory(t)
	service := services.NewInventoryService(repo, nil)

	for i := 0; i < 3; i++ {
		_, err := service.StockOut("owner-1", product.ID, 20)
		assert.ErrorIs(t, err, models.ErrInsufficientStock)
	}

	stored, _ := repo.GetByID(product.ID)
	assert.Equal(t, int64(10), stored.Stock)
}

func TestInventoryService_QuantityMustBePositive(t *testing.T) {
	repo, product := seedInventory(t)
	service := services.NewInventoryService(repo, nil)

	_, err := service.StockIn("owner-1", product.ID, 0)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = service.StockOut("owner-1", product.ID, 0)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	// A negative salida must not turn into an entrada.
	_, err = service.StockOut("owner-1", product.ID, -5)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	stored, _ := repo.GetByID(product.ID)
	assert.Equal(t, int64(10), stored.Stock)
}

func TestInventoryService_NotOwner(t *testing.T) {
	repo, product := seedInventory(t)
	service := services.NewInventoryService(repo, nil)

	_, err := service.StockIn("intruder", product.ID, 5)
	assert.ErrorIs(t, err, models.ErrNotOwner)

	_, err = service.StockOut("intruder", product.ID, 5)
	assert.ErrorIs(t, err, models.ErrNotOwner)

	stored, _ := repo.GetByID(product.ID)
	assert.Equal(t, int64(10), stored.Stock)
}

func TestInventoryService_ProductNotFound(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewInventoryService(repo, nil)

	_, err := service.StockIn("owner-1", 99, 5)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

// Two concurrent movements on the same product serialize rather than lose an
// update: the final stock is exactly the sum of the applied deltas.
func TestInventoryService_ConcurrentMovementsSerialize(t *testing.T) {
	const entradas = 50
	const salidas = 30

	// Enough starting stock that no salida can fail regardless of the
	// order the goroutines land in.
	repo := repositories.NewMockProductRepository()
	product := &models.Product{
		OwnerID:     "owner-1",
		Description: "Ergonomic wireless mouse",
		References:  "MOU 1",
		Stock:       salidas,
		Cost:        decimal.RequireFromString("5.00"),
		Price:       decimal.RequireFromString("10.00"),
	}
	assert.NoError(t, repo.Create(product))
	service := services.NewInventoryService(repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < entradas; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.StockIn("owner-1", product.ID, 1)
			assert.NoError(t, err)
		}()
	}
	for i := 0; i < salidas; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.StockOut("owner-1", product.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(entradas), stored.Stock)
}

func TestInventoryService_PublishFailureDoesNotFailMutation(t *testing.T) {
	repo, product := seedInventory(t)
	publisher := new(MockMovementPublisher)
	publisher.On("Publish", mock.Anything).Return(assert.AnError).Once()
	service := services.NewInventoryService(repo, publisher)

	updated, err := service.StockIn("owner-1", product.ID, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(15), updated.Stock)
	publisher.AssertExpectations(t)
}
