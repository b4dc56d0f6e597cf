package services

import (
	"encoding/json"
	"log"
	"time"

	"inventario/internal/models"
	"inventario/internal/repositories"
)

// MovementPublisher publishes stock-movement events. Publishing is
// best-effort; a failed publish never fails the mutation that triggered it.
type MovementPublisher interface {
	Publish(body []byte) error
}

// InventoryService applies entrada (stock-in) and salida (stock-out)
// mutations to a product's stock count.
type InventoryService struct {
	repo      repositories.ProductRepository
	publisher MovementPublisher
}

// NewInventoryService creates a new InventoryService. The publisher may be
// nil, in which case movement events are skipped.
func NewInventoryService(repo repositories.ProductRepository, publisher MovementPublisher) *InventoryService {
	return &InventoryService{
		repo:      repo,
		publisher: publisher,
	}
}

// StockIn adds quantity units to the product's stock. It fails with
// models.ErrStockOverflow when the result would exceed models.MaxStock,
// leaving stored state unchanged.
func (s *InventoryService) StockIn(userID string, productID uint, quantity int64) (*models.Product, error) {
	return s.adjust(userID, productID, quantity, models.MovementEntrada)
}

// StockOut removes quantity units from the product's stock. It fails with
// models.ErrInsufficientStock when quantity exceeds the current stock,
// leaving stored state unchanged.
func (s *InventoryService) StockOut(userID string, productID uint, quantity int64) (*models.Product, error) {
	return s.adjust(userID, productID, quantity, models.MovementSalida)
}

func (s *InventoryService) adjust(userID string, productID uint, quantity int64, direction string) (*models.Product, error) {
	if quantity < 1 {
		return nil, models.ErrInvalidQuantity
	}
	delta := quantity
	if direction == models.MovementSalida {
		delta = -quantity
	}

	// Ownership is checked against the current record before mutating.
	// The owner of a product never changes, so the check cannot race with
	// the adjustment below.
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(userID) {
		return nil, models.ErrNotOwner
	}

	updated, err := s.repo.AdjustStock(productID, delta)
	if err != nil {
		return nil, err
	}

	s.publishMovement(models.StockMovement{
		ProductID:  updated.ID,
		OwnerID:    updated.OwnerID,
		Direction:  direction,
		Quantity:   quantity,
		StockAfter: updated.Stock,
		OccurredAt: time.Now(),
	})
	return updated, nil
}

func (s *InventoryService) publishMovement(movement models.StockMovement) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(movement)
	if err != nil {
		log.Printf("Failed to marshal stock movement to JSON: %v", err)
		return
	}
	if err := s.publisher.Publish(body); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %d: %v", movement.Direction, movement.ProductID, err)
	}
}
