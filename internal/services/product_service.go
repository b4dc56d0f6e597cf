package services

import (
	"fmt"

	"inventario/internal/models"
	"inventario/internal/repositories"
)

// ProductService handles registration, editing and lookup of products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// RegisterProduct validates the candidate fields and persists a new product
// owned by ownerID. All violated constraints are returned together as a
// models.ValidationErrors; nothing is persisted unless every check passes.
func (s *ProductService) RegisterProduct(ownerID string, fields models.ProductFields) (*models.Product, error) {
	verrs := models.ValidateProductFields(fields)

	// The duplicate check spans all owners and applies on creation only.
	exists, err := s.repo.ExistsByDescriptionAndReferences(fields.Description, fields.References)
	if err != nil {
		return nil, fmt.Errorf("failed to check product uniqueness: %w", err)
	}
	if exists {
		verrs = append(verrs, models.FieldError{
			Field:   "description",
			Message: "a product with this description and references already exists",
		})
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	product := &models.Product{OwnerID: ownerID}
	fields.Apply(product)
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product, confirming it belongs to the caller.
func (s *ProductService) GetProduct(userID string, productID uint) (*models.Product, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(userID) {
		return nil, models.ErrNotOwner
	}
	return product, nil
}

// EditProduct re-validates the editable fields and persists them onto an
// existing product owned by the caller. The duplicate check is not re-run on
// edit; only creation enforces it.
func (s *ProductService) EditProduct(userID string, productID uint, fields models.ProductFields) (*models.Product, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(userID) {
		return nil, models.ErrNotOwner
	}

	if verrs := models.ValidateProductFields(fields); len(verrs) > 0 {
		return nil, verrs
	}

	fields.Apply(product)
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// SearchProducts returns the caller's products whose description contains the
// query, case-insensitively. An empty query returns all of the caller's
// products.
func (s *ProductService) SearchProducts(ownerID, query string) ([]models.Product, error) {
	return s.repo.Filter(repositories.ProductFilter{OwnerID: ownerID, Query: query})
}

// ListAllProducts returns matching products across all owners. Kept as a
// separate operation from SearchProducts; the two deliberately differ in
// scope.
func (s *ProductService) ListAllProducts(query string) ([]models.Product, error) {
	return s.repo.Filter(repositories.ProductFilter{Query: query})
}
