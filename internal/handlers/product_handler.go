package handlers

import (
	"fmt"
	"log"

	"inventario/internal/middleware"
	"inventario/internal/models"
	"inventario/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products and stock movements.
type ProductHandler struct {
	productService   *services.ProductService
	inventoryService *services.InventoryService
	authService      *services.AuthService
	validate         *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, inventoryService *services.InventoryService, authService *services.AuthService) *ProductHandler {
	return &ProductHandler{
		productService:   productService,
		inventoryService: inventoryService,
		authService:      authService,
		validate:         validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Every
// product operation requires an authenticated caller.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products", middleware.AuthRequired(h.authService))
	productRoutes.Post("/", h.HandleRegisterProduct)
	productRoutes.Get("/", h.HandleSearchProducts)
	productRoutes.Get("/all", h.HandleListAllProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Put("/:id", h.HandleEditProduct)
	productRoutes.Post("/:id/entrada", h.HandleStockIn)
	productRoutes.Post("/:id/salida", h.HandleStockOut)
}

// HandleRegisterProduct creates a new product owned by the caller.
func (h *ProductHandler) HandleRegisterProduct(c *fiber.Ctx) error {
	var fields models.ProductFields
	if err := c.BodyParser(&fields); err != nil {
		log.Printf("Error parsing register product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.productService.RegisterProduct(currentUserID(c), fields)
	if err != nil {
		log.Printf("Error registering product: %v", err)
		return respondServiceError(c, err, "Could not register product")
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleSearchProducts lists the caller's products, optionally filtered by a
// case-insensitive substring match on the description (?q=).
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	products, err := h.productService.SearchProducts(currentUserID(c), c.Query("q"))
	if err != nil {
		log.Printf("Error searching products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleListAllProducts lists matching products across all owners.
func (h *ProductHandler) HandleListAllProducts(c *fiber.Ctx) error {
	products, err := h.productService.ListAllProducts(c.Query("q"))
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product owned by the caller.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("id")
	if err != nil || productID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	product, err := h.productService.GetProduct(currentUserID(c), uint(productID))
	if err != nil {
		log.Printf("Error getting product %d: %v", productID, err)
		return respondServiceError(c, err, fmt.Sprintf("Could not retrieve product %d", productID))
	}
	return c.JSON(product)
}

// HandleEditProduct updates a product's editable fields, re-validating them.
func (h *ProductHandler) HandleEditProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("id")
	if err != nil || productID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	var fields models.ProductFields
	if err := c.BodyParser(&fields); err != nil {
		log.Printf("Error parsing edit product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.productService.EditProduct(currentUserID(c), uint(productID), fields)
	if err != nil {
		log.Printf("Error editing product %d: %v", productID, err)
		return respondServiceError(c, err, fmt.Sprintf("Could not edit product %d", productID))
	}
	return c.JSON(product)
}

// MovementRequest represents the request body for entrada and salida.
type MovementRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gte=1"`
}

// HandleStockIn adds units to a product's stock (entrada).
func (h *ProductHandler) HandleStockIn(c *fiber.Ctx) error {
	return h.handleMovement(c, h.inventoryService.StockIn, "Could not add stock")
}

// HandleStockOut removes units from a product's stock (salida).
func (h *ProductHandler) HandleStockOut(c *fiber.Ctx) error {
	return h.handleMovement(c, h.inventoryService.StockOut, "Could not remove stock")
}

func (h *ProductHandler) handleMovement(c *fiber.Ctx, mutate func(string, uint, int64) (*models.Product, error), failMessage string) error {
	productID, err := c.ParamsInt("id")
	if err != nil || productID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	var req MovementRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing movement request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	product, err := mutate(currentUserID(c), uint(productID), req.Quantity)
	if err != nil {
		log.Printf("Error mutating stock for product %d: %v", productID, err)
		return respondServiceError(c, err, failMessage)
	}
	return c.JSON(product)
}
