package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
)

// CatalogService exposes products and categories.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]models.ProductCategory, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.ProductCategory, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, sellerID uuid.UUID, in services.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, actorID, id uuid.UUID, in services.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, actorID, id uuid.UUID) error
}

// ProductHandler manages product and category endpoints.
type ProductHandler struct {
	catalog CatalogService
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(catalog CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []models.ProductCategory{}
	}
	return c.JSON(fiber.Map{"success": true, "data": categories})
}

func (h *ProductHandler) GetCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	category, err := h.catalog.GetCategory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": category})
}

// ListProducts returns every product. The listing may be up to five minutes
// stale.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts(c.UserContext())
	if err != nil {
		return err
	}

	data := make([]fiber.Map, 0, len(products))
	for i := range products {
		data = append(data, productResponse(&products[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": productResponse(product)})
}

type productRequest struct {
	Category    string          `json:"category" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description"`
	Image       string          `json:"image" validate:"omitempty,url"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"min=0"`
}

func (r productRequest) input() (services.ProductInput, error) {
	categoryID, err := parseOptionalID("category", r.Category)
	if err != nil {
		return services.ProductInput{}, err
	}
	return services.ProductInput{
		CategoryID:  categoryID,
		Name:        r.Name,
		Description: r.Description,
		Image:       r.Image,
		Price:       r.Price,
		Quantity:    r.Quantity,
	}, nil
}

// CreateProduct lists a new product sold by the current user.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in, err := req.input()
	if err != nil {
		return err
	}

	product, err := h.catalog.CreateProduct(c.UserContext(), userID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": productResponse(product)})
}

// UpdateProduct is limited to the seller and staff.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req productRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in, err := req.input()
	if err != nil {
		return err
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), userID, id, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": productResponse(product)})
}

// DeleteProduct is limited to the seller and staff.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalog.DeleteProduct(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func productResponse(p *models.Product) fiber.Map {
	data := fiber.Map{
		"id":          p.ID,
		"seller":      p.SellerID,
		"category":    p.CategoryID,
		"name":        p.Name,
		"description": p.Description,
		"image":       p.Image,
		"price":       p.Price.StringFixed(2),
		"quantity":    p.Quantity,
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
	if p.Category != nil {
		data["category_name"] = p.Category.Name
	}
	return data
}
