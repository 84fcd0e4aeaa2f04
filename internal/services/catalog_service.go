package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

// maxPrice is the first value that no longer fits numeric(10,2).
var maxPrice = decimal.New(1, 8)

// ProductStore persists products and categories.
type ProductStore interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, product *models.Product) error
	ListCategories(ctx context.Context) ([]models.ProductCategory, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.ProductCategory, error)
}

// ProductListing returns the full product listing, possibly from cache.
type ProductListing interface {
	List(ctx context.Context) ([]models.Product, error)
}

// CatalogService exposes products and categories.
type CatalogService struct {
	products ProductStore
	listing  ProductListing
	users    UserStore
	log      *zap.Logger
}

func NewCatalogService(products ProductStore, listing ProductListing, users UserStore, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{products: products, listing: listing, users: users, log: log}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.ProductCategory, error) {
	return s.products.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*models.ProductCategory, error) {
	return s.products.FindCategory(ctx, id)
}

// ListProducts serves the listing through the product list cache.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.listing.List(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.products.FindProduct(ctx, id)
}

type ProductInput struct {
	CategoryID  *uuid.UUID
	Name        string
	Description string
	Image       string
	Price       decimal.Decimal
	Quantity    int
}

// CreateProduct stores a product sold by sellerID.
func (s *CatalogService) CreateProduct(ctx context.Context, sellerID uuid.UUID, in ProductInput) (*models.Product, error) {
	product := &models.Product{SellerID: sellerID}
	if err := s.apply(ctx, product, in); err != nil {
		return nil, err
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.Info("product created", zap.String("product_id", product.ID.String()),
		zap.String("seller_id", sellerID.String()))
	return product, nil
}

// UpdateProduct replaces the product's fields. Only the seller or staff may
// change it.
func (s *CatalogService) UpdateProduct(ctx context.Context, actorID, id uuid.UUID, in ProductInput) (*models.Product, error) {
	product, err := s.editable(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, product, in); err != nil {
		return nil, err
	}
	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, actorID, id uuid.UUID) error {
	product, err := s.editable(ctx, actorID, id)
	if err != nil {
		return err
	}
	return s.products.DeleteProduct(ctx, product)
}

func (s *CatalogService) editable(ctx context.Context, actorID, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID == actorID {
		return product, nil
	}

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if !actor.IsStaff {
		return nil, ErrForbidden
	}
	return product, nil
}

func (s *CatalogService) apply(ctx context.Context, product *models.Product, in ProductInput) error {
	if in.Price.IsNegative() {
		return NewValidationError("price", "Ensure this value is greater than or equal to 0.")
	}
	if !in.Price.Equal(in.Price.Truncate(2)) {
		return NewValidationError("price", "Ensure that there are no more than 2 decimal places.")
	}
	if in.Price.GreaterThanOrEqual(maxPrice) {
		return NewValidationError("price", "Ensure that there are no more than 10 digits in total.")
	}
	if in.Quantity < 0 {
		return NewValidationError("quantity", "Ensure this value is greater than or equal to 0.")
	}
	if in.CategoryID != nil {
		category, err := s.products.FindCategory(ctx, *in.CategoryID)
		if errors.Is(err, repository.ErrNotFound) {
			return NewValidationError("category", "Invalid category.")
		}
		if err != nil {
			return err
		}
		product.Category = category
	} else {
		product.Category = nil
	}

	product.CategoryID = in.CategoryID
	product.Name = in.Name
	product.Description = in.Description
	product.Image = in.Image
	product.Price = in.Price
	product.Quantity = in.Quantity
	return nil
}
