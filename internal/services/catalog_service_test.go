package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

type staticListing []models.Product

func (l staticListing) List(context.Context) ([]models.Product, error) { return l, nil }

func TestCreateProductSetsSeller(t *testing.T) {
	products := new(MockProductStore)
	store := newMemStore()
	svc := NewCatalogService(products, staticListing(nil), store, nil)
	ctx := context.Background()
	seller := uuid.New()
	categoryID := uuid.New()
	category := &models.ProductCategory{Name: "Books"}

	products.On("FindCategory", ctx, categoryID).Return(category, nil).Once()
	products.On("CreateProduct", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := svc.CreateProduct(ctx, seller, ProductInput{
		CategoryID: &categoryID,
		Name:       "Notebook",
		Price:      decimal.RequireFromString("3.50"),
		Quantity:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, seller, product.SellerID)
	assert.Equal(t, category, product.Category)
	assert.Equal(t, "3.5", product.Price.String())
	products.AssertExpectations(t)
}

func TestProductInputValidation(t *testing.T) {
	products := new(MockProductStore)
	svc := NewCatalogService(products, staticListing(nil), newMemStore(), nil)
	ctx := context.Background()
	missing := uuid.New()

	products.On("FindCategory", ctx, missing).Return(nil, repository.ErrNotFound).Once()

	tests := []struct {
		name  string
		in    ProductInput
		field string
	}{
		{"negative price", ProductInput{Price: decimal.NewFromInt(-1)}, "price"},
		{"three places", ProductInput{Price: decimal.RequireFromString("1.005")}, "price"},
		{"too many digits", ProductInput{Price: decimal.RequireFromString("100000000")}, "price"},
		{"negative quantity", ProductInput{Quantity: -1}, "quantity"},
		{"unknown category", ProductInput{CategoryID: &missing}, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, uuid.New(), tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
	products.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestProductEditPermissions(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	seller := registeredUser(t, store)
	stranger := registeredUser(t, store)
	staff := registeredUser(t, store)
	staff.IsStaff = true

	existing := func() *models.Product {
		return &models.Product{BaseModel: models.BaseModel{ID: uuid.New()}, SellerID: seller.ID, Name: "Lamp"}
	}

	t.Run("stranger is forbidden", func(t *testing.T) {
		products := new(MockProductStore)
		svc := NewCatalogService(products, staticListing(nil), store, nil)
		p := existing()
		products.On("FindProduct", ctx, p.ID).Return(p, nil)

		_, err := svc.UpdateProduct(ctx, stranger.ID, p.ID, ProductInput{Name: "Stolen"})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.ErrorIs(t, svc.DeleteProduct(ctx, stranger.ID, p.ID), ErrForbidden)
		assert.Equal(t, "Lamp", p.Name)
		products.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)
	})

	t.Run("seller may update", func(t *testing.T) {
		products := new(MockProductStore)
		svc := NewCatalogService(products, staticListing(nil), store, nil)
		p := existing()
		products.On("FindProduct", ctx, p.ID).Return(p, nil)
		products.On("UpdateProduct", ctx, p).Return(nil).Once()

		got, err := svc.UpdateProduct(ctx, seller.ID, p.ID, ProductInput{Name: "Desk lamp", Price: decimal.NewFromInt(12)})
		require.NoError(t, err)
		assert.Equal(t, "Desk lamp", got.Name)
		products.AssertExpectations(t)
	})

	t.Run("staff may delete", func(t *testing.T) {
		products := new(MockProductStore)
		svc := NewCatalogService(products, staticListing(nil), store, nil)
		p := existing()
		products.On("FindProduct", ctx, p.ID).Return(p, nil)
		products.On("DeleteProduct", ctx, p).Return(nil).Once()

		require.NoError(t, svc.DeleteProduct(ctx, staff.ID, p.ID))
		products.AssertExpectations(t)
	})

	t.Run("missing product", func(t *testing.T) {
		products := new(MockProductStore)
		svc := NewCatalogService(products, staticListing(nil), store, nil)
		id := uuid.New()
		products.On("FindProduct", ctx, id).Return(nil, repository.ErrNotFound)

		assert.ErrorIs(t, svc.DeleteProduct(ctx, seller.ID, id), repository.ErrNotFound)
	})
}

func TestListProductsUsesListing(t *testing.T) {
	listing := staticListing{{Name: "Lamp"}, {Name: "Desk"}}
	svc := NewCatalogService(new(MockProductStore), listing, newMemStore(), nil)

	got, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
