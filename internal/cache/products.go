// Package cache fronts the product listing with a time-expired cache.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/models"
)

const (
	// ProductListKey holds the whole product listing.
	ProductListKey = "product_list"
	// ProductListTTL bounds how stale a listing may be. Writes to the catalog
	// never invalidate the entry.
	ProductListTTL = 5 * time.Minute
)

// ProductLister loads every product from persistent storage.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// ProductListCache is a read-through cache for the product listing.
type ProductListCache struct {
	store    Store
	products ProductLister
	log      *zap.Logger
}

func NewProductListCache(store Store, products ProductLister, log *zap.Logger) *ProductListCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductListCache{store: store, products: products, log: log}
}

// List returns the cached listing when it holds at least one product and
// otherwise queries storage and refills the cache. An empty catalog is never
// served from cache. Cache failures degrade to a storage read.
func (c *ProductListCache) List(ctx context.Context) ([]models.Product, error) {
	if cached, ok := c.cached(ctx); ok {
		return cached, nil
	}

	products, err := c.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(products)
	if err != nil {
		c.log.Warn("failed to marshal product list for cache", zap.Error(err))
		return products, nil
	}
	if err := c.store.Set(ctx, ProductListKey, payload, ProductListTTL); err != nil {
		c.log.Warn("failed to cache product list", zap.Error(err))
	}
	return products, nil
}

func (c *ProductListCache) cached(ctx context.Context) ([]models.Product, bool) {
	raw, ok, err := c.store.Get(ctx, ProductListKey)
	if err != nil {
		c.log.Warn("failed to read cached product list", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		c.log.Warn("failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	if len(products) == 0 {
		return nil, false
	}
	return products, true
}
