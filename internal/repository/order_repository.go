package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Items.Product").
		Preload("ShippingAddress").
		Preload("BillingAddress")
}

// ListByBuyer returns one page of orders and the total count.
func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("buyer_id = ?", buyerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := r.withItems(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *OrderRepository) FindForBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.withItems(ctx).First(&order, "id = ? AND buyer_id = ?", id, buyerID).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// Create stores the order and its items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		if err := tx.Omit("ShippingAddress", "BillingAddress").Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Omit("Product").Create(&items[i]).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
}

func (r *OrderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Omit("Items", "ShippingAddress", "BillingAddress").
		Save(order).Error
}

func (r *OrderRepository) Delete(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Delete(order).Error
}

func (r *OrderRepository) ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).Preload("Product").
		Where("order_id = ?", orderID).
		Order("created_at desc").
		Find(&items).Error
	return items, err
}

func (r *OrderRepository) FindItem(ctx context.Context, orderID, id uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).Preload("Product").
		First(&item, "id = ? AND order_id = ?", id, orderID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *OrderRepository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(item).Error
}

func (r *OrderRepository) UpdateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Omit("Product").Save(item).Error
}

func (r *OrderRepository) DeleteItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Delete(item).Error
}
