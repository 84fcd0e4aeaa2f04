package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

// OrderStore persists orders and their items.
type OrderStore interface {
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, int64, error)
	FindForBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, order *models.Order) error
	ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	FindItem(ctx context.Context, orderID, id uuid.UUID) (*models.OrderItem, error)
	CreateItem(ctx context.Context, item *models.OrderItem) error
	UpdateItem(ctx context.Context, item *models.OrderItem) error
	DeleteItem(ctx context.Context, item *models.OrderItem) error
}

// OrderService manages a buyer's orders and their line items.
type OrderService struct {
	orders    OrderStore
	products  ProductStore
	addresses AddressStore
	users     UserStore
	mailer    Mailer
	log       *zap.Logger
}

func NewOrderService(orders OrderStore, products ProductStore, addresses AddressStore, users UserStore, mailer Mailer, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		orders:    orders,
		products:  products,
		addresses: addresses,
		users:     users,
		mailer:    mailer,
		log:       log,
	}
}

type ItemInput struct {
	ProductID uuid.UUID
	Quantity  uint
}

// OrderInput carries order fields. A nil address id keeps the order's
// current address unless the matching Clear flag is set.
type OrderInput struct {
	Status               models.OrderStatus
	ShippingAddressID    *uuid.UUID
	BillingAddressID     *uuid.UUID
	ClearShippingAddress bool
	ClearBillingAddress  bool
	Items                []ItemInput
}

func (s *OrderService) List(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, int64, error) {
	return s.orders.ListByBuyer(ctx, buyerID, limit, offset)
}

func (s *OrderService) Get(ctx context.Context, buyerID, id uuid.UUID) (*models.Order, error) {
	return s.orders.FindForBuyer(ctx, id, buyerID)
}

// Create places an order with its initial items and emails the buyer a
// summary when they have an email address.
func (s *OrderService) Create(ctx context.Context, buyerID uuid.UUID, in OrderInput) (*models.Order, error) {
	order := &models.Order{BuyerID: buyerID, Status: models.OrderPending}
	if err := s.applyOrder(ctx, order, in); err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for i, item := range in.Items {
		product, err := s.product(ctx, item.ProductID)
		if err != nil {
			return nil, prefixField(err, fmt.Sprintf("order_items[%d].", i))
		}
		if item.Quantity < 1 {
			return nil, NewValidationError(fmt.Sprintf("order_items[%d].quantity", i), "Ensure this value is greater than or equal to 1.")
		}
		items = append(items, models.OrderItem{ProductID: product.ID, Product: product, Quantity: item.Quantity})
	}
	order.Items = items

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.Info("order placed", zap.String("order_id", order.ID.String()),
		zap.String("buyer_id", buyerID.String()), zap.Int("items", len(items)))
	s.notifyPlaced(ctx, order)
	return order, nil
}

// Update changes status and addresses. Items are managed through the item
// operations.
func (s *OrderService) Update(ctx context.Context, buyerID, id uuid.UUID, in OrderInput) (*models.Order, error) {
	order, err := s.orders.FindForBuyer(ctx, id, buyerID)
	if err != nil {
		return nil, err
	}
	if err := s.applyOrder(ctx, order, in); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, buyerID, id uuid.UUID) error {
	order, err := s.orders.FindForBuyer(ctx, id, buyerID)
	if err != nil {
		return err
	}
	return s.orders.Delete(ctx, order)
}

func (s *OrderService) ListItems(ctx context.Context, buyerID, orderID uuid.UUID) ([]models.OrderItem, error) {
	if _, err := s.orders.FindForBuyer(ctx, orderID, buyerID); err != nil {
		return nil, err
	}
	return s.orders.ListItems(ctx, orderID)
}

func (s *OrderService) GetItem(ctx context.Context, buyerID, orderID, id uuid.UUID) (*models.OrderItem, error) {
	if _, err := s.orders.FindForBuyer(ctx, orderID, buyerID); err != nil {
		return nil, err
	}
	return s.orders.FindItem(ctx, orderID, id)
}

func (s *OrderService) AddItem(ctx context.Context, buyerID, orderID uuid.UUID, in ItemInput) (*models.OrderItem, error) {
	if _, err := s.orders.FindForBuyer(ctx, orderID, buyerID); err != nil {
		return nil, err
	}

	item := &models.OrderItem{OrderID: orderID}
	if err := s.applyItem(ctx, item, in); err != nil {
		return nil, err
	}
	if err := s.orders.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create order item: %w", err)
	}
	return item, nil
}

func (s *OrderService) UpdateItem(ctx context.Context, buyerID, orderID, id uuid.UUID, in ItemInput) (*models.OrderItem, error) {
	item, err := s.GetItem(ctx, buyerID, orderID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyItem(ctx, item, in); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update order item: %w", err)
	}
	return item, nil
}

func (s *OrderService) DeleteItem(ctx context.Context, buyerID, orderID, id uuid.UUID) error {
	item, err := s.GetItem(ctx, buyerID, orderID, id)
	if err != nil {
		return err
	}
	return s.orders.DeleteItem(ctx, item)
}

func (s *OrderService) applyOrder(ctx context.Context, order *models.Order, in OrderInput) error {
	if in.Status != "" {
		if in.Status != models.OrderPending && in.Status != models.OrderCompleted {
			return NewValidationError("status", fmt.Sprintf("%q is not a valid choice.", in.Status))
		}
		order.Status = in.Status
	}

	setShipping := in.ShippingAddressID != nil || in.ClearShippingAddress
	setBilling := in.BillingAddressID != nil || in.ClearBillingAddress

	var shipping, billing *models.Address
	var err error
	if setShipping {
		if shipping, err = s.address(ctx, order.BuyerID, in.ShippingAddressID, models.AddressShipping, "shipping_address"); err != nil {
			return err
		}
	}
	if setBilling {
		if billing, err = s.address(ctx, order.BuyerID, in.BillingAddressID, models.AddressBilling, "billing_address"); err != nil {
			return err
		}
	}

	if setShipping {
		order.ShippingAddressID, order.ShippingAddress = in.ShippingAddressID, shipping
	}
	if setBilling {
		order.BillingAddressID, order.BillingAddress = in.BillingAddressID, billing
	}
	return nil
}

func (s *OrderService) applyItem(ctx context.Context, item *models.OrderItem, in ItemInput) error {
	if in.Quantity < 1 {
		return NewValidationError("quantity", "Ensure this value is greater than or equal to 1.")
	}
	product, err := s.product(ctx, in.ProductID)
	if err != nil {
		return err
	}
	item.ProductID = product.ID
	item.Product = product
	item.Quantity = in.Quantity
	return nil
}

// address resolves an optional address id, which must belong to the buyer
// and be of the expected type.
func (s *OrderService) address(ctx context.Context, buyerID uuid.UUID, id *uuid.UUID, kind models.AddressType, field string) (*models.Address, error) {
	if id == nil {
		return nil, nil
	}
	address, err := s.addresses.Find(ctx, *id, buyerID, kind)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewValidationError(field, "Invalid address.")
	}
	return address, err
}

func (s *OrderService) product(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindProduct(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewValidationError("product", "Invalid product.")
	}
	return product, err
}

func (s *OrderService) notifyPlaced(ctx context.Context, order *models.Order) {
	if s.mailer == nil {
		return
	}

	buyer, err := s.users.FindByID(ctx, order.BuyerID)
	if err != nil {
		s.log.Warn("failed to load buyer for order email", zap.String("order_id", order.ID.String()), zap.Error(err))
		return
	}
	if buyer.EmailAddress() == "" {
		return
	}

	s.mailer.SendEmail(
		"Your order has been placed",
		fmt.Sprintf("Hello %s,\n\nWe received your order %s with %d item(s). Total: %s\n",
			buyer.FullName(), order.ID, len(order.Items), order.TotalPrice().StringFixed(2)),
		buyer.EmailAddress(),
	)
}

// prefixField scopes a validation error to a nested input.
func prefixField(err error, prefix string) error {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	fields := make(map[string]string, len(verr.Fields))
	for k, v := range verr.Fields {
		fields[prefix+k] = v
	}
	return &ValidationError{Fields: fields}
}
