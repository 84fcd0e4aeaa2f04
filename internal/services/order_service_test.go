package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

type memOrders struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.Order
	items  map[uuid.UUID]*models.OrderItem
}

func newMemOrders() *memOrders {
	return &memOrders{orders: map[uuid.UUID]*models.Order{}, items: map[uuid.UUID]*models.OrderItem{}}
}

func (m *memOrders) ListByBuyer(_ context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.BuyerID == buyerID {
			out = append(out, *o)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memOrders) FindForBuyer(_ context.Context, id, buyerID uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.BuyerID != buyerID {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (m *memOrders) Create(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = uuid.New()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
		m.items[order.Items[i].ID] = &order.Items[i]
	}
	m.orders[order.ID] = order
	return nil
}

func (m *memOrders) Update(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *memOrders) Delete(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, order.ID)
	return nil
}

func (m *memOrders) ListItems(_ context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.OrderItem
	for _, it := range m.items {
		if it.OrderID == orderID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *memOrders) FindItem(_ context.Context, orderID, id uuid.UUID) (*models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok || it.OrderID != orderID {
		return nil, repository.ErrNotFound
	}
	return it, nil
}

func (m *memOrders) CreateItem(_ context.Context, item *models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = uuid.New()
	m.items[item.ID] = item
	return nil
}

func (m *memOrders) UpdateItem(_ context.Context, item *models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *memOrders) DeleteItem(_ context.Context, item *models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, item.ID)
	return nil
}

type OrderServiceSuite struct {
	suite.Suite

	ctx      context.Context
	store    *memStore
	orders   *memOrders
	products *MockProductStore
	mailer   *recordingMailer
	svc      *OrderService

	buyer    *models.User
	pen      *models.Product
	shipping *models.Address
	billing  *models.Address
}

func (s *OrderServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newMemStore()
	s.orders = newMemOrders()
	s.products = new(MockProductStore)
	s.mailer = &recordingMailer{}
	addresses := memAddresses{s.store}
	s.svc = NewOrderService(s.orders, s.products, addresses, s.store, s.mailer, nil)

	email := "ada@example.com"
	s.buyer = &models.User{FirstName: "Ada", Email: &email, IsActive: true}
	s.Require().NoError(s.store.Create(s.ctx, s.buyer, nil))

	s.pen = &models.Product{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Pen", Price: decimal.RequireFromString("1.25")}
	s.products.On("FindProduct", s.ctx, s.pen.ID).Return(s.pen, nil).Maybe()

	s.shipping = &models.Address{UserID: s.buyer.ID, AddressType: models.AddressShipping, City: "London"}
	s.billing = &models.Address{UserID: s.buyer.ID, AddressType: models.AddressBilling, City: "Leeds"}
	s.Require().NoError(addresses.Create(s.ctx, s.shipping))
	s.Require().NoError(addresses.Create(s.ctx, s.billing))
}

func (s *OrderServiceSuite) TestCreateComputesTotalAndEmailsBuyer() {
	order, err := s.svc.Create(s.ctx, s.buyer.ID, OrderInput{
		ShippingAddressID: &s.shipping.ID,
		BillingAddressID:  &s.billing.ID,
		Items:             []ItemInput{{ProductID: s.pen.ID, Quantity: 3}},
	})
	s.Require().NoError(err)
	s.Equal(models.OrderPending, order.Status)
	s.Require().Len(order.Items, 1)
	s.Equal("3.75", order.Items[0].Cost().StringFixed(2))
	s.Equal("3.75", order.TotalPrice().StringFixed(2))

	sent := s.mailer.Sent()
	s.Require().Len(sent, 1)
	s.Equal("ada@example.com", sent[0].To)
	s.Contains(sent[0].Message, "3.75")
}

func (s *OrderServiceSuite) TestCreateWithoutEmailSkipsNotification() {
	buyer := &models.User{FirstName: "Bob", IsActive: true}
	s.Require().NoError(s.store.Create(s.ctx, buyer, nil))

	_, err := s.svc.Create(s.ctx, buyer.ID, OrderInput{})
	s.Require().NoError(err)
	s.Empty(s.mailer.Sent())
}

func (s *OrderServiceSuite) TestCreateRejectsForeignOrMistypedAddress() {
	_, err := s.svc.Create(s.ctx, s.buyer.ID, OrderInput{ShippingAddressID: &s.billing.ID})
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "shipping_address")

	other := &models.User{IsActive: true}
	s.Require().NoError(s.store.Create(s.ctx, other, nil))
	_, err = s.svc.Create(s.ctx, other.ID, OrderInput{BillingAddressID: &s.billing.ID})
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "billing_address")
}

func (s *OrderServiceSuite) TestCreateRejectsBadItems() {
	missing := uuid.New()
	s.products.On("FindProduct", s.ctx, missing).Return(nil, repository.ErrNotFound)

	_, err := s.svc.Create(s.ctx, s.buyer.ID, OrderInput{Items: []ItemInput{{ProductID: missing, Quantity: 1}}})
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "order_items[0].product")

	_, err = s.svc.Create(s.ctx, s.buyer.ID, OrderInput{Items: []ItemInput{{ProductID: s.pen.ID, Quantity: 0}}})
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "order_items[0].quantity")
	s.Empty(s.orders.orders)
}

func (s *OrderServiceSuite) TestUpdateStatus() {
	order, err := s.svc.Create(s.ctx, s.buyer.ID, OrderInput{})
	s.Require().NoError(err)

	updated, err := s.svc.Update(s.ctx, s.buyer.ID, order.ID, OrderInput{Status: models.OrderCompleted})
	s.Require().NoError(err)
	s.Equal(models.OrderCompleted, updated.Status)

	updated, err = s.svc.Update(s.ctx, s.buyer.ID, order.ID, OrderInput{Status: models.OrderPending})
	s.Require().NoError(err)
	s.Equal(models.OrderPending, updated.Status)

	_, err = s.svc.Update(s.ctx, s.buyer.ID, order.ID, OrderInput{Status: "X"})
	var verr *ValidationError
	s.ErrorAs(err, &verr)
}

func (s *OrderServiceSuite) TestUpdateStatusKeepsAddresses() {
	order, err := s.svc.Create(s.ctx, s.buyer.ID, OrderInput{
		ShippingAddressID: &s.shipping.ID,
		BillingAddressID:  &s.billing.ID,
	})
	s.Require().NoError(err)

	_, err = s.svc.Update(s.ctx, s.buyer.ID, order.ID, OrderInput{Status: models.OrderCompleted})
	s.Require().NoError(err)

	got, err := s.svc.Get(s.ctx, s.buyer.ID, order.ID)
	s.Require().NoError(err)
	s.Equal(models.OrderCompleted, got.Status)
	s.Require().NotNil(got.ShippingAddressID)
	s.Equal(s.shipping.ID, *got.ShippingAddressID)
	s.Require().NotNil(got.BillingAddressID)
	s.Equal(s.billing.ID, *got.BillingAddressID)
}

func (s *OrderServiceSuite) TestUpdateClearsOnlyRequestedAddress() {
	order, err := s.svc.Create(s.ctx, s.buyer.ID, OrderInput{
		ShippingAddressID: &s.shipping.ID,
		BillingAddressID:  &s.billing.ID,
	})
	s.Require().NoError(err)

	updated, err := s.svc.Update(s.ctx, s.buyer.ID, order.ID, OrderInput{ClearBillingAddress: true})
	s.Require().NoError(err)
	s.Nil(updated.BillingAddressID)
	s.Nil(updated.BillingAddress)
	s.Require().NotNil(updated.ShippingAddressID)
	s.Equal(s.shipping.ID, *updated.ShippingAddressID)
	s.Equal(models.OrderPending, updated.Status)

	// a billing address is not a valid shipping address
	_, err = s.svc.Update(s.ctx, s.buyer.ID, order.ID, OrderInput{ShippingAddressID: &s.billing.ID})
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "shipping_address")
}

func (s *OrderServiceSuite) TestOrdersAreScopedToBuyer() {
	order, err := s.svc.Create(s.ctx, s.buyer.ID, OrderInput{})
	s.Require().NoError(err)
	stranger := uuid.New()

	_, err = s.svc.Get(s.ctx, stranger, order.ID)
	s.ErrorIs(err, repository.ErrNotFound)
	s.ErrorIs(s.svc.Delete(s.ctx, stranger, order.ID), repository.ErrNotFound)
	_, err = s.svc.AddItem(s.ctx, stranger, order.ID, ItemInput{ProductID: s.pen.ID, Quantity: 1})
	s.ErrorIs(err, repository.ErrNotFound)

	list, total, err := s.svc.List(s.ctx, s.buyer.ID, 20, 0)
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Len(list, 1)

	s.Require().NoError(s.svc.Delete(s.ctx, s.buyer.ID, order.ID))
	_, err = s.svc.Get(s.ctx, s.buyer.ID, order.ID)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *OrderServiceSuite) TestItemLifecycle() {
	order, err := s.svc.Create(s.ctx, s.buyer.ID, OrderInput{})
	s.Require().NoError(err)

	item, err := s.svc.AddItem(s.ctx, s.buyer.ID, order.ID, ItemInput{ProductID: s.pen.ID, Quantity: 2})
	s.Require().NoError(err)
	s.Equal("2.50", item.Cost().StringFixed(2))

	item, err = s.svc.UpdateItem(s.ctx, s.buyer.ID, order.ID, item.ID, ItemInput{ProductID: s.pen.ID, Quantity: 5})
	s.Require().NoError(err)
	s.EqualValues(5, item.Quantity)

	_, err = s.svc.UpdateItem(s.ctx, s.buyer.ID, order.ID, item.ID, ItemInput{ProductID: s.pen.ID, Quantity: 0})
	var verr *ValidationError
	s.ErrorAs(err, &verr)

	items, err := s.svc.ListItems(s.ctx, s.buyer.ID, order.ID)
	s.Require().NoError(err)
	s.Len(items, 1)

	s.Require().NoError(s.svc.DeleteItem(s.ctx, s.buyer.ID, order.ID, item.ID))
	_, err = s.svc.GetItem(s.ctx, s.buyer.ID, order.ID, item.ID)
	s.ErrorIs(err, repository.ErrNotFound)
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}

func TestPrefixFieldLeavesOtherErrors(t *testing.T) {
	err := prefixField(repository.ErrNotFound, "x.")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = prefixField(NewValidationError("product", "Invalid product."), "order_items[1].")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid product.", verr.Fields["order_items[1].product"])
}
