package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
)

// OrderService manages the buyer's orders and items.
type OrderService interface {
	List(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, int64, error)
	Get(ctx context.Context, buyerID, id uuid.UUID) (*models.Order, error)
	Create(ctx context.Context, buyerID uuid.UUID, in services.OrderInput) (*models.Order, error)
	Update(ctx context.Context, buyerID, id uuid.UUID, in services.OrderInput) (*models.Order, error)
	Delete(ctx context.Context, buyerID, id uuid.UUID) error
	ListItems(ctx context.Context, buyerID, orderID uuid.UUID) ([]models.OrderItem, error)
	GetItem(ctx context.Context, buyerID, orderID, id uuid.UUID) (*models.OrderItem, error)
	AddItem(ctx context.Context, buyerID, orderID uuid.UUID, in services.ItemInput) (*models.OrderItem, error)
	UpdateItem(ctx context.Context, buyerID, orderID, id uuid.UUID, in services.ItemInput) (*models.OrderItem, error)
	DeleteItem(ctx context.Context, buyerID, orderID, id uuid.UUID) error
}

// OrderHandler manages order creation and retrieval.
type OrderHandler struct {
	orders OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderItemRequest struct {
	Product  string `json:"product" validate:"required,uuid"`
	Quantity uint   `json:"quantity" validate:"required,min=1"`
}

func (r orderItemRequest) input() services.ItemInput {
	// validate has already checked the uuid
	id, _ := uuid.Parse(r.Product)
	return services.ItemInput{ProductID: id, Quantity: r.Quantity}
}

type orderRequest struct {
	Status          string             `json:"status" validate:"omitempty,oneof=P C"`
	ShippingAddress *string            `json:"shipping_address"`
	BillingAddress  *string            `json:"billing_address"`
	OrderItems      []orderItemRequest `json:"order_items" validate:"dive"`
}

func (r orderRequest) input() (services.OrderInput, error) {
	in := services.OrderInput{Status: models.OrderStatus(r.Status)}

	// An omitted address is left alone; an empty string clears it.
	var err error
	if r.ShippingAddress != nil {
		if in.ShippingAddressID, err = parseOptionalID("shipping_address", *r.ShippingAddress); err != nil {
			return services.OrderInput{}, err
		}
		in.ClearShippingAddress = in.ShippingAddressID == nil
	}
	if r.BillingAddress != nil {
		if in.BillingAddressID, err = parseOptionalID("billing_address", *r.BillingAddress); err != nil {
			return services.OrderInput{}, err
		}
		in.ClearBillingAddress = in.BillingAddressID == nil
	}

	for _, item := range r.OrderItems {
		in.Items = append(in.Items, item.input())
	}
	return in, nil
}

// ListOrders returns the buyer's orders, newest first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.List(c.UserContext(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	data := make([]fiber.Map, 0, len(orders))
	for i := range orders {
		data = append(data, orderResponse(&orders[i]))
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       data,
		"pagination": pg.Meta(total),
	})
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orders.Get(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": orderResponse(order)})
}

// CreateOrder places an order with its initial items.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req orderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in, err := req.input()
	if err != nil {
		return err
	}

	order, err := h.orders.Create(c.UserContext(), userID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": orderResponse(order)})
}

// UpdateOrder changes status and addresses. Items in the body are ignored.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req orderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in, err := req.input()
	if err != nil {
		return err
	}

	order, err := h.orders.Update(c.UserContext(), userID, id, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": orderResponse(order)})
}

func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.orders.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrderHandler) ListItems(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	orderID, err := paramID(c, "order_id")
	if err != nil {
		return err
	}

	items, err := h.orders.ListItems(c.UserContext(), userID, orderID)
	if err != nil {
		return err
	}

	data := make([]fiber.Map, 0, len(items))
	for i := range items {
		data = append(data, itemResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func (h *OrderHandler) GetItem(c *fiber.Ctx) error {
	userID, orderID, id, err := itemParams(c)
	if err != nil {
		return err
	}

	item, err := h.orders.GetItem(c.UserContext(), userID, orderID, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": itemResponse(item)})
}

func (h *OrderHandler) CreateItem(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	orderID, err := paramID(c, "order_id")
	if err != nil {
		return err
	}

	var req orderItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	item, err := h.orders.AddItem(c.UserContext(), userID, orderID, req.input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": itemResponse(item)})
}

func (h *OrderHandler) UpdateItem(c *fiber.Ctx) error {
	userID, orderID, id, err := itemParams(c)
	if err != nil {
		return err
	}

	var req orderItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	item, err := h.orders.UpdateItem(c.UserContext(), userID, orderID, id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": itemResponse(item)})
}

func (h *OrderHandler) DeleteItem(c *fiber.Ctx) error {
	userID, orderID, id, err := itemParams(c)
	if err != nil {
		return err
	}

	if err := h.orders.DeleteItem(c.UserContext(), userID, orderID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func itemParams(c *fiber.Ctx) (userID, orderID, id uuid.UUID, err error) {
	if userID, err = currentUserID(c); err != nil {
		return
	}
	if orderID, err = paramID(c, "order_id"); err != nil {
		return
	}
	id, err = paramID(c, "id")
	return
}

func orderResponse(o *models.Order) fiber.Map {
	items := make([]fiber.Map, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, itemResponse(&o.Items[i]))
	}

	return fiber.Map{
		"id":               o.ID,
		"buyer":            o.BuyerID,
		"status":           o.Status,
		"shipping_address": o.ShippingAddress,
		"billing_address":  o.BillingAddress,
		"order_items":      items,
		"total_price":      o.TotalPrice().StringFixed(2),
		"created_at":       o.CreatedAt,
		"updated_at":       o.UpdatedAt,
	}
}

func itemResponse(item *models.OrderItem) fiber.Map {
	data := fiber.Map{
		"id":         item.ID,
		"order":      item.OrderID,
		"product":    item.ProductID,
		"quantity":   item.Quantity,
		"cost":       item.Cost().StringFixed(2),
		"created_at": item.CreatedAt,
		"updated_at": item.UpdatedAt,
	}
	if item.Product != nil {
		data["product_name"] = item.Product.Name
		data["price"] = item.Product.Price.StringFixed(2)
	}
	return data
}
