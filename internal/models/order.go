package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/pricing"
)

// OrderStatus has no transition rules between its two values.
type OrderStatus string

const (
	OrderPending   OrderStatus = "P"
	OrderCompleted OrderStatus = "C"
)

type Order struct {
	BaseModel
	BuyerID           uuid.UUID   `gorm:"type:uuid;index" json:"buyer_id"`
	Status            OrderStatus `gorm:"size:1;default:P" json:"status"`
	ShippingAddressID *uuid.UUID  `gorm:"type:uuid" json:"shipping_address_id"`
	ShippingAddress   *Address    `gorm:"constraint:OnDelete:SET NULL" json:"shipping_address,omitempty"`
	BillingAddressID  *uuid.UUID  `gorm:"type:uuid" json:"billing_address_id"`
	BillingAddress    *Address    `gorm:"constraint:OnDelete:SET NULL" json:"billing_address,omitempty"`
	Items             []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"order_items,omitempty"`

	totalPrice *decimal.Decimal
}

// TotalPrice sums item costs. The result is memoised on this value only;
// a freshly loaded order recomputes it.
func (o *Order) TotalPrice() decimal.Decimal {
	if o.totalPrice != nil {
		return *o.totalPrice
	}

	costs := make([]decimal.Decimal, 0, len(o.Items))
	for i := range o.Items {
		costs = append(costs, o.Items[i].Cost())
	}
	total := pricing.OrderTotal(costs...)
	o.totalPrice = &total
	return total
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity  uint      `gorm:"check:quantity > 0" json:"quantity"`
}

// Cost is unit price times quantity. Items loaded without their product
// cost zero.
func (i *OrderItem) Cost() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return pricing.ItemCost(i.Product.Price, i.Quantity)
}
