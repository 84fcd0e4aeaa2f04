package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductCategory struct {
	BaseModel
	Name string `gorm:"size:100" json:"name"`
	Icon string `json:"icon"`
}

type Product struct {
	BaseModel
	SellerID    uuid.UUID        `gorm:"type:uuid;index" json:"seller_id"`
	Seller      *User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CategoryID  *uuid.UUID       `gorm:"type:uuid;index" json:"category_id"`
	Category    *ProductCategory `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Name        string           `gorm:"size:200" json:"name"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Price       decimal.Decimal  `gorm:"type:numeric(10,2)" json:"price"`
	Quantity    int              `json:"quantity"`
}
