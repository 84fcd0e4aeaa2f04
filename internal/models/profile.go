package models

import "github.com/google/uuid"

type Profile struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"-"`
	Avatar string    `json:"avatar"`
	Bio    string    `gorm:"size:200" json:"bio"`
}

// AddressType distinguishes shipping from billing addresses.
type AddressType string

const (
	AddressBilling  AddressType = "B"
	AddressShipping AddressType = "S"
)

// Valid reports whether t is a known address type.
func (t AddressType) Valid() bool {
	return t == AddressBilling || t == AddressShipping
}

type Address struct {
	BaseModel
	UserID           uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	AddressType      AddressType `gorm:"size:1;index" json:"address_type"`
	Default          bool        `json:"default"`
	Country          string      `gorm:"size:2" json:"country"`
	City             string      `gorm:"size:100" json:"city"`
	StreetAddress    string      `gorm:"size:100" json:"street_address"`
	ApartmentAddress string      `gorm:"size:100" json:"apartment_address"`
	PostalCode       string      `gorm:"size:20" json:"postal_code"`
}
