package models

import "strings"

// User represents a customer or seller account. Either Email or Phone
// identifies the account at login.
type User struct {
	BaseModel
	Email                *string      `gorm:"uniqueIndex" json:"email"`
	FirstName            string       `json:"first_name"`
	LastName             string       `json:"last_name"`
	PasswordHash         string       `json:"-"`
	IsActive             bool         `gorm:"default:true" json:"is_active"`
	IsStaff              bool         `json:"is_staff"`
	EmailVerified        bool         `json:"email_verified"`
	EmailConfirmationKey string       `gorm:"index" json:"-"`
	Phone                *PhoneNumber `gorm:"constraint:OnDelete:CASCADE" json:"phone,omitempty"`
	Profile              *Profile     `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Addresses            []Address    `gorm:"constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Orders               []Order      `gorm:"foreignKey:BuyerID;constraint:OnDelete:CASCADE" json:"-"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// EmailAddress returns the email or an empty string.
func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}
