package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationStatus is the persisted part of a phone verification state.
// Expiry is derived from SentAt and is never stored.
type VerificationStatus string

const (
	VerificationUnsent   VerificationStatus = "unsent"
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
)

// PhoneNumber is the verification record owned by exactly one user.
type PhoneNumber struct {
	BaseModel
	UserID       uuid.UUID          `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Number       string             `gorm:"column:phone_number;uniqueIndex;not null" json:"phone_number"`
	SecurityCode string             `gorm:"size:100" json:"-"`
	Status       VerificationStatus `gorm:"size:16;default:unsent" json:"status"`
	IsVerified   bool               `gorm:"default:false" json:"is_verified"`
	SentAt       *time.Time         `gorm:"column:sent" json:"sent_at"`
}
