package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

type PhoneNumberRepository struct {
	db *gorm.DB
}

func NewPhoneNumberRepository(db *gorm.DB) *PhoneNumberRepository {
	return &PhoneNumberRepository{db: db}
}

func (r *PhoneNumberRepository) FindByNumber(ctx context.Context, number string) (*models.PhoneNumber, error) {
	var rec models.PhoneNumber
	if err := r.db.WithContext(ctx).Where("phone_number = ?", number).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *PhoneNumberRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PhoneNumber{}).
		Where("phone_number = ?", number).Count(&count).Error
	return count > 0, err
}

// SavePhoneNumber writes the mutable verification columns.
func (r *PhoneNumberRepository) SavePhoneNumber(ctx context.Context, rec *models.PhoneNumber) error {
	return r.db.WithContext(ctx).Model(rec).Updates(map[string]interface{}{
		"security_code": rec.SecurityCode,
		"status":        rec.Status,
		"is_verified":   rec.IsVerified,
		"sent":          rec.SentAt,
	}).Error
}
