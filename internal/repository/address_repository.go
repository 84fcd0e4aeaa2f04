package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) List(ctx context.Context, userID uuid.UUID, kind models.AddressType) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND address_type = ?", userID, kind).
		Order("created_at desc").
		Find(&addresses).Error
	return addresses, err
}

func (r *AddressRepository) Find(ctx context.Context, id, userID uuid.UUID, kind models.AddressType) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		First(&address, "id = ? AND user_id = ? AND address_type = ?", id, userID, kind).Error
	if err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (r *AddressRepository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *AddressRepository) Update(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

func (r *AddressRepository) Delete(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Delete(address).Error
}
