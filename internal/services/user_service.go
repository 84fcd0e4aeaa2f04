package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/models"
)

// AddressStore persists addresses scoped to their owner and type.
type AddressStore interface {
	List(ctx context.Context, userID uuid.UUID, kind models.AddressType) ([]models.Address, error)
	Find(ctx context.Context, id, userID uuid.UUID, kind models.AddressType) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, address *models.Address) error
}

// UserService serves the current user's account, profile and addresses.
type UserService struct {
	users     UserStore
	addresses AddressStore
	log       *zap.Logger
}

func NewUserService(users UserStore, addresses AddressStore, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, addresses: addresses, log: log}
}

func (s *UserService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

type ProfileInput struct {
	FirstName *string
	LastName  *string
	Avatar    *string
	Bio       *string
}

// UpdateProfile applies the non-nil fields of in to the user and profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil || in.LastName != nil {
		if in.FirstName != nil {
			user.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			user.LastName = *in.LastName
		}
		if err := s.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	if user.Profile == nil {
		user.Profile = &models.Profile{UserID: user.ID}
	}
	if in.Avatar != nil {
		user.Profile.Avatar = *in.Avatar
	}
	if in.Bio != nil {
		if len([]rune(*in.Bio)) > 200 {
			return nil, NewValidationError("bio", "Ensure this field has no more than 200 characters.")
		}
		user.Profile.Bio = *in.Bio
	}
	if err := s.users.SaveProfile(ctx, user.Profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return user, nil
}

type AddressInput struct {
	Default          bool
	Country          string
	City             string
	StreetAddress    string
	ApartmentAddress string
	PostalCode       string
}

func (in AddressInput) apply(a *models.Address) {
	a.Default = in.Default
	a.Country = in.Country
	a.City = in.City
	a.StreetAddress = in.StreetAddress
	a.ApartmentAddress = in.ApartmentAddress
	a.PostalCode = in.PostalCode
}

func (s *UserService) ListAddresses(ctx context.Context, userID uuid.UUID, kind models.AddressType) ([]models.Address, error) {
	return s.addresses.List(ctx, userID, kind)
}

func (s *UserService) GetAddress(ctx context.Context, userID uuid.UUID, kind models.AddressType, id uuid.UUID) (*models.Address, error) {
	return s.addresses.Find(ctx, id, userID, kind)
}

// CreateAddress stores a new address of the given kind for the user.
func (s *UserService) CreateAddress(ctx context.Context, userID uuid.UUID, kind models.AddressType, in AddressInput) (*models.Address, error) {
	if !kind.Valid() {
		return nil, NewValidationError("address_type", "Select a valid choice.")
	}

	address := &models.Address{UserID: userID, AddressType: kind}
	in.apply(address)
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return address, nil
}

func (s *UserService) UpdateAddress(ctx context.Context, userID uuid.UUID, kind models.AddressType, id uuid.UUID, in AddressInput) (*models.Address, error) {
	address, err := s.addresses.Find(ctx, id, userID, kind)
	if err != nil {
		return nil, err
	}

	in.apply(address)
	if err := s.addresses.Update(ctx, address); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	return address, nil
}

func (s *UserService) DeleteAddress(ctx context.Context, userID uuid.UUID, kind models.AddressType, id uuid.UUID) error {
	address, err := s.addresses.Find(ctx, id, userID, kind)
	if err != nil {
		return err
	}
	return s.addresses.Delete(ctx, address)
}
