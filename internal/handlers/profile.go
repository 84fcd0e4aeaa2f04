package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
)

// UserService serves the authenticated user's account data.
type UserService interface {
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in services.ProfileInput) (*models.User, error)
	ListAddresses(ctx context.Context, userID uuid.UUID, kind models.AddressType) ([]models.Address, error)
	GetAddress(ctx context.Context, userID uuid.UUID, kind models.AddressType, id uuid.UUID) (*models.Address, error)
	CreateAddress(ctx context.Context, userID uuid.UUID, kind models.AddressType, in services.AddressInput) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID uuid.UUID, kind models.AddressType, id uuid.UUID, in services.AddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID uuid.UUID, kind models.AddressType, id uuid.UUID) error
}

// ProfileHandler manages user profile endpoints.
type ProfileHandler struct {
	users UserService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(users UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

// Me returns the authenticated user with phone, profile and addresses.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.users.Me(c.UserContext(), userID)
	if err != nil {
		return err
	}

	data := userResponse(user)
	data["addresses"] = user.Addresses
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// GetProfile returns the authenticated user's profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.users.Me(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": profileResponse(user)})
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Avatar    *string `json:"avatar" validate:"omitempty,url"`
	Bio       *string `json:"bio" validate:"omitempty,max=200"`
}

// UpdateProfile updates the fields present in the request body.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.FirstName == nil && req.LastName == nil && req.Avatar == nil && req.Bio == nil {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	user, err := h.users.UpdateProfile(c.UserContext(), userID, services.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Avatar:    req.Avatar,
		Bio:       req.Bio,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": profileResponse(user)})
}

func userResponse(user *models.User) fiber.Map {
	data := fiber.Map{
		"id":             user.ID,
		"email":          user.Email,
		"first_name":     user.FirstName,
		"last_name":      user.LastName,
		"is_active":      user.IsActive,
		"is_staff":       user.IsStaff,
		"email_verified": user.EmailVerified,
		"phone_number":   nil,
		"created_at":     user.CreatedAt,
	}
	if user.Phone != nil {
		data["phone_number"] = fiber.Map{
			"phone_number": user.Phone.Number,
			"is_verified":  user.Phone.IsVerified,
		}
	}
	if user.Profile != nil {
		data["profile"] = profileResponse(user)
	}
	return data
}

func profileResponse(user *models.User) fiber.Map {
	data := fiber.Map{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"avatar":     "",
		"bio":        "",
	}
	if user.Profile != nil {
		data["avatar"] = user.Profile.Avatar
		data["bio"] = user.Profile.Bio
		data["updated_at"] = user.Profile.UpdatedAt
	}
	return data
}
