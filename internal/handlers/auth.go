package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/verification"
)

// AuthService is the account workflow behind the auth endpoints.
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in services.LoginInput) (string, *models.User, error)
	SendPhoneCode(ctx context.Context, number string) (verification.SendResult, error)
	VerifyPhone(ctx context.Context, number, code string) error
	ConfirmEmail(ctx context.Context, key string) error
}

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	auth AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=150"`
	LastName    string `json:"last_name" validate:"required,max=150"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
	Password1   string `json:"password1" validate:"required,min=8"`
	Password2   string `json:"password2" validate:"required"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), services.RegisterInput{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password1:   req.Password1,
		Password2:   req.Password2,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    userResponse(user),
	})
}

type loginRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
	Password    string `json:"password" validate:"required"`
}

// Login authenticates by email or phone number.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, user, err := h.auth.Login(c.UserContext(), services.LoginInput{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"data":    userResponse(user),
	})
}

type phoneRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
}

// SendPhoneCode texts a security code. The response is identical whether
// or not the text was actually delivered.
func (h *AuthHandler) SendPhoneCode(c *fiber.Ctx) error {
	var req phoneRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if _, err := h.auth.SendPhoneCode(c.UserContext(), req.PhoneNumber); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Security code sent.",
	})
}

type verifyPhoneRequest struct {
	PhoneNumber  string `json:"phone_number" validate:"required,e164"`
	SecurityCode string `json:"security_code" validate:"required,numeric"`
}

// VerifyPhone checks a submitted security code.
func (h *AuthHandler) VerifyPhone(c *fiber.Ctx) error {
	var req verifyPhoneRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.auth.VerifyPhone(c.UserContext(), req.PhoneNumber, req.SecurityCode); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"verified": true,
		"message":  "Security code is valid.",
	})
}

type confirmEmailRequest struct {
	Key string `json:"key" validate:"required"`
}

// ConfirmEmail marks the account's email as verified.
func (h *AuthHandler) ConfirmEmail(c *fiber.Ctx) error {
	var req confirmEmailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.auth.ConfirmEmail(c.UserContext(), req.Key); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"verified": true,
	})
}
