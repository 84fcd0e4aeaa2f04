package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
)

// AddressHandler serves one address type. The route decides the type; the
// request body cannot change it.
type AddressHandler struct {
	users UserService
	kind  models.AddressType
}

// NewAddressHandler constructs an AddressHandler for kind.
func NewAddressHandler(users UserService, kind models.AddressType) *AddressHandler {
	return &AddressHandler{users: users, kind: kind}
}

type addressRequest struct {
	Default          bool   `json:"default"`
	Country          string `json:"country" validate:"required,iso3166_1_alpha2"`
	City             string `json:"city" validate:"required,max=100"`
	StreetAddress    string `json:"street_address" validate:"required,max=100"`
	ApartmentAddress string `json:"apartment_address" validate:"max=100"`
	PostalCode       string `json:"postal_code" validate:"max=20"`
}

func (r addressRequest) input() services.AddressInput {
	return services.AddressInput{
		Default:          r.Default,
		Country:          r.Country,
		City:             r.City,
		StreetAddress:    r.StreetAddress,
		ApartmentAddress: r.ApartmentAddress,
		PostalCode:       r.PostalCode,
	}
}

func (h *AddressHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addresses, err := h.users.ListAddresses(c.UserContext(), userID, h.kind)
	if err != nil {
		return err
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	return c.JSON(fiber.Map{"success": true, "data": addresses})
}

func (h *AddressHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	address, err := h.users.GetAddress(c.UserContext(), userID, h.kind, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": address})
}

func (h *AddressHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req addressRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	address, err := h.users.CreateAddress(c.UserContext(), userID, h.kind, req.input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": address})
}

func (h *AddressHandler) Update(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req addressRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	address, err := h.users.UpdateAddress(c.UserContext(), userID, h.kind, id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": address})
}

func (h *AddressHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.users.DeleteAddress(c.UserContext(), userID, h.kind, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
