package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace/internal/api/dto"
	"github.com/spec-kit/marketplace/internal/auth"
	"github.com/spec-kit/marketplace/internal/service"
	apperrors "github.com/spec-kit/marketplace/pkg/util"
)

// AddressesHandler exposes the current user's address book.
type AddressesHandler struct {
	profiles *service.ProfileService
}

// NewAddressesHandler constructs handler.
func NewAddressesHandler(profiles *service.ProfileService) *AddressesHandler {
	return &AddressesHandler{profiles: profiles}
}

// List handles GET /api/auth/users/me/addresses.
func (h *AddressesHandler) List(c *fiber.Ctx) error {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing credentials")
	}

	addresses, err := h.profiles.Addresses(c.Context(), authCtx.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAddressResponses(addresses)})
}

// Add handles POST /api/auth/users/me/addresses.
func (h *AddressesHandler) Add(c *fiber.Ctx) error {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing credentials")
	}

	var req dto.AddressPayload
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	addresses, err := h.profiles.AddAddress(c.Context(), authCtx.SubjectID, service.AddressInput{
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAddressResponses(addresses)})
}

// Delete handles DELETE /api/auth/users/me/addresses/:addressId.
func (h *AddressesHandler) Delete(c *fiber.Ctx) error {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing credentials")
	}

	addresses, err := h.profiles.DeleteAddress(c.Context(), authCtx.SubjectID, c.Params("addressId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAddressResponses(addresses)})
}
