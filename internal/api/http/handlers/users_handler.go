package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace/internal/api/dto"
	"github.com/spec-kit/marketplace/internal/auth"
	"github.com/spec-kit/marketplace/internal/domain"
	"github.com/spec-kit/marketplace/internal/observability"
	"github.com/spec-kit/marketplace/internal/service"
	apperrors "github.com/spec-kit/marketplace/pkg/util"
)

// UsersHandler exposes registration, login and session endpoints.
type UsersHandler struct {
	credentials *service.CredentialService
	profiles    *service.ProfileService
	metrics     *observability.Metrics
}

// NewUsersHandler constructs handler.
func NewUsersHandler(credentials *service.CredentialService, profiles *service.ProfileService, metrics *observability.Metrics) *UsersHandler {
	return &UsersHandler{credentials: credentials, profiles: profiles, metrics: metrics}
}

// Register handles POST /api/auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FullName.FirstName,
		LastName:  req.FullName.LastName,
		Role:      domain.Role(req.Role),
	}
	for _, a := range req.Addresses {
		input.Addresses = append(input.Addresses, service.AddressInput{
			Street:    a.Street,
			City:      a.City,
			State:     a.State,
			Zip:       a.Zip,
			Country:   a.Country,
			IsDefault: a.IsDefault,
		})
	}

	user, token, expiresAt, err := h.credentials.Register(c.Context(), input)
	if err != nil {
		return err
	}
	h.metrics.RecordTokenIssued()

	setTokenCookie(c, token, expiresAt)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		},
	})
}

// Login handles POST /api/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		return apperrors.NewValidationError("username or email required", nil)
	}

	user, token, expiresAt, err := h.credentials.Login(c.Context(), identifier, req.Password)
	if err != nil {
		return err
	}
	h.metrics.RecordTokenIssued()

	setTokenCookie(c, token, expiresAt)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		},
	})
}

// Logout handles GET /api/auth/logout. The server keeps no session state;
// logging out is clearing the client-held cookie.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	if err := h.credentials.Logout(c.Context()); err != nil {
		return err
	}
	clearTokenCookie(c)
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

// Me handles GET /api/auth/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing credentials")
	}

	user, err := h.profiles.Profile(c.Context(), authCtx.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

func setTokenCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   true,
	})
}

func clearTokenCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
	})
}
