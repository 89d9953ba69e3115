package dto

import (
	"time"

	"github.com/spec-kit/marketplace/internal/domain"
)

// FullName splits a user's display name.
type FullName struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// AddressPayload is one address book entry in a request.
type AddressPayload struct {
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Zip       string `json:"zip" validate:"required"`
	Country   string `json:"country" validate:"required"`
	IsDefault bool   `json:"isDefault"`
}

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Username  string           `json:"username" validate:"required,min=3"`
	Email     string           `json:"email" validate:"required,email"`
	Password  string           `json:"password" validate:"required,min=6"`
	FullName  FullName         `json:"fullName" validate:"required"`
	Role      string           `json:"role" validate:"required,oneof=user seller"`
	Addresses []AddressPayload `json:"addresses" validate:"omitempty,dive"`
}

// UserLoginRequest payload for login; either username or email identifies
// the account, checked in the handler since the tags cannot express it.
type UserLoginRequest struct {
	Username string `json:"username" validate:"omitempty,min=3"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResponse standard response for auth endpoints. The token is mirrored
// here in addition to the cookie.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public projection of a user; the password hash never
// leaves the service.
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      domain.Role `json:"role"`
}

// NewUserResponse projects a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}
}

// AddressResponse is one stored address book entry.
type AddressResponse struct {
	ID        string `json:"id"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

// NewAddressResponses projects a list of addresses.
func NewAddressResponses(addresses []domain.Address) []AddressResponse {
	items := make([]AddressResponse, 0, len(addresses))
	for _, a := range addresses {
		items = append(items, AddressResponse{
			ID:        a.ID,
			Street:    a.Street,
			City:      a.City,
			State:     a.State,
			Zip:       a.Zip,
			Country:   a.Country,
			IsDefault: a.IsDefault,
		})
	}
	return items
}
