package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/marketplace/pkg/util"
)

func validRegisterRequest() UserRegisterRequest {
	return UserRegisterRequest{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "secret1",
		FullName: FullName{FirstName: "Alice", LastName: "Smith"},
		Role:     "user",
	}
}

func TestValidate_RegisterRequest(t *testing.T) {
	assert.NoError(t, Validate(validRegisterRequest()))
}

func TestValidate_RegisterRequest_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*UserRegisterRequest)
		field  string
	}{
		{"short username", func(r *UserRegisterRequest) { r.Username = "ab" }, "Username"},
		{"bad email", func(r *UserRegisterRequest) { r.Email = "not-an-email" }, "Email"},
		{"short password", func(r *UserRegisterRequest) { r.Password = "12345" }, "Password"},
		{"missing first name", func(r *UserRegisterRequest) { r.FullName.FirstName = "" }, "FirstName"},
		{"unknown role", func(r *UserRegisterRequest) { r.Role = "admin" }, "Role"},
		{"incomplete address", func(r *UserRegisterRequest) {
			r.Addresses = []AddressPayload{{Street: "1 Main St"}}
		}, "City"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRegisterRequest()
			tc.mutate(&req)

			err := Validate(req)
			require.Error(t, err)

			var de *apperrors.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "VALIDATION_FAILED", de.Code)
			assert.Contains(t, de.Details, tc.field)
		})
	}
}

func TestValidate_UpdateProductRequest_Price(t *testing.T) {
	amount := 4999.0

	// no price at all is a valid patch
	assert.NoError(t, Validate(UpdateProductRequest{}))

	// a full price is accepted
	assert.NoError(t, Validate(UpdateProductRequest{
		Price: &PricePayload{Amount: &amount, Currency: "USD"},
	}))

	// a currency-only price is rejected instead of zeroing the amount
	err := Validate(UpdateProductRequest{Price: &PricePayload{Currency: "USD"}})
	require.Error(t, err)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Details, "Amount")
}

func TestValidate_LoginRequest_OptionalIdentifiers(t *testing.T) {
	// either identifier alone passes tag validation
	assert.NoError(t, Validate(UserLoginRequest{Username: "alice", Password: "secret1"}))
	assert.NoError(t, Validate(UserLoginRequest{Email: "alice@x.com", Password: "secret1"}))
	assert.Error(t, Validate(UserLoginRequest{Username: "alice"}))
}
