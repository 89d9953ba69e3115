package service

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/marketplace/internal/config"
	"github.com/spec-kit/marketplace/internal/domain"
	"github.com/spec-kit/marketplace/internal/repository"
	apperrors "github.com/spec-kit/marketplace/pkg/util"
)

type fakeUserRepo struct {
	users      map[string]*domain.User
	books      map[string][]domain.Address
	nextID     int
	addressErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[string]*domain.User),
		books: make(map[string][]domain.Address),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User, addresses []domain.Address) error {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	// a failing address insert aborts the whole registration
	if r.addressErr != nil && len(addresses) > 0 {
		return r.addressErr
	}

	r.nextID++
	user.ID = "user-" + strconv.Itoa(r.nextID)
	clone := *user
	r.users[user.ID] = &clone

	for i := range addresses {
		r.nextID++
		addresses[i].ID = "address-" + strconv.Itoa(r.nextID)
		addresses[i].UserID = user.ID
		r.books[user.ID] = append(r.books[user.ID], addresses[i])
	}
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == identifier || user.Email == identifier {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username || user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "svc-secret",
			TokenTTLHours: 1,
			BcryptCost:    bcrypt.MinCost,
		},
	}
}

func newCredentialService(users *fakeUserRepo) *CredentialService {
	return NewCredentialService(testConfig(), CredentialDependencies{UserRepo: users})
}

func registerInput() RegisterInput {
	return RegisterInput{
		Username:  "alice",
		Email:     "alice@x.com",
		Password:  "secret1",
		FirstName: "Alice",
		LastName:  "Smith",
		Role:      domain.RoleUser,
	}
}

func domainCode(t *testing.T, err error) (string, int) {
	t.Helper()
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	return de.Code, de.HTTPStatus
}

func TestCredentialService_Register(t *testing.T) {
	users := newFakeUserRepo()
	svc := newCredentialService(users)

	user, token, expiresAt, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	// the stored digest never matches the plaintext
	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	// the issued token round-trips through the verifier with the same identity
	claims, err := svc.TokenManager().Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.SubjectID)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestCredentialService_Register_Duplicate(t *testing.T) {
	users := newFakeUserRepo()
	svc := newCredentialService(users)

	_, _, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), registerInput())
	require.Error(t, err)
	code, status := domainCode(t, err)
	assert.Equal(t, "ALREADY_EXISTS", code)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Len(t, users.users, 1)
}

func TestCredentialService_Register_DuplicateEmailDifferentUsername(t *testing.T) {
	svc := newCredentialService(newFakeUserRepo())

	_, _, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	input := registerInput()
	input.Username = "alice2"
	_, _, _, err = svc.Register(context.Background(), input)
	require.Error(t, err)
	code, _ := domainCode(t, err)
	assert.Equal(t, "ALREADY_EXISTS", code)
}

func TestCredentialService_Register_EmptyPassword(t *testing.T) {
	svc := newCredentialService(newFakeUserRepo())

	input := registerInput()
	input.Password = ""
	_, _, _, err := svc.Register(context.Background(), input)
	require.Error(t, err)
	code, _ := domainCode(t, err)
	assert.Equal(t, "VALIDATION_FAILED", code)
}

func TestCredentialService_Register_InvalidRole(t *testing.T) {
	svc := newCredentialService(newFakeUserRepo())

	input := registerInput()
	input.Role = domain.Role("admin")
	_, _, _, err := svc.Register(context.Background(), input)
	require.Error(t, err)
	code, _ := domainCode(t, err)
	assert.Equal(t, "VALIDATION_FAILED", code)
}

func TestCredentialService_Register_WithAddresses(t *testing.T) {
	users := newFakeUserRepo()
	svc := newCredentialService(users)

	input := registerInput()
	input.Addresses = []AddressInput{
		{Street: "1 Main St", City: "Pune", State: "MH", Zip: "411001", Country: "IN", IsDefault: true},
	}
	user, _, _, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	book := users.books[user.ID]
	require.Len(t, book, 1)
	assert.True(t, book[0].IsDefault)
	assert.Equal(t, user.ID, book[0].UserID)
}

func TestCredentialService_Register_AddressFailureLeavesNoUser(t *testing.T) {
	users := newFakeUserRepo()
	users.addressErr = errors.New("insert failed")
	svc := newCredentialService(users)

	input := registerInput()
	input.Addresses = []AddressInput{
		{Street: "1 Main St", City: "Pune", State: "MH", Zip: "411001", Country: "IN"},
	}
	_, _, _, err := svc.Register(context.Background(), input)
	require.Error(t, err)
	code, _ := domainCode(t, err)
	assert.Equal(t, "INTERNAL_ERROR", code)
	assert.Empty(t, users.users)

	// a retry with the same identity succeeds; the failed attempt left nothing
	users.addressErr = nil
	user, _, _, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, users.books[user.ID], 1)
}

func TestCredentialService_Login(t *testing.T) {
	svc := newCredentialService(newFakeUserRepo())

	input := registerInput()
	input.Role = domain.RoleSeller
	registered, _, _, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	for _, identifier := range []string{"alice", "alice@x.com"} {
		user, token, _, err := svc.Login(context.Background(), identifier, "secret1")
		require.NoError(t, err, "identifier %q", identifier)
		assert.Equal(t, registered.ID, user.ID)

		claims, err := svc.TokenManager().Parse(token)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleSeller, claims.Role)
	}
}

func TestCredentialService_Login_WrongPassword(t *testing.T) {
	svc := newCredentialService(newFakeUserRepo())

	_, _, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "alice", "wrong-password")
	require.Error(t, err)
	code, status := domainCode(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", code)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCredentialService_Login_UnknownIdentifier(t *testing.T) {
	svc := newCredentialService(newFakeUserRepo())

	_, _, _, err := svc.Login(context.Background(), "nobody", "secret1")
	require.Error(t, err)
	code, status := domainCode(t, err)
	assert.Equal(t, "NOT_FOUND", code)
	assert.Equal(t, http.StatusNotFound, status)
}
