package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace/internal/auth"
	"github.com/spec-kit/marketplace/internal/config"
	"github.com/spec-kit/marketplace/internal/domain"
	"github.com/spec-kit/marketplace/internal/events"
	"github.com/spec-kit/marketplace/internal/repository"
	apperrors "github.com/spec-kit/marketplace/pkg/util"
)

// AddressInput carries a single address book entry.
type AddressInput struct {
	Street    string
	City      string
	State     string
	Zip       string
	Country   string
	IsDefault bool
}

// RegisterInput carries a registration candidate.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
	Addresses []AddressInput
}

// CredentialService coordinates registration and login flows. It owns no
// session state; possession of a valid signed token is the whole session.
type CredentialService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// CredentialDependencies encapsulates collaborator requirements.
type CredentialDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewCredentialService builds the service.
func NewCredentialService(cfg config.Config, deps CredentialDependencies) *CredentialService {
	return &CredentialService{
		users:      deps.UserRepo,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new identity and issues its first bearer token.
// Only the store's explicit "no record" answer opens the creation path; any
// returned record, whatever its contents, means the identity is taken. The
// lookup-then-insert pair is not atomic, so the unique indexes on username
// and email are the authoritative guard and surface as the same error.
func (s *CredentialService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	if !input.Role.Valid() {
		return nil, "", time.Time{}, apperrors.NewValidationError("role must be user or seller", nil)
	}

	_, err := s.users.GetByUsernameOrEmail(ctx, input.Username, input.Email)
	if err == nil {
		return nil, "", time.Time{}, apperrors.NewAlreadyExists("user already exists")
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return nil, "", time.Time{}, apperrors.NewValidationError("password required", nil)
		}
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Role:         input.Role,
	}
	book := make([]domain.Address, 0, len(input.Addresses))
	for _, in := range input.Addresses {
		book = append(book, domain.Address{
			Street:    in.Street,
			City:      in.City,
			State:     in.State,
			Zip:       in.Zip,
			Country:   in.Country,
			IsDefault: in.IsDefault,
		})
	}

	// user and address book land in one transaction; a failed address insert
	// rolls back the whole registration
	if err := s.users.Create(ctx, user, book); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", time.Time{}, apperrors.NewAlreadyExists("user already exists")
		}
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})

	return user, token, expiresAt, nil
}

// Login authenticates by username or email. The password comparison runs to
// completion before any branch is taken on its outcome.
func (s *CredentialService) Login(ctx context.Context, identifier, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewNotFound("user", nil)
		}
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, expiresAt, nil
}

// Logout is a server-side no-op. The handler clears the client cookie; no
// revocation list is kept, so an already-issued token stays valid until it
// expires. Acknowledged limitation of the stateless model.
func (s *CredentialService) Logout(_ context.Context) error {
	return nil
}

// TokenManager exposes the underlying token manager for gate wiring.
func (s *CredentialService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *CredentialService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
