package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace/internal/domain"
	"github.com/spec-kit/marketplace/internal/repository"
	apperrors "github.com/spec-kit/marketplace/pkg/util"
)

// ProfileService serves session-scoped reads and address book mutations for
// the subject carried in the verified claims.
type ProfileService struct {
	users     repository.UserRepository
	addresses repository.AddressRepository
}

// NewProfileService builds the service.
func NewProfileService(users repository.UserRepository, addresses repository.AddressRepository) *ProfileService {
	return &ProfileService{users: users, addresses: addresses}
}

// Profile returns the current user's record.
func (s *ProfileService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// Addresses lists the user's address book, empty list when none saved.
func (s *ProfileService) Addresses(ctx context.Context, userID string) ([]domain.Address, error) {
	addresses, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return addresses, nil
}

// AddAddress appends an entry and returns the updated book.
func (s *ProfileService) AddAddress(ctx context.Context, userID string, input AddressInput) ([]domain.Address, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	address := &domain.Address{
		UserID:    userID,
		Street:    input.Street,
		City:      input.City,
		State:     input.State,
		Zip:       input.Zip,
		Country:   input.Country,
		IsDefault: input.IsDefault,
	}
	if err := s.addresses.Add(ctx, address); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return s.Addresses(ctx, userID)
}

// DeleteAddress removes an entry scoped to the owner and returns the rest.
func (s *ProfileService) DeleteAddress(ctx context.Context, userID, addressID string) ([]domain.Address, error) {
	if err := s.addresses.Delete(ctx, userID, addressID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("address", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return s.Addresses(ctx, userID)
}
