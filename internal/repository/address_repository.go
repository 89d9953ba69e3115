package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace/internal/domain"
)

// AddressRepository defines persistence access for a user's address book.
type AddressRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
	Add(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, userID, addressID string) error
}

type addressRepository struct {
	pool *pgxpool.Pool
}

// NewAddressRepository returns a Postgres-backed implementation.
func NewAddressRepository(pool *pgxpool.Pool) AddressRepository {
	return &addressRepository{pool: pool}
}

func (r *addressRepository) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	const query = `
        SELECT id, user_id, street, city, state, zip, country, is_default, created_at
        FROM addresses WHERE user_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := make([]domain.Address, 0)
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Street,
			&a.City,
			&a.State,
			&a.Zip,
			&a.Country,
			&a.IsDefault,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

// Add inserts an address. Marking it default demotes the previous default
// within the same transaction.
func (r *addressRepository) Add(ctx context.Context, address *domain.Address) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if address.IsDefault {
		const demote = `UPDATE addresses SET is_default=FALSE WHERE user_id=$1 AND is_default`
		if _, err := tx.Exec(ctx, demote, address.UserID); err != nil {
			return err
		}
	}

	const insert = `
        INSERT INTO addresses (user_id, street, city, state, zip, country, is_default)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`

	if err := tx.QueryRow(ctx, insert,
		address.UserID,
		address.Street,
		address.City,
		address.State,
		address.Zip,
		address.Country,
		address.IsDefault,
	).Scan(&address.ID, &address.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *addressRepository) Delete(ctx context.Context, userID, addressID string) error {
	const query = `DELETE FROM addresses WHERE id=$1 AND user_id=$2`

	cmd, err := r.pool.Exec(ctx, query, addressID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
